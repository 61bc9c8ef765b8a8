package entity

import (
	"encoding/json"
	"fmt"
)

// Tag тег объекта или изображения
type Tag struct {
	Meta  TagMeta
	Value any
}

// Label найденный объект: класс из схемы, геометрия и теги
type Label struct {
	Class    ObjClass
	Geometry Geometry
	Tags     []Tag
}

// Annotation результат инференса для одного изображения.
// Разбирается только вместе со схемой, активной при инференсе.
type Annotation struct {
	Width  int
	Height int
	Labels []Label
	Tags   []Tag
}

type tagJSON struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type objectJSON struct {
	ClassTitle   string       `json:"classTitle"`
	GeometryType GeometryType `json:"geometryType"`
	Tags         []tagJSON    `json:"tags"`
	Points       *pointsJSON  `json:"points"`
	Bitmap       *bitmapJSON  `json:"bitmap"`
}

type annotationJSON struct {
	Size struct {
		Height int `json:"height"`
		Width  int `json:"width"`
	} `json:"size"`
	Tags    []tagJSON    `json:"tags"`
	Objects []objectJSON `json:"objects"`
}

// DecodeAnnotation разбирает JSON аннотации, сверяя классы и теги со схемой.
// Ссылка на неизвестный класс или тег даёт ErrSchemaMismatch.
func DecodeAnnotation(data []byte, schema *OutputSchema) (*Annotation, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: output schema is not loaded", ErrSchemaMismatch)
	}

	var raw annotationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse annotation: %w", err)
	}

	ann := &Annotation{
		Width:  raw.Size.Width,
		Height: raw.Size.Height,
		Labels: make([]Label, 0, len(raw.Objects)),
	}

	tags, err := resolveTags(raw.Tags, schema)
	if err != nil {
		return nil, fmt.Errorf("image tags: %w", err)
	}
	ann.Tags = tags

	for i, obj := range raw.Objects {
		class, ok := schema.Class(obj.ClassTitle)
		if !ok {
			return nil, fmt.Errorf("%w: object #%d references unknown class %q", ErrSchemaMismatch, i, obj.ClassTitle)
		}
		kind := obj.GeometryType
		if kind == "" {
			kind = class.Shape
		}
		if !class.Accepts(kind) {
			return nil, fmt.Errorf("%w: object #%d of class %q has geometry %q, class shape is %q",
				ErrSchemaMismatch, i, class.Title, kind, class.Shape)
		}
		geom, err := decodeGeometry(kind, obj.Points, obj.Bitmap)
		if err != nil {
			return nil, fmt.Errorf("object #%d: %w", i, err)
		}
		objTags, err := resolveTags(obj.Tags, schema)
		if err != nil {
			return nil, fmt.Errorf("object #%d: %w", i, err)
		}
		ann.Labels = append(ann.Labels, Label{Class: class, Geometry: geom, Tags: objTags})
	}

	return ann, nil
}

func resolveTags(raw []tagJSON, schema *OutputSchema) ([]Tag, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	tags := make([]Tag, 0, len(raw))
	for _, t := range raw {
		meta, ok := schema.Tag(t.Name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown tag %q", ErrSchemaMismatch, t.Name)
		}
		if err := meta.CheckValue(t.Value); err != nil {
			return nil, err
		}
		tags = append(tags, Tag{Meta: meta, Value: t.Value})
	}
	return tags, nil
}

// ClassNames имена классов найденных объектов в порядке появления
func (a *Annotation) ClassNames() []string {
	names := make([]string, 0, len(a.Labels))
	for _, l := range a.Labels {
		names = append(names, l.Class.Title)
	}
	return names
}
