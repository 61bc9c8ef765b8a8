package entity

import (
	"encoding/json"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
)

// GeometryType тип геометрии объекта
type GeometryType string

const (
	GeometryRectangle GeometryType = "rectangle"
	GeometryPolygon   GeometryType = "polygon"
	GeometryLine      GeometryType = "line"
	GeometryPoint     GeometryType = "point"
	GeometryBitmap    GeometryType = "bitmap"
	GeometryAny       GeometryType = "any"
)

// TagValueType тип значения тега
type TagValueType string

const (
	TagNone        TagValueType = "none"
	TagAnyNumber   TagValueType = "any_number"
	TagAnyString   TagValueType = "any_string"
	TagOneOfString TagValueType = "oneof_string"
)

// ObjClass класс объектов, который выдаёт модель
type ObjClass struct {
	Title string       `json:"title"`
	Shape GeometryType `json:"shape"`
	Color string       `json:"color,omitempty"`
}

// RGBA возвращает цвет класса; если цвет не задан или битый, берётся стабильный цвет по имени.
func (c ObjClass) RGBA() color.RGBA {
	if rgba, ok := parseHexColor(c.Color); ok {
		return rgba
	}
	return colorForName(c.Title)
}

// Accepts сообщает, может ли объект этого класса иметь геометрию g.
func (c ObjClass) Accepts(g GeometryType) bool {
	return c.Shape == GeometryAny || c.Shape == g
}

// TagMeta описание тега
type TagMeta struct {
	Name           string       `json:"name"`
	ValueType      TagValueType `json:"value_type"`
	PossibleValues []string     `json:"values,omitempty"`
	Color          string       `json:"color,omitempty"`
}

// CheckValue проверяет значение тега на соответствие типу.
func (m TagMeta) CheckValue(v any) error {
	switch m.ValueType {
	case TagNone, "":
		if v != nil {
			return fmt.Errorf("%w: tag %q takes no value, got %v", ErrSchemaMismatch, m.Name, v)
		}
	case TagAnyNumber:
		if _, ok := v.(float64); !ok {
			return fmt.Errorf("%w: tag %q expects a number, got %v", ErrSchemaMismatch, m.Name, v)
		}
	case TagAnyString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%w: tag %q expects a string, got %v", ErrSchemaMismatch, m.Name, v)
		}
	case TagOneOfString:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: tag %q expects a string, got %v", ErrSchemaMismatch, m.Name, v)
		}
		for _, pv := range m.PossibleValues {
			if pv == s {
				return nil
			}
		}
		return fmt.Errorf("%w: tag %q does not allow value %q", ErrSchemaMismatch, m.Name, s)
	default:
		return fmt.Errorf("%w: tag %q has unknown value type %q", ErrSchemaMismatch, m.Name, m.ValueType)
	}
	return nil
}

// OutputSchema классы и теги, которые может выдавать сессия.
// После создания только читается.
type OutputSchema struct {
	classes []ObjClass
	tags    []TagMeta
	byClass map[string]int
	byTag   map[string]int
}

type schemaJSON struct {
	Classes []ObjClass `json:"classes"`
	Tags    []TagMeta  `json:"tags"`
}

// NewOutputSchema собирает схему, имена классов и тегов должны быть уникальны.
func NewOutputSchema(classes []ObjClass, tags []TagMeta) (*OutputSchema, error) {
	s := &OutputSchema{
		classes: append([]ObjClass(nil), classes...),
		tags:    append([]TagMeta(nil), tags...),
		byClass: make(map[string]int, len(classes)),
		byTag:   make(map[string]int, len(tags)),
	}
	for i, c := range s.classes {
		if c.Title == "" {
			return nil, fmt.Errorf("class #%d has empty title", i)
		}
		if _, dup := s.byClass[c.Title]; dup {
			return nil, fmt.Errorf("duplicate class %q", c.Title)
		}
		s.byClass[c.Title] = i
	}
	for i, t := range s.tags {
		if t.Name == "" {
			return nil, fmt.Errorf("tag #%d has empty name", i)
		}
		if _, dup := s.byTag[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tag %q", t.Name)
		}
		s.byTag[t.Name] = i
	}
	return s, nil
}

// ParseOutputSchema разбирает ответ get_output_classes_and_tags.
func ParseOutputSchema(data []byte) (*OutputSchema, error) {
	var raw schemaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse output schema: %w", err)
	}
	return NewOutputSchema(raw.Classes, raw.Tags)
}

// Class ищет класс по имени
func (s *OutputSchema) Class(title string) (ObjClass, bool) {
	i, ok := s.byClass[title]
	if !ok {
		return ObjClass{}, false
	}
	return s.classes[i], true
}

// Tag ищет тег по имени
func (s *OutputSchema) Tag(name string) (TagMeta, bool) {
	i, ok := s.byTag[name]
	if !ok {
		return TagMeta{}, false
	}
	return s.tags[i], true
}

// Classes возвращает копию списка классов
func (s *OutputSchema) Classes() []ObjClass {
	return append([]ObjClass(nil), s.classes...)
}

// Tags возвращает копию списка тегов
func (s *OutputSchema) Tags() []TagMeta {
	return append([]TagMeta(nil), s.tags...)
}

// MarshalJSON сериализует схему обратно в формат платформы.
func (s *OutputSchema) MarshalJSON() ([]byte, error) {
	return json.Marshal(schemaJSON{Classes: s.classes, Tags: s.tags})
}

func (s *OutputSchema) String() string {
	var b strings.Builder
	b.WriteString("Classes:\n")
	for _, c := range s.classes {
		fmt.Fprintf(&b, "  %s (%s)\n", c.Title, c.Shape)
	}
	b.WriteString("Tags:\n")
	names := make([]string, 0, len(s.tags))
	for _, t := range s.tags {
		names = append(names, fmt.Sprintf("  %s (%s)", t.Name, t.ValueType))
	}
	sort.Strings(names)
	b.WriteString(strings.Join(names, "\n"))
	return b.String()
}

func parseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

// colorForName детерминированный цвет по имени класса (FNV-1a).
func colorForName(name string) color.RGBA {
	var h uint32 = 2166136261
	for i := 0; i < len(name); i++ {
		h ^= uint32(name[i])
		h *= 16777619
	}
	return color.RGBA{R: uint8(h>>16) | 0x40, G: uint8(h>>8) | 0x40, B: uint8(h) | 0x40, A: 255}
}
