package entity

import (
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

const schemaJSONFixture = `{
	"classes": [
		{"title": "person", "shape": "rectangle", "color": "#FF0000"},
		{"title": "road", "shape": "polygon", "color": "#00FF00"},
		{"title": "lane", "shape": "line"},
		{"title": "keypoint", "shape": "point"},
		{"title": "sky", "shape": "bitmap"},
		{"title": "anything", "shape": "any"}
	],
	"tags": [
		{"name": "confidence", "value_type": "any_number"},
		{"name": "weather", "value_type": "oneof_string", "values": ["sunny", "rain"]},
		{"name": "reviewed", "value_type": "none"}
	]
}`

func testSchema(t *testing.T) *OutputSchema {
	t.Helper()
	s, err := ParseOutputSchema([]byte(schemaJSONFixture))
	require.NoError(t, err)
	return s
}

func TestDecodeAnnotation_AllGeometries(t *testing.T) {
	schema := testSchema(t)

	mask := [][]bool{
		{true, true, true},
		{true, true, true},
		{true, true, true},
	}
	data, err := EncodeBitmapData(mask)
	require.NoError(t, err)

	raw := fmt.Sprintf(`{
		"size": {"height": 100, "width": 200},
		"tags": [{"name": "weather", "value": "sunny"}],
		"objects": [
			{"classTitle": "person", "geometryType": "rectangle",
			 "tags": [{"name": "confidence", "value": 0.91}],
			 "points": {"exterior": [[50, 10], [20, 40]], "interior": []}},
			{"classTitle": "road", "geometryType": "polygon",
			 "points": {"exterior": [[0, 90], [199, 90], [100, 60]], "interior": [[[90, 80], [110, 80], [100, 70]]]}},
			{"classTitle": "lane", "geometryType": "line",
			 "points": {"exterior": [[0, 99], [199, 70]]}},
			{"classTitle": "keypoint", "geometryType": "point",
			 "tags": [{"name": "reviewed", "value": null}],
			 "points": {"exterior": [[5, 6]]}},
			{"classTitle": "sky", "geometryType": "bitmap",
			 "bitmap": {"data": %q, "origin": [10, 20]}},
			{"classTitle": "anything", "geometryType": "point",
			 "points": {"exterior": [[1, 1]]}}
		]
	}`, data)

	ann, err := DecodeAnnotation([]byte(raw), schema)
	require.NoError(t, err)
	require.Equal(t, 200, ann.Width)
	require.Equal(t, 100, ann.Height)
	require.Len(t, ann.Tags, 1)
	require.Equal(t, "sunny", ann.Tags[0].Value)
	require.Equal(t, []string{"person", "road", "lane", "keypoint", "sky", "anything"}, ann.ClassNames())

	require.Equal(t, Rectangle{Top: 10, Left: 20, Bottom: 40, Right: 50}, ann.Labels[0].Geometry)
	require.Equal(t, 0.91, ann.Labels[0].Tags[0].Value)

	poly, ok := ann.Labels[1].Geometry.(Polygon)
	require.True(t, ok)
	require.Len(t, poly.Exterior, 3)
	require.Len(t, poly.Interior, 1)

	line, ok := ann.Labels[2].Geometry.(Polyline)
	require.True(t, ok)
	require.Equal(t, []image.Point{image.Pt(0, 99), image.Pt(199, 70)}, line.Points)

	require.Equal(t, Point{Point: image.Pt(5, 6)}, ann.Labels[3].Geometry)

	bm, ok := ann.Labels[4].Geometry.(Bitmap)
	require.True(t, ok)
	require.Equal(t, image.Rect(10, 20, 13, 23), bm.Bounds())
	// центральный пиксель 3x3 маски не является контуром
	require.Len(t, bm.Contour(), 8)
	require.NotContains(t, bm.Contour(), image.Pt(11, 21))
}

func TestDecodeAnnotation_UnknownClass(t *testing.T) {
	raw := `{"size": {"height": 10, "width": 10}, "objects": [
		{"classTitle": "car", "geometryType": "rectangle", "points": {"exterior": [[0,0],[1,1]]}}
	]}`
	_, err := DecodeAnnotation([]byte(raw), testSchema(t))
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestDecodeAnnotation_UnknownObjectTag(t *testing.T) {
	raw := `{"size": {"height": 10, "width": 10}, "objects": [
		{"classTitle": "person", "geometryType": "rectangle",
		 "tags": [{"name": "speed", "value": 3}],
		 "points": {"exterior": [[0,0],[1,1]]}}
	]}`
	_, err := DecodeAnnotation([]byte(raw), testSchema(t))
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestDecodeAnnotation_UnknownImageTag(t *testing.T) {
	raw := `{"size": {"height": 10, "width": 10}, "tags": [{"name": "season", "value": "winter"}], "objects": []}`
	_, err := DecodeAnnotation([]byte(raw), testSchema(t))
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestDecodeAnnotation_WrongTagValue(t *testing.T) {
	raw := `{"size": {"height": 10, "width": 10}, "tags": [{"name": "weather", "value": "snow"}], "objects": []}`
	_, err := DecodeAnnotation([]byte(raw), testSchema(t))
	require.ErrorIs(t, err, ErrSchemaMismatch)

	raw = `{"size": {"height": 10, "width": 10}, "objects": [
		{"classTitle": "person", "geometryType": "rectangle",
		 "tags": [{"name": "confidence", "value": "high"}],
		 "points": {"exterior": [[0,0],[1,1]]}}
	]}`
	_, err = DecodeAnnotation([]byte(raw), testSchema(t))
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestDecodeAnnotation_GeometryNotMatchingClass(t *testing.T) {
	raw := `{"size": {"height": 10, "width": 10}, "objects": [
		{"classTitle": "person", "geometryType": "polygon", "points": {"exterior": [[0,0],[1,1],[2,0]]}}
	]}`
	_, err := DecodeAnnotation([]byte(raw), testSchema(t))
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestDecodeAnnotation_SchemaWithoutReferencedNames(t *testing.T) {
	raw := `{"size": {"height": 10, "width": 10}, "objects": [
		{"classTitle": "person", "geometryType": "rectangle", "points": {"exterior": [[0,0],[1,1]]}}
	]}`

	ann, err := DecodeAnnotation([]byte(raw), testSchema(t))
	require.NoError(t, err)
	for _, l := range ann.Labels {
		_, ok := testSchema(t).Class(l.Class.Title)
		require.True(t, ok)
	}

	reduced, err := NewOutputSchema([]ObjClass{{Title: "road", Shape: GeometryPolygon}}, nil)
	require.NoError(t, err)
	_, err = DecodeAnnotation([]byte(raw), reduced)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestDecodeAnnotation_NilSchema(t *testing.T) {
	_, err := DecodeAnnotation([]byte(`{}`), nil)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestDecodeAnnotation_BadGeometry(t *testing.T) {
	raw := `{"size": {"height": 10, "width": 10}, "objects": [
		{"classTitle": "person", "geometryType": "rectangle", "points": {"exterior": [[0,0]]}}
	]}`
	_, err := DecodeAnnotation([]byte(raw), testSchema(t))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrSchemaMismatch)
}
