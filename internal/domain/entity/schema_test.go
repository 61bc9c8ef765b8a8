package entity

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOutputSchema_Idempotent(t *testing.T) {
	first, err := ParseOutputSchema([]byte(schemaJSONFixture))
	require.NoError(t, err)
	second, err := ParseOutputSchema([]byte(schemaJSONFixture))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestParseOutputSchema_RoundTrip(t *testing.T) {
	s := testSchema(t)
	data, err := json.Marshal(s)
	require.NoError(t, err)

	again, err := ParseOutputSchema(data)
	require.NoError(t, err)
	require.Equal(t, s.Classes(), again.Classes())
	require.Equal(t, s.Tags(), again.Tags())
}

func TestNewOutputSchema_Duplicates(t *testing.T) {
	_, err := NewOutputSchema([]ObjClass{{Title: "a"}, {Title: "a"}}, nil)
	require.Error(t, err)

	_, err = NewOutputSchema(nil, []TagMeta{{Name: "t"}, {Name: "t"}})
	require.Error(t, err)
}

func TestObjClassColor(t *testing.T) {
	c := ObjClass{Title: "person", Color: "#FF8000"}
	require.Equal(t, color.RGBA{R: 255, G: 128, B: 0, A: 255}, c.RGBA())

	noColor := ObjClass{Title: "person"}
	require.Equal(t, noColor.RGBA(), ObjClass{Title: "person", Color: "bogus"}.RGBA())
	require.Equal(t, uint8(255), noColor.RGBA().A)
}

func TestSchemaLookup(t *testing.T) {
	s := testSchema(t)

	c, ok := s.Class("road")
	require.True(t, ok)
	require.Equal(t, GeometryPolygon, c.Shape)

	_, ok = s.Class("car")
	require.False(t, ok)

	tag, ok := s.Tag("weather")
	require.True(t, ok)
	require.Equal(t, []string{"sunny", "rain"}, tag.PossibleValues)
	require.Contains(t, s.String(), "road (polygon)")
}
