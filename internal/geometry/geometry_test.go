package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurfaceRectangle(t *testing.T) {
	d := Dimensions{Width: 3, Length: 6, Depth: 1.5}
	// walls 2*(3*1.5) + 2*(6*1.5) = 27, floor 18
	assert.InDelta(t, 45.0, Surface(ShapeRectangle, d), 1e-9)
	assert.InDelta(t, 45.0, Surface(ShapeRectangleSharp, d), 1e-9,
		"sharp corners share the rectangle area math")
	assert.InDelta(t, 18.0, Perimeter(ShapeRectangle, d), 1e-9)
	assert.InDelta(t, 27.0, Volume(ShapeRectangle, d), 1e-9)
}

func TestSurfaceCircle(t *testing.T) {
	d := Dimensions{Diameter: 4, Depth: 1.2}
	wantSurface := math.Pi*4*1.2 + math.Pi*4 // walls + floor (r=2)
	assert.InDelta(t, wantSurface, Surface(ShapeCircle, d), 1e-9)
	assert.InDelta(t, math.Pi*4, Perimeter(ShapeCircle, d), 1e-9)
	assert.InDelta(t, math.Pi*4*1.2, Volume(ShapeCircle, d), 1e-9)
}

func TestSurfaceMissingDimensions(t *testing.T) {
	assert.Zero(t, Surface(ShapeRectangle, Dimensions{Width: 3, Depth: 1.5}))
	assert.Zero(t, Surface(ShapeCircle, Dimensions{Diameter: 4}))
	assert.Zero(t, Surface(Shape("oval"), Dimensions{Width: 3, Length: 6, Depth: 1.5}))
	assert.Zero(t, Perimeter(ShapeRectangle, Dimensions{Length: 6}))
}

func TestParseDimensions(t *testing.T) {
	cases := []struct {
		shape Shape
		in    string
		want  Dimensions
		ok    bool
	}{
		{ShapeRectangle, "3-6-1.5", Dimensions{Width: 3, Length: 6, Depth: 1.5}, true},
		{ShapeRectangle, "3x6x1.5", Dimensions{Width: 3, Length: 6, Depth: 1.5}, true},
		{ShapeRectangle, "3×6×1,5", Dimensions{Width: 3, Length: 6, Depth: 1.5}, true},
		{ShapeRectangle, " 3 x 6 x 1.5 ", Dimensions{Width: 3, Length: 6, Depth: 1.5}, true},
		{ShapeCircle, "4-1.2", Dimensions{Diameter: 4, Depth: 1.2}, true},
		{ShapeRectangle, "3-6", Dimensions{}, false},
		{ShapeCircle, "4-1.2-9", Dimensions{}, false},
		{ShapeRectangle, "3-abc-1.5", Dimensions{}, false},
		{ShapeRectangle, "3--1.5", Dimensions{}, false},
		{ShapeRectangle, "0-6-1.5", Dimensions{}, false},
		{ShapeRectangle, "", Dimensions{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseDimensions(tc.shape, tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestFormatDimensionsRoundTrip(t *testing.T) {
	d := Dimensions{Width: 3, Length: 6, Depth: 1.5}
	s := FormatDimensions(ShapeRectangle, d)
	assert.Equal(t, "3-6-1.5", s)

	back, ok := ParseDimensions(ShapeRectangle, s)
	assert.True(t, ok)
	assert.Equal(t, d, back)

	c := Dimensions{Diameter: 4, Depth: 1.2}
	assert.Equal(t, "4-1.2", FormatDimensions(ShapeCircle, c))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "45.0 m²", FormatSurface(45))
	assert.Equal(t, "18.0 bm", FormatPerimeter(18))
	assert.Equal(t, "27.5 m³", FormatVolume(27.46))
}
