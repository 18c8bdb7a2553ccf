package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Shape identifies the pool ground plan. Rounded and sharp-cornered
// rectangles share the same area math; they differ only in which
// surcharges and set addons apply.
type Shape string

const (
	ShapeCircle         Shape = "circle"
	ShapeRectangle      Shape = "rectangle"
	ShapeRectangleSharp Shape = "rectangle_sharp"
)

// Dimensions holds pool measurements in meters. Circle pools use
// Diameter+Depth, rectangular pools Width+Length+Depth. Zero means
// "not provided".
type Dimensions struct {
	Diameter float64
	Width    float64
	Length   float64
	Depth    float64
}

// IsRectangular reports whether the shape is one of the rectangle kinds.
func IsRectangular(shape Shape) bool {
	return shape == ShapeRectangle || shape == ShapeRectangleSharp
}

// Surface returns the wetted surface in m²: walls plus floor.
// Missing required dimensions yield 0 so pricing can fall back to the
// product's unit price instead of failing mid-generation.
func Surface(shape Shape, d Dimensions) float64 {
	switch {
	case shape == ShapeCircle:
		if d.Diameter <= 0 || d.Depth <= 0 {
			return 0
		}
		r := d.Diameter / 2
		return math.Pi*d.Diameter*d.Depth + math.Pi*r*r
	case IsRectangular(shape):
		if d.Width <= 0 || d.Length <= 0 || d.Depth <= 0 {
			return 0
		}
		walls := 2*(d.Width*d.Depth) + 2*(d.Length*d.Depth)
		return walls + d.Width*d.Length
	}
	return 0
}

// Perimeter returns the rim length in running meters (bm).
func Perimeter(shape Shape, d Dimensions) float64 {
	switch {
	case shape == ShapeCircle:
		if d.Diameter <= 0 {
			return 0
		}
		return math.Pi * d.Diameter
	case IsRectangular(shape):
		if d.Width <= 0 || d.Length <= 0 {
			return 0
		}
		return 2 * (d.Width + d.Length)
	}
	return 0
}

// Volume returns the water volume in m³.
func Volume(shape Shape, d Dimensions) float64 {
	switch {
	case shape == ShapeCircle:
		if d.Diameter <= 0 || d.Depth <= 0 {
			return 0
		}
		r := d.Diameter / 2
		return math.Pi * r * r * d.Depth
	case IsRectangular(shape):
		return d.Width * d.Length * d.Depth
	}
	return 0
}

// Display helpers render with one decimal place; quote documents and
// the admin UI rely on this convention, keep it stable.

func FormatSurface(v float64) string   { return fmt.Sprintf("%.1f m²", v) }
func FormatPerimeter(v float64) string { return fmt.Sprintf("%.1f bm", v) }
func FormatVolume(v float64) string    { return fmt.Sprintf("%.1f m³", v) }

// ParseDimensions parses a delimited dimension string ("3-6-1.5",
// "3×6×1.5" or "3x6x1.5" for rectangles, "4-1.2" for circles) into
// Dimensions. Decimal commas are accepted because catalog data is
// Czech. Returns ok=false on malformed input; the caller decides what
// that means.
func ParseDimensions(shape Shape, s string) (Dimensions, bool) {
	parts := splitDimensions(s)
	want := 3
	if shape == ShapeCircle {
		want = 2
	}
	if len(parts) != want {
		return Dimensions{}, false
	}
	nums := make([]float64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.ReplaceAll(p, ",", "."), 64)
		if err != nil || n <= 0 {
			return Dimensions{}, false
		}
		nums[i] = n
	}
	if shape == ShapeCircle {
		return Dimensions{Diameter: nums[0], Depth: nums[1]}, true
	}
	return Dimensions{Width: nums[0], Length: nums[1], Depth: nums[2]}, true
}

// FormatDimensions is the inverse of ParseDimensions for well-formed
// input, always using "-" as the separator.
func FormatDimensions(shape Shape, d Dimensions) string {
	if shape == ShapeCircle {
		return formatNum(d.Diameter) + "-" + formatNum(d.Depth)
	}
	return formatNum(d.Width) + "-" + formatNum(d.Length) + "-" + formatNum(d.Depth)
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func splitDimensions(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "×", "x")
	s = strings.ReplaceAll(s, "X", "x")
	var sep string
	switch {
	case strings.Contains(s, "x"):
		sep = "x"
	case strings.Contains(s, "-"):
		sep = "-"
	default:
		return nil
	}
	raw := strings.Split(s, sep)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil
		}
		out = append(out, p)
	}
	return out
}
