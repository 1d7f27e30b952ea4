package geometry

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// Box is an axis-aligned bounding box in page coordinates
// (top-left origin, x right, y down).
type Box struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// NewBox constructs a Box without reordering or validating coordinates.
// Degenerate boxes from untrusted input are passed through as-is.
func NewBox(x1, y1, x2, y2 float64) Box {
	return Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns x2-x1. Negative for degenerate boxes.
func (b Box) Width() float64 { return b.X2 - b.X1 }

// Height returns y2-y1. Negative for degenerate boxes.
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

// IsDegenerate reports whether the box has non-positive extent on either axis.
func (b Box) IsDegenerate() bool { return b.X2 < b.X1 || b.Y2 < b.Y1 }

// ToRect converts the box to an image.Rectangle clamped to bounds.
func (b Box) ToRect(bounds image.Rectangle) image.Rectangle {
	x1 := clampInt(int(math.Floor(b.X1)), bounds.Min.X, bounds.Max.X)
	y1 := clampInt(int(math.Floor(b.Y1)), bounds.Min.Y, bounds.Max.Y)
	x2 := clampInt(int(math.Ceil(b.X2)), bounds.Min.X, bounds.Max.X)
	y2 := clampInt(int(math.Ceil(b.Y2)), bounds.Min.Y, bounds.Max.Y)
	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}
	return image.Rect(x1, y1, x2, y2)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseBBox parses a position attribute of the form "x1 y1 x2 y2".
// Tokens may be integers or floats.
func ParseBBox(s string) (Box, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 4 {
		return Box{}, fmt.Errorf("bbox: expected 4 coordinates, got %d", len(fields))
	}
	var vals [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Box{}, fmt.Errorf("bbox: invalid coordinate %q: %w", f, err)
		}
		vals[i] = v
	}
	return NewBox(vals[0], vals[1], vals[2], vals[3]), nil
}

// String renders the box in the attribute encoding.
func (b Box) String() string {
	return fmt.Sprintf("%g %g %g %g", b.X1, b.Y1, b.X2, b.Y2)
}
