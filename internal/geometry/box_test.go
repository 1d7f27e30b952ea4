package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxDimensions(t *testing.T) {
	b := NewBox(60, 200, 550, 350)
	assert.InDelta(t, 490.0, b.Width(), 1e-9)
	assert.InDelta(t, 150.0, b.Height(), 1e-9)
	assert.False(t, b.IsDegenerate())
}

func TestDegenerateBoxPassesThrough(t *testing.T) {
	// Untrusted input may carry inverted coordinates; we keep them as-is.
	b := NewBox(100, 100, 40, 60)
	assert.True(t, b.IsDegenerate())
	assert.InDelta(t, -60.0, b.Width(), 1e-9)
	assert.InDelta(t, -40.0, b.Height(), 1e-9)
}

func TestParseBBox(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Box
		wantErr bool
	}{
		{name: "integers", in: "60 200 550 350", want: NewBox(60, 200, 550, 350)},
		{name: "floats", in: "10.5 20.25 30 40", want: NewBox(10.5, 20.25, 30, 40)},
		{name: "extra whitespace", in: "  1 2 3 4  ", want: NewBox(1, 2, 3, 4)},
		{name: "too few tokens", in: "1 2 3", wantErr: true},
		{name: "too many tokens", in: "1 2 3 4 5", wantErr: true},
		{name: "non numeric", in: "a b c d", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBBox(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToRectClamps(t *testing.T) {
	bounds := image.Rect(0, 0, 612, 792)
	r := NewBox(-10, 5.2, 700, 80.7).ToRect(bounds)
	assert.Equal(t, image.Rect(0, 5, 612, 81), r)
}

func TestToRectDegenerate(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	r := NewBox(50, 50, 20, 20).ToRect(bounds)
	assert.True(t, r.Empty())
}

func TestString(t *testing.T) {
	assert.Equal(t, "60 200 550 350", NewBox(60, 200, 550, 350).String())
}
