package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderPageSize(t *testing.T) {
	img := PlaceholderPage(612, 792, 0)
	require.NotNil(t, img)
	assert.Equal(t, image.Rect(0, 0, 612, 792), img.Bounds())
}

func TestPlaceholderPageDefaults(t *testing.T) {
	img := PlaceholderPage(0, 0, 0)
	require.NotNil(t, img)
	assert.Equal(t, image.Rect(0, 0, DefaultPageWidth, DefaultPageHeight), img.Bounds())
}

func TestPlaceholderPageHasContent(t *testing.T) {
	img := PlaceholderPage(612, 792, 0)
	// border pixel is black, interior is white
	_, _, _, a := img.At(40, 100).RGBA()
	assert.NotZero(t, a)
	r, g, b, _ := img.At(40, 100).RGBA()
	assert.Zero(t, r+g+b)

	r, g, b, _ = img.At(300, 500).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}
