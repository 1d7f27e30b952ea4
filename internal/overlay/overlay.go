// Package overlay renders annotation boxes and labels over a page image.
package overlay

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/docsight/docsight/internal/extract"
)

const (
	boxThickness = 3
	labelHeight  = 15
	labelPadding = 3
)

// labelFace is the face used for annotation labels. When unavailable the
// renderer degrades to drawing boxes without label text.
var labelFace font.Face = basicfont.Face7x13

// categoryColors maps annotation colors to drawable RGBA values.
var categoryColors = map[extract.Color]color.RGBA{
	extract.ColorPurple: {R: 128, G: 0, B: 128, A: 255},
	extract.ColorBlue:   {R: 0, G: 0, B: 255, A: 255},
	extract.ColorGreen:  {R: 0, G: 128, B: 0, A: 255},
}

// Render draws the annotations over img and returns a new image; the
// input is never modified. Annotations without a position are skipped.
func Render(img image.Image, anns []extract.Annotation) *image.NRGBA {
	if img == nil {
		return nil
	}
	dst := imaging.Clone(img)
	for _, ann := range anns {
		if !ann.Drawable() {
			continue
		}
		col, ok := categoryColors[ann.Color]
		if !ok {
			col = categoryColors[extract.ColorPurple]
		}
		rect := ann.Box.ToRect(dst.Bounds())
		DrawRect(dst, rect, col, boxThickness)
		drawLabel(dst, rect, ann.Label, col)
	}
	return dst
}

// drawLabel draws a filled chip with the label text above the box. A
// missing face or an empty label degrades to the box alone.
func drawLabel(dst *image.NRGBA, rect image.Rectangle, label string, col color.RGBA) {
	if label == "" || labelFace == nil {
		return
	}
	width := font.MeasureString(labelFace, label).Ceil() + 2*labelPadding
	top := rect.Min.Y - labelHeight
	if top < dst.Bounds().Min.Y {
		top = rect.Min.Y
	}
	chip := image.Rect(rect.Min.X, top, rect.Min.X+width, top+labelHeight)
	FillRect(dst, chip, col)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: labelFace,
		Dot: fixed.Point26_6{
			X: fixed.I(rect.Min.X + labelPadding),
			Y: fixed.I(top + labelHeight - labelPadding),
		},
	}
	d.DrawString(label)
}
