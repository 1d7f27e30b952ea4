// Package render produces the simulated page image used as the overlay
// canvas. Real rasterization happens outside the core; this placeholder
// mirrors the sample document's layout so annotation coordinates line up.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/docsight/docsight/internal/overlay"
)

// DefaultPageWidth and DefaultPageHeight are US-letter at 72 dpi.
const (
	DefaultPageWidth  = 612
	DefaultPageHeight = 792
)

var (
	black     = color.NRGBA{A: 255}
	titleGray = color.NRGBA{R: 224, G: 224, B: 224, A: 255}
	bodyGray  = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
)

// PlaceholderPage renders a document-like page canvas of the given size.
// pageNum is zero-based; it only affects the footer text.
func PlaceholderPage(width, height, pageNum int) *image.NRGBA {
	if width <= 0 {
		width = DefaultPageWidth
	}
	if height <= 0 {
		height = DefaultPageHeight
	}
	img := imaging.New(width, height, color.White)

	overlay.DrawRect(img, image.Rect(40, 40, width-40, height-40), black, 1)

	overlay.FillRect(img, image.Rect(60, 60, 400, 90), titleGray)
	overlay.DrawText(img, image.Pt(70, 80), "FinTech Corp Financial Report 2023", black)

	overlay.FillRect(img, image.Rect(60, 110, 550, 180), bodyGray)
	overlay.DrawText(img, image.Pt(70, 130), "(Text Body: FinTech Corp delivered robust performance...)", black)

	overlay.DrawRect(img, image.Rect(60, 200, 550, 350), black, 1)
	overlay.FillRect(img, image.Rect(60, 229, 550, 231), black)
	overlay.FillRect(img, image.Rect(249, 200, 251, 350), black)
	overlay.DrawText(img, image.Pt(70, 220), "Metric", black)
	overlay.DrawText(img, image.Pt(260, 220), "2023 Values", black)

	rows := []string{
		"Total Revenue: $1234.56",
		"Op Expenses: $850.00",
		"Net Income: $384.56",
		"EPS: 0.52",
	}
	y := 250
	for _, row := range rows {
		overlay.DrawText(img, image.Pt(70, y), row, black)
		y += 25
	}

	overlay.DrawText(img, image.Pt(60, height-32), fmt.Sprintf("Page %d", pageNum+1), black)
	return img
}
