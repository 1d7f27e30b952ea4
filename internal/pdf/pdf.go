// Package pdf inspects the source PDF byte buffer that accompanies a
// DocTags payload. The core never rasterizes pages; it only validates
// the buffer and reports page-level facts to the surrounding layer.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info summarizes a source document buffer.
type Info struct {
	PageCount int `json:"page_count"`
}

// Inspect validates data as a PDF and returns its summary.
func Inspect(data []byte) (*Info, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}
	return &Info{PageCount: ctx.PageCount}, nil
}

// CheckPage verifies that the zero-based page index exists in data.
func CheckPage(data []byte, page int) error {
	if page < 0 {
		return fmt.Errorf("page index %d is negative", page)
	}
	info, err := Inspect(data)
	if err != nil {
		return err
	}
	if page >= info.PageCount {
		return fmt.Errorf("page index %d out of range: document has %d page(s)", page, info.PageCount)
	}
	return nil
}
