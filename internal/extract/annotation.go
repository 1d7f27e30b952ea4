package extract

import (
	"github.com/docsight/docsight/internal/geometry"
)

// Source identifies what kind of element an annotation was derived from.
type Source string

const (
	// SourceTable marks a detected table outline.
	SourceTable Source = "table"
	// SourceTableMetric marks a metric resolved during the table pass.
	SourceTableMetric Source = "table_metric"
	// SourceTextMetric marks a metric resolved during the text pass.
	SourceTextMetric Source = "text_metric"
)

// Color is the overlay category color for an annotation.
type Color string

const (
	ColorPurple Color = "purple"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
)

// Annotation links an extraction result to the bounding box and source it
// came from. A nil Box means the annotation is not placeable; renderers
// must skip drawing it rather than fail.
type Annotation struct {
	Box    *geometry.Box `json:"bbox,omitempty"`
	Label  string        `json:"label"`
	Source Source        `json:"source"`
	Color  Color         `json:"color"`
}

// Drawable reports whether the annotation carries a position.
func (a Annotation) Drawable() bool { return a.Box != nil }
