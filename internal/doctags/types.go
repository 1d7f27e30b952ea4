package doctags

import (
	"github.com/docsight/docsight/internal/geometry"
)

// Category classifies a text block within the document.
type Category string

const (
	// CategoryBody marks plain narrative text.
	CategoryBody Category = "body"
	// CategoryHeader marks titles and section headers promoted to text blocks.
	CategoryHeader Category = "header"
)

// TextBlock is a positioned run of narrative text. A nil Box means the
// source element carried no usable position attribute; the content is
// still used for matching but the block is not placeable.
type TextBlock struct {
	Content  string        `json:"content"`
	Box      *geometry.Box `json:"bbox,omitempty"`
	Category Category      `json:"category"`
}

// Table is a parsed grid entity. Every row has exactly len(Columns) cells;
// rows with mismatched arity are dropped during parsing.
type Table struct {
	Columns []string      `json:"columns"`
	Rows    [][]string    `json:"rows"`
	Box     *geometry.Box `json:"bbox,omitempty"`
}

// Document is the normalized model produced by one parse invocation.
// It is immutable after creation; downstream consumers borrow it.
type Document struct {
	Tables     []Table       `json:"tables"`
	TextBlocks []TextBlock   `json:"text_blocks"`
	PageBox    *geometry.Box `json:"page_box,omitempty"`
}
