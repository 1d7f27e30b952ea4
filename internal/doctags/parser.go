package doctags

import (
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/docsight/docsight/internal/geometry"
)

// Tag names recognized by the parser. The explicit <header>/<row>/<cell>
// table dialect is the primary target; flat <ched>/<fcel> sequences are a
// compatibility fallback (rows inferred by counting cells up to header arity).
const (
	tagTable         = "otsl"
	tagText          = "text"
	tagTitle         = "title"
	tagSectionHeader = "section_header"
)

// rootTags are container elements whose bbox attribute, when present,
// describes the page canvas.
var rootTags = map[string]bool{
	"root":   true,
	"doctag": true,
	"page":   true,
}

// locTokens rewrites the nested-token position encoding
// <tag><loc_x1><loc_y1><loc_x2><loc_y2> into a bbox attribute so the rest
// of the parse deals with a single encoding.
var locTokens = regexp.MustCompile(`<([A-Za-z_][\w.-]*)((?:\s[^<>]*)?)>\s*<loc_([\d.]+)><loc_([\d.]+)><loc_([\d.]+)><loc_([\d.]+)>`)

func rewriteLocTokens(input string) string {
	return locTokens.ReplaceAllString(input, `<$1$2 bbox="$3 $4 $5 $6">`)
}

type xmlCell struct {
	BBox string `xml:"bbox,attr"`
	Text string `xml:",chardata"`
}

type xmlRow struct {
	Cells []xmlCell `xml:"cell"`
}

type xmlTable struct {
	BBox   string    `xml:"bbox,attr"`
	Header *xmlRow   `xml:"header"`
	Rows   []xmlRow  `xml:"row"`
	Cheds  []xmlCell `xml:"ched"`
	Fcels  []xmlCell `xml:"fcel"`
}

type xmlText struct {
	BBox string `xml:"bbox,attr"`
	Text string `xml:",chardata"`
}

// Parse converts DocTags markup into a Document. Tables and text blocks
// are recorded in document order. A tokenizer failure aborts the parse
// with a MalformedDocumentError; a bad or missing position attribute on a
// single element degrades that element to a nil box instead.
func Parse(input string) (*Document, error) {
	dec := xml.NewDecoder(strings.NewReader(rewriteLocTokens(input)))
	doc := &Document{}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedDocumentError{Err: err}
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch {
		case se.Name.Local == tagTable:
			var xt xmlTable
			if err := dec.DecodeElement(&xt, &se); err != nil {
				return nil, &MalformedDocumentError{Err: err}
			}
			doc.Tables = append(doc.Tables, buildTable(xt))
		case se.Name.Local == tagText:
			if err := appendTextBlock(doc, dec, &se, CategoryBody); err != nil {
				return nil, err
			}
		case se.Name.Local == tagTitle || se.Name.Local == tagSectionHeader:
			if err := appendTextBlock(doc, dec, &se, CategoryHeader); err != nil {
				return nil, err
			}
		case rootTags[se.Name.Local]:
			if doc.PageBox == nil {
				doc.PageBox = boxFromAttrs(se.Attr, se.Name.Local)
			}
		}
	}
	return doc, nil
}

func appendTextBlock(doc *Document, dec *xml.Decoder, se *xml.StartElement, cat Category) error {
	var xt xmlText
	if err := dec.DecodeElement(&xt, se); err != nil {
		return &MalformedDocumentError{Err: err}
	}
	content := normalizeText(xt.Text)
	if content == "" {
		return nil
	}
	doc.TextBlocks = append(doc.TextBlocks, TextBlock{
		Content:  content,
		Box:      parseOptionalBox(xt.BBox, se.Name.Local),
		Category: cat,
	})
	return nil
}

func buildTable(xt xmlTable) Table {
	t := Table{Box: parseOptionalBox(xt.BBox, tagTable)}

	if xt.Header != nil {
		for _, c := range xt.Header.Cells {
			t.Columns = append(t.Columns, normalizeText(c.Text))
		}
	} else {
		for _, c := range xt.Cheds {
			t.Columns = append(t.Columns, normalizeText(c.Text))
		}
	}

	if len(xt.Rows) > 0 {
		for _, r := range xt.Rows {
			if len(r.Cells) != len(t.Columns) {
				// Best-effort policy: a row whose arity does not match the
				// header is dropped, not an error.
				slog.Debug("dropping table row with mismatched arity",
					"cells", len(r.Cells), "columns", len(t.Columns))
				continue
			}
			row := make([]string, len(r.Cells))
			for i, c := range r.Cells {
				row[i] = normalizeText(c.Text)
			}
			t.Rows = append(t.Rows, row)
		}
		return t
	}

	// Flat dialect fallback: group <fcel> cells into rows of header arity.
	// A trailing partial group is dropped like any mismatched row.
	if len(t.Columns) > 0 && len(xt.Fcels) > 0 {
		for start := 0; start+len(t.Columns) <= len(xt.Fcels); start += len(t.Columns) {
			row := make([]string, len(t.Columns))
			for i := range t.Columns {
				row[i] = normalizeText(xt.Fcels[start+i].Text)
			}
			t.Rows = append(t.Rows, row)
		}
		if rem := len(xt.Fcels) % len(t.Columns); rem != 0 {
			slog.Debug("dropping trailing partial fcel group", "cells", rem)
		}
	}
	return t
}

// parseOptionalBox returns nil for a missing or unparseable position
// attribute. This is the MissingAttributeWarning path: processing
// continues and the element stays usable for matching.
func parseOptionalBox(attr, tag string) *geometry.Box {
	if strings.TrimSpace(attr) == "" {
		return nil
	}
	b, err := geometry.ParseBBox(attr)
	if err != nil {
		slog.Debug("ignoring invalid position attribute", "tag", tag, "bbox", attr, "error", err)
		return nil
	}
	return &b
}

func boxFromAttrs(attrs []xml.Attr, tag string) *geometry.Box {
	for _, a := range attrs {
		if a.Name.Local == "bbox" {
			return parseOptionalBox(a.Value, tag)
		}
	}
	return nil
}

// normalizeText applies NFC normalization and collapses whitespace runs,
// so multi-line element content matches single-line patterns.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
