// Package pipeline wires the DocTags parser, the metric extraction
// engine, and the export projector into one synchronous
// request/response flow. One document is processed start to finish on
// freshly built structures; there is no shared mutable state between
// invocations.
package pipeline

import (
	"errors"
	"fmt"
	"image"

	"github.com/docsight/docsight/internal/doctags"
	"github.com/docsight/docsight/internal/export"
	"github.com/docsight/docsight/internal/extract"
	"github.com/docsight/docsight/internal/overlay"
	"github.com/docsight/docsight/internal/render"
)

// Config holds configuration for the extraction pipeline.
type Config struct {
	Extract      extract.Config
	CanvasWidth  int
	CanvasHeight int
}

// DefaultConfig returns a pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		Extract:      extract.DefaultConfig(),
		CanvasWidth:  render.DefaultPageWidth,
		CanvasHeight: render.DefaultPageHeight,
	}
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg     Config
	ruleErr error
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithRules replaces the canonical metric set.
func (b *Builder) WithRules(rules []extract.Rule) *Builder {
	if len(rules) > 0 {
		b.cfg.Extract.Rules = rules
	}
	return b
}

// WithRulesFile loads the metric set from a YAML rules file. A load
// failure surfaces at Build time.
func (b *Builder) WithRulesFile(path string) *Builder {
	if path == "" {
		return b
	}
	rules, err := extract.LoadRules(path)
	if err != nil {
		b.ruleErr = err
		return b
	}
	b.cfg.Extract.Rules = rules
	return b
}

// WithLabelColumn sets the table column holding metric labels.
func (b *Builder) WithLabelColumn(col int) *Builder {
	if col >= 0 {
		b.cfg.Extract.LabelColumn = col
	}
	return b
}

// WithValueColumn sets the table column holding metric values.
// extract.AutoValueColumn selects the right-most numeric-looking cell.
func (b *Builder) WithValueColumn(col int) *Builder {
	if col > 0 || col == extract.AutoValueColumn {
		b.cfg.Extract.ValueColumn = col
	}
	return b
}

// WithCanvasSize sets the overlay canvas dimensions in page units.
func (b *Builder) WithCanvasSize(width, height int) *Builder {
	if width > 0 {
		b.cfg.CanvasWidth = width
	}
	if height > 0 {
		b.cfg.CanvasHeight = height
	}
	return b
}

// Config returns a copy of the current config.
func (b *Builder) Config() Config { return b.cfg }

// Validate checks the configuration before building.
func (b *Builder) Validate() error {
	if b.ruleErr != nil {
		return b.ruleErr
	}
	if len(b.cfg.Extract.Rules) == 0 {
		return errors.New("metric rule set is empty")
	}
	if b.cfg.Extract.ValueColumn == b.cfg.Extract.LabelColumn {
		return fmt.Errorf("value column %d must differ from label column", b.cfg.Extract.ValueColumn)
	}
	if b.cfg.CanvasWidth <= 0 || b.cfg.CanvasHeight <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", b.cfg.CanvasWidth, b.cfg.CanvasHeight)
	}
	return nil
}

// Pipeline runs parse, extract, and project for one document at a time.
type Pipeline struct {
	cfg    Config
	engine *extract.Engine
}

// Build initializes the pipeline components.
func (b *Builder) Build() (*Pipeline, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:    b.cfg,
		engine: extract.NewEngine(b.cfg.Extract),
	}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Process parses the DocTags input, extracts metrics, and projects the
// combined annotation list and export payloads.
func (p *Pipeline) Process(input string) (*Result, error) {
	return p.ProcessWithProgress(input, nil)
}

// ProcessWithProgress is Process with a per-stage callback, used by the
// server to stream progress.
func (p *Pipeline) ProcessWithProgress(input string, cb StageCallback) (*Result, error) {
	report := func(s Stage) {
		if cb != nil {
			cb(s)
		}
	}

	report(StageParse)
	doc, err := doctags.Parse(input)
	if err != nil {
		return nil, err
	}

	report(StageExtract)
	ext := p.engine.Extract(doc)

	report(StageProject)
	anns := export.Annotations(doc.Tables, ext.Annotations)
	csvOut, err := export.CSV(ext.Metrics, doc.Tables)
	if err != nil {
		return nil, fmt.Errorf("csv export: %w", err)
	}
	jsonOut, err := export.JSON(ext.Metrics, doc.Tables)
	if err != nil {
		return nil, fmt.Errorf("json export: %w", err)
	}

	return &Result{
		Document:    doc,
		Metrics:     ext.Metrics,
		Annotations: anns,
		CSV:         csvOut,
		JSON:        jsonOut,
	}, nil
}

// Overlay renders the result's annotations over a placeholder page.
// The page is sized from the document's page box when present, else
// from the configured canvas. pageNum is zero-based.
func (p *Pipeline) Overlay(res *Result, pageNum int) *image.NRGBA {
	if res == nil {
		return nil
	}
	width, height := p.cfg.CanvasWidth, p.cfg.CanvasHeight
	if res.Document != nil && res.Document.PageBox != nil && !res.Document.PageBox.IsDegenerate() {
		if w := int(res.Document.PageBox.Width()); w > 0 {
			width = w
		}
		if h := int(res.Document.PageBox.Height()); h > 0 {
			height = h
		}
	}
	page := render.PlaceholderPage(width, height, pageNum)
	return overlay.Render(page, res.Annotations)
}
