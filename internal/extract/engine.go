package extract

import (
	"fmt"

	"github.com/docsight/docsight/internal/doctags"
)

// AutoValueColumn selects the value column per row as the right-most
// numeric-looking cell instead of a fixed index.
const AutoValueColumn = -1

// Config controls the extraction engine.
type Config struct {
	// Rules is the canonical metric set, scanned in order.
	Rules []Rule
	// LabelColumn is the index of the metric-label column in tables.
	LabelColumn int
	// ValueColumn is the index of the value column, or AutoValueColumn.
	// The default of 1 reflects the "second column is the current-year
	// value" convention of typical financial tables.
	ValueColumn int
}

// DefaultConfig returns an engine config with the built-in metric set.
func DefaultConfig() Config {
	return Config{
		Rules:       DefaultRules(),
		LabelColumn: 0,
		ValueColumn: 1,
	}
}

// Engine performs deterministic rule-based metric extraction over a
// parsed document. It never mutates the document.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine. A nil rule set falls back to the defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.Rules == nil {
		cfg.Rules = DefaultRules()
	}
	if cfg.ValueColumn == 0 {
		cfg.ValueColumn = 1
	}
	return &Engine{cfg: cfg}
}

// Result pairs the resolved metrics with their provenance annotations.
// Annotation order is table pass first (in table order), then text pass
// (in text-block order).
type Result struct {
	Metrics     *MetricSet
	Annotations []Annotation
}

// Extract resolves each configured metric at most once, table pass before
// text pass, first match wins. A metric found in neither pass is simply
// absent from the result.
func (e *Engine) Extract(doc *doctags.Document) *Result {
	res := &Result{Metrics: NewMetricSet()}
	e.tablePass(doc, res)
	e.textPass(doc, res)
	return res
}

func (e *Engine) tablePass(doc *doctags.Document, res *Result) {
	for ti := range doc.Tables {
		tbl := &doc.Tables[ti]
		if e.cfg.LabelColumn >= len(tbl.Columns) {
			continue
		}
		for _, row := range tbl.Rows {
			label := row[e.cfg.LabelColumn]
			value, ok := e.rowValue(row)
			if !ok {
				continue
			}
			for _, rule := range e.cfg.Rules {
				if res.Metrics.Has(rule.Name) || !rule.MatchesLabel(label) {
					continue
				}
				res.Metrics.Set(rule.Name, value)
				res.Annotations = append(res.Annotations, Annotation{
					Box:    tbl.Box,
					Label:  fmt.Sprintf("%s: %s (Table)", rule.Name, value),
					Source: SourceTableMetric,
					Color:  ColorBlue,
				})
			}
		}
	}
}

// rowValue picks the value cell for a row per the configured column
// policy and normalizes it.
func (e *Engine) rowValue(row []string) (string, bool) {
	if e.cfg.ValueColumn == AutoValueColumn {
		for i := len(row) - 1; i > e.cfg.LabelColumn; i-- {
			if v, ok := NormalizeNumber(row[i]); ok {
				return v, true
			}
		}
		return "", false
	}
	if e.cfg.ValueColumn >= len(row) || e.cfg.ValueColumn == e.cfg.LabelColumn {
		return "", false
	}
	return NormalizeNumber(row[e.cfg.ValueColumn])
}

func (e *Engine) textPass(doc *doctags.Document, res *Result) {
	for bi := range doc.TextBlocks {
		block := &doc.TextBlocks[bi]
		for _, rule := range e.cfg.Rules {
			if res.Metrics.Has(rule.Name) {
				continue
			}
			m := rule.Pattern.FindStringSubmatch(block.Content)
			if m == nil || rule.ValueGroup >= len(m) {
				continue
			}
			value, ok := NormalizeNumber(m[rule.ValueGroup])
			if !ok {
				continue
			}
			res.Metrics.Set(rule.Name, value)
			res.Annotations = append(res.Annotations, Annotation{
				Box:    block.Box,
				Label:  fmt.Sprintf("%s: %s (Text)", rule.Name, value),
				Source: SourceTextMetric,
				Color:  ColorGreen,
			})
		}
	}
}
