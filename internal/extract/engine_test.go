package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsight/docsight/internal/doctags"
	"github.com/docsight/docsight/internal/geometry"
)

func boxPtr(x1, y1, x2, y2 float64) *geometry.Box {
	b := geometry.NewBox(x1, y1, x2, y2)
	return &b
}

func TestExtractFromTable(t *testing.T) {
	doc := &doctags.Document{
		Tables: []doctags.Table{{
			Columns: []string{"Metric", "Q1 2024 (in millions)", "Q1 2023 (in millions)"},
			Rows: [][]string{
				{"Revenue", "$1,234.56", "$1,000.00"},
			},
			Box: boxPtr(60, 200, 550, 350),
		}},
	}

	res := NewEngine(DefaultConfig()).Extract(doc)

	v, ok := res.Metrics.Get("Revenue")
	require.True(t, ok)
	assert.Equal(t, "1234.56", v)

	require.Len(t, res.Annotations, 1)
	ann := res.Annotations[0]
	assert.Equal(t, "Revenue: 1234.56 (Table)", ann.Label)
	assert.Equal(t, SourceTableMetric, ann.Source)
	assert.Equal(t, ColorBlue, ann.Color)
	require.NotNil(t, ann.Box)
	assert.Equal(t, *boxPtr(60, 200, 550, 350), *ann.Box)
}

func TestExtractFromText(t *testing.T) {
	doc := &doctags.Document{
		TextBlocks: []doctags.TextBlock{{
			Content:  "Earnings Per Share (EPS): 0.52",
			Box:      boxPtr(60, 360, 550, 380),
			Category: doctags.CategoryBody,
		}},
	}

	res := NewEngine(DefaultConfig()).Extract(doc)

	v, ok := res.Metrics.Get("EPS")
	require.True(t, ok)
	assert.Equal(t, "0.52", v)

	require.Len(t, res.Annotations, 1)
	assert.Equal(t, "EPS: 0.52 (Text)", res.Annotations[0].Label)
	assert.Equal(t, SourceTextMetric, res.Annotations[0].Source)
	assert.Equal(t, ColorGreen, res.Annotations[0].Color)
}

func TestTablePassWinsOverTextPass(t *testing.T) {
	doc := &doctags.Document{
		Tables: []doctags.Table{{
			Columns: []string{"Metric", "Value"},
			Rows:    [][]string{{"Net Income", "$384.56"}},
		}},
		TextBlocks: []doctags.TextBlock{{
			Content: "Net income for the year was $999.99 after adjustments.",
		}},
	}

	res := NewEngine(DefaultConfig()).Extract(doc)

	v, ok := res.Metrics.Get("Net Income")
	require.True(t, ok)
	assert.Equal(t, "384.56", v)
	require.Len(t, res.Annotations, 1)
	assert.Equal(t, SourceTableMetric, res.Annotations[0].Source)
}

func TestFirstMatchWinsAcrossTables(t *testing.T) {
	doc := &doctags.Document{
		Tables: []doctags.Table{
			{
				Columns: []string{"Metric", "Value"},
				Rows:    [][]string{{"Revenue", "$100.00"}},
			},
			{
				Columns: []string{"Metric", "Value"},
				Rows:    [][]string{{"Revenue", "$200.00"}},
			},
		},
	}

	res := NewEngine(DefaultConfig()).Extract(doc)

	v, _ := res.Metrics.Get("Revenue")
	assert.Equal(t, "100.00", v)
	assert.Len(t, res.Annotations, 1)
}

func TestExtractSampleDocument(t *testing.T) {
	doc, err := doctags.Parse(doctags.SampleDocTags())
	require.NoError(t, err)

	res := NewEngine(DefaultConfig()).Extract(doc)

	for name, want := range map[string]string{
		"Revenue":    "1234.56",
		"Net Income": "384.56",
		"EPS":        "0.52",
	} {
		v, ok := res.Metrics.Get(name)
		require.True(t, ok, "metric %s not resolved", name)
		assert.Equal(t, want, v, "metric %s", name)
	}
	// Operating Expenses is not a configured metric; absence is normal.
	assert.False(t, res.Metrics.Has("Operating Expenses"))
}

func TestExtractDeterministic(t *testing.T) {
	doc, err := doctags.Parse(doctags.SampleDocTags())
	require.NoError(t, err)

	eng := NewEngine(DefaultConfig())
	a := eng.Extract(doc)
	b := eng.Extract(doc)

	assert.Equal(t, a.Metrics.Names(), b.Metrics.Names())
	assert.Equal(t, a.Annotations, b.Annotations)
}

func TestOperatingMarginPercent(t *testing.T) {
	doc := &doctags.Document{
		TextBlocks: []doctags.TextBlock{{
			Content: "Operating Margin improved to 31.15% year over year.",
		}},
	}
	res := NewEngine(DefaultConfig()).Extract(doc)
	v, ok := res.Metrics.Get("Operating Margin")
	require.True(t, ok)
	assert.Equal(t, "31.15", v)
}

func TestAutoValueColumn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ValueColumn = AutoValueColumn
	doc := &doctags.Document{
		Tables: []doctags.Table{{
			Columns: []string{"Metric", "Notes", "FY2023"},
			Rows:    [][]string{{"Revenue", "see appendix", "$1,234.56"}},
		}},
	}
	res := NewEngine(cfg).Extract(doc)
	v, ok := res.Metrics.Get("Revenue")
	require.True(t, ok)
	assert.Equal(t, "1234.56", v)
}

func TestValueColumnOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ValueColumn = 5
	doc := &doctags.Document{
		Tables: []doctags.Table{{
			Columns: []string{"Metric", "Value"},
			Rows:    [][]string{{"Revenue", "$1.00"}},
		}},
	}
	res := NewEngine(cfg).Extract(doc)
	assert.Zero(t, res.Metrics.Len())
	assert.Empty(t, res.Annotations)
}

func TestAnnotationWithoutBoxNotDrawable(t *testing.T) {
	doc := &doctags.Document{
		TextBlocks: []doctags.TextBlock{{Content: "Revenue: $5.00"}},
	}
	res := NewEngine(DefaultConfig()).Extract(doc)
	require.Len(t, res.Annotations, 1)
	assert.False(t, res.Annotations[0].Drawable())
}

func TestEmptyDocument(t *testing.T) {
	res := NewEngine(DefaultConfig()).Extract(&doctags.Document{})
	assert.Zero(t, res.Metrics.Len())
	assert.Empty(t, res.Annotations)
}
