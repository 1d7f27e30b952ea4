package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsight/docsight/internal/doctags"
	"github.com/docsight/docsight/internal/extract"
)

func TestBuildDefaults(t *testing.T) {
	p, err := NewBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, 612, p.Config().CanvasWidth)
	assert.Equal(t, 792, p.Config().CanvasHeight)
	assert.Equal(t, 1, p.Config().Extract.ValueColumn)
}

func TestBuilderValidation(t *testing.T) {
	_, err := NewBuilder().WithValueColumn(extract.AutoValueColumn).Build()
	require.NoError(t, err)

	b := NewBuilder()
	b.cfg.Extract.Rules = nil
	b.cfg.Extract.ValueColumn = 1
	_, err = b.Build()
	require.Error(t, err)

	b = NewBuilder()
	b.cfg.Extract.LabelColumn = 1
	_, err = b.Build()
	require.Error(t, err)

	_, err = NewBuilder().WithRulesFile("/nonexistent/rules.yaml").Build()
	require.Error(t, err)
}

func TestProcessSampleDocument(t *testing.T) {
	p, err := NewBuilder().Build()
	require.NoError(t, err)

	res, err := p.Process(doctags.SampleDocTags())
	require.NoError(t, err)

	require.NotNil(t, res.Document)
	assert.Len(t, res.Document.Tables, 1)

	v, ok := res.Metrics.Get("Revenue")
	require.True(t, ok)
	assert.Equal(t, "1234.56", v)

	// table outline first, then metric annotations
	require.NotEmpty(t, res.Annotations)
	assert.Equal(t, extract.SourceTable, res.Annotations[0].Source)

	assert.Contains(t, res.CSV, "Key Metrics,Revenue,1234.56")
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.JSON), &payload))
	assert.Contains(t, payload, "key_metrics")
	assert.Contains(t, payload, "tables")
}

func TestProcessMalformed(t *testing.T) {
	p, err := NewBuilder().Build()
	require.NoError(t, err)

	_, err = p.Process("<root><otsl>")
	require.Error(t, err)
	var malformed *doctags.MalformedDocumentError
	assert.ErrorAs(t, err, &malformed)
}

func TestProcessDeterministic(t *testing.T) {
	p, err := NewBuilder().Build()
	require.NoError(t, err)

	a, err := p.Process(doctags.SampleDocTags())
	require.NoError(t, err)
	b, err := p.Process(doctags.SampleDocTags())
	require.NoError(t, err)

	assert.Equal(t, a.Document, b.Document)
	assert.Equal(t, a.Annotations, b.Annotations)
	assert.Equal(t, a.CSV, b.CSV)
	assert.Equal(t, a.JSON, b.JSON)
}

func TestProcessWithProgressStages(t *testing.T) {
	p, err := NewBuilder().Build()
	require.NoError(t, err)

	var stages []Stage
	_, err = p.ProcessWithProgress(doctags.SampleDocTags(), func(s Stage) {
		stages = append(stages, s)
	})
	require.NoError(t, err)
	assert.Equal(t, []Stage{StageParse, StageExtract, StageProject}, stages)
}

func TestOverlayUsesPageBox(t *testing.T) {
	p, err := NewBuilder().WithCanvasSize(100, 100).Build()
	require.NoError(t, err)

	res, err := p.Process(doctags.SampleDocTags())
	require.NoError(t, err)

	img := p.Overlay(res, 0)
	require.NotNil(t, img)
	// sample page box is 612x792 and overrides the configured canvas
	assert.Equal(t, 612, img.Bounds().Dx())
	assert.Equal(t, 792, img.Bounds().Dy())
}

func TestOverlayNilResult(t *testing.T) {
	p, err := NewBuilder().Build()
	require.NoError(t, err)
	assert.Nil(t, p.Overlay(nil, 0))
}

func TestCacheMemoizes(t *testing.T) {
	p, err := NewBuilder().Build()
	require.NoError(t, err)
	c := NewCache(p)

	a, err := c.Process(doctags.SampleDocTags())
	require.NoError(t, err)
	b, err := c.Process(doctags.SampleDocTags())
	require.NoError(t, err)

	assert.Same(t, a, b)
	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 1, c.Len())
}

func TestCacheDistinguishesInputs(t *testing.T) {
	p, err := NewBuilder().Build()
	require.NoError(t, err)
	c := NewCache(p)

	a, err := c.Process(`<text bbox="0 0 10 10">Revenue: $1.00</text>`)
	require.NoError(t, err)
	b, err := c.Process(`<text bbox="0 0 10 10">Revenue: $2.00</text>`)
	require.NoError(t, err)

	va, _ := a.Metrics.Get("Revenue")
	vb, _ := b.Metrics.Get("Revenue")
	assert.Equal(t, "1.00", va)
	assert.Equal(t, "2.00", vb)
	assert.Equal(t, 2, c.Len())
}

func TestCacheDoesNotCacheErrors(t *testing.T) {
	p, err := NewBuilder().Build()
	require.NoError(t, err)
	c := NewCache(p)

	_, err = c.Process("<root><broken")
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}
