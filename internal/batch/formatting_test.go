package batch

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsight/docsight/internal/doctags"
	"github.com/docsight/docsight/internal/pipeline"
)

func sampleBatchResult(t *testing.T) *Result {
	t.Helper()

	pl, err := pipeline.NewBuilder().Build()
	require.NoError(t, err)
	res, err := pl.Process(doctags.SampleDocTags())
	require.NoError(t, err)

	return &Result{
		Files: []FileResult{
			{Path: "good.doctags", Result: res, Duration: 2 * time.Millisecond},
			{Path: "bad.doctags", Err: errors.New("boom"), Duration: time.Millisecond},
		},
		Duration:    3 * time.Millisecond,
		WorkerCount: 2,
	}
}

func TestSummarize(t *testing.T) {
	out := Summarize(sampleBatchResult(t))

	assert.Contains(t, out, "Processed 2 file(s)")
	assert.Contains(t, out, "Succeeded: 1  Failed: 1")
	assert.Contains(t, out, "good.doctags:")
	assert.Contains(t, out, "Revenue: 1234.56")
	assert.Contains(t, out, "bad.doctags: ERROR: boom")
}

func TestToJSON(t *testing.T) {
	out, err := ToJSON(sampleBatchResult(t))
	require.NoError(t, err)

	var exports []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &exports))
	require.Len(t, exports, 2)

	assert.Equal(t, "good.doctags", exports[0]["path"])
	assert.NotNil(t, exports[0]["payload"])
	assert.Equal(t, "boom", exports[1]["error"])
	_, hasPayload := exports[1]["payload"]
	assert.False(t, hasPayload)
}

func TestToCSV(t *testing.T) {
	out := ToCSV(sampleBatchResult(t))

	assert.Contains(t, out, "# good.doctags")
	assert.Contains(t, out, "Data_Type,Metric,Value")
	assert.NotContains(t, out, "bad.doctags")
}
