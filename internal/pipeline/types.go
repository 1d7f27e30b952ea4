package pipeline

import (
	"github.com/docsight/docsight/internal/doctags"
	"github.com/docsight/docsight/internal/extract"
)

// Result holds everything one Process call produces. It replaces hidden
// intermediate state: callers pass it explicitly to later stages
// (overlay rendering, export writing) instead of re-deriving anything.
type Result struct {
	Document    *doctags.Document    `json:"document"`
	Metrics     *extract.MetricSet   `json:"metrics"`
	Annotations []extract.Annotation `json:"annotations"`
	CSV         string               `json:"csv"`
	JSON        string               `json:"json"`
}

// Stage identifies a pipeline phase for progress reporting.
type Stage string

const (
	StageParse   Stage = "parse"
	StageExtract Stage = "extract"
	StageProject Stage = "project"
)

// StageCallback receives each stage as it begins.
type StageCallback func(stage Stage)
