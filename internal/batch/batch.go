// Package batch provides batch processing of DocTags documents.
package batch

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/docsight/docsight/internal/common"
	"github.com/docsight/docsight/internal/pipeline"
)

// Config holds all configuration for batch processing.
type Config struct {
	Pipeline pipeline.Config

	// Parallel processing settings
	Workers int

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Output settings
	OverlayDir string
}

// DefaultConfig returns a batch configuration with component defaults.
func DefaultConfig() *Config {
	return &Config{
		Pipeline:        pipeline.DefaultConfig(),
		Workers:         4,
		IncludePatterns: []string{"*.doctags", "*.xml"},
	}
}

// FileResult holds the outcome of processing one document.
type FileResult struct {
	Path     string
	Result   *pipeline.Result
	Err      error
	Duration time.Duration
}

// Result aggregates a whole batch run.
type Result struct {
	Files       []FileResult
	Duration    time.Duration
	WorkerCount int
}

// Succeeded returns the number of files processed without error.
func (r *Result) Succeeded() int {
	n := 0
	for _, f := range r.Files {
		if f.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of files that errored.
func (r *Result) Failed() int { return len(r.Files) - r.Succeeded() }

// ProcessBatch processes a batch of DocTags documents with the given configuration.
func ProcessBatch(paths []string, config *Config) (*Result, error) {
	files, err := DiscoverFiles(paths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover input files: %w", err)
	}

	if len(files) == 0 {
		return nil, errors.New("no DocTags files found")
	}

	pl, err := pipeline.NewBuilder().
		WithRules(config.Pipeline.Extract.Rules).
		WithLabelColumn(config.Pipeline.Extract.LabelColumn).
		WithValueColumn(config.Pipeline.Extract.ValueColumn).
		WithCanvasSize(config.Pipeline.CanvasWidth, config.Pipeline.CanvasHeight).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	timer := common.NewNamedTimer("batch")
	results := processParallel(pl, files, workers, config.OverlayDir)
	total := timer.Stop()

	return &Result{
		Files:       results,
		Duration:    total,
		WorkerCount: workers,
	}, nil
}

// processParallel fans the file list out over a fixed worker pool.
// Results keep the discovery order regardless of completion order.
func processParallel(pl *pipeline.Pipeline, files []string, workers int, overlayDir string) []FileResult {
	results := make([]FileResult, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = processSingleFile(pl, files[i], overlayDir)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// processSingleFile processes a single document through the pipeline.
func processSingleFile(pl *pipeline.Pipeline, path, overlayDir string) FileResult {
	timer := common.NewTimer()

	data, err := os.ReadFile(path) //nolint:gosec // G304: discovered input path
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("failed to read %s: %w", path, err), Duration: timer.Stop()}
	}

	res, err := pl.Process(string(data))
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("extraction failed for %s: %w", path, err), Duration: timer.Stop()}
	}

	if overlayDir != "" {
		saveOverlay(pl, res, overlayDir, path)
	}

	return FileResult{Path: path, Result: res, Duration: timer.Stop()}
}

// saveOverlay renders and writes the annotated page, best effort.
func saveOverlay(pl *pipeline.Pipeline, res *pipeline.Result, overlayDir, inputPath string) {
	img := pl.Overlay(res, 0)
	if img == nil {
		return
	}

	if err := os.MkdirAll(overlayDir, 0o750); err != nil {
		return
	}

	base := filepath.Base(inputPath)
	outPath := filepath.Join(overlayDir, strings.TrimSuffix(base, filepath.Ext(base))+"_overlay.png")
	if f, err := os.Create(outPath); err == nil { //nolint:gosec
		// G304: outPath constructed from CLI overlay-dir flag, expected user input
		_ = png.Encode(f, img)
		_ = f.Close()
	}
}
