package batch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Summarize renders a human-readable report of a batch run.
func Summarize(r *Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Processed %d file(s) in %v with %d worker(s)\n",
		len(r.Files), r.Duration.Round(1e6), r.WorkerCount))
	b.WriteString(fmt.Sprintf("Succeeded: %d  Failed: %d\n\n", r.Succeeded(), r.Failed()))

	for _, f := range r.Files {
		if f.Err != nil {
			b.WriteString(fmt.Sprintf("%s: ERROR: %v\n", f.Path, f.Err))
			continue
		}
		b.WriteString(fmt.Sprintf("%s: %d table(s), %d metric(s) in %v\n",
			f.Path, len(f.Result.Document.Tables), f.Result.Metrics.Len(), f.Duration.Round(1e6)))
		for _, name := range f.Result.Metrics.Names() {
			value, _ := f.Result.Metrics.Get(name)
			b.WriteString(fmt.Sprintf("  %s: %s\n", name, value))
		}
	}

	return b.String()
}

// fileExport is the per-file JSON shape for batch output.
type fileExport struct {
	Path    string          `json:"path"`
	Error   string          `json:"error,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ToJSON renders the batch result as a JSON array of per-file payloads.
func ToJSON(r *Result) (string, error) {
	exports := make([]fileExport, 0, len(r.Files))
	for _, f := range r.Files {
		e := fileExport{Path: f.Path}
		if f.Err != nil {
			e.Error = f.Err.Error()
		} else {
			e.Payload = json.RawMessage(f.Result.JSON)
		}
		exports = append(exports, e)
	}

	data, err := json.MarshalIndent(exports, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal batch results: %w", err)
	}
	return string(data), nil
}

// ToCSV concatenates per-file CSV payloads, each prefixed with a
// comment line naming the source file.
func ToCSV(r *Result) string {
	var b strings.Builder
	for _, f := range r.Files {
		if f.Err != nil {
			continue
		}
		b.WriteString("# " + f.Path + "\n")
		b.WriteString(f.Result.CSV)
	}
	return b.String()
}
