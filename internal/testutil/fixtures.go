package testutil

import (
	"testing"

	"github.com/docsight/docsight/internal/doctags"
)

// WriteSampleDocTags writes the built-in sample document to a temp
// file and returns its path.
func WriteSampleDocTags(t *testing.T) string {
	t.Helper()
	return WriteTempFile(t, "sample.doctags", []byte(doctags.SampleDocTags()))
}
