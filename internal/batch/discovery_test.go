package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.doctags"))
	touch(t, filepath.Join(dir, "b.xml"))
	touch(t, filepath.Join(dir, "c.txt"))
	touch(t, filepath.Join(dir, "nested", "d.doctags"))

	t.Run("non-recursive", func(t *testing.T) {
		files, err := DiscoverFiles([]string{dir}, false, []string{"*.doctags", "*.xml"}, nil)
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("recursive", func(t *testing.T) {
		files, err := DiscoverFiles([]string{dir}, true, []string{"*.doctags", "*.xml"}, nil)
		require.NoError(t, err)
		assert.Len(t, files, 3)
	})

	t.Run("exclude pattern", func(t *testing.T) {
		files, err := DiscoverFiles([]string{dir}, true, []string{"*.doctags", "*.xml"}, []string{"b.*"})
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("explicit file bypasses directory walk", func(t *testing.T) {
		files, err := DiscoverFiles([]string{filepath.Join(dir, "a.doctags")}, false, []string{"*.doctags"}, nil)
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("no include patterns keeps everything", func(t *testing.T) {
		files, err := DiscoverFiles([]string{dir}, false, nil, nil)
		require.NoError(t, err)
		assert.Len(t, files, 3)
	})
}

func TestDiscoverFilesMissingPath(t *testing.T) {
	_, err := DiscoverFiles([]string{"/does/not/exist"}, false, nil, nil)
	assert.Error(t, err)
}
