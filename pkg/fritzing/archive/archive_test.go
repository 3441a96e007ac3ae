package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestArchive builds a small .fzpz-style zip for tests.
func writeTestArchive(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.fzpz")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	return path
}

func TestIsArchive(t *testing.T) {
	path := writeTestArchive(t, map[string]string{"part.fzp": "<module/>"})
	assert.True(t, IsArchive(path))

	notZip := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(notZip, []byte("not a zip"), 0o644))
	assert.False(t, IsArchive(notZip))

	assert.False(t, IsArchive(filepath.Join(t.TempDir(), "missing.fzpz")))
}

func TestOpenRejectsNonArchive(t *testing.T) {
	notZip := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(notZip, []byte("not a zip"), 0o644))

	_, err := Open(notZip)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a zip archive")
}

func TestListEntries(t *testing.T) {
	path := writeTestArchive(t, map[string]string{
		"part.fzp":  "<module><title>zip part</title></module>",
		"model.obj": "# OBJ content",
	})

	resolver, err := Open(path)
	require.NoError(t, err)
	defer resolver.Close()

	entries, err := resolver.ListEntries()
	require.NoError(t, err)
	assert.Contains(t, entries, "part.fzp")
	assert.Contains(t, entries, "model.obj")
}

func TestExtractByExtensions(t *testing.T) {
	path := writeTestArchive(t, map[string]string{
		"part.fzp":          "<module/>",
		"models/board.obj":  "# obj",
		"models/SHIELD.STL": "stl bytes",
		"art/silk.svg":      "<svg/>",
	})

	resolver, err := Open(path)
	require.NoError(t, err)
	defer resolver.Close()

	extracted, err := resolver.ExtractByExtensions([]string{".obj", ".stl"})
	require.NoError(t, err)
	require.Len(t, extracted, 2)

	// Case-insensitive suffix match, keyed by original entry name
	assert.Contains(t, extracted, "models/board.obj")
	assert.Contains(t, extracted, "models/SHIELD.STL")
	assert.NotContains(t, extracted, "art/silk.svg")
	assert.NotContains(t, extracted, "part.fzp")

	for name, dest := range extracted {
		data, err := os.ReadFile(dest)
		require.NoError(t, err, "extracted file for %s should exist", name)
		assert.NotEmpty(t, data)
	}
}

func TestReadEntry(t *testing.T) {
	path := writeTestArchive(t, map[string]string{
		"part.fzp": "<module><title>in memory</title></module>",
	})

	resolver, err := Open(path)
	require.NoError(t, err)
	defer resolver.Close()

	data, err := resolver.ReadEntry("part.fzp")
	require.NoError(t, err)
	assert.Contains(t, string(data), "in memory")

	_, err = resolver.ReadEntry("missing.fzp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCloseRemovesScratchDir(t *testing.T) {
	path := writeTestArchive(t, map[string]string{"model.obj": "# obj"})

	resolver, err := Open(path)
	require.NoError(t, err)

	extracted, err := resolver.ExtractByExtensions([]string{".obj"})
	require.NoError(t, err)
	require.Len(t, extracted, 1)

	var dest string
	for _, d := range extracted {
		dest = d
	}
	_, err = os.Stat(dest)
	require.NoError(t, err)

	require.NoError(t, resolver.Close())

	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err), "scratch file should be removed by Close")
}
