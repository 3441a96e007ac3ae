// Package archive resolves Fritzing part bundles (.fzpz zip archives). It
// classifies entries by extension and exposes them either as scratch files
// on disk (for host-side geometry import) or as in-memory bytes (for
// descriptor parsing). The scratch directory lives for one import operation
// and is removed by Close.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IsArchive reports whether the path is a readable zip archive.
func IsArchive(path string) bool {
	r, err := zip.OpenReader(path)
	if err != nil {
		return false
	}
	r.Close()
	return true
}

// Resolver provides access to the entries of one part bundle.
type Resolver struct {
	path       string
	scratchDir string
}

// Open validates that the path is a zip archive and returns a resolver for
// it. A non-archive path is a fatal error for the whole import.
func Open(path string) (*Resolver, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("not a zip archive: %s: %w", path, err)
	}
	r.Close()

	return &Resolver{path: path}, nil
}

// ListEntries returns the names of all archive entries.
func (r *Resolver) ListEntries() ([]string, error) {
	zr, err := zip.OpenReader(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// ExtractByExtensions extracts every entry whose name ends (case-insensitive)
// with one of the given extensions into the resolver's scratch directory.
// Returns a mapping from original entry name to extracted file path. Entries
// not matching any extension are left unextracted.
func (r *Resolver) ExtractByExtensions(extensions []string) (map[string]string, error) {
	zr, err := zip.OpenReader(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	if r.scratchDir == "" {
		dir, err := os.MkdirTemp("", "fritzing_")
		if err != nil {
			return nil, fmt.Errorf("failed to create scratch directory: %w", err)
		}
		r.scratchDir = dir
	}

	extracted := make(map[string]string)
	for _, f := range zr.File {
		if !matchesExtension(f.Name, extensions) {
			continue
		}

		dest := filepath.Join(r.scratchDir, filepath.Base(f.Name))
		if err := extractEntry(f, dest); err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
		extracted[f.Name] = dest
	}

	return extracted, nil
}

// ReadEntry reads one entry fully into memory. Used for descriptor files,
// which are parsed directly without touching disk.
func (r *Resolver) ReadEntry(name string) ([]byte, error) {
	zr, err := zip.OpenReader(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open entry %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	return nil, fmt.Errorf("entry %s not found in archive", name)
}

// Close removes the scratch directory and everything extracted into it.
func (r *Resolver) Close() error {
	if r.scratchDir == "" {
		return nil
	}
	dir := r.scratchDir
	r.scratchDir = ""
	return os.RemoveAll(dir)
}

func matchesExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

func extractEntry(f *zip.File, dest string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
