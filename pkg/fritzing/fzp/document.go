// Package fzp parses Fritzing part descriptors (.fzp) into typed module and
// pin records ready for placement. Descriptors are best-effort: a module or
// pin with missing geometry is dropped rather than failing the document.
package fzp

import (
	"io"
	"path/filepath"

	"github.com/fritzlab/fritz3d/pkg/fritzing/fzxml"
)

// Document is one parsed part descriptor.
type Document struct {
	root *fzxml.Element
}

// Parse reads a descriptor from a reader. Malformed XML returns an error;
// the caller skips the descriptor in that case.
func Parse(r io.Reader) (*Document, error) {
	root, err := fzxml.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// ParseString parses a descriptor from a string.
func ParseString(input string) (*Document, error) {
	root, err := fzxml.ParseString(input)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// Root exposes the underlying element tree.
func (d *Document) Root() *fzxml.Element {
	return d.root
}

// Title returns the part title. When the descriptor has no title element the
// fallback (typically the descriptor's filename) is returned instead.
func (d *Document) Title(fallback string) string {
	if title, ok := d.root.FindText("title"); ok && title != "" {
		return title
	}
	return filepath.Base(fallback)
}
