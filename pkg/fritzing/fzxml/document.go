// Package fzxml provides the XML document model shared by the Fritzing
// descriptor parsers. Descriptors are small, so the whole document is held
// as an element tree with simple document-order search helpers.
package fzxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Element is one node of a parsed descriptor document.
type Element struct {
	Tag      string            // Local tag name (namespace prefix stripped)
	Attrs    map[string]string // Attribute name -> value
	Children []*Element        // Child elements in document order
	Text     string            // Concatenated character data, trimmed
}

// Parse reads an XML document from a reader and returns its root element.
// Malformed XML returns a nil root and an error; callers treat that as
// "skip this descriptor" rather than working with a partial tree.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Tag:   t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected closing tag </%s>", t.Name.Local)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				text := strings.TrimSpace(string(t))
				if text != "" {
					cur := stack[len(stack)-1]
					if cur.Text != "" {
						cur.Text += " "
					}
					cur.Text += text
				}
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("no root element found")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unclosed element <%s>", stack[len(stack)-1].Tag)
	}

	return root, nil
}

// ParseString parses an XML document from a string.
func ParseString(input string) (*Element, error) {
	return Parse(strings.NewReader(input))
}

// FindAll returns every descendant element with the given tag, in document
// order, searching all nesting depths. The receiver itself is not included.
func (e *Element) FindAll(tag string) []*Element {
	var results []*Element
	e.walk(func(el *Element) {
		if el.Tag == tag {
			results = append(results, el)
		}
	})
	return results
}

// FindText returns the text content of the first descendant element with the
// given tag. The second return value reports whether such an element exists.
func (e *Element) FindText(tag string) (string, bool) {
	var found *Element
	e.walk(func(el *Element) {
		if found == nil && el.Tag == tag {
			found = el
		}
	})
	if found == nil {
		return "", false
	}
	return found.Text, true
}

// walk visits every descendant in document order (depth-first, pre-order).
func (e *Element) walk(visit func(*Element)) {
	for _, child := range e.Children {
		visit(child)
		child.walk(visit)
	}
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// AttrAny returns the value of the first attribute present from the given
// names. Used for descriptor fields with several historical spellings.
func (e *Element) AttrAny(names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := e.Attrs[name]; ok {
			return v, true
		}
	}
	return "", false
}

// AttrFloat returns the named attribute parsed as a float64.
func (e *Element) AttrFloat(name string) (float64, bool) {
	v, ok := e.Attrs[name]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
