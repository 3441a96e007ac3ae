package fzp

import (
	"strings"

	"github.com/fritzlab/fritz3d/pkg/fritzing/fzxml"
	"github.com/fritzlab/fritz3d/pkg/fritzing/geometry"
)

// Module is one descriptor entry referencing a piece of geometry plus its
// placement transform.
type Module struct {
	ID        string
	FileRef   string                // Relative path to geometry, empty when unlinked
	Placement *geometry.Transform2D // nil when x/y could not be resolved
	Pins      []Pin
}

// Pin is a named attachment point on a module.
type Pin struct {
	ID              string
	Position        geometry.Vec3 // Archive units
	RotationDegrees *float64
}

// pinTags are the element names recognized as pin-like children. Pins are
// pooled per tag, not interleaved by document order: all pin elements first,
// then all pads, then all connectors.
var pinTags = []string{"pin", "pad", "connector"}

// Modules extracts every module record from the descriptor in document
// order. The root element itself counts when it is tagged "module", which is
// how Fritzing descriptors are rooted.
func (d *Document) Modules() []Module {
	var els []*fzxml.Element
	if d.root.Tag == "module" {
		els = append(els, d.root)
	}
	els = append(els, d.root.FindAll("module")...)

	modules := make([]Module, 0, len(els))
	for _, el := range els {
		modules = append(modules, extractModule(el))
	}
	return modules
}

func extractModule(el *fzxml.Element) Module {
	fileRef, _ := el.AttrAny("file", "url")

	id, ok := el.AttrAny("id", "name")
	if !ok {
		id = fileRef
	}

	mod := Module{
		ID:        id,
		FileRef:   fileRef,
		Placement: resolvePlacement(el),
	}

	for _, tag := range pinTags {
		for _, pinEl := range el.FindAll(tag) {
			if pin, ok := extractPin(pinEl); ok {
				mod.Pins = append(mod.Pins, pin)
			}
		}
	}

	return mod
}

// resolvePlacement resolves a module's transform. Position falls back
// through three paths: explicit x/y (or cx/cy) attributes, a position
// attribute, then a nested child element whose tag ends in "position". A
// transform attribute then adds its cumulative translation; rotation from
// the transform string overrides any rotation attribute. Returns nil when
// x/y cannot be resolved by any path.
func resolvePlacement(el *fzxml.Element) *geometry.Transform2D {
	pos, ok := resolveXYZ(el)
	if !ok {
		return nil
	}

	t := &geometry.Transform2D{
		Translate: geometry.Vec2{X: pos.X, Y: pos.Y},
		Z:         pos.Z,
	}

	if rot, ok := el.AttrFloat("rotation"); ok {
		t.RotateDegrees = &rot
	}

	if raw, ok := el.Attr("transform"); ok {
		parts := geometry.ParseTransform(raw)
		if parts.Translate != nil {
			t.Translate.X += parts.Translate.X
			t.Translate.Y += parts.Translate.Y
		}
		// Last writer wins, not composed.
		if parts.RotateDegrees != nil {
			t.RotateDegrees = parts.RotateDegrees
		}
	}

	return t
}

// extractPin resolves one pin-like element. Position resolution mirrors the
// module paths; a transform attribute contributes only translation. Pins
// with unresolvable x/y are dropped silently.
func extractPin(el *fzxml.Element) (Pin, bool) {
	pos, ok := resolveXYZ(el)
	if !ok {
		return Pin{}, false
	}

	if raw, ok := el.Attr("transform"); ok {
		parts := geometry.ParseTransform(raw)
		if parts.Translate != nil {
			pos.X += parts.Translate.X
			pos.Y += parts.Translate.Y
		}
	}

	id, _ := el.AttrAny("id", "name", "index", "label")

	pin := Pin{
		ID:       id,
		Position: pos,
	}

	if rot, ok := el.AttrFloat("rotation"); ok {
		pin.RotationDegrees = &rot
	}

	return pin, true
}

// resolveXYZ runs the shared position fallback chain for modules and pins.
func resolveXYZ(el *fzxml.Element) (geometry.Vec3, bool) {
	x, okX := el.AttrFloat("x")
	y, okY := el.AttrFloat("y")
	if !okX || !okY {
		x, okX = el.AttrFloat("cx")
		y, okY = el.AttrFloat("cy")
	}
	if okX && okY {
		z, _ := el.AttrFloat("z")
		return geometry.Vec3{X: x, Y: y, Z: z}, true
	}

	if raw, ok := el.Attr("position"); ok {
		if pos, ok := geometry.ParsePosition(raw); ok {
			return pos, true
		}
	}

	if child := findPositionChild(el); child != nil {
		cx, okX := child.AttrFloat("x")
		cy, okY := child.AttrFloat("y")
		if okX && okY {
			cz, _ := child.AttrFloat("z")
			return geometry.Vec3{X: cx, Y: cy, Z: cz}, true
		}
		if pos, ok := geometry.ParsePosition(child.Text); ok {
			return pos, true
		}
	}

	return geometry.Vec3{}, false
}

// findPositionChild returns the first descendant whose tag ends in
// "position" (e.g. schematicPosition, pcbPosition).
func findPositionChild(el *fzxml.Element) *fzxml.Element {
	var found *fzxml.Element
	var walk func(*fzxml.Element)
	walk = func(e *fzxml.Element) {
		for _, child := range e.Children {
			if found != nil {
				return
			}
			if strings.HasSuffix(strings.ToLower(child.Tag), "position") {
				found = child
				return
			}
			walk(child)
		}
	}
	walk(el)
	return found
}
