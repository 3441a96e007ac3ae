// Package scene defines the contracts between the placement engine and the
// 3D host environment. The engine never owns host scene objects; it drives
// them through the Host interface and tracks only the opaque handles the
// host returns. Every call that creates objects returns their handles
// explicitly, so no before/after scene diffing is needed.
package scene

import (
	"github.com/fritzlab/fritz3d/pkg/fritzing/geometry"
)

// Handle is an opaque reference to one host scene object.
type Handle int64

// None is the zero handle, meaning "no object".
const None Handle = 0

// Kind classifies host objects into the closed set the pipeline switches
// over. Only mesh objects participate in the boolean overlap pass; only
// curve objects receive thickening.
type Kind int

const (
	KindMesh Kind = iota
	KindCurve
	KindSurface
	KindFont
	KindMeta
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindCurve:
		return "curve"
	case KindSurface:
		return "surface"
	case KindFont:
		return "font"
	case KindMeta:
		return "meta"
	default:
		return "unknown"
	}
}

// Object pairs a handle with the geometry kind the host reports for it.
type Object struct {
	Handle Handle
	Kind   Kind
	Name   string
}

// Host is the collaborator contract a 3D environment implements. All
// geometry creation reports the created objects explicitly.
type Host interface {
	// ImportModel imports an OBJ or STL file and returns the created objects.
	ImportModel(path string) ([]Object, error)

	// ImportVector imports a vector drawing (SVG) and returns the created
	// objects, typically curves.
	ImportVector(path string) ([]Object, error)

	// Duplicate creates a copy of an existing object.
	Duplicate(h Handle) (Object, error)

	// SetTransform sets an object's world location and optional Z rotation.
	SetTransform(h Handle, location geometry.Vec3, rotationZDegrees *float64) error

	// CreateMarker creates a pin marker at a location: a small sphere mesh
	// when asMesh is set, otherwise a lightweight non-mesh marker.
	CreateMarker(location geometry.Vec3, size float64, asMesh bool) (Object, error)

	// Parent attaches child to parent in the scene graph.
	Parent(child, parent Handle) error

	// Join merges several objects into one, consuming the inputs.
	Join(handles []Handle) (Object, error)

	// ConvertToMesh converts a curve or surface object to polygonal form.
	ConvertToMesh(h Handle) error

	// AddThickness applies a solidify/bevel modifier to a mesh.
	AddThickness(h Handle, depth, bevelWidth float64) error

	// BooleanSubtract cuts the cutter object out of the target mesh.
	BooleanSubtract(target, cutter Handle) error

	// Delete removes an object from the scene.
	Delete(h Handle) error
}
