package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fritzlab/fritz3d/pkg/fritzing/geometry"
)

// RecordedObject is the recorder's view of one scene object.
type RecordedObject struct {
	Object
	Location         geometry.Vec3
	RotationZDegrees *float64
	ParentHandle     Handle
	ThicknessDepth   float64
	BevelWidth       float64
	CutBy            []Handle
	Deleted          bool
}

// Recorder is an in-memory Host. It assigns handles, tracks object state,
// and keeps a readable operation log. The CLI uses it to print a placement
// plan without a 3D environment attached; tests use it to assert on the
// exact sequence of host operations.
type Recorder struct {
	next    Handle
	objects map[Handle]*RecordedObject
	order   []Handle
	Ops     []string
}

// NewRecorder creates an empty recorder host.
func NewRecorder() *Recorder {
	return &Recorder{
		objects: make(map[Handle]*RecordedObject),
	}
}

// Objects returns all live (non-deleted) objects in creation order.
func (r *Recorder) Objects() []*RecordedObject {
	var live []*RecordedObject
	for _, h := range r.order {
		if obj := r.objects[h]; !obj.Deleted {
			live = append(live, obj)
		}
	}
	return live
}

// Get returns the recorded state for a handle.
func (r *Recorder) Get(h Handle) (*RecordedObject, bool) {
	obj, ok := r.objects[h]
	return obj, ok
}

func (r *Recorder) create(kind Kind, name string) *RecordedObject {
	r.next++
	obj := &RecordedObject{
		Object: Object{Handle: r.next, Kind: kind, Name: name},
	}
	r.objects[obj.Handle] = obj
	r.order = append(r.order, obj.Handle)
	return obj
}

func (r *Recorder) live(h Handle) (*RecordedObject, error) {
	obj, ok := r.objects[h]
	if !ok {
		return nil, fmt.Errorf("unknown handle %d", h)
	}
	if obj.Deleted {
		return nil, fmt.Errorf("handle %d refers to a deleted object", h)
	}
	return obj, nil
}

func (r *Recorder) logf(format string, args ...interface{}) {
	r.Ops = append(r.Ops, fmt.Sprintf(format, args...))
}

// ImportModel records a mesh import, one object per file.
func (r *Recorder) ImportModel(path string) ([]Object, error) {
	obj := r.create(KindMesh, filepath.Base(path))
	r.logf("import model %s -> #%d", filepath.Base(path), obj.Handle)
	return []Object{obj.Object}, nil
}

// ImportVector records a vector import as a single curve object.
func (r *Recorder) ImportVector(path string) ([]Object, error) {
	obj := r.create(KindCurve, filepath.Base(path))
	r.logf("import vector %s -> #%d", filepath.Base(path), obj.Handle)
	return []Object{obj.Object}, nil
}

// Duplicate copies an object's kind and name.
func (r *Recorder) Duplicate(h Handle) (Object, error) {
	src, err := r.live(h)
	if err != nil {
		return Object{}, err
	}
	dup := r.create(src.Kind, src.Name+".copy")
	dup.Location = src.Location
	dup.RotationZDegrees = src.RotationZDegrees
	r.logf("duplicate #%d -> #%d", h, dup.Handle)
	return dup.Object, nil
}

// SetTransform records an object's world location and rotation.
func (r *Recorder) SetTransform(h Handle, location geometry.Vec3, rotationZDegrees *float64) error {
	obj, err := r.live(h)
	if err != nil {
		return err
	}
	obj.Location = location
	obj.RotationZDegrees = rotationZDegrees
	if rotationZDegrees != nil {
		r.logf("place #%d at (%.4g, %.4g, %.4g) rot %.4g", h, location.X, location.Y, location.Z, *rotationZDegrees)
	} else {
		r.logf("place #%d at (%.4g, %.4g, %.4g)", h, location.X, location.Y, location.Z)
	}
	return nil
}

// CreateMarker records a pin marker.
func (r *Recorder) CreateMarker(location geometry.Vec3, size float64, asMesh bool) (Object, error) {
	kind := KindMeta
	if asMesh {
		kind = KindMesh
	}
	obj := r.create(kind, "pin")
	obj.Location = location
	r.logf("marker #%d (%s, size %.4g) at (%.4g, %.4g, %.4g)", obj.Handle, kind, size, location.X, location.Y, location.Z)
	return obj.Object, nil
}

// Parent records a scene-graph attachment.
func (r *Recorder) Parent(child, parent Handle) error {
	c, err := r.live(child)
	if err != nil {
		return err
	}
	if _, err := r.live(parent); err != nil {
		return err
	}
	c.ParentHandle = parent
	r.logf("parent #%d -> #%d", child, parent)
	return nil
}

// Join merges objects into a new one and consumes the inputs.
func (r *Recorder) Join(handles []Handle) (Object, error) {
	if len(handles) == 0 {
		return Object{}, fmt.Errorf("join requires at least one object")
	}
	var names []string
	kind := KindMesh
	var location geometry.Vec3
	var rotation *float64
	for i, h := range handles {
		obj, err := r.live(h)
		if err != nil {
			return Object{}, err
		}
		if i == 0 {
			kind = obj.Kind
			location = obj.Location
			rotation = obj.RotationZDegrees
		}
		names = append(names, obj.Name)
		obj.Deleted = true
	}
	joined := r.create(kind, strings.Join(names, "+"))
	joined.Location = location
	joined.RotationZDegrees = rotation
	r.logf("join %d objects -> #%d", len(handles), joined.Handle)
	return joined.Object, nil
}

// ConvertToMesh flips an object's kind to mesh.
func (r *Recorder) ConvertToMesh(h Handle) error {
	obj, err := r.live(h)
	if err != nil {
		return err
	}
	obj.Kind = KindMesh
	r.logf("convert #%d to mesh", h)
	return nil
}

// AddThickness records a solidify/bevel application.
func (r *Recorder) AddThickness(h Handle, depth, bevelWidth float64) error {
	obj, err := r.live(h)
	if err != nil {
		return err
	}
	obj.ThicknessDepth = depth
	obj.BevelWidth = bevelWidth
	r.logf("thicken #%d depth %.4g bevel %.4g", h, depth, bevelWidth)
	return nil
}

// BooleanSubtract records a boolean difference against the target.
func (r *Recorder) BooleanSubtract(target, cutter Handle) error {
	t, err := r.live(target)
	if err != nil {
		return err
	}
	if _, err := r.live(cutter); err != nil {
		return err
	}
	t.CutBy = append(t.CutBy, cutter)
	r.logf("subtract #%d from #%d", cutter, target)
	return nil
}

// Delete marks an object deleted.
func (r *Recorder) Delete(h Handle) error {
	obj, err := r.live(h)
	if err != nil {
		return err
	}
	obj.Deleted = true
	r.logf("delete #%d", h)
	return nil
}
