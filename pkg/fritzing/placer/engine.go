package placer

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/fritzlab/fritz3d/pkg/fritzing/fzp"
	"github.com/fritzlab/fritz3d/pkg/fritzing/geometry"
	"github.com/fritzlab/fritz3d/pkg/fritzing/scene"
)

// GeometryMap maps a lowercased basename key to the base geometry the host
// imported for that file. One file can yield several objects.
type GeometryMap map[string][]scene.Object

// Add registers imported objects under the lowercased basename of the
// original file reference.
func (m GeometryMap) Add(fileRef string, objects []scene.Object) {
	key := BasenameKey(fileRef)
	m[key] = append(m[key], objects...)
}

// BasenameKey computes the join key for a file reference: the lowercased
// basename, so descriptor paths and archive entry paths match regardless of
// directory layout or case.
func BasenameKey(fileRef string) string {
	return strings.ToLower(filepath.Base(fileRef))
}

// PlacedInstance is one duplicated, transformed copy of base geometry. It is
// kept only long enough to sequence the post-processing passes.
type PlacedInstance struct {
	SourceKey        string
	Object           scene.Object
	Location         geometry.Vec3
	RotationZDegrees *float64
	PinLocations     []geometry.Vec3 // Target units, relative to the instance
}

// Engine places descriptor modules against imported base geometry.
type Engine struct {
	host scene.Host
	opts Options
	log  *zap.Logger
}

// NewEngine creates a placement engine. A nil logger is replaced with a nop
// logger so the engine can be embedded quietly.
func NewEngine(host scene.Host, opts Options, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{host: host, opts: opts, log: log}
}

// Place runs the placement pass for one descriptor. Modules are indexed by
// their position among all modules in the descriptor, including ones that
// are later skipped, so Z offsets stay stable when individual modules fail
// to resolve. Returned instances are in module/document order.
func (e *Engine) Place(doc *fzp.Document, models, svgs GeometryMap) []PlacedInstance {
	step := e.opts.StepValue()
	scale := e.opts.PlacementScale

	var placed []PlacedInstance

	for idx, mod := range doc.Modules() {
		if mod.Placement == nil {
			e.log.Debug("skipping module without resolvable transform",
				zap.String("module", mod.ID), zap.Int("index", idx))
			continue
		}

		loc := geometry.Vec3{
			X: mod.Placement.Translate.X * scale,
			Y: mod.Placement.Translate.Y * scale,
			Z: mod.Placement.Z*scale + float64(idx)*step,
		}

		if mod.FileRef == "" {
			e.log.Debug("skipping module without linked geometry",
				zap.String("module", mod.ID), zap.Int("index", idx))
			continue
		}

		key := BasenameKey(mod.FileRef)
		bases, ok := models[key]
		if !ok {
			bases, ok = svgs[key]
		}
		if !ok || len(bases) == 0 {
			// Common for schematic/PCB-only views; silent by design.
			e.log.Debug("no geometry matches module file reference",
				zap.String("module", mod.ID), zap.String("key", key))
			continue
		}

		instances := e.placeModule(mod, key, loc, bases, step)
		placed = append(placed, instances...)
	}

	return placed
}

// placeModule duplicates each base object for one module, applies the world
// transform with the per-duplicate Z offset, optionally joins the duplicates,
// and spawns pin markers on whatever survives. Pins always attach after any
// merge so they never reference pre-merge objects.
func (e *Engine) placeModule(mod fzp.Module, key string, loc geometry.Vec3, bases []scene.Object, step float64) []PlacedInstance {
	var produced []PlacedInstance

	for baseIdx, base := range bases {
		dup, err := e.host.Duplicate(base.Handle)
		if err != nil {
			e.log.Warn("failed to duplicate base geometry",
				zap.String("module", mod.ID), zap.Error(err))
			continue
		}

		instLoc := loc
		instLoc.Z += float64(baseIdx) * step

		if err := e.host.SetTransform(dup.Handle, instLoc, mod.Placement.RotateDegrees); err != nil {
			e.log.Warn("failed to place instance",
				zap.String("module", mod.ID), zap.Error(err))
			continue
		}

		produced = append(produced, PlacedInstance{
			SourceKey:        key,
			Object:           dup,
			Location:         instLoc,
			RotationZDegrees: mod.Placement.RotateDegrees,
		})
	}

	if e.opts.JoinMeshes && len(produced) > 1 {
		handles := make([]scene.Handle, len(produced))
		for i, inst := range produced {
			handles[i] = inst.Object.Handle
		}
		joined, err := e.host.Join(handles)
		if err != nil {
			e.log.Warn("failed to join module instances",
				zap.String("module", mod.ID), zap.Error(err))
		} else {
			merged := produced[0]
			merged.Object = joined
			produced = []PlacedInstance{merged}
		}
	}

	if e.opts.CreatePins {
		for i := range produced {
			produced[i].PinLocations = e.createPins(mod, &produced[i])
		}
	}

	return produced
}

// createPins spawns one marker per resolved pin, parented to the instance.
// Pin positions are scaled by the placement scale; a pin's own rotation is
// applied to its marker when present.
func (e *Engine) createPins(mod fzp.Module, inst *PlacedInstance) []geometry.Vec3 {
	scale := e.opts.PlacementScale

	var locations []geometry.Vec3
	for _, pin := range mod.Pins {
		pinLoc := geometry.Vec3{
			X: pin.Position.X * scale,
			Y: pin.Position.Y * scale,
			Z: pin.Position.Z * scale,
		}

		marker, err := e.host.CreateMarker(pinLoc, e.opts.PinSize, e.opts.PinAsMesh)
		if err != nil {
			e.log.Warn("failed to create pin marker",
				zap.String("module", mod.ID), zap.String("pin", pin.ID), zap.Error(err))
			continue
		}

		if pin.RotationDegrees != nil {
			if err := e.host.SetTransform(marker.Handle, pinLoc, pin.RotationDegrees); err != nil {
				e.log.Warn("failed to rotate pin marker",
					zap.String("pin", pin.ID), zap.Error(err))
			}
		}

		if err := e.host.Parent(marker.Handle, inst.Object.Handle); err != nil {
			e.log.Warn("failed to parent pin marker",
				zap.String("pin", pin.ID), zap.Error(err))
		}

		locations = append(locations, pinLoc)
	}

	return locations
}
