package placer

import (
	"sort"

	"go.uber.org/zap"

	"github.com/fritzlab/fritz3d/pkg/fritzing/scene"
)

// Normalize converts curve objects to polygonal form and applies the
// solidify/bevel thickening when configured. Non-curve objects pass through
// untouched; per-object failures are logged and skipped.
func (e *Engine) Normalize(objects []scene.Object) []scene.Object {
	out := make([]scene.Object, 0, len(objects))

	for _, obj := range objects {
		if obj.Kind != scene.KindCurve {
			out = append(out, obj)
			continue
		}

		if e.opts.ConvertToMesh {
			if err := e.host.ConvertToMesh(obj.Handle); err != nil {
				e.log.Warn("failed to convert curve to mesh",
					zap.String("object", obj.Name), zap.Error(err))
				out = append(out, obj)
				continue
			}
			obj.Kind = scene.KindMesh
		}

		if e.opts.ExtrusionDepth > 0 {
			if err := e.host.AddThickness(obj.Handle, e.opts.ExtrusionDepth, e.opts.BevelDepth); err != nil {
				e.log.Warn("failed to thicken object",
					zap.String("object", obj.Name), zap.Error(err))
			}
		}

		out = append(out, obj)
	}

	return out
}

// BooleanCut runs the overlap-avoidance pass over all placed instances from
// one import. Instances are sorted ascending by world Z so lower layers act
// as cutters for the layers above them. For each mesh instance after the
// first, copies of all lower mesh instances are merged into one temporary
// cutter body, subtracted from the instance, and discarded. A failed
// subtraction skips that one instance and the pass continues.
//
// Quadratic in the number of mesh instances; realistic parts have a handful
// of layers, not thousands.
func (e *Engine) BooleanCut(instances []PlacedInstance) {
	meshes := make([]PlacedInstance, 0, len(instances))
	for _, inst := range instances {
		if inst.Object.Kind == scene.KindMesh {
			meshes = append(meshes, inst)
		}
	}

	sort.SliceStable(meshes, func(i, j int) bool {
		return meshes[i].Location.Z < meshes[j].Location.Z
	})

	for i := 1; i < len(meshes); i++ {
		cutter, ok := e.buildCutter(meshes[:i])
		if !ok {
			continue
		}

		if err := e.host.BooleanSubtract(meshes[i].Object.Handle, cutter); err != nil {
			e.log.Warn("failed to subtract overlap cutter",
				zap.String("target", meshes[i].Object.Name), zap.Error(err))
		}

		if err := e.host.Delete(cutter); err != nil {
			e.log.Warn("failed to delete temporary cutter", zap.Error(err))
		}
	}
}

// buildCutter merges copies of the given instances into one temporary body.
func (e *Engine) buildCutter(lower []PlacedInstance) (scene.Handle, bool) {
	copies := make([]scene.Handle, 0, len(lower))
	for _, inst := range lower {
		dup, err := e.host.Duplicate(inst.Object.Handle)
		if err != nil {
			e.log.Warn("failed to copy cutter geometry",
				zap.String("object", inst.Object.Name), zap.Error(err))
			continue
		}
		copies = append(copies, dup.Handle)
	}

	if len(copies) == 0 {
		return scene.None, false
	}
	if len(copies) == 1 {
		return copies[0], true
	}

	joined, err := e.host.Join(copies)
	if err != nil {
		e.log.Warn("failed to merge cutter copies", zap.Error(err))
		for _, h := range copies {
			if delErr := e.host.Delete(h); delErr != nil {
				e.log.Debug("failed to delete cutter copy", zap.Error(delErr))
			}
		}
		return scene.None, false
	}

	return joined.Handle, true
}
