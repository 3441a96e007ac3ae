package placer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fritzlab/fritz3d/pkg/fritzing/geometry"
	"github.com/fritzlab/fritz3d/pkg/fritzing/scene"
)

func TestNormalizeConvertAndThicken(t *testing.T) {
	host := scene.NewRecorder()
	curves, err := host.ImportVector("silk.svg")
	require.NoError(t, err)
	meshes, err := host.ImportModel("board.obj")
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.ConvertToMesh = true
	opts.ExtrusionDepth = 0.1
	opts.BevelDepth = 0.01

	engine := NewEngine(host, opts, nil)
	out := engine.Normalize(append(curves, meshes...))
	require.Len(t, out, 2)

	assert.Equal(t, scene.KindMesh, out[0].Kind, "curve should convert to mesh")
	assert.Equal(t, scene.KindMesh, out[1].Kind)

	converted, ok := host.Get(curves[0].Handle)
	require.True(t, ok)
	assert.Equal(t, scene.KindMesh, converted.Kind)
	assert.Equal(t, 0.1, converted.ThicknessDepth)
	assert.Equal(t, 0.01, converted.BevelWidth)

	// Mesh imports are untouched by the pass.
	untouched, ok := host.Get(meshes[0].Handle)
	require.True(t, ok)
	assert.Zero(t, untouched.ThicknessDepth)
}

func TestNormalizeThickenWithoutConvert(t *testing.T) {
	host := scene.NewRecorder()
	curves, err := host.ImportVector("silk.svg")
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.ExtrusionDepth = 0.2

	engine := NewEngine(host, opts, nil)
	out := engine.Normalize(curves)
	require.Len(t, out, 1)

	assert.Equal(t, scene.KindCurve, out[0].Kind)

	obj, ok := host.Get(curves[0].Handle)
	require.True(t, ok)
	assert.Equal(t, 0.2, obj.ThicknessDepth)
}

func TestNormalizeDisabledIsIdentity(t *testing.T) {
	host := scene.NewRecorder()
	curves, err := host.ImportVector("silk.svg")
	require.NoError(t, err)

	engine := NewEngine(host, DefaultOptions(), nil)
	out := engine.Normalize(curves)
	require.Len(t, out, 1)
	assert.Equal(t, scene.KindCurve, out[0].Kind)

	obj, ok := host.Get(curves[0].Handle)
	require.True(t, ok)
	assert.Zero(t, obj.ThicknessDepth)
}

// placeAt imports one base object and wraps it as an instance at the given Z.
func placeAt(t *testing.T, host *scene.Recorder, name string, z float64) PlacedInstance {
	t.Helper()
	objs, err := host.ImportModel(name)
	require.NoError(t, err)
	return PlacedInstance{
		SourceKey: name,
		Object:    objs[0],
		Location:  geometry.Vec3{Z: z},
	}
}

func TestBooleanCutOrdering(t *testing.T) {
	host := scene.NewRecorder()

	// Deliberately out of height order; the pass must sort by Z itself.
	top := placeAt(t, host, "top.obj", 2)
	bottom := placeAt(t, host, "bottom.obj", 0)
	middle := placeAt(t, host, "middle.obj", 1)

	engine := NewEngine(host, DefaultOptions(), nil)
	engine.BooleanCut([]PlacedInstance{top, bottom, middle})

	bottomObj, _ := host.Get(bottom.Object.Handle)
	assert.Empty(t, bottomObj.CutBy, "lowest instance is never cut")

	middleObj, _ := host.Get(middle.Object.Handle)
	require.Len(t, middleObj.CutBy, 1, "middle is cut once by a copy of bottom")

	topObj, _ := host.Get(top.Object.Handle)
	require.Len(t, topObj.CutBy, 1, "top is cut once by the merged lower cutter")

	// A single lower instance does not get joined; two do.
	middleCutter, ok := host.Get(middleObj.CutBy[0])
	require.True(t, ok)
	assert.Equal(t, "bottom.obj.copy", middleCutter.Name)
	assert.True(t, middleCutter.Deleted, "cutter is discarded after use")

	topCutter, ok := host.Get(topObj.CutBy[0])
	require.True(t, ok)
	assert.Contains(t, topCutter.Name, "+", "merged cutter joins the lower copies")
	assert.True(t, topCutter.Deleted)
}

func TestBooleanCutIgnoresNonMeshes(t *testing.T) {
	host := scene.NewRecorder()

	mesh := placeAt(t, host, "board.obj", 1)

	curveObjs, err := host.ImportVector("silk.svg")
	require.NoError(t, err)
	curve := PlacedInstance{
		SourceKey: "silk.svg",
		Object:    curveObjs[0],
		Location:  geometry.Vec3{Z: 0},
	}

	engine := NewEngine(host, DefaultOptions(), nil)
	engine.BooleanCut([]PlacedInstance{curve, mesh})

	meshObj, _ := host.Get(mesh.Object.Handle)
	assert.Empty(t, meshObj.CutBy, "a curve below must not act as a cutter")

	curveObj, _ := host.Get(curve.Object.Handle)
	assert.Empty(t, curveObj.CutBy)
}

// flakyHost fails BooleanSubtract for one target handle.
type flakyHost struct {
	*scene.Recorder
	failTarget scene.Handle
}

func (h *flakyHost) BooleanSubtract(target, cutter scene.Handle) error {
	if target == h.failTarget {
		return fmt.Errorf("boolean solver rejected the operands")
	}
	return h.Recorder.BooleanSubtract(target, cutter)
}

func TestBooleanCutContinuesAfterFailure(t *testing.T) {
	rec := scene.NewRecorder()

	bottom := placeAt(t, rec, "bottom.obj", 0)
	middle := placeAt(t, rec, "middle.obj", 1)
	top := placeAt(t, rec, "top.obj", 2)

	host := &flakyHost{Recorder: rec, failTarget: middle.Object.Handle}

	engine := NewEngine(host, DefaultOptions(), nil)
	engine.BooleanCut([]PlacedInstance{bottom, middle, top})

	middleObj, _ := rec.Get(middle.Object.Handle)
	assert.Empty(t, middleObj.CutBy, "failed subtraction leaves the target untouched")

	topObj, _ := rec.Get(top.Object.Handle)
	assert.Len(t, topObj.CutBy, 1, "the pass continues past a failed instance")
}
