// Package placer contains the metadata-driven placement engine: it joins
// descriptor module records against host-imported base geometry, computes
// world transforms with deterministic Z-stacking, spawns pin markers, and
// runs the optional post-processing passes.
package placer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options is the configuration surface for one import operation.
type Options struct {
	// UsePlacement applies descriptor transforms. When false, imported
	// geometry is left where the host put it.
	UsePlacement bool `yaml:"use_placement"`

	// PlacementScale converts archive units to target units.
	PlacementScale float64 `yaml:"placement_scale"`

	// ConvertToMesh normalizes curve/vector imports into polygonal form
	// before thickening or boolean operations.
	ConvertToMesh bool `yaml:"convert_to_mesh"`

	// JoinMeshes merges the per-module duplicates into one object.
	JoinMeshes bool `yaml:"join_meshes"`

	// CreatePins spawns a marker per resolved pin, parented to the placed
	// instance.
	CreatePins bool    `yaml:"create_pins"`
	PinSize    float64 `yaml:"pin_size"`
	PinAsMesh  bool    `yaml:"pin_as_mesh"`

	// ExtrusionDepth and BevelDepth control the thickening pass applied to
	// converted vector geometry. Zero disables the pass.
	ExtrusionDepth float64 `yaml:"extrusion_depth"`
	BevelDepth     float64 `yaml:"bevel_depth"`

	// PerformBooleanCut runs the overlap-avoidance subtraction pass over all
	// placed mesh instances, ordered by height.
	PerformBooleanCut bool `yaml:"perform_boolean_cut"`

	// ZStep is the stacking cadence between instances. It is interpreted in
	// target units when ZStepInTargetUnits is set, otherwise in archive
	// units (and scaled by PlacementScale). MinZStep clamps the effective
	// step upward so stacking stays visible even for sub-epsilon archive
	// coordinates.
	ZStep              float64 `yaml:"z_step"`
	ZStepInTargetUnits bool    `yaml:"z_step_in_target_units"`
	MinZStep           float64 `yaml:"min_z_step"`
}

// DefaultOptions returns the defaults for an interactive import.
func DefaultOptions() Options {
	return Options{
		UsePlacement:   true,
		PlacementScale: 0.001,
		CreatePins:     false,
		PinSize:        0.05,
		ZStep:          1.0,
		MinZStep:       0.0005,
	}
}

// LoadOptions reads a YAML option profile, overlaying it onto the defaults
// so profiles only need to name the options they change.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read options file: %w", err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse options file: %w", err)
	}

	return opts, nil
}

// StepValue computes the effective Z step in target units.
func (o Options) StepValue() float64 {
	step := o.ZStep
	if !o.ZStepInTargetUnits {
		step *= o.PlacementScale
	}
	if step < o.MinZStep {
		step = o.MinZStep
	}
	return step
}
