package placer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.True(t, opts.UsePlacement)
	assert.Equal(t, 0.001, opts.PlacementScale)
	assert.False(t, opts.CreatePins)
	assert.Equal(t, 0.05, opts.PinSize)
	assert.Equal(t, 1.0, opts.ZStep)
	assert.Equal(t, 0.0005, opts.MinZStep)
	assert.False(t, opts.ZStepInTargetUnits)
	assert.False(t, opts.PerformBooleanCut)
}

func TestStepValue(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want float64
	}{
		{
			name: "archive units scaled by placement scale",
			opts: Options{ZStep: 2.0, PlacementScale: 0.5},
			want: 1.0,
		},
		{
			name: "target units bypass the scale",
			opts: Options{ZStep: 2.0, PlacementScale: 0.5, ZStepInTargetUnits: true},
			want: 2.0,
		},
		{
			name: "clamped up to the minimum",
			opts: Options{ZStep: 1.0, PlacementScale: 0.001, MinZStep: 0.01},
			want: 0.01,
		},
		{
			name: "above the minimum is untouched",
			opts: Options{ZStep: 1.0, PlacementScale: 0.1, MinZStep: 0.01},
			want: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.opts.StepValue(), 1e-12)
		})
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
placement_scale: 0.01
create_pins: true
z_step_in_target_units: true
`), 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)

	assert.Equal(t, 0.01, opts.PlacementScale)
	assert.True(t, opts.CreatePins)
	assert.True(t, opts.ZStepInTargetUnits)

	// Unnamed options keep their defaults.
	assert.True(t, opts.UsePlacement)
	assert.Equal(t, 0.05, opts.PinSize)
	assert.Equal(t, 0.0005, opts.MinZStep)
}

func TestLoadOptionsErrors(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read options file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("placement_scale: [not, a, number]"), 0o644))

	_, err = LoadOptions(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse options file")
}
