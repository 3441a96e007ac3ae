// Package geometry provides the 2D/3D primitives used by the Fritzing
// placement pipeline: position parsing, SVG-style transform strings, and the
// composed placement transform for one descriptor module.
package geometry

import (
	"strconv"
	"strings"
)

// Vec2 is a 2D coordinate.
type Vec2 struct {
	X float64
	Y float64
}

// Vec3 is a 3D coordinate.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// ParsePosition parses a comma-separated position string "x,y" or "x,y,z"
// with optional whitespace around each component. Z defaults to 0 for
// 2-component input. Returns false for empty input, non-numeric components,
// or any component count other than 2 or 3.
func ParsePosition(s string) (Vec3, bool) {
	if s == "" {
		return Vec3{}, false
	}

	var nums []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return Vec3{}, false
		}
		nums = append(nums, f)
	}

	switch len(nums) {
	case 2:
		return Vec3{X: nums[0], Y: nums[1]}, true
	case 3:
		return Vec3{X: nums[0], Y: nums[1], Z: nums[2]}, true
	default:
		return Vec3{}, false
	}
}

// Transform2D is the resolved placement of one descriptor module: a
// translation in archive units, an optional rotation, and a Z coordinate
// (0 unless the descriptor supplies one).
type Transform2D struct {
	Translate     Vec2
	RotateDegrees *float64 // nil when the descriptor specifies no rotation
	Z             float64
}
