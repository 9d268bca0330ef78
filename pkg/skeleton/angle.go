// Package skeleton computes per-frame bone placements for the 2D puppet.
//
// A bone connects two joints and carries one sprite. Every frame the bone's
// rotation is derived from its two endpoint joints and its sprite is placed
// so that the declared pivot lands on the start joint.
package skeleton

import "math"

// BoneAngle returns the clockwise rotation of the bone from (x1, y1) to
// (x2, y2) in degrees, normalized to [0, 360).
//
// The convention is screen space (y grows downwards): 0° when the end joint
// is straight below the start joint, 180° when it is straight above.
// Degenerate cases are part of the contract and are kept as is:
//   - equal x: 180 if y1 > y2, else 0 (coincident points give 0)
//   - equal y (x differs): always 0, whichever side the end joint is on
func BoneAngle(x1, y1, x2, y2 float64) float64 {
	if x1 == x2 {
		if y1 > y2 {
			return 180
		}
		return 0
	}
	if y1 == y2 {
		return 0
	}

	dx := math.Abs(x1 - x2)
	dy := math.Abs(y1 - y2)
	angle := math.Atan(dx/dy) * 180 / math.Pi

	var result float64
	if x1 < x2 {
		if y1 > y2 {
			result = -(180 - angle)
		} else {
			result = -angle
		}
	} else {
		if y1 > y2 {
			result = 180 - angle
		} else {
			result = angle
		}
	}

	if result < 0 {
		result += 360
	}
	return result
}
