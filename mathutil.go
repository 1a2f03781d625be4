package sectorfx

import (
	"math"

	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

func clamp[T number](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs[T constraints.Signed | constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func sign[T constraints.Signed | constraints.Float](v T) T {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// degreesToRadians
func degreesToRadians[T number](n T) float64 {
	return float64(n) * (math.Pi / 180)
}

const halfScale = 1 << 15

// bamToRadians converts a binary angle as stored in map lumps.
func bamToRadians[T constraints.Signed](n T) float64 {
	return ((float64(n) + halfScale) * math.Pi) / halfScale
}

// fixedToFloat converts a 16.16 fixed point value, as used by the friction
// tables, to float.
func fixedToFloat(v int) float64 {
	return float64(v) / 65536
}

// approxDistance is the classic octagonal distance approximation. It keeps
// quake falloff identical to the one players are used to.
func approxDistance(dx, dy float64) float64 {
	dx, dy = abs(dx), abs(dy)
	if dx < dy {
		return dx + dy - dx/2
	}
	return dx + dy - dy/2
}

// easeInCubic interpolates from start to end along t^3.
func easeInCubic(t, start, end float64) float64 {
	t = clamp(t, 0, 1)
	return start + (end-start)*t*t*t
}
