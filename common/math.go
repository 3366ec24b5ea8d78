package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// LerpVector blends two points component-wise.
func LerpVector(a, b cp.Vector, t float64) cp.Vector {
	return cp.Vector{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// LerpAngle interpolates along the shortest arc between two angles in radians.
func LerpAngle(a, b, t float64) float64 {
	delta := math.Remainder(b-a, 2*math.Pi)
	return a + delta*t
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
