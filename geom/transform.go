package geom

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/collision/common"
)

// Transform is a rigid 2D transform. Rotation is stored as the unit vector
// (cos, sin) and is applied before the translation.
type Transform struct {
	Position cp.Vector
	Rotation cp.Vector
}

// Identity returns the transform that leaves every point in place.
func Identity() Transform {
	return Transform{Rotation: cp.Vector{X: 1}}
}

// NewTransform builds a transform from a position and an angle in radians.
func NewTransform(position cp.Vector, angle float64) Transform {
	return Transform{Position: position, Rotation: cp.ForAngle(angle)}
}

// IsZero reports whether t is the zero value, which is not a valid rotation.
func (t Transform) IsZero() bool {
	return t == Transform{}
}

// OrIdentity returns t, or the identity when t is the zero value.
func (t Transform) OrIdentity() Transform {
	if t.IsZero() {
		return Identity()
	}
	return t
}

// Angle returns the rotation in radians.
func (t Transform) Angle() float64 {
	return math.Atan2(t.Rotation.Y, t.Rotation.X)
}

// Point maps a local point into the parent space.
func (t Transform) Point(p cp.Vector) cp.Vector {
	return t.Position.Add(p.Rotate(t.Rotation))
}

// Vect rotates a direction without translating it.
func (t Transform) Vect(v cp.Vector) cp.Vector {
	return v.Rotate(t.Rotation)
}

// InversePoint maps a parent-space point into local space.
func (t Transform) InversePoint(p cp.Vector) cp.Vector {
	return p.Sub(t.Position).Unrotate(t.Rotation)
}

// InverseVect maps a parent-space direction into local space.
func (t Transform) InverseVect(v cp.Vector) cp.Vector {
	return v.Unrotate(t.Rotation)
}

// Mul composes t with an inner transform: the result applies inner first.
func (t Transform) Mul(inner Transform) Transform {
	return Transform{
		Position: t.Point(inner.Position),
		Rotation: inner.Rotation.Rotate(t.Rotation),
	}
}

// Inverse returns the transform undoing t.
func (t Transform) Inverse() Transform {
	rot := cp.Vector{X: t.Rotation.X, Y: -t.Rotation.Y}
	return Transform{
		Position: t.Position.Neg().Rotate(rot),
		Rotation: rot,
	}
}

// Lerp blends two transforms. Positions are interpolated linearly and angles
// along the shortest arc.
func Lerp(a, b Transform, f float64) Transform {
	f = common.Clamp01(f)
	pos := common.LerpVector(a.Position, b.Position, f)
	angle := common.LerpAngle(a.Angle(), b.Angle(), f)
	return NewTransform(pos, angle)
}

// ApproxEqual compares two transforms with a tolerance.
func ApproxEqual(a, b Transform, eps float64) bool {
	return math.Abs(a.Position.X-b.Position.X) <= eps &&
		math.Abs(a.Position.Y-b.Position.Y) <= eps &&
		math.Abs(a.Rotation.X-b.Rotation.X) <= eps &&
		math.Abs(a.Rotation.Y-b.Rotation.Y) <= eps
}

func boundPoints(xf Transform, pts []cp.Vector) cp.BB {
	if len(pts) == 0 {
		return cp.BB{L: xf.Position.X, B: xf.Position.Y, R: xf.Position.X, T: xf.Position.Y}
	}
	first := xf.Point(pts[0])
	bb := cp.BB{L: first.X, B: first.Y, R: first.X, T: first.Y}
	for _, p := range pts[1:] {
		w := xf.Point(p)
		bb.L = math.Min(bb.L, w.X)
		bb.B = math.Min(bb.B, w.Y)
		bb.R = math.Max(bb.R, w.X)
		bb.T = math.Max(bb.T, w.Y)
	}
	return bb
}
