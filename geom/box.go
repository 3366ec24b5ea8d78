package geom

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// Box is an axis-aligned rectangle in shape space, centred on the origin.
type Box struct {
	HalfWidth  float64
	HalfHeight float64
}

func NewBox(width, height float64) *Box {
	return &Box{HalfWidth: width / 2, HalfHeight: height / 2}
}

func (b *Box) Kind() Kind {
	return KindBox
}

func (b *Box) Validate() error {
	if b == nil || b.HalfWidth <= 0 || b.HalfHeight <= 0 {
		return fmt.Errorf("%w: box extents must be positive", ErrInvalidShape)
	}
	return nil
}

func (b *Box) corners() []cp.Vector {
	return []cp.Vector{
		{X: -b.HalfWidth, Y: -b.HalfHeight},
		{X: b.HalfWidth, Y: -b.HalfHeight},
		{X: b.HalfWidth, Y: b.HalfHeight},
		{X: -b.HalfWidth, Y: b.HalfHeight},
	}
}

func (b *Box) ComputeAABB(xf Transform) cp.BB {
	return boundPoints(xf, b.corners())
}

func (b *Box) ContainsPoint(p cp.Vector) bool {
	return math.Abs(p.X) <= b.HalfWidth && math.Abs(p.Y) <= b.HalfHeight
}

func (b *Box) SegmentQuery(a, c cp.Vector) (SegmentHit, bool) {
	return convexSegmentQuery(b.corners(), a, c)
}

func (b *Box) Equal(other Shape) bool {
	o, ok := other.(*Box)
	if !ok || b == nil || o == nil {
		return false
	}
	return b.HalfWidth == o.HalfWidth && b.HalfHeight == o.HalfHeight
}
