package geom

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// Circle is a disc of Radius centred on Offset.
type Circle struct {
	Radius float64
	Offset cp.Vector
}

func NewCircle(radius float64) *Circle {
	return &Circle{Radius: radius}
}

func (c *Circle) Kind() Kind {
	return KindCircle
}

func (c *Circle) Validate() error {
	if c == nil || c.Radius <= 0 || math.IsNaN(c.Radius) || math.IsInf(c.Radius, 0) {
		return fmt.Errorf("%w: circle radius must be positive", ErrInvalidShape)
	}
	return nil
}

func (c *Circle) ComputeAABB(xf Transform) cp.BB {
	return cp.NewBBForCircle(xf.Point(c.Offset), c.Radius)
}

func (c *Circle) ContainsPoint(p cp.Vector) bool {
	return p.Sub(c.Offset).LengthSq() <= c.Radius*c.Radius
}

// SegmentQuery solves the quadratic for the first crossing of the circle
// boundary. Segments starting inside the circle report no hit.
func (c *Circle) SegmentQuery(a, b cp.Vector) (SegmentHit, bool) {
	da := a.Sub(c.Offset)
	db := b.Sub(c.Offset)

	qa := da.Dot(da) - 2*da.Dot(db) + db.Dot(db)
	qb := da.Dot(db) - da.Dot(da)
	det := qb*qb - qa*(da.Dot(da)-c.Radius*c.Radius)
	if qa == 0 || det < 0 {
		return SegmentHit{}, false
	}

	t := (-qb - math.Sqrt(det)) / qa
	if t < 0 || t > 1 {
		return SegmentHit{}, false
	}

	n := da.Add(db.Sub(da).Mult(t)).Normalize()
	return SegmentHit{
		Point:  c.Offset.Add(n.Mult(c.Radius)),
		Normal: n,
		Alpha:  t,
	}, true
}

func (c *Circle) Equal(other Shape) bool {
	o, ok := other.(*Circle)
	if !ok || c == nil || o == nil {
		return false
	}
	return c.Radius == o.Radius && c.Offset == o.Offset
}
