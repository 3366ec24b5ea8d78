package geom

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/collision/common"
)

// Polygon is a convex polygon with counter-clockwise vertices.
type Polygon struct {
	Vertices []cp.Vector
}

func NewPolygon(vertices ...cp.Vector) *Polygon {
	verts := make([]cp.Vector, len(vertices))
	copy(verts, vertices)
	return &Polygon{Vertices: verts}
}

func (p *Polygon) Kind() Kind {
	return KindPolygon
}

func (p *Polygon) Validate() error {
	if p == nil || len(p.Vertices) < 3 {
		return fmt.Errorf("%w: polygon needs at least 3 vertices", ErrInvalidShape)
	}
	return validateConvex(p.Vertices)
}

func (p *Polygon) ComputeAABB(xf Transform) cp.BB {
	return boundPoints(xf, p.Vertices)
}

func (p *Polygon) ContainsPoint(pt cp.Vector) bool {
	return convexContains(p.Vertices, pt)
}

func (p *Polygon) SegmentQuery(a, b cp.Vector) (SegmentHit, bool) {
	return convexSegmentQuery(p.Vertices, a, b)
}

func (p *Polygon) Equal(other Shape) bool {
	o, ok := other.(*Polygon)
	if !ok || p == nil || o == nil || len(p.Vertices) != len(o.Vertices) {
		return false
	}
	for i := range p.Vertices {
		if p.Vertices[i] != o.Vertices[i] {
			return false
		}
	}
	return true
}

func validateConvex(verts []cp.Vector) error {
	n := len(verts)
	for i := 0; i < n; i++ {
		v0 := verts[i]
		v1 := verts[(i+1)%n]
		v2 := verts[(i+2)%n]
		if v1.Sub(v0).Cross(v2.Sub(v1)) <= common.Epsilon {
			return fmt.Errorf("%w: polygon must be convex and counter-clockwise", ErrInvalidShape)
		}
	}
	return nil
}

// outwardNormal is the unit normal of the edge v1->v2 of a CCW polygon.
func outwardNormal(v1, v2 cp.Vector) cp.Vector {
	e := v2.Sub(v1)
	return cp.Vector{X: e.Y, Y: -e.X}.Normalize()
}

func convexContains(verts []cp.Vector, pt cp.Vector) bool {
	n := len(verts)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		v1 := verts[i]
		v2 := verts[(i+1)%n]
		if v2.Sub(v1).Cross(pt.Sub(v1)) < 0 {
			return false
		}
	}
	return true
}

// convexSegmentQuery clips the segment against every edge plane and keeps
// the latest entering plane. No entering plane means a starts inside.
func convexSegmentQuery(verts []cp.Vector, a, b cp.Vector) (SegmentHit, bool) {
	n := len(verts)
	if n < 3 {
		return SegmentHit{}, false
	}

	d := b.Sub(a)
	lower, upper := 0.0, 1.0
	index := -1

	for i := 0; i < n; i++ {
		v1 := verts[i]
		normal := outwardNormal(v1, verts[(i+1)%n])

		numerator := normal.Dot(v1.Sub(a))
		denominator := normal.Dot(d)

		if denominator == 0 {
			if numerator < 0 {
				return SegmentHit{}, false
			}
			continue
		}

		if denominator < 0 && numerator < lower*denominator {
			lower = numerator / denominator
			index = i
		} else if denominator > 0 && numerator < upper*denominator {
			upper = numerator / denominator
		}

		if upper < lower {
			return SegmentHit{}, false
		}
	}

	if index < 0 {
		return SegmentHit{}, false
	}

	return SegmentHit{
		Point:  a.Add(d.Mult(lower)),
		Normal: outwardNormal(verts[index], verts[(index+1)%n]),
		Alpha:  lower,
	}, true
}
