package geom

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// Segment is a thin edge from A to B. It has no interior, so
// ContainsPoint is always false.
type Segment struct {
	A cp.Vector
	B cp.Vector
}

func NewSegment(a, b cp.Vector) *Segment {
	return &Segment{A: a, B: b}
}

func (s *Segment) Kind() Kind {
	return KindSegment
}

func (s *Segment) Validate() error {
	if s == nil || s.A == s.B {
		return fmt.Errorf("%w: segment endpoints must differ", ErrInvalidShape)
	}
	return nil
}

func (s *Segment) ComputeAABB(xf Transform) cp.BB {
	return boundPoints(xf, []cp.Vector{s.A, s.B})
}

func (s *Segment) ContainsPoint(cp.Vector) bool {
	return false
}

func (s *Segment) SegmentQuery(a, b cp.Vector) (SegmentHit, bool) {
	d := b.Sub(a)
	e := s.B.Sub(s.A)
	normal := cp.Vector{X: e.Y, Y: -e.X}.Normalize()

	numerator := normal.Dot(s.A.Sub(a))
	denominator := normal.Dot(d)
	if denominator == 0 {
		return SegmentHit{}, false
	}

	t := numerator / denominator
	if t < 0 || t > 1 {
		return SegmentHit{}, false
	}

	q := a.Add(d.Mult(t))
	ee := e.Dot(e)
	if ee == 0 {
		return SegmentHit{}, false
	}
	u := q.Sub(s.A).Dot(e) / ee
	if u < 0 || u > 1 {
		return SegmentHit{}, false
	}

	// face the normal against the incoming segment
	if numerator > 0 {
		normal = normal.Neg()
	}
	return SegmentHit{Point: q, Normal: normal, Alpha: t}, true
}

func (s *Segment) Equal(other Shape) bool {
	o, ok := other.(*Segment)
	if !ok || s == nil || o == nil {
		return false
	}
	return s.A == o.A && s.B == o.B
}
