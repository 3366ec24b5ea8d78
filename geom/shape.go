package geom

import (
	"errors"

	"github.com/jakecoffman/cp"
)

var ErrInvalidShape = errors.New("geom: invalid shape")

// Kind identifies a concrete shape type.
type Kind uint8

const (
	KindCircle Kind = iota + 1
	KindBox
	KindPolygon
	KindSegment
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindBox:
		return "box"
	case KindPolygon:
		return "polygon"
	case KindSegment:
		return "segment"
	default:
		return "unknown"
	}
}

// Shape is immutable collision geometry expressed in its own local space.
//
// Implementations must keep every field exported so the catalog can take a
// deep copy of caller-provided values.
type Shape interface {
	Kind() Kind
	// Validate reports whether the geometry can be used for collision.
	Validate() error
	// ComputeAABB returns the world box of the shape placed by xf.
	ComputeAABB(xf Transform) cp.BB
	// ContainsPoint tests a point given in shape space.
	ContainsPoint(p cp.Vector) bool
	// SegmentQuery intersects the segment a->b, given in shape space.
	SegmentQuery(a, b cp.Vector) (SegmentHit, bool)
	// Equal reports geometric equality, used for catalog deduplication.
	Equal(other Shape) bool
}

// SegmentHit describes where a segment first enters a shape. Alpha is the
// fraction along the segment in [0, 1].
type SegmentHit struct {
	Point  cp.Vector
	Normal cp.Vector
	Alpha  float64
}
