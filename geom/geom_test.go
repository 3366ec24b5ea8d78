package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func nearVec(a, b cp.Vector) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

func nearBB(a, b cp.BB) bool {
	return near(a.L, b.L) && near(a.B, b.B) && near(a.R, b.R) && near(a.T, b.T)
}

func TestTransformCompose(t *testing.T) {
	body := NewTransform(cp.Vector{X: 10, Y: 0}, math.Pi/2)
	local := NewTransform(cp.Vector{X: 1, Y: 0}, 0)

	world := body.Mul(local)
	if !nearVec(world.Position, cp.Vector{X: 10, Y: 1}) {
		t.Fatalf("expected composed position (10,1), got %v", world.Position)
	}
	if !near(world.Angle(), math.Pi/2) {
		t.Fatalf("expected composed angle pi/2, got %v", world.Angle())
	}

	p := cp.Vector{X: 3, Y: -2}
	back := world.Inverse().Point(world.Point(p))
	if !nearVec(back, p) {
		t.Fatalf("inverse did not undo transform: %v != %v", back, p)
	}
	if !nearVec(world.InversePoint(world.Point(p)), p) {
		t.Fatalf("InversePoint did not undo Point")
	}
}

func TestTransformZeroIsIdentity(t *testing.T) {
	var zero Transform
	if !zero.IsZero() {
		t.Fatalf("zero transform should report IsZero")
	}
	if zero.OrIdentity() != Identity() {
		t.Fatalf("OrIdentity on zero should return Identity")
	}
	moved := NewTransform(cp.Vector{X: 1}, 0)
	if moved.OrIdentity() != moved {
		t.Fatalf("OrIdentity should keep a valid transform")
	}
}

func TestTransformLerp(t *testing.T) {
	a := NewTransform(cp.Vector{}, 0)
	b := NewTransform(cp.Vector{X: 4, Y: 2}, math.Pi/2)

	mid := Lerp(a, b, 0.5)
	if !nearVec(mid.Position, cp.Vector{X: 2, Y: 1}) {
		t.Fatalf("expected midpoint (2,1), got %v", mid.Position)
	}
	if !near(mid.Angle(), math.Pi/4) {
		t.Fatalf("expected angle pi/4, got %v", mid.Angle())
	}
	if !ApproxEqual(Lerp(a, b, 2), b, eps) {
		t.Fatalf("factor above 1 should clamp to b")
	}
}

func TestShapeAABB(t *testing.T) {
	rot := NewTransform(cp.Vector{X: 5, Y: 5}, math.Pi/2)
	cases := []struct {
		name  string
		shape Shape
		xf    Transform
		want  cp.BB
	}{
		{"circle_identity", NewCircle(1), Identity(), cp.BB{L: -1, B: -1, R: 1, T: 1}},
		{"circle_offset", &Circle{Radius: 2, Offset: cp.Vector{X: 1}}, rot, cp.BB{L: 3, B: 4, R: 7, T: 8}},
		{"box_rotated", NewBox(4, 2), rot, cp.BB{L: 4, B: 3, R: 6, T: 7}},
		{"polygon", NewPolygon(cp.Vector{}, cp.Vector{X: 2}, cp.Vector{Y: 3}), Identity(), cp.BB{L: 0, B: 0, R: 2, T: 3}},
		{"segment", NewSegment(cp.Vector{X: -1}, cp.Vector{X: 1}), rot, cp.BB{L: 5, B: 4, R: 5, T: 6}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.shape.ComputeAABB(c.xf)
			if !nearBB(got, c.want) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestShapeContainsPoint(t *testing.T) {
	tri := NewPolygon(cp.Vector{}, cp.Vector{X: 2}, cp.Vector{Y: 2})
	cases := []struct {
		name  string
		shape Shape
		p     cp.Vector
		want  bool
	}{
		{"circle_inside", NewCircle(1), cp.Vector{X: 0.5}, true},
		{"circle_edge", NewCircle(1), cp.Vector{X: 1}, true},
		{"circle_outside", NewCircle(1), cp.Vector{X: 1.1}, false},
		{"box_inside", NewBox(2, 2), cp.Vector{X: 0.9, Y: -0.9}, true},
		{"box_outside", NewBox(2, 2), cp.Vector{X: 1.5}, false},
		{"triangle_inside", tri, cp.Vector{X: 0.5, Y: 0.5}, true},
		{"triangle_outside", tri, cp.Vector{X: 1.5, Y: 1.5}, false},
		{"segment_never", NewSegment(cp.Vector{}, cp.Vector{X: 1}), cp.Vector{X: 0.5}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.shape.ContainsPoint(c.p); got != c.want {
				t.Fatalf("ContainsPoint(%v) = %v, want %v", c.p, got, c.want)
			}
		})
	}
}

func TestShapeSegmentQuery(t *testing.T) {
	cases := []struct {
		name   string
		shape  Shape
		a, b   cp.Vector
		hit    bool
		alpha  float64
		normal cp.Vector
	}{
		{"circle_front", NewCircle(1), cp.Vector{X: -3}, cp.Vector{X: 3}, true, 2.0 / 6.0, cp.Vector{X: -1}},
		{"circle_miss", NewCircle(1), cp.Vector{X: -3, Y: 2}, cp.Vector{X: 3, Y: 2}, false, 0, cp.Vector{}},
		{"circle_short", NewCircle(1), cp.Vector{X: -3}, cp.Vector{X: -2}, false, 0, cp.Vector{}},
		{"circle_from_inside", NewCircle(1), cp.Vector{}, cp.Vector{X: 3}, false, 0, cp.Vector{}},
		{"box_front", NewBox(2, 2), cp.Vector{Y: 5}, cp.Vector{Y: -5}, true, 0.4, cp.Vector{Y: 1}},
		{"box_miss", NewBox(2, 2), cp.Vector{X: 2, Y: 5}, cp.Vector{X: 2, Y: -5}, false, 0, cp.Vector{}},
		{"segment_cross", NewSegment(cp.Vector{X: -1}, cp.Vector{X: 1}), cp.Vector{Y: 2}, cp.Vector{Y: -2}, true, 0.5, cp.Vector{Y: 1}},
		{"segment_parallel", NewSegment(cp.Vector{X: -1}, cp.Vector{X: 1}), cp.Vector{Y: 1}, cp.Vector{X: 1, Y: 1}, false, 0, cp.Vector{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hit, ok := c.shape.SegmentQuery(c.a, c.b)
			if ok != c.hit {
				t.Fatalf("hit = %v, want %v", ok, c.hit)
			}
			if !ok {
				return
			}
			if !near(hit.Alpha, c.alpha) {
				t.Fatalf("alpha = %v, want %v", hit.Alpha, c.alpha)
			}
			if !nearVec(hit.Normal, c.normal) {
				t.Fatalf("normal = %v, want %v", hit.Normal, c.normal)
			}
		})
	}
}

func TestShapeValidate(t *testing.T) {
	cases := []struct {
		name  string
		shape Shape
		ok    bool
	}{
		{"circle", NewCircle(1), true},
		{"circle_zero", NewCircle(0), false},
		{"box_flat", NewBox(1, 0), false},
		{"polygon_cw", NewPolygon(cp.Vector{}, cp.Vector{Y: 1}, cp.Vector{X: 1}), false},
		{"polygon_two", NewPolygon(cp.Vector{}, cp.Vector{X: 1}), false},
		{"segment_point", NewSegment(cp.Vector{X: 1}, cp.Vector{X: 1}), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.shape.Validate()
			if c.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.ok && !errors.Is(err, ErrInvalidShape) {
				t.Fatalf("expected ErrInvalidShape, got %v", err)
			}
		})
	}
}

func TestShapeEqual(t *testing.T) {
	if !NewCircle(1).Equal(NewCircle(1)) {
		t.Fatalf("equal circles should compare equal")
	}
	if NewCircle(1).Equal(NewBox(2, 2)) {
		t.Fatalf("different kinds should not compare equal")
	}
	a := NewPolygon(cp.Vector{}, cp.Vector{X: 1}, cp.Vector{Y: 1})
	b := NewPolygon(cp.Vector{}, cp.Vector{X: 1}, cp.Vector{Y: 2})
	if a.Equal(b) {
		t.Fatalf("polygons with different vertices should differ")
	}
}

func TestRayEndpoint(t *testing.T) {
	r := Ray{Origin: cp.Vector{X: 1}, Direction: cp.Vector{Y: 10}}
	end, ok := r.Endpoint(2)
	if !ok || !nearVec(end, cp.Vector{X: 1, Y: 2}) {
		t.Fatalf("expected (1,2), got %v ok=%v", end, ok)
	}
	if _, ok := (Ray{}).Endpoint(1); ok {
		t.Fatalf("zero direction should be degenerate")
	}
}
