package catalog

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/collision/geom"
)

func TestInternDeduplicates(t *testing.T) {
	c := New()

	a, err := c.InternCopy(geom.NewCircle(1))
	if err != nil {
		t.Fatalf("intern failed: %v", err)
	}
	b, err := c.InternCopy(geom.NewCircle(1))
	if err != nil {
		t.Fatalf("intern failed: %v", err)
	}
	if a != b {
		t.Fatalf("equal geometry should share one entry")
	}
	if a.Refs() != 2 {
		t.Fatalf("expected 2 refs, got %d", a.Refs())
	}

	box, err := c.InternCopy(geom.NewBox(2, 2))
	if err != nil {
		t.Fatalf("intern failed: %v", err)
	}
	if box == a {
		t.Fatalf("different geometry must get its own entry")
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if c.Refs() != 3 {
		t.Fatalf("expected 3 refs total, got %d", c.Refs())
	}
}

func TestInternCopiesCallerGeometry(t *testing.T) {
	c := New()
	poly := geom.NewPolygon(cp.Vector{}, cp.Vector{X: 1}, cp.Vector{Y: 1})

	e, err := c.InternCopy(poly)
	if err != nil {
		t.Fatalf("intern failed: %v", err)
	}
	if e.Shape() == geom.Shape(poly) {
		t.Fatalf("catalog must not retain the caller's shape")
	}

	poly.Vertices[1] = cp.Vector{X: 50}
	stored := e.Shape().(*geom.Polygon)
	if stored.Vertices[1] != (cp.Vector{X: 1}) {
		t.Fatalf("mutating the caller's shape changed the catalog copy: %v", stored.Vertices)
	}
}

func TestReleaseDropsLastReference(t *testing.T) {
	c := New()
	e1, _ := c.InternCopy(geom.NewCircle(2))
	e2, _ := c.InternCopy(geom.NewCircle(2))

	if err := c.Release(e1); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if c.Len() != 1 || e2.Refs() != 1 {
		t.Fatalf("entry should survive while referenced: len=%d refs=%d", c.Len(), e2.Refs())
	}
	if err := c.Release(e2); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("entry should be gone after its last release, len=%d", c.Len())
	}
	if err := c.Release(e2); !errors.Is(err, ErrNotInterned) {
		t.Fatalf("expected ErrNotInterned on over-release, got %v", err)
	}

	again, _ := c.InternCopy(geom.NewCircle(2))
	if again == e1 {
		t.Fatalf("a released entry must not be handed out again")
	}
}

func TestInternRejects(t *testing.T) {
	c := New()
	var nilCircle *geom.Circle

	tests := []struct {
		name  string
		shape geom.Shape
		want  error
	}{
		{"nil_interface", nil, ErrNilShape},
		{"nil_pointer", nilCircle, ErrNilShape},
		{"invalid", geom.NewCircle(-1), geom.ErrInvalidShape},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.InternCopy(tc.shape); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if c.Len() != 0 {
		t.Fatalf("rejected shapes must not be stored")
	}
}

func TestReleaseForeignEntry(t *testing.T) {
	a := New()
	b := New()
	e, _ := a.InternCopy(geom.NewBox(1, 1))
	if err := b.Release(e); !errors.Is(err, ErrNotInterned) {
		t.Fatalf("expected ErrNotInterned for an entry from another catalog, got %v", err)
	}
	if e.Refs() != 1 {
		t.Fatalf("foreign release must not touch refs, got %d", e.Refs())
	}
}
