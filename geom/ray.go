package geom

import "github.com/jakecoffman/cp"

// Ray starts at Origin and travels along Direction. Direction does not need
// to be normalized; a zero direction never hits anything.
type Ray struct {
	Origin    cp.Vector
	Direction cp.Vector
}

// Endpoint returns the point reached after travelling maxDistance along the
// ray, and false when the ray is degenerate.
func (r Ray) Endpoint(maxDistance float64) (cp.Vector, bool) {
	if maxDistance <= 0 || r.Direction.LengthSq() == 0 {
		return cp.Vector{}, false
	}
	return r.Origin.Add(r.Direction.Normalize().Mult(maxDistance)), true
}
