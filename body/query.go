package body

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/collision/geom"
)

// RaycastInfo describes where a ray hit a body.
type RaycastInfo struct {
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
	// Fraction of maxDistance travelled before the hit.
	Fraction float64
	Body     ID
	Proxy    *ProxyShape
}

// ContainsPoint reports whether any attached shape contains the world
// point.
func (b *Body) ContainsPoint(worldPoint cp.Vector) bool {
	if b == nil {
		return false
	}
	for i := len(b.proxies) - 1; i >= 0; i-- {
		if b.proxies[i].containsPoint(b.transform, worldPoint) {
			return true
		}
	}
	return false
}

// Raycast returns the closest hit of the ray against the body's shapes
// within maxDistance. On equal distances the newest proxy wins.
func (b *Body) Raycast(ray geom.Ray, maxDistance float64) (RaycastInfo, bool) {
	if b == nil || len(b.proxies) == 0 {
		return RaycastInfo{}, false
	}
	end, ok := ray.Endpoint(maxDistance)
	if !ok {
		return RaycastInfo{}, false
	}

	var best RaycastInfo
	found := false
	for i := len(b.proxies) - 1; i >= 0; i-- {
		p := b.proxies[i]
		hit, ok := p.raycast(b.transform, ray.Origin, end)
		if !ok || (found && hit.Alpha >= best.Fraction) {
			continue
		}
		best = RaycastInfo{
			Point:    hit.Point,
			Normal:   hit.Normal,
			Distance: hit.Alpha * maxDistance,
			Fraction: hit.Alpha,
			Body:     b.id,
			Proxy:    p,
		}
		found = true
	}
	return best, found
}

// TestRay reports whether the ray hits any shape within maxDistance. It
// stops at the first hit found.
func (b *Body) TestRay(ray geom.Ray, maxDistance float64) bool {
	if b == nil || len(b.proxies) == 0 {
		return false
	}
	end, ok := ray.Endpoint(maxDistance)
	if !ok {
		return false
	}
	for i := len(b.proxies) - 1; i >= 0; i-- {
		if _, ok := b.proxies[i].raycast(b.transform, ray.Origin, end); ok {
			return true
		}
	}
	return false
}
