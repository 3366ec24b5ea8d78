package world

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/collision/body"
	"github.com/milk9111/collision/broadphase"
	"github.com/milk9111/collision/geom"
)

// QueryAABB returns every body with a shape whose box overlaps bb, each
// body once.
func (w *World) QueryAABB(bb cp.BB) []*body.Body {
	if w == nil {
		return nil
	}
	var out []*body.Body
	seen := make(map[body.ID]bool)
	w.bp.Query(bb, func(id broadphase.ProxyID, userData any) bool {
		p, ok := userData.(*body.ProxyShape)
		if !ok || seen[p.Body()] {
			return true
		}
		if tight, ok := w.bp.AABB(id); !ok || !tight.Intersects(bb) {
			return true
		}
		if b := w.bodies.get(p.Body()); b != nil {
			seen[p.Body()] = true
			out = append(out, b)
		}
		return true
	})
	return out
}

// QueryPoint returns the bodies containing the world point.
func (w *World) QueryPoint(pt cp.Vector) []*body.Body {
	var out []*body.Body
	for _, b := range w.QueryAABB(cp.NewBBForExtents(pt, 0, 0)) {
		if b.ContainsPoint(pt) {
			out = append(out, b)
		}
	}
	return out
}

// Raycast returns the closest hit among bodies with collision enabled.
func (w *World) Raycast(ray geom.Ray, maxDistance float64) (body.RaycastInfo, bool) {
	if w == nil {
		return body.RaycastInfo{}, false
	}
	end, ok := ray.Endpoint(maxDistance)
	if !ok {
		return body.RaycastInfo{}, false
	}

	var best body.RaycastInfo
	found := false
	tested := make(map[body.ID]bool)
	w.bp.SegmentQuery(ray.Origin, end, func(_ broadphase.ProxyID, userData any) bool {
		p, ok := userData.(*body.ProxyShape)
		if !ok || tested[p.Body()] {
			return true
		}
		tested[p.Body()] = true
		b := w.bodies.get(p.Body())
		if b == nil || !b.IsCollisionEnabled() {
			return true
		}
		info, hit := b.Raycast(ray, maxDistance)
		if hit && (!found || info.Fraction < best.Fraction) {
			best = info
			found = true
		}
		return true
	})
	return best, found
}
