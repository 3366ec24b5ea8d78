package body

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/collision/broadphase"
	"github.com/milk9111/collision/catalog"
	"github.com/milk9111/collision/geom"
	"github.com/milk9111/collision/pool"
)

// ProxyShape is one shape instance attached to a body. It pairs a catalog
// entry with the shape's placement in body space and the broad-phase proxy
// registered for it.
//
// Proxies live in a pooled arena and their memory is reused, so a stale
// *ProxyShape may alias a newer proxy of the same body. It must not be used
// after it has been detached. Hold the Handle and call Body.DetachHandle when
// a reference may outlive the attachment.
type ProxyShape struct {
	handle pool.Handle
	body   ID

	entry      *catalog.Entry
	local      geom.Transform
	localInv   geom.Transform
	massWeight float64

	proxyID broadphase.ProxyID

	UserData any
}

func (p *ProxyShape) Handle() pool.Handle {
	if p == nil {
		return 0
	}
	return p.handle
}

// Body returns the id of the owning body.
func (p *ProxyShape) Body() ID {
	if p == nil {
		return 0
	}
	return p.body
}

// Shape returns the shared catalog geometry. It must not be mutated.
func (p *ProxyShape) Shape() geom.Shape {
	if p == nil {
		return nil
	}
	return p.entry.Shape()
}

func (p *ProxyShape) CatalogEntry() *catalog.Entry {
	if p == nil {
		return nil
	}
	return p.entry
}

// LocalToBody is the shape's placement relative to its body.
func (p *ProxyShape) LocalToBody() geom.Transform {
	if p == nil {
		return geom.Identity()
	}
	return p.local
}

func (p *ProxyShape) MassWeight() float64 {
	if p == nil {
		return 0
	}
	return p.massWeight
}

// ProxyID is the broad-phase handle, or broadphase.NullProxy when the
// proxy is not registered.
func (p *ProxyShape) ProxyID() broadphase.ProxyID {
	if p == nil {
		return broadphase.NullProxy
	}
	return p.proxyID
}

// WorldTransform composes the body transform with the local placement.
func (p *ProxyShape) WorldTransform(bodyXf geom.Transform) geom.Transform {
	return bodyXf.Mul(p.local)
}

// WorldAABB is the shape's box for the given body transform.
func (p *ProxyShape) WorldAABB(bodyXf geom.Transform) cp.BB {
	return p.entry.Shape().ComputeAABB(p.WorldTransform(bodyXf))
}

func (p *ProxyShape) containsPoint(bodyXf geom.Transform, worldPoint cp.Vector) bool {
	inBody := bodyXf.InversePoint(worldPoint)
	return p.entry.Shape().ContainsPoint(p.localInv.Point(inBody))
}

// raycast intersects the world segment a->b with the shape and returns the
// hit in world space.
func (p *ProxyShape) raycast(bodyXf geom.Transform, a, b cp.Vector) (geom.SegmentHit, bool) {
	xf := p.WorldTransform(bodyXf)
	hit, ok := p.entry.Shape().SegmentQuery(xf.InversePoint(a), xf.InversePoint(b))
	if !ok {
		return geom.SegmentHit{}, false
	}
	hit.Point = xf.Point(hit.Point)
	hit.Normal = xf.Vect(hit.Normal)
	return hit, true
}

// teardown runs when the arena reclaims the proxy.
func (p *ProxyShape) teardown() {
	p.entry = nil
	p.UserData = nil
	p.proxyID = broadphase.NullProxy
}
