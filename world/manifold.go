package world

import (
	"slices"

	"github.com/milk9111/collision/body"
	"github.com/milk9111/collision/pool"
)

// Manifold is a contact between two proxies of different bodies. It exists
// while their fat boxes overlap in the broad-phase.
type Manifold struct {
	ID     body.ManifoldID
	BodyA  body.ID
	BodyB  body.ID
	ProxyA pool.Handle
	ProxyB pool.Handle

	// Touching is true when the tight boxes overlapped at the last
	// DetectContacts.
	Touching bool
}

type proxyPair struct {
	a, b pool.Handle
}

func makePair(a, b pool.Handle) proxyPair {
	if a > b {
		a, b = b, a
	}
	return proxyPair{a: a, b: b}
}

// ContactReport summarizes one DetectContacts pass.
type ContactReport struct {
	Created   int
	Destroyed int
	Touching  int
}

// DetectContacts creates manifolds for new broad-phase pairs, then drops
// manifolds whose proxies stopped overlapping or whose bodies no longer
// collide, and refreshes Touching on the rest.
func (w *World) DetectContacts() ContactReport {
	var report ContactReport
	if w == nil {
		return report
	}

	w.bp.UpdatePairs(func(a, b any) {
		if w.addPair(a, b) {
			report.Created++
		}
	})

	for _, id := range w.manifoldIDs() {
		m := w.manifolds[id]
		pa, okA := w.res.Proxies.Get(m.ProxyA)
		pb, okB := w.res.Proxies.Get(m.ProxyB)
		if !okA || !okB || !w.shouldCollide(m.BodyA, m.BodyB) || !w.bp.TestOverlap(pa.ProxyID(), pb.ProxyID()) {
			w.destroyManifold(id)
			report.Destroyed++
			continue
		}
		bbA, _ := w.bp.AABB(pa.ProxyID())
		bbB, _ := w.bp.AABB(pb.ProxyID())
		m.Touching = bbA.Intersects(bbB)
		if m.Touching {
			report.Touching++
		}
	}
	return report
}

func (w *World) addPair(a, b any) bool {
	pa, okA := a.(*body.ProxyShape)
	pb, okB := b.(*body.ProxyShape)
	if !okA || !okB || pa.Body() == pb.Body() {
		return false
	}
	key := makePair(pa.Handle(), pb.Handle())
	if _, ok := w.pairs[key]; ok {
		return false
	}
	if !w.shouldCollide(pa.Body(), pb.Body()) {
		return false
	}
	return w.createManifold(pa, pb, key)
}

// shouldCollide requires both bodies alive with collision enabled and at
// least one of them dynamic.
func (w *World) shouldCollide(a, b body.ID) bool {
	ba := w.bodies.get(a)
	bb := w.bodies.get(b)
	if ba == nil || bb == nil || !ba.IsCollisionEnabled() || !bb.IsCollisionEnabled() {
		return false
	}
	return ba.Type() == body.Dynamic || bb.Type() == body.Dynamic
}

func (w *World) createManifold(pa, pb *body.ProxyShape, key proxyPair) bool {
	ba := w.bodies.get(pa.Body())
	bb := w.bodies.get(pb.Body())

	w.nextManifold++
	id := w.nextManifold
	if err := ba.AddContactManifold(id); err != nil {
		w.logger.Printf("World: skip manifold %d: %v", id, err)
		return false
	}
	if err := bb.AddContactManifold(id); err != nil {
		_ = ba.RemoveContactManifold(id)
		w.logger.Printf("World: skip manifold %d: %v", id, err)
		return false
	}

	w.manifolds[id] = &Manifold{
		ID:     id,
		BodyA:  pa.Body(),
		BodyB:  pb.Body(),
		ProxyA: pa.Handle(),
		ProxyB: pb.Handle(),
	}
	w.pairs[key] = id
	w.events.Push(Event{Kind: ManifoldCreated, Body: pa.Body(), Other: pb.Body(), Manifold: id})
	w.logf("World: manifold %d begin bodies %d/%d", id, pa.Body(), pb.Body())
	return true
}

func (w *World) destroyManifold(id body.ManifoldID) {
	m, ok := w.manifolds[id]
	if !ok {
		return
	}
	for _, bid := range []body.ID{m.BodyA, m.BodyB} {
		if b := w.bodies.get(bid); b != nil {
			_ = b.RemoveContactManifold(id)
		}
	}
	delete(w.manifolds, id)
	delete(w.pairs, makePair(m.ProxyA, m.ProxyB))
	w.events.Push(Event{Kind: ManifoldDestroyed, Body: m.BodyA, Other: m.BodyB, Manifold: id})
	w.logf("World: manifold %d end bodies %d/%d", id, m.BodyA, m.BodyB)
}

// ProxyRemoved drops the manifolds that reference p. Bodies call it while
// detaching shapes.
func (w *World) ProxyRemoved(p *body.ProxyShape) {
	if w == nil || p == nil {
		return
	}
	h := p.Handle()
	for _, id := range w.manifoldIDs() {
		if m := w.manifolds[id]; m.ProxyA == h || m.ProxyB == h {
			w.destroyManifold(id)
		}
	}
}

// Manifold returns a copy of the manifold with the given id.
func (w *World) Manifold(id body.ManifoldID) (Manifold, bool) {
	if w == nil {
		return Manifold{}, false
	}
	m, ok := w.manifolds[id]
	if !ok {
		return Manifold{}, false
	}
	return *m, true
}

func (w *World) ManifoldCount() int {
	if w == nil {
		return 0
	}
	return len(w.manifolds)
}

// manifoldIDs returns the live manifold ids in creation order.
func (w *World) manifoldIDs() []body.ManifoldID {
	ids := make([]body.ManifoldID, 0, len(w.manifolds))
	for id := range w.manifolds {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
