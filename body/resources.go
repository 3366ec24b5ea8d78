package body

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/collision/broadphase"
	"github.com/milk9111/collision/catalog"
	"github.com/milk9111/collision/common"
	"github.com/milk9111/collision/pool"
)

// BroadPhase is the spatial index a body keeps its proxies registered in.
// *broadphase.BroadPhase satisfies it.
type BroadPhase interface {
	Insert(userData any, bb cp.BB) broadphase.ProxyID
	Update(id broadphase.ProxyID, bb cp.BB)
	Remove(id broadphase.ProxyID)
	RequestRecheck(id broadphase.ProxyID)
}

// ProxyListener is told about a proxy after it leaves the broad-phase and
// before its memory is released. The world uses it to drop manifolds that
// reference the proxy.
type ProxyListener interface {
	ProxyRemoved(p *ProxyShape)
}

// Resources are the collaborators shared by every body of one world. They
// are not locked; callers serialize mutation.
type Resources struct {
	Proxies    *pool.Arena[ProxyShape]
	Nodes      *pool.Arena[ManifoldNode]
	Catalog    *catalog.Catalog
	BroadPhase BroadPhase
	Listener   ProxyListener

	// MassWeight is given to newly attached proxies.
	MassWeight float64
}

// NewResources returns unbounded arenas, an empty catalog and the given
// broad-phase.
func NewResources(bp BroadPhase) *Resources {
	r := &Resources{BroadPhase: bp}
	r.fill()
	return r
}

// NewProxyArena creates the arena proxies are allocated from.
func NewProxyArena(limit int) *pool.Arena[ProxyShape] {
	return pool.NewArena(limit, (*ProxyShape).teardown)
}

// NewNodeArena creates the arena manifold nodes are allocated from.
func NewNodeArena(limit int) *pool.Arena[ManifoldNode] {
	return pool.NewArena(limit, (*ManifoldNode).teardown)
}

func (r *Resources) fill() {
	if r.Proxies == nil {
		r.Proxies = NewProxyArena(0)
	}
	if r.Nodes == nil {
		r.Nodes = NewNodeArena(0)
	}
	if r.Catalog == nil {
		r.Catalog = catalog.New()
	}
	if r.BroadPhase == nil {
		r.BroadPhase = nopBroadPhase{}
	}
	if r.MassWeight <= 0 {
		r.MassWeight = common.DefaultMassWeight
	}
}

type nopBroadPhase struct{}

func (nopBroadPhase) Insert(any, cp.BB) broadphase.ProxyID { return broadphase.NullProxy }
func (nopBroadPhase) Update(broadphase.ProxyID, cp.BB) {}
func (nopBroadPhase) Remove(broadphase.ProxyID) {}
func (nopBroadPhase) RequestRecheck(broadphase.ProxyID) {}
