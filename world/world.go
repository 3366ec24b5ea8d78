package world

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/collision/body"
	"github.com/milk9111/collision/broadphase"
	"github.com/milk9111/collision/catalog"
	"github.com/milk9111/collision/config"
	"github.com/milk9111/collision/geom"
	"github.com/milk9111/collision/pool"
)

var ErrBodyNotFound = errors.New("world: body not found")

// World owns a set of collision bodies together with the arenas, shape
// catalog and broad-phase they share, and the contact manifolds between
// them.
//
// World is not safe for concurrent use.
type World struct {
	cfg    config.Config
	res    *body.Resources
	bp     *broadphase.BroadPhase
	ids    idStore
	bodies bodyTable

	manifolds    map[body.ManifoldID]*Manifold
	pairs        map[proxyPair]body.ManifoldID
	nextManifold body.ManifoldID

	events EventQueue
	logger *log.Logger
}

// Stats is a snapshot of world resource usage.
type Stats struct {
	Bodies            int
	Manifolds         int
	CatalogShapes     int
	BroadPhaseProxies int
	TreeHeight        int
	Proxies           pool.Stats
	Nodes             pool.Stats
}

// New creates an empty world. cfg is assumed to be valid.
func New(cfg config.Config) *World {
	bp := broadphase.New(cfg.BroadPhase.AABBMargin)
	w := &World{
		cfg:       cfg,
		bp:        bp,
		manifolds: make(map[body.ManifoldID]*Manifold),
		pairs:     make(map[proxyPair]body.ManifoldID),
		logger:    log.Default(),
	}
	w.res = &body.Resources{
		Proxies:    body.NewProxyArena(cfg.Pools.ProxyShapes),
		Nodes:      body.NewNodeArena(cfg.Pools.ManifoldNodes),
		Catalog:    catalog.New(),
		BroadPhase: bp,
		Listener:   w,
		MassWeight: cfg.Shapes.DefaultMassWeight,
	}
	return w
}

// SetLogger replaces the logger used for verbose output.
func (w *World) SetLogger(l *log.Logger) {
	if w == nil || l == nil {
		return
	}
	w.logger = l
}

func (w *World) logf(format string, args ...any) {
	if !w.cfg.Logging.Verbose {
		return
	}
	w.logger.Printf(format, args...)
}

func (w *World) Config() config.Config {
	if w == nil {
		return config.Default()
	}
	return w.cfg
}

// ApplyConfig applies the runtime tunables of cfg. Proxies already in the
// broad-phase keep their fat boxes until they next move; pool limits below
// the live count only block new allocations.
func (w *World) ApplyConfig(cfg config.Config) error {
	if w == nil {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("world: apply config: %w", err)
	}
	w.cfg = cfg
	w.bp.SetMargin(cfg.BroadPhase.AABBMargin)
	w.res.Proxies.SetLimit(cfg.Pools.ProxyShapes)
	w.res.Nodes.SetLimit(cfg.Pools.ManifoldNodes)
	w.res.MassWeight = cfg.Shapes.DefaultMassWeight
	w.events.Push(Event{Kind: ConfigApplied})
	w.logf("World: config applied margin=%.3f proxies=%d nodes=%d",
		cfg.BroadPhase.AABBMargin, cfg.Pools.ProxyShapes, cfg.Pools.ManifoldNodes)
	return nil
}

// CreateBody adds a dynamic body at xf. A zero transform is the identity.
func (w *World) CreateBody(xf geom.Transform) *body.Body {
	if w == nil {
		return nil
	}
	id := w.ids.create()
	b := body.New(id, xf, w.res)
	w.bodies.set(id, b)
	w.events.Push(Event{Kind: BodyCreated, Body: id})
	w.logf("World: created body %d", id)
	return b
}

// DestroyBody removes every manifold the body takes part in, detaches its
// shapes and forgets the body. The id is not handed out again until its
// generation changes.
func (w *World) DestroyBody(id body.ID) error {
	if w == nil {
		return ErrBodyNotFound
	}
	b := w.bodies.get(id)
	if b == nil {
		return fmt.Errorf("%w: %d", ErrBodyNotFound, id)
	}

	for _, mid := range b.ContactManifolds() {
		w.destroyManifold(mid)
	}
	b.ClearContactManifolds()
	if err := b.Destroy(); err != nil {
		return fmt.Errorf("world: destroy body %d: %w", id, err)
	}

	w.bodies.remove(id)
	w.ids.destroy(id)
	w.events.Push(Event{Kind: BodyDestroyed, Body: id})
	w.logf("World: destroyed body %d", id)
	return nil
}

func (w *World) Body(id body.ID) (*body.Body, bool) {
	if w == nil || !w.ids.isAlive(id) {
		return nil, false
	}
	b := w.bodies.get(id)
	return b, b != nil
}

// Bodies returns the live bodies. The slice is a copy.
func (w *World) Bodies() []*body.Body {
	if w == nil {
		return nil
	}
	out := make([]*body.Body, len(w.bodies.denseBodies))
	copy(out, w.bodies.denseBodies)
	return out
}

func (w *World) BodyCount() int {
	if w == nil {
		return 0
	}
	return w.bodies.len()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// BroadPhase exposes the world's broad-phase for inspection.
func (w *World) BroadPhase() *broadphase.BroadPhase {
	if w == nil {
		return nil
	}
	return w.bp
}

func (w *World) Stats() Stats {
	if w == nil {
		return Stats{}
	}
	return Stats{
		Bodies:            w.bodies.len(),
		Manifolds:         len(w.manifolds),
		CatalogShapes:     w.res.Catalog.Len(),
		BroadPhaseProxies: w.bp.ProxyCount(),
		TreeHeight:        w.bp.TreeHeight(),
		Proxies:           w.res.Proxies.Stats(),
		Nodes:             w.res.Nodes.Stats(),
	}
}
