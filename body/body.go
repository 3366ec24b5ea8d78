package body

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/collision/common"
	"github.com/milk9111/collision/geom"
	"github.com/milk9111/collision/pool"
)

var (
	ErrProxyNotFound       = errors.New("body: proxy shape not found")
	ErrManifoldNotFound    = errors.New("body: contact manifold not found")
	ErrManifoldsNotCleared = errors.New("body: contact manifolds not cleared")
	ErrBodyDestroyed       = errors.New("body: body destroyed")
)

// ID identifies a body within its world.
type ID uint64

type Type uint8

const (
	Static Type = iota
	Kinematic
	Dynamic
)

func (t Type) String() string {
	switch t {
	case Static:
		return "static"
	case Kinematic:
		return "kinematic"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Body is a collision body: a transform plus the proxy shapes attached to
// it and the contact manifolds it takes part in.
type Body struct {
	id  ID
	res *Resources

	bodyType         Type
	collisionEnabled bool
	destroyed        bool

	transform     geom.Transform
	previous      geom.Transform
	interpolation float64

	// proxies is ordered oldest first; every walk goes newest first.
	proxies   []*ProxyShape
	manifolds []*ManifoldNode

	UserData any
}

// New creates a dynamic body with collision enabled. Missing resources are
// filled with unbounded defaults.
func New(id ID, transform geom.Transform, res *Resources) *Body {
	if res == nil {
		res = &Resources{}
	}
	res.fill()
	transform = transform.OrIdentity()
	return &Body{
		id:               id,
		res:              res,
		bodyType:         Dynamic,
		collisionEnabled: true,
		transform:        transform,
		previous:         transform,
	}
}

func (b *Body) ID() ID {
	if b == nil {
		return 0
	}
	return b.id
}

func (b *Body) Type() Type {
	if b == nil {
		return Static
	}
	return b.bodyType
}

// SetType changes the body type. A change asks the broad-phase to recheck
// the body's pairs, since the type decides which pairs collide.
func (b *Body) SetType(t Type) {
	if b == nil || b.bodyType == t {
		return
	}
	b.bodyType = t
	b.RequestBroadPhaseRecheck()
}

func (b *Body) IsDestroyed() bool {
	return b == nil || b.destroyed
}

// AttachShape copies shape into the catalog, creates a proxy placed at local
// in body space and registers it with the broad-phase. A zero local
// transform is treated as identity.
func (b *Body) AttachShape(shape geom.Shape, local geom.Transform) (*ProxyShape, error) {
	if b == nil || b.destroyed {
		return nil, ErrBodyDestroyed
	}
	local = local.OrIdentity()

	entry, err := b.res.Catalog.InternCopy(shape)
	if err != nil {
		return nil, fmt.Errorf("body: attach shape: %w", err)
	}

	h, p, err := b.res.Proxies.Acquire()
	if err != nil {
		_ = b.res.Catalog.Release(entry)
		return nil, fmt.Errorf("body: attach shape: %w", err)
	}
	*p = ProxyShape{
		handle:     h,
		body:       b.id,
		entry:      entry,
		local:      local,
		localInv:   local.Inverse(),
		massWeight: b.res.MassWeight,
	}
	b.proxies = append(b.proxies, p)

	p.proxyID = b.res.BroadPhase.Insert(p, p.WorldAABB(b.transform))
	return p, nil
}

// DetachShape removes p from the body. p must not be used afterwards.
func (b *Body) DetachShape(p *ProxyShape) error {
	if b == nil || b.destroyed {
		return ErrBodyDestroyed
	}
	if p == nil {
		return ErrProxyNotFound
	}
	for i := len(b.proxies) - 1; i >= 0; i-- {
		if b.proxies[i] != p {
			continue
		}
		b.proxies = slices.Delete(b.proxies, i, i+1)
		if err := b.destroyProxy(p); err != nil {
			return fmt.Errorf("body: detach shape: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: body %d", ErrProxyNotFound, b.id)
}

// DetachHandle is DetachShape for a proxy referenced by its arena handle.
func (b *Body) DetachHandle(h pool.Handle) error {
	if b == nil || b.destroyed {
		return ErrBodyDestroyed
	}
	p, ok := b.res.Proxies.Get(h)
	if !ok || p.body != b.id {
		return fmt.Errorf("%w: %s", ErrProxyNotFound, h)
	}
	return b.DetachShape(p)
}

// RemoveAllShapes detaches every proxy. It is safe to call on an empty body.
func (b *Body) RemoveAllShapes() error {
	if b == nil {
		return nil
	}
	var errs []error
	for i := len(b.proxies) - 1; i >= 0; i-- {
		if err := b.destroyProxy(b.proxies[i]); err != nil {
			errs = append(errs, err)
		}
	}
	clear(b.proxies)
	b.proxies = b.proxies[:0]
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("body: remove shapes: %w", err)
	}
	return nil
}

// destroyProxy tears down a proxy that is no longer in b.proxies.
func (b *Body) destroyProxy(p *ProxyShape) error {
	b.res.BroadPhase.Remove(p.proxyID)
	if b.res.Listener != nil {
		b.res.Listener.ProxyRemoved(p)
	}
	catErr := b.res.Catalog.Release(p.entry)
	poolErr := b.res.Proxies.Release(p.handle)
	return errors.Join(catErr, poolErr)
}

// ShapeCount returns the number of attached proxies.
func (b *Body) ShapeCount() int {
	if b == nil {
		return 0
	}
	return len(b.proxies)
}

// Proxies returns the attached proxies, newest first.
func (b *Body) Proxies() []*ProxyShape {
	if b == nil {
		return nil
	}
	out := make([]*ProxyShape, 0, len(b.proxies))
	for i := len(b.proxies) - 1; i >= 0; i-- {
		out = append(out, b.proxies[i])
	}
	return out
}

// Destroy detaches every shape and marks the body dead. It fails with
// ErrManifoldsNotCleared, leaving the body untouched, while any manifold
// node is still held.
func (b *Body) Destroy() error {
	if b == nil || b.destroyed {
		return ErrBodyDestroyed
	}
	if n := len(b.manifolds); n > 0 {
		return fmt.Errorf("%w: body %d holds %d", ErrManifoldsNotCleared, b.id, n)
	}
	err := b.RemoveAllShapes()
	b.destroyed = true
	return err
}

func (b *Body) Transform() geom.Transform {
	if b == nil {
		return geom.Identity()
	}
	return b.transform
}

func (b *Body) PreviousTransform() geom.Transform {
	if b == nil {
		return geom.Identity()
	}
	return b.previous
}

func (b *Body) Position() cp.Vector {
	if b == nil {
		return cp.Vector{}
	}
	return b.transform.Position
}

// SetTransform moves the body and pushes the new proxy boxes to the
// broad-phase.
func (b *Body) SetTransform(xf geom.Transform) {
	if b == nil || b.destroyed {
		return
	}
	b.transform = xf.OrIdentity()
	b.SyncBroadPhase()
}

// UpdatePreviousTransform stores the current transform as the previous one.
func (b *Body) UpdatePreviousTransform() {
	if b == nil {
		return
	}
	b.previous = b.transform
}

func (b *Body) InterpolationFactor() float64 {
	if b == nil {
		return 0
	}
	return b.interpolation
}

func (b *Body) SetInterpolationFactor(f float64) {
	if b == nil {
		return
	}
	b.interpolation = common.Clamp01(f)
}

// InterpolatedTransform blends previous and current transform by the
// interpolation factor.
func (b *Body) InterpolatedTransform() geom.Transform {
	if b == nil {
		return geom.Identity()
	}
	return geom.Lerp(b.previous, b.transform, b.interpolation)
}

func (b *Body) IsCollisionEnabled() bool {
	return b != nil && b.collisionEnabled
}

// SetCollisionEnabled toggles collision. A change asks the broad-phase to
// recheck the body's pairs.
func (b *Body) SetCollisionEnabled(enabled bool) {
	if b == nil || b.collisionEnabled == enabled {
		return
	}
	b.collisionEnabled = enabled
	b.RequestBroadPhaseRecheck()
}

// SyncBroadPhase recomputes every proxy box from the current transform and
// reports it to the broad-phase.
func (b *Body) SyncBroadPhase() {
	if b == nil || b.destroyed {
		return
	}
	for i := len(b.proxies) - 1; i >= 0; i-- {
		p := b.proxies[i]
		b.res.BroadPhase.Update(p.proxyID, p.WorldAABB(b.transform))
	}
}

// RequestBroadPhaseRecheck asks the broad-phase to re-evaluate the pairs of
// every proxy without moving them.
func (b *Body) RequestBroadPhaseRecheck() {
	if b == nil || b.destroyed {
		return
	}
	for i := len(b.proxies) - 1; i >= 0; i-- {
		b.res.BroadPhase.RequestRecheck(b.proxies[i].proxyID)
	}
}

// AABB returns the union of the proxy boxes, or false when the body has no
// shapes.
func (b *Body) AABB() (cp.BB, bool) {
	if b == nil || len(b.proxies) == 0 {
		return cp.BB{}, false
	}
	bb := b.proxies[0].WorldAABB(b.transform)
	for _, p := range b.proxies[1:] {
		bb = bb.Merge(p.WorldAABB(b.transform))
	}
	return bb, true
}
