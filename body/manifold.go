package body

import (
	"fmt"

	"github.com/milk9111/collision/pool"
)

// ManifoldID names a contact manifold owned by the world.
type ManifoldID uint64

// ManifoldNode is a body's reference to one contact manifold. Nodes come
// from a pooled arena and are released when the body lets go of the
// manifold.
type ManifoldNode struct {
	handle   pool.Handle
	manifold ManifoldID
}

func (n *ManifoldNode) Manifold() ManifoldID {
	return n.manifold
}

func (n *ManifoldNode) teardown() {
	n.manifold = 0
}

// AddContactManifold records that the body takes part in manifold id.
func (b *Body) AddContactManifold(id ManifoldID) error {
	if b == nil || b.destroyed {
		return ErrBodyDestroyed
	}
	h, n, err := b.res.Nodes.Acquire()
	if err != nil {
		return fmt.Errorf("body: add manifold %d: %w", id, err)
	}
	n.handle = h
	n.manifold = id
	b.manifolds = append(b.manifolds, n)
	return nil
}

// RemoveContactManifold drops the body's node for manifold id.
func (b *Body) RemoveContactManifold(id ManifoldID) error {
	if b == nil {
		return ErrBodyDestroyed
	}
	for i, n := range b.manifolds {
		if n.manifold != id {
			continue
		}
		last := len(b.manifolds) - 1
		b.manifolds[i] = b.manifolds[last]
		b.manifolds[last] = nil
		b.manifolds = b.manifolds[:last]
		return b.res.Nodes.Release(n.handle)
	}
	return fmt.Errorf("%w: %d on body %d", ErrManifoldNotFound, id, b.id)
}

// ClearContactManifolds releases every manifold node of the body and
// returns how many were released. Calling it again is a no-op.
func (b *Body) ClearContactManifolds() int {
	if b == nil {
		return 0
	}
	n := len(b.manifolds)
	for i, node := range b.manifolds {
		// every node in b.manifolds is live; it leaves the slice when released
		_ = b.res.Nodes.Release(node.handle)
		b.manifolds[i] = nil
	}
	b.manifolds = b.manifolds[:0]
	return n
}

// HasContactManifold reports whether the body holds a node for id.
func (b *Body) HasContactManifold(id ManifoldID) bool {
	if b == nil {
		return false
	}
	for _, n := range b.manifolds {
		if n.manifold == id {
			return true
		}
	}
	return false
}

// ContactManifolds returns the ids of the manifolds the body takes part in.
func (b *Body) ContactManifolds() []ManifoldID {
	if b == nil {
		return nil
	}
	out := make([]ManifoldID, 0, len(b.manifolds))
	for _, n := range b.manifolds {
		out = append(out, n.manifold)
	}
	return out
}

func (b *Body) ManifoldCount() int {
	if b == nil {
		return 0
	}
	return len(b.manifolds)
}
