package pool

import (
	"errors"
	"fmt"
)

var (
	ErrExhausted   = errors.New("pool: arena exhausted")
	ErrStaleHandle = errors.New("pool: stale handle")
)

// Arena hands out typed, pooled values addressed by generational handles.
// Released values are reset and kept for reuse, so their memory is recycled
// instead of returned to the garbage collector.
//
// Arena is not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
	limit int
	reset func(*T)

	acquired uint64
	released uint64
}

type slot[T any] struct {
	value *T
	gen   uint32
	alive bool
}

// Stats is a snapshot of arena usage.
type Stats struct {
	Live     int
	Free     int
	Capacity int
	Limit    int
	Acquired uint64
	Released uint64
}

// NewArena creates an arena holding at most limit live values (0 means no
// limit). reset, when non-nil, runs on every value as it is released.
func NewArena[T any](limit int, reset func(*T)) *Arena[T] {
	if limit < 0 {
		limit = 0
	}
	return &Arena[T]{limit: limit, reset: reset}
}

// Acquire returns a zeroed value and the handle that owns it.
func (a *Arena[T]) Acquire() (Handle, *T, error) {
	if a == nil {
		return 0, nil, fmt.Errorf("%w: nil arena", ErrExhausted)
	}
	if a.limit > 0 && a.live >= a.limit {
		return 0, nil, fmt.Errorf("%w: %d of %d in use", ErrExhausted, a.live, a.limit)
	}

	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{value: new(T)})
	}

	s := &a.slots[idx]
	s.alive = true
	a.live++
	a.acquired++
	return makeHandle(idx, s.gen), s.value, nil
}

// Release runs the reset hook on the value behind h, zeroes it and makes
// the slot available again. Releasing twice returns ErrStaleHandle.
func (a *Arena[T]) Release(h Handle) error {
	s, err := a.lookup(h)
	if err != nil {
		return err
	}
	if a.reset != nil {
		a.reset(s.value)
	}
	var zero T
	*s.value = zero
	s.alive = false
	s.gen++

	idx, _ := h.index()
	a.free = append(a.free, idx)
	a.live--
	a.released++
	return nil
}

// Get returns the value behind h if it is still live.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	s, err := a.lookup(h)
	if err != nil {
		return nil, false
	}
	return s.value, true
}

// Contains reports whether h refers to a live value.
func (a *Arena[T]) Contains(h Handle) bool {
	_, err := a.lookup(h)
	return err == nil
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	if a == nil {
		return 0
	}
	return a.live
}

// SetLimit changes the live value limit. Values already live are kept even
// when they exceed the new limit.
func (a *Arena[T]) SetLimit(limit int) {
	if a == nil {
		return
	}
	if limit < 0 {
		limit = 0
	}
	a.limit = limit
}

func (a *Arena[T]) Stats() Stats {
	if a == nil {
		return Stats{}
	}
	return Stats{
		Live:     a.live,
		Free:     len(a.free),
		Capacity: len(a.slots),
		Limit:    a.limit,
		Acquired: a.acquired,
		Released: a.released,
	}
}

func (a *Arena[T]) lookup(h Handle) (*slot[T], error) {
	if a == nil {
		return nil, ErrStaleHandle
	}
	idx, ok := h.index()
	if !ok || int(idx) >= len(a.slots) {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	s := &a.slots[idx]
	if !s.alive || s.gen != h.generation() {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	return s, nil
}
