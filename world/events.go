package world

import "github.com/milk9111/collision/body"

type EventKind uint8

const (
	BodyCreated EventKind = iota + 1
	BodyDestroyed
	ManifoldCreated
	ManifoldDestroyed
	ConfigApplied
)

func (k EventKind) String() string {
	switch k {
	case BodyCreated:
		return "body_created"
	case BodyDestroyed:
		return "body_destroyed"
	case ManifoldCreated:
		return "manifold_created"
	case ManifoldDestroyed:
		return "manifold_destroyed"
	case ConfigApplied:
		return "config_applied"
	default:
		return "unknown"
	}
}

// Event records a change in the world. Manifold events name both bodies.
type Event struct {
	Kind     EventKind
	Body     body.ID
	Other    body.ID
	Manifold body.ManifoldID
}

// EventQueue is a FIFO of world events.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
