package ecs

import "github.com/milk9111/jetpawn/collision"

// CollisionEventKind identifies collision event types.
type CollisionEventKind string

const (
	CollisionEventLanded     CollisionEventKind = "landed"
	CollisionEventLeftGround CollisionEventKind = "left_ground"
	CollisionEventBumped     CollisionEventKind = "bumped"
	CollisionEventRespawned  CollisionEventKind = "respawned"
)

// CollisionEvent is raised when a pawn's contact state changes. Side is the
// face involved: the ground face for landed/left_ground, the blocked face for
// bumped, none for respawned.
type CollisionEvent struct {
	Entity Entity
	Kind   CollisionEventKind
	Side   collision.Side
}

// EventQueue is a FIFO of collision events for the current step.
type EventQueue struct {
	items []CollisionEvent
}

func (q *EventQueue) Push(evt CollisionEvent) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []CollisionEvent {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
