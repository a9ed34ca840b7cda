package ecs

// Event is a side effect raised during a tick for the host to observe.
type Event struct {
	Type EventType
	Data any
}

type EventType string

const (
	EventDialogRequested EventType = "dialog_requested"
	EventScenePlaying    EventType = "scene_playing"
	EventEntitySpawned   EventType = "entity_spawned"
	EventEntityDeleted   EventType = "entity_deleted"
)

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
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

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
