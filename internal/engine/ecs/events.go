package ecs

// EventQueue is a FIFO of typed event values. Producers push concrete
// struct values; consumers drain and type-switch.
type EventQueue struct {
	items []any
}

// Push adds an event.
func (q *EventQueue) Push(evt any) {
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []any {
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return len(q.items)
}
