package menu

import (
	"context"
	"sync"
)

// Event reports the activation of the item with ID.
type Event struct {
	ID ID `json:"id"`
}

// EventHandler receives events pushed by the queue. It may run on a thread
// other than the one that owns the menu, typically the window thread.
type EventHandler func(Event)

// EventQueue is an unbounded FIFO of menu events. Consumers either poll it
// or install a handler. Safe for concurrent use.
type EventQueue struct {
	mu      sync.Mutex
	events  []Event
	handler EventHandler
	ready   chan struct{} // closed whenever an event is queued
}

var (
	queueMu sync.Mutex
	queue   *EventQueue
)

// Events returns the process-wide event queue, creating it on first use.
func Events() *EventQueue {
	queueMu.Lock()
	defer queueMu.Unlock()
	if queue == nil {
		queue = &EventQueue{ready: make(chan struct{})}
	}
	return queue
}

// resetEvents drops the process-wide queue. Tests only.
func resetEvents() {
	queueMu.Lock()
	defer queueMu.Unlock()
	queue = nil
}

func (q *EventQueue) publish(ev Event) {
	q.mu.Lock()
	h := q.handler
	if h == nil {
		q.events = append(q.events, ev)
		close(q.ready)
		q.ready = make(chan struct{})
	}
	q.mu.Unlock()

	if h != nil {
		h(ev)
	}
}

// SetEventHandler makes the queue push events to h instead of buffering
// them, and returns the previous handler. Nil restores polling. Events
// already buffered stay in the queue.
func (q *EventQueue) SetEventHandler(h EventHandler) EventHandler {
	q.mu.Lock()
	defer q.mu.Unlock()
	prev := q.handler
	q.handler = h
	return prev
}

// TryRecv returns the oldest buffered event without blocking.
func (q *EventQueue) TryRecv() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// Recv blocks until an event is buffered or ctx is done.
func (q *EventQueue) Recv(ctx context.Context) (Event, error) {
	for {
		q.mu.Lock()
		if ev, ok := q.popLocked(); ok {
			q.mu.Unlock()
			return ev, nil
		}
		ready := q.ready
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-ready:
		}
	}
}

// Len returns the number of buffered events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

func (q *EventQueue) popLocked() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	ev := q.events[0]
	q.events[0] = Event{}
	q.events = q.events[1:]
	return ev, true
}
