// File: control/events.go
// Author: momentics <momentics@gmail.com>
//
// Bounded, lock-free history of named runtime events (mailbox overloads and
// timers fired at dead handles) for post-mortem inspection — complements
// MetricsRegistry's point-in-time counters with a short recent-events log.

package control

import (
	"time"

	"github.com/momentics/skyqueue/internal/concurrency"
)

// Event is one recorded occurrence.
type Event struct {
	Name string
	At   time.Time
	Data any
}

// EventRing is a fixed-capacity, concurrency-safe log of recent Events.
// Backed by concurrency.RingBuffer: once full, Record silently dequeues and
// discards the oldest unread event to make room — a history, not a
// delivery guarantee.
type EventRing struct {
	buf *concurrency.RingBuffer[Event]
}

// NewEventRing creates a ring holding up to capacity events (rounded up to
// a power of two by the underlying buffer).
func NewEventRing(capacity uint64) *EventRing {
	return &EventRing{buf: concurrency.NewRingBuffer[Event](capacity)}
}

// Record appends an event, dropping the oldest if the ring is full.
func (r *EventRing) Record(name string, data any) {
	for !r.buf.Enqueue(Event{Name: name, At: time.Now(), Data: data}) {
		if _, ok := r.buf.Dequeue(); !ok {
			return
		}
	}
}

// Drain removes and returns every currently buffered event, oldest first.
func (r *EventRing) Drain() []Event {
	out := make([]Event, 0, r.buf.Len())
	for {
		ev, ok := r.buf.Dequeue()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}
