// File: internal/concurrency/lock_free_queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// LockFreeQueue is the Executor's per-worker local task queue (see
// executor.go's worker.localQueue): each worker drains its own queue before
// falling back to the shared globalQueue channel, so the common case of a
// worker handling tasks it (or Submit's clock-based queue pick) placed for it never
// contends with any other worker. Built on the same mpmcRing ring.go backs
// EventRing with, since Submit may enqueue from an arbitrary goroutine while
// only that one worker dequeues — an MPSC queue with an MPMC-shaped
// implementation is still correct, just more general than strictly needed.
package concurrency

// LockFreeQueue is a bounded MPMC queue, sized up to the next power of two.
type LockFreeQueue[T any] struct {
	ring *mpmcRing[T]
}

// NewLockFreeQueue creates a queue holding at least capacity items.
func NewLockFreeQueue[T any](capacity int) *LockFreeQueue[T] {
	return &LockFreeQueue[T]{ring: newMPMCRing[T](capacity)}
}

// Enqueue adds val; returns false if full.
func (q *LockFreeQueue[T]) Enqueue(val T) bool { return q.ring.enqueue(val) }

// Dequeue removes and returns the oldest item; ok is false if empty.
func (q *LockFreeQueue[T]) Dequeue() (item T, ok bool) { return q.ring.dequeue() }
