// File: internal/concurrency/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// mpmcRing is the Dmitry Vyukov sequence-numbered CAS-loop ring shared by
// RingBuffer (control.EventRing's backing store) and LockFreeQueue (the
// Executor's per-worker local queue, see executor.go). Both call sites need
// the identical bounded, wait-free-on-the-fast-path MPMC shape; factoring it
// once here means the two only differ in the name callers reach for and
// whether "full" is a caller-visible failure or something the caller papers
// over (EventRing.Record drops the oldest event instead of rejecting the
// newest).
package concurrency

import (
	"sync/atomic"

	"github.com/momentics/skyqueue/api"
)

const cacheLinePad = 64

type cell[T any] struct {
	sequence atomic.Uint64
	data     T
}

// mpmcRing is a bounded, lock-free multi-producer/multi-consumer ring.
// head/tail are padded onto separate cache lines since producers only touch
// tail and consumers only touch head — without the padding every Enqueue and
// Dequeue would bounce the same cache line between cores.
type mpmcRing[T any] struct {
	head uint64
	_    [cacheLinePad]byte
	tail uint64
	_    [cacheLinePad]byte
	mask uint64

	cells []cell[T]
}

func newMPMCRing[T any](capacity int) *mpmcRing[T] {
	if capacity < 2 {
		capacity = 2
	}
	size := 1
	for size < capacity {
		size <<= 1
	}
	r := &mpmcRing[T]{
		mask:  uint64(size - 1),
		cells: make([]cell[T], size),
	}
	for i := range r.cells {
		r.cells[i].sequence.Store(uint64(i))
	}
	return r
}

func (r *mpmcRing[T]) enqueue(val T) bool {
	for {
		tail := atomic.LoadUint64(&r.tail)
		c := &r.cells[tail&r.mask]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(tail)

		switch {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&r.tail, tail, tail+1) {
				c.data = val
				c.sequence.Store(tail + 1)
				return true
			}
		case dif < 0:
			return false // full
		default:
			// another producer advanced tail first; reload and retry
		}
	}
}

func (r *mpmcRing[T]) dequeue() (item T, ok bool) {
	for {
		head := atomic.LoadUint64(&r.head)
		c := &r.cells[head&r.mask]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(head+1)

		switch {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&r.head, head, head+1) {
				item = c.data
				c.sequence.Store(head + r.mask + 1)
				return item, true
			}
		case dif < 0:
			var zero T
			return zero, false // empty
		default:
			// another consumer advanced head first; reload and retry
		}
	}
}

func (r *mpmcRing[T]) len() int {
	head := atomic.LoadUint64(&r.head)
	tail := atomic.LoadUint64(&r.tail)
	return int(tail - head)
}

func (r *mpmcRing[T]) cap() int {
	return len(r.cells)
}

// RingBuffer is the api.Ring-conformant bound EventRing stores its recent-
// events log in. Its own surface rounds capacity up to a power of two and
// otherwise just forwards to the shared ring.
type RingBuffer[T any] struct {
	ring *mpmcRing[T]
}

var _ api.Ring[any] = (*RingBuffer[any])(nil)

// NewRingBuffer allocates a ring buffer holding at least size items.
func NewRingBuffer[T any](size uint64) *RingBuffer[T] {
	return &RingBuffer[T]{ring: newMPMCRing[T](int(size))}
}

// Enqueue adds item; returns false if full.
func (r *RingBuffer[T]) Enqueue(item T) bool { return r.ring.enqueue(item) }

// Dequeue removes and returns the oldest item; ok is false if empty.
func (r *RingBuffer[T]) Dequeue() (T, bool) { return r.ring.dequeue() }

// Len returns the number of items currently buffered.
func (r *RingBuffer[T]) Len() int { return r.ring.len() }

// Cap returns the buffer's fixed capacity.
func (r *RingBuffer[T]) Cap() int { return r.ring.cap() }
