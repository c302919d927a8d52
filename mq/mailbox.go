// File: mq/mailbox.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Mailbox is the per-service ring buffer mailbox (skynet_mq.c's
// struct message_queue). All mutation happens under its own spinlock; the
// one exception is `next`, which is conventionally owned by whichever
// goroutine holds the ReadyList lock (see readylist.go).

package mq

import (
	"unsafe"

	"golang.org/x/sys/cpu"

	"github.com/momentics/skyqueue/internal/spinlock"
)

const (
	defaultRingCapacity = 64
	overloadBase        = 1024
)

// Mailbox is a per-service FIFO of Messages with its own lock.
type Mailbox struct {
	lock spinlock.SpinLock

	handle uint32
	ring   []Message
	head   int
	tail   int

	// inReady is true while the mailbox is linked in the ready list OR
	// currently held by a worker that popped it and has not yet relinquished
	// or re-linked it (spec.md §4.1, the "in-ready protocol").
	inReady bool
	// release is set exactly once; teardown is deferred until the mailbox is
	// next dequeued from the ready list.
	release bool

	overload          int
	overloadThreshold int

	// next links Mailboxes into the process-wide ready list. Written only by
	// ReadyList while it holds its own lock; must be nil whenever linked via
	// Push (see the assert(next==nil) invariant carried from the C source).
	next *Mailbox
}

// newMailbox allocates a mailbox for handle with inReady already set, so
// concurrent Push calls during service initialization do not attempt to
// link it into the ready list before the registry has published the handle
// (spec.md §3, Mailbox lifecycle).
func newMailbox(handle uint32) *Mailbox {
	return &Mailbox{
		handle:            handle,
		ring:              make([]Message, defaultRingCapacity),
		inReady:           true,
		overloadThreshold: overloadBase,
	}
}

// Handle returns the owning service's handle. Immutable after creation.
func (m *Mailbox) Handle() uint32 {
	return m.handle
}

// length returns the number of queued messages. Caller must hold m.lock.
func (m *Mailbox) length() int {
	if m.head <= m.tail {
		return m.tail - m.head
	}
	return m.tail + len(m.ring) - m.head
}

// Length returns a snapshot of the current message count.
func (m *Mailbox) Length() int {
	m.lock.Lock()
	n := m.length()
	m.lock.Unlock()
	return n
}

// Overload returns the last recorded overload length, then clears it.
// Mirrors skynet_mq_overload, which reads/resets the field without taking
// the mailbox lock — overload is an advisory-only signal (spec.md §4.1).
func (m *Mailbox) Overload() int {
	if m.overload != 0 {
		n := m.overload
		m.overload = 0
		return n
	}
	return 0
}

// expand doubles the ring capacity, copying elements into logical order
// starting at index 0. Caller must hold m.lock.
func (m *Mailbox) expand() {
	cap2 := len(m.ring) * 2
	next := make([]Message, cap2)
	for i := 0; i < len(m.ring); i++ {
		next[i] = m.ring[(m.head+i)%len(m.ring)]
	}
	m.head = 0
	m.tail = len(m.ring)
	m.ring = next
}

// push appends message to the ring. Returns true if the caller must now
// link this mailbox into the ready list (it was not already "with a
// worker" or linked). Never blocks except on m.lock.
func (m *Mailbox) push(msg Message) (needsLink bool) {
	m.lock.Lock()
	m.ring[m.tail] = msg
	m.tail++
	if m.tail >= len(m.ring) {
		m.tail = 0
	}
	if m.head == m.tail {
		m.expand()
	}
	if !m.inReady {
		m.inReady = true
		needsLink = true
	}
	m.lock.Unlock()
	return needsLink
}

// pop removes the front message. Returns false on empty, matching
// skynet_mq_pop's contract. On the empty transition, inReady is cleared and
// overloadThreshold resets to its base value.
func (m *Mailbox) pop() (msg Message, ok bool) {
	m.lock.Lock()
	if m.head != m.tail {
		if next := (m.head + 1) % len(m.ring); next != m.tail && cpu.X86.HasSSE2 {
			cpu.Prefetch(unsafe.Pointer(&m.ring[next]))
		}
		msg = m.ring[m.head]
		m.head++
		ok = true
		if m.head >= len(m.ring) {
			m.head = 0
		}
		length := m.length()
		for length > m.overloadThreshold {
			m.overload = length
			m.overloadThreshold *= 2
		}
	} else {
		m.overloadThreshold = overloadBase
	}
	if !ok {
		// Mirrors skynet_mq_pop: the in-ready flag only clears when the
		// mailbox is found empty, not after every successful pop — a
		// worker keeps holding a non-empty mailbox across a whole batch.
		m.inReady = false
	}
	m.lock.Unlock()
	return msg, ok
}

// markRelease sets release, returning true if the mailbox is not currently
// in the ready list (the caller must link it so a worker observes the flag).
func (m *Mailbox) markRelease() (needsLink bool) {
	m.lock.Lock()
	if m.release {
		m.lock.Unlock()
		panic("mq: mailbox released twice")
	}
	m.release = true
	needsLink = !m.inReady
	if needsLink {
		m.inReady = true
	}
	m.lock.Unlock()
	return needsLink
}

// checkRelease reports whether the mailbox has been marked for teardown,
// under a single lock acquisition — mirrors skynet_mq_release's critical
// section, which decides drop-vs-requeue while holding the mailbox lock.
func (m *Mailbox) checkRelease() bool {
	m.lock.Lock()
	r := m.release
	m.lock.Unlock()
	return r
}

// drain pops every remaining message, invoking drop for each.
func (m *Mailbox) drain(drop DropFunc) {
	for {
		msg, ok := m.pop()
		if !ok {
			return
		}
		drop(msg)
	}
}
