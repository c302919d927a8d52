// File: mq/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Queue is the process-wide entry point skynet_mq.c exposes as a loose
// collection of skynet_mq_* functions: mq_init (here NewQueue), mq_create,
// mq_push, mq_pop (via Queue.Pop + Queue.PopMessage), mq_mark_release and
// mq_release. Queue itself is stateless beyond the ready list — Mailbox
// instances are owned by whoever holds their handle (the registry).

package mq

// DropFunc is invoked once per message still queued in a Mailbox being torn
// down, so the caller can release any resources Data referenced (skynet_mq.c's
// message_drop callback passed to skynet_mq_release).
type DropFunc func(Message)

// Queue wires a ReadyList to mailbox lifecycle operations.
type Queue struct {
	ready *ReadyList
}

// NewQueue creates an empty Queue (skynet_mq_init has no C-side equivalent
// state beyond the global_queue singleton; here each Queue owns its own).
func NewQueue() *Queue {
	return &Queue{ready: NewReadyList()}
}

// CreateMailbox allocates a new Mailbox for handle (mq_create). The mailbox
// is not linked into the ready list until the caller (typically the
// registry, once the handle is published) calls Publish.
func (q *Queue) CreateMailbox(handle uint32) *Mailbox {
	return newMailbox(handle)
}

// Publish links a freshly created mailbox into the ready list so workers can
// observe it. Mirrors the handle-publication step implied by spec.md §3:
// a mailbox with no messages yet still needs to be reachable once the
// registry exposes its handle to senders.
func (q *Queue) Publish(mailbox *Mailbox) {
	q.ready.Push(mailbox)
}

// Push enqueues msg on mailbox, linking it into the ready list if it was not
// already linked or held by a worker (mq_push).
func (q *Queue) Push(mailbox *Mailbox, msg Message) {
	if mailbox.push(msg) {
		q.ready.Push(mailbox)
	}
}

// Pop dequeues a mailbox from the ready list (mq_pop's outer half, i.e. the
// scheduler step that hands a runnable mailbox to a worker). Returns nil if
// no mailbox currently has work.
func (q *Queue) Pop() *Mailbox {
	return q.ready.Pop()
}

// PopMessage dequeues the front Message from mailbox (mq_pop's inner half,
// the per-mailbox dequeue a worker performs after Pop hands it a mailbox).
func (q *Queue) PopMessage(mailbox *Mailbox) (Message, bool) {
	return mailbox.pop()
}

// MarkRelease flags mailbox for teardown (mq_mark_release). If the mailbox
// is not currently linked or held by a worker, it is linked now so some
// worker eventually observes the flag via Release.
func (q *Queue) MarkRelease(mailbox *Mailbox) {
	if mailbox.markRelease() {
		q.ready.Push(mailbox)
	}
}

// Release is called by a worker once it is done with a mailbox it popped
// (mq_release). If the mailbox was marked for teardown, its remaining
// messages are drained through drop and the mailbox is discarded; otherwise
// it is re-linked into the ready list for the next worker to pick up.
func (q *Queue) Release(mailbox *Mailbox, drop DropFunc) {
	if mailbox.checkRelease() {
		mailbox.drain(drop)
		return
	}
	q.ready.Push(mailbox)
}

// Length reports the number of queued messages in mailbox.
func (q *Queue) Length(mailbox *Mailbox) int {
	return mailbox.Length()
}

// Overload reports and clears mailbox's last recorded overload length.
func (q *Queue) Overload(mailbox *Mailbox) int {
	return mailbox.Overload()
}
