// File: mq/readylist.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ReadyList is the process-wide intrusive FIFO of mailboxes that currently
// have work (skynet_mq.c's struct global_queue). A mailbox appears at most
// once; Mailbox.next is written only while holding readyList.lock.

package mq

import "github.com/momentics/skyqueue/internal/spinlock"

// ReadyList is a FIFO of Mailboxes with head/tail pointers and one lock.
type ReadyList struct {
	lock spinlock.SpinLock
	head *Mailbox
	tail *Mailbox
}

// NewReadyList creates an empty ready list.
func NewReadyList() *ReadyList {
	return &ReadyList{}
}

// Push appends mailbox to the tail. Precondition: mailbox is not linked
// (mailbox.next == nil and it is not the current tail); panics otherwise.
func (q *ReadyList) Push(mailbox *Mailbox) {
	q.lock.Lock()
	if mailbox.next != nil || q.tail == mailbox {
		q.lock.Unlock()
		panic("mq: ready_push of mailbox already linked")
	}
	if q.tail != nil {
		q.tail.next = mailbox
		q.tail = mailbox
	} else {
		q.head = mailbox
		q.tail = mailbox
	}
	q.lock.Unlock()
}

// Pop removes and returns the head mailbox, or nil if the list is empty.
// The caller owns the mailbox until it is re-linked or destroyed.
func (q *ReadyList) Pop() *Mailbox {
	q.lock.Lock()
	m := q.head
	if m != nil {
		q.head = m.next
		if q.head == nil {
			if m != q.tail {
				q.lock.Unlock()
				panic("mq: ready list tail inconsistent")
			}
			q.tail = nil
		}
		m.next = nil
	}
	q.lock.Unlock()
	return m
}
