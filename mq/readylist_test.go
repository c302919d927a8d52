// File: mq/readylist_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package mq

import "testing"

func TestReadyListFIFOOrder(t *testing.T) {
	q := NewReadyList()
	a := newMailbox(1)
	b := newMailbox(2)
	c := newMailbox(3)
	a.inReady, b.inReady, c.inReady = false, false, false

	q.Push(a)
	q.Push(b)
	q.Push(c)

	for _, want := range []*Mailbox{a, b, c} {
		if got := q.Pop(); got != want {
			t.Fatalf("Pop() = handle %d, want %d", got.Handle(), want.Handle())
		}
	}
	if got := q.Pop(); got != nil {
		t.Fatalf("Pop() on empty list = %v, want nil", got)
	}
}

func TestReadyListPushAlreadyLinkedPanics(t *testing.T) {
	q := NewReadyList()
	a := newMailbox(1)
	a.inReady = false
	q.Push(a)
	defer func() {
		if recover() == nil {
			t.Fatal("pushing an already-linked mailbox should panic")
		}
	}()
	q.Push(a)
}

func TestReadyListPopClearsNext(t *testing.T) {
	q := NewReadyList()
	a := newMailbox(1)
	a.inReady = false
	q.Push(a)
	popped := q.Pop()
	if popped.next != nil {
		t.Fatal("Pop should clear next on the returned mailbox")
	}
}
