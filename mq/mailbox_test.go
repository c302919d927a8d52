// File: mq/mailbox_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package mq

import "testing"

func TestMailboxPushPopOrder(t *testing.T) {
	m := newMailbox(1)
	for i := 0; i < 5; i++ {
		m.push(Message{Session: int32(i)})
	}
	for i := 0; i < 5; i++ {
		msg, ok := m.pop()
		if !ok {
			t.Fatalf("pop %d: expected a message", i)
		}
		if msg.Session != int32(i) {
			t.Fatalf("pop %d: got session %d, want %d", i, msg.Session, i)
		}
	}
	if _, ok := m.pop(); ok {
		t.Fatal("pop on empty mailbox should report false")
	}
}

func TestMailboxPushReturnsNeedsLinkOnce(t *testing.T) {
	m := newMailbox(1)
	// newMailbox starts with inReady == true (not yet published), so the
	// first push must not ask the caller to re-link it.
	if needsLink := m.push(Message{Session: 1}); needsLink {
		t.Fatal("push on a freshly created mailbox should not require linking")
	}
	m.pop() // retrieves the one queued message; inReady stays true (mirrors
	// skynet_mq_pop: the flag only clears once a pop call finds the
	// mailbox empty, not merely after draining the last message).
	if !m.inReady {
		t.Fatal("inReady should remain true immediately after a successful pop")
	}
	if _, ok := m.pop(); ok {
		t.Fatal("second pop on an empty mailbox should report false")
	}
	if m.inReady {
		t.Fatal("a pop call that finds the mailbox empty should clear inReady")
	}
	if needsLink := m.push(Message{Session: 2}); !needsLink {
		t.Fatal("push into a not-ready mailbox must ask the caller to link it")
	}
	if needsLink := m.push(Message{Session: 3}); needsLink {
		t.Fatal("a second push before the mailbox is re-linked must not ask again")
	}
}

func TestMailboxExpandGrowsRingAndPreservesOrder(t *testing.T) {
	m := newMailbox(1)
	initialCap := len(m.ring)
	n := initialCap + 3
	for i := 0; i < n; i++ {
		m.push(Message{Session: int32(i)})
	}
	if len(m.ring) <= initialCap {
		t.Fatalf("ring did not grow: len=%d initial=%d", len(m.ring), initialCap)
	}
	for i := 0; i < n; i++ {
		msg, ok := m.pop()
		if !ok || msg.Session != int32(i) {
			t.Fatalf("pop %d: got (%v, %v), want (%d, true)", i, msg.Session, ok, i)
		}
	}
}

func TestMailboxOverloadReportsAndClears(t *testing.T) {
	m := newMailbox(1)
	m.overloadThreshold = 4
	for i := 0; i < 6; i++ {
		m.push(Message{Session: int32(i)})
	}
	m.pop()
	if got := m.Overload(); got == 0 {
		t.Fatal("expected a nonzero overload reading after exceeding the threshold")
	}
	if got := m.Overload(); got != 0 {
		t.Fatalf("overload reading should clear after being read once, got %d", got)
	}
}

func TestMailboxOverloadThresholdResetsOnDrain(t *testing.T) {
	m := newMailbox(1)
	m.overloadThreshold = 4
	for i := 0; i < 6; i++ {
		m.push(Message{Session: int32(i)})
	}
	for i := 0; i < 6; i++ {
		m.pop()
	}
	// The reset happens on the pop call that finds the mailbox empty.
	m.pop()
	if m.overloadThreshold != overloadBase {
		t.Fatalf("overloadThreshold should reset to base once the mailbox drains, got %d", m.overloadThreshold)
	}
}

func TestMailboxMarkReleaseTwicePanics(t *testing.T) {
	m := newMailbox(1)
	m.markRelease()
	defer func() {
		if recover() == nil {
			t.Fatal("marking an already-released mailbox twice should panic")
		}
	}()
	m.markRelease()
}

func TestMailboxDrainInvokesDropForEachRemainingMessage(t *testing.T) {
	m := newMailbox(1)
	for i := 0; i < 3; i++ {
		m.push(Message{Session: int32(i)})
	}
	var dropped []int32
	m.drain(func(msg Message) {
		dropped = append(dropped, msg.Session)
	})
	if len(dropped) != 3 {
		t.Fatalf("expected 3 dropped messages, got %d", len(dropped))
	}
	for i, s := range dropped {
		if s != int32(i) {
			t.Fatalf("dropped[%d] = %d, want %d", i, s, i)
		}
	}
}
