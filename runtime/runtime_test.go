// File: runtime/runtime_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package runtime

import (
	"errors"
	"testing"
	"time"

	"github.com/momentics/skyqueue/internal/clock"
	"github.com/momentics/skyqueue/mq"
	"github.com/momentics/skyqueue/timer"
)

type fakeClock struct {
	sec, cs uint32
	mono    uint64
}

func (f *fakeClock) WallClock() (uint32, uint32)   { return f.sec, f.cs }
func (f *fakeClock) MonotonicCentiseconds() uint64 { return f.mono }

var _ clock.Source = (*fakeClock)(nil)

func TestNewServiceIsReachableThroughRegistry(t *testing.T) {
	rt := New(&fakeClock{})
	handle, mailbox := rt.NewService()
	if mailbox.Handle() != handle {
		t.Fatalf("mailbox.Handle() = %d, want %d", mailbox.Handle(), handle)
	}
	if err := rt.Registry.PushToHandle(handle, []byte("x"), 1, 0, 1); err != nil {
		t.Fatalf("unexpected error pushing to a freshly created service: %v", err)
	}
	if mailbox.Length() != 1 {
		t.Fatalf("mailbox.Length() = %d, want 1", mailbox.Length())
	}
}

func TestWorkerPoolDeliversPushedMessages(t *testing.T) {
	rt := New(&fakeClock{})
	_, mailbox := rt.NewService()

	received := make(chan mq.Message, 4)
	pool := NewWorkerPool(rt, 2, func(handle uint32, msg mq.Message) {
		received <- msg
	}, -1)
	defer pool.Stop()

	rt.Queue.Push(mailbox, mq.Message{Session: 7, Data: []byte("hello")})

	select {
	case msg := <-received:
		if msg.Session != 7 {
			t.Fatalf("got session %d, want 7", msg.Session)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the worker pool to deliver the message")
	}
}

func TestScheduleTimeoutImmediateDeadHandleReturnsNegativeOne(t *testing.T) {
	rt := New(&fakeClock{})

	session, err := rt.ScheduleTimeout(999, 7, 0)
	if session != -1 {
		t.Fatalf("session = %d, want -1 for a dead handle", session)
	}
	if !errors.Is(err, timer.ErrDeadHandle) {
		t.Fatalf("err = %v, want timer.ErrDeadHandle", err)
	}
}

func TestDeliverTimeoutPushesResponseMessage(t *testing.T) {
	fc := &fakeClock{mono: 0}
	rt := New(fc)
	handle, mailbox := rt.NewService()

	if session, err := rt.Wheel.Timeout(timer.Event{Handle: handle, Session: 42}, 1); err != nil || session != 42 {
		t.Fatalf("Timeout(delay=1) = (%d, %v), want (42, nil)", session, err)
	}
	fc.mono++
	rt.Wheel.Advance()

	msg, ok := rt.Queue.PopMessage(mailbox)
	if !ok {
		t.Fatal("expected a response message delivered by the fired timer")
	}
	if msg.Tag() != mq.PTypeResponse {
		t.Fatalf("msg.Tag() = %d, want mq.PTypeResponse", msg.Tag())
	}
	if msg.Session != 42 {
		t.Fatalf("msg.Session = %d, want 42", msg.Session)
	}
}
