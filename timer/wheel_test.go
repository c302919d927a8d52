// File: timer/wheel_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package timer

import (
	"bytes"
	"log"
	"os"
	"testing"
)

// fakeClock gives the test full control over both readings the wheel
// consumes, so ticks can be advanced deterministically.
type fakeClock struct {
	sec, cs uint32
	mono    uint64
}

func (f *fakeClock) WallClock() (uint32, uint32) { return f.sec, f.cs }
func (f *fakeClock) MonotonicCentiseconds() uint64 { return f.mono }

func TestWheelFiresAfterExactDelay(t *testing.T) {
	fc := &fakeClock{mono: 1000}
	var fired []Event
	w := New(fc, func(e Event) error {
		fired = append(fired, e)
		return nil
	})

	w.Schedule(Event{Handle: 1, Session: 10}, 5)

	for i := 0; i < 4; i++ {
		fc.mono++
		w.Advance()
		if len(fired) != 0 {
			t.Fatalf("fired early at tick %d: %v", i+1, fired)
		}
	}
	fc.mono++
	w.Advance()
	if len(fired) != 1 || fired[0].Session != 10 {
		t.Fatalf("expected exactly one fire with session 10, got %v", fired)
	}
}

func TestWheelCascadesAcrossLevels(t *testing.T) {
	fc := &fakeClock{mono: 0}
	var fired []Event
	w := New(fc, func(e Event) error {
		fired = append(fired, e)
		return nil
	})

	// A delay larger than the near ring forces placement into a cascade
	// level; this only fires correctly if shift() moves it down on time.
	const delay = Near + 10
	w.Schedule(Event{Handle: 2, Session: 99}, delay)

	for i := uint64(0); i < delay; i++ {
		fc.mono++
		w.Advance()
	}
	if len(fired) != 1 || fired[0].Session != 99 {
		t.Fatalf("expected the cascaded timer to fire exactly once, got %v", fired)
	}
}

func TestWheelSingleAdvanceCatchesUpAfterJump(t *testing.T) {
	fc := &fakeClock{mono: 0}
	var fired []Event
	w := New(fc, func(e Event) error {
		fired = append(fired, e)
		return nil
	})
	w.Schedule(Event{Handle: 1, Session: 1}, 3)

	fc.mono += 10 // large jump in a single Advance call, as if the caller stalled
	w.Advance()

	if len(fired) != 1 {
		t.Fatalf("expected a single-session fire despite the jump, got %v", fired)
	}
}

func TestWheelTimeoutNonPositiveDelayBypassesWheel(t *testing.T) {
	fc := &fakeClock{mono: 0}
	var fired []Event
	w := New(fc, func(e Event) error {
		fired = append(fired, e)
		return nil
	})
	w.Timeout(Event{Handle: 1, Session: 5}, 0)
	if len(fired) != 1 {
		t.Fatal("a non-positive delay must dispatch immediately, bypassing the wheel")
	}
	// Advancing further must not fire it a second time.
	fc.mono++
	w.Advance()
	if len(fired) != 1 {
		t.Fatalf("timeout fired more than once: %v", fired)
	}
}

func TestWheelDeadHandleIsNotLoggedAsError(t *testing.T) {
	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(os.Stderr)

	fc := &fakeClock{mono: 0}
	w := New(fc, func(e Event) error {
		return ErrDeadHandle
	})
	w.Schedule(Event{Handle: 404, Session: 1}, 1)
	fc.mono++
	w.Advance() // must not panic or otherwise misbehave on a dead-handle dispatch
	if logged.Len() != 0 {
		t.Fatalf("dead-handle dispatch was logged: %q", logged.String())
	}
}

func TestWheelTimeoutImmediateDeadHandleReturnsNegativeOne(t *testing.T) {
	fc := &fakeClock{mono: 0}
	w := New(fc, func(e Event) error {
		return ErrDeadHandle
	})
	session, err := w.Timeout(Event{Handle: 404, Session: 7}, 0)
	if session != -1 {
		t.Fatalf("session = %d, want -1 for a dead handle on the immediate path", session)
	}
	if err != ErrDeadHandle {
		t.Fatalf("err = %v, want ErrDeadHandle", err)
	}
}

func TestWheelScheduleReturnsSessionOnSuccess(t *testing.T) {
	fc := &fakeClock{mono: 0}
	w := New(fc, func(Event) error { return nil })
	session, err := w.Schedule(Event{Handle: 1, Session: 123}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session != 123 {
		t.Fatalf("session = %d, want 123", session)
	}
}

func TestWheelTickWrapFiresExactlyOnce(t *testing.T) {
	fc := &fakeClock{mono: 0}
	var fired []Event
	w := New(fc, func(e Event) error {
		fired = append(fired, e)
		return nil
	})
	// Seed the tick counter near its uint32 wraparound boundary so the
	// scheduled timer's expiry crosses 0, exercising shift()'s ct==0 branch.
	w.time = 0xFFFFFF00

	if _, err := w.Schedule(Event{Handle: 1, Session: 55}, 512); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 512; i++ {
		fc.mono++
		w.Advance()
	}

	if len(fired) != 1 || fired[0].Session != 55 {
		t.Fatalf("expected exactly one fire across the tick wrap, got %v", fired)
	}
}

func TestWheelNowAdvancesByElapsedCentiseconds(t *testing.T) {
	fc := &fakeClock{mono: 500}
	w := New(fc, func(Event) error { return nil })
	start := w.Now()
	fc.mono += 7
	w.Advance()
	if w.Now() != start+7 {
		t.Fatalf("Now() = %d, want %d", w.Now(), start+7)
	}
}
