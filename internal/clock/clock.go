// File: internal/clock/clock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Time source consumed by the timing wheel (spec.md §6): a wall-clock anchor
// taken once at startup, and a monotonic centisecond reading taken on every
// advance. Centiseconds (1/100s) are the wheel's native tick unit.

package clock

import "time"

// Source supplies the two readings the wheel needs.
type Source interface {
	// WallClock returns the seconds since the Unix epoch and the centisecond
	// (0-99) within that second.
	WallClock() (sec uint32, cs uint32)
	// MonotonicCentiseconds returns a monotonic reading in centiseconds.
	// Must be non-decreasing across calls on correctly functioning hardware;
	// callers tolerate but log regressions.
	MonotonicCentiseconds() uint64
}

// System is the production Source backed by the Go runtime clock.
type System struct {
	start time.Time
}

// NewSystem creates a System source, capturing a monotonic anchor.
func NewSystem() *System {
	return &System{start: time.Now()}
}

func (s *System) WallClock() (uint32, uint32) {
	now := time.Now()
	sec := uint32(now.Unix())
	cs := uint32(now.Nanosecond() / 10_000_000)
	return sec, cs
}

func (s *System) MonotonicCentiseconds() uint64 {
	return uint64(time.Since(s.start).Milliseconds() / 10)
}
