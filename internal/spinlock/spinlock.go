// File: internal/spinlock/spinlock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A busy-wait spinlock for the O(1) critical sections in mq and timer: per
// mailbox, the global ready list, and the wheel. Mutexes park the calling
// goroutine on contention; under millions of short pop/push operations that
// parking cost dominates, so these locks spin and yield instead.

package spinlock

import (
	"runtime"
	"sync/atomic"
)

// SpinLock is a mutual-exclusion lock that busy-waits on contention.
// Zero value is an unlocked lock.
type SpinLock struct {
	state atomic.Bool
}

// Lock blocks until the lock is acquired.
func (l *SpinLock) Lock() {
	spins := 0
	for !l.state.CompareAndSwap(false, true) {
		spins++
		if spins > 64 {
			runtime.Gosched()
			spins = 0
		}
	}
}

// Unlock releases the lock. Unlocking an unlocked SpinLock is a caller bug.
func (l *SpinLock) Unlock() {
	l.state.Store(false)
}

// TryLock attempts to acquire the lock without blocking.
func (l *SpinLock) TryLock() bool {
	return l.state.CompareAndSwap(false, true)
}
