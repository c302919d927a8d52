// File: timer/wheel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Wheel is a direct reimplementation of skynet_timer.c's hierarchical
// timing wheel: a 256-slot near ring plus four 64-slot cascade levels,
// giving O(1) insertion and O(1) amortized tick advancement without ever
// scanning the full timer set. The tick unit is a centisecond (1/100s).

package timer

import (
	"log"
	"unsafe"

	"golang.org/x/sys/cpu"

	"github.com/momentics/skyqueue/internal/clock"
	"github.com/momentics/skyqueue/internal/spinlock"
	"github.com/momentics/skyqueue/pool"
)

const (
	NearShift  = 8
	Near       = 1 << NearShift
	LevelShift = 6
	Level      = 1 << LevelShift
	NearMask   = Near - 1
	LevelMask  = Level - 1
)

// Wheel holds the full bucket set plus the clock bookkeeping needed to
// advance it. All bucket mutation happens under lock; dispatch itself runs
// unlocked so a slow handler cannot stall insertion from other goroutines.
type Wheel struct {
	lock spinlock.SpinLock

	near [Near]linkList
	t    [4][Level]linkList

	time      uint32 // current tick, wraps at 2^32
	starttime uint32 // wall-clock seconds at creation
	current   uint64 // monotonic centiseconds since creation

	currentPoint uint64
	clock        clock.Source
	dispatch     DispatchFunc

	// nodes pools the fixed-size node structs. Scheduling a timer is the
	// hottest allocation path in the whole substrate; recycling through
	// sync.Pool keeps it off the GC instead of bump-allocating one struct
	// per timeout the way skynet_malloc does in the C original.
	nodes *pool.SyncPool[*node]
}

// New creates a Wheel anchored to src's current time, delivering fired
// events through dispatch.
func New(src clock.Source, dispatch DispatchFunc) *Wheel {
	w := &Wheel{clock: src, dispatch: dispatch}
	w.nodes = pool.NewSyncPool(func() *node { return &node{} })
	for i := range w.near {
		w.near[i].clear()
	}
	for i := range w.t {
		for j := range w.t[i] {
			w.t[i][j].clear()
		}
	}
	sec, cs := src.WallClock()
	w.starttime = sec
	w.current = uint64(cs)
	w.currentPoint = src.MonotonicCentiseconds()
	return w
}

// Now returns the wheel's internal centisecond counter (skynet_now):
// monotonic since creation, not a wall-clock timestamp.
func (w *Wheel) Now() uint64 {
	return w.current
}

// StartTime returns the wall-clock second at which the wheel was created
// (skynet_starttime).
func (w *Wheel) StartTime() uint32 {
	return w.starttime
}

// addNode places a node into the near ring or one of the four cascade
// levels based on how many high bits of its expiry differ from the current
// tick. Caller must hold w.lock.
func (w *Wheel) addNode(nd *node) {
	expire := nd.expire
	current := w.time

	if (expire | NearMask) == (current | NearMask) {
		w.near[expire&NearMask].link(nd)
		return
	}

	mask := uint32(Near) << LevelShift
	i := 0
	for ; i < 3; i++ {
		if (expire|(mask-1)) == (current|(mask-1)) {
			break
		}
		mask <<= LevelShift
	}
	idx := (expire >> (NearShift + uint32(i)*LevelShift)) & LevelMask
	w.t[i][idx].link(nd)
}

// Schedule arranges for event to be dispatched after delay centiseconds and
// reports event.Session, mirroring the schedule(handle, delay, session) ->
// session contract. Insertion into the wheel itself never fails
// synchronously — unlike Timeout's delay<=0 path, there is no live dispatch
// to observe here, so the error is always nil.
func (w *Wheel) Schedule(event Event, delay uint32) (int32, error) {
	nd := w.nodes.Get()
	nd.event = event
	nd.next = nil
	w.lock.Lock()
	nd.expire = delay + w.time
	w.addNode(nd)
	w.lock.Unlock()
	return event.Session, nil
}

// Timeout mirrors skynet_timeout exactly: a non-positive delay bypasses the
// wheel entirely and dispatches in call order, and because that dispatch
// happens synchronously its outcome is known immediately — a dead handle
// reports (-1, err) rather than being silently dropped. A positive delay is
// scheduled normally; skynet_timeout never observes the deferred dispatch's
// outcome either, so that path always reports (session, nil).
func (w *Wheel) Timeout(event Event, delayCentiseconds int) (int32, error) {
	if delayCentiseconds <= 0 {
		if err := w.dispatch(event); err != nil {
			return -1, err
		}
		return event.Session, nil
	}
	return w.Schedule(event, uint32(delayCentiseconds))
}

// moveList re-inserts every node from bucket (level, idx) — called only
// when that bucket's expiry range has collapsed into range of a lower
// level (usually the near ring). Caller must hold w.lock.
func (w *Wheel) moveList(level, idx int) {
	current := w.t[level][idx].clear()
	for current != nil {
		next := current.next
		w.addNode(current)
		current = next
	}
}

// shift advances the tick by one, cascading timers down from whichever
// level just rolled over. Caller must hold w.lock.
func (w *Wheel) shift() {
	mask := uint32(Near)
	w.time++
	ct := w.time
	if ct == 0 {
		// uint32 wraparound: the top level's slot 0 must be re-inserted,
		// matching skynet_timer.c's explicit ct==0 special case.
		w.moveList(3, 0)
		return
	}
	t := ct >> NearShift
	for i := 0; (ct & (mask - 1)) == 0; i++ {
		idx := int(t & LevelMask)
		if idx != 0 {
			w.moveList(i, idx)
			break
		}
		mask <<= LevelShift
		t >>= LevelShift
	}
}

// execute dispatches every node currently in the near ring's active slot.
// Re-checks after each dispatch batch because a handler may itself schedule
// a zero-delay timer that lands back in this same slot. Caller must hold
// w.lock; releases it around dispatchList so slow handlers never block
// insertion.
func (w *Wheel) execute() {
	idx := w.time & NearMask
	for w.near[idx].head.next != nil {
		current := w.near[idx].clear()
		w.lock.Unlock()
		w.dispatchList(current)
		w.lock.Lock()
	}
}

// dispatchList delivers every node in a detached chain, returning each to
// the node pool once its event has been dispatched. Prefetches the next
// node before dispatching the current one, the same way the teacher's
// scheduler prefetches its next heap entry.
func (w *Wheel) dispatchList(current *node) {
	for current != nil {
		next := current.next
		if next != nil && cpu.X86.HasSSE2 {
			cpu.Prefetch(unsafe.Pointer(next))
		}
		w.deliver(current.event)
		current.next = nil
		w.nodes.Put(current)
		current = next
	}
}

func (w *Wheel) deliver(event Event) {
	if err := w.dispatch(event); err != nil && err != ErrDeadHandle {
		log.Printf("timer: dispatch handle=%d session=%d: %v", event.Handle, event.Session, err)
	}
}

// update advances the wheel by exactly one tick: dispatch anything already
// due, shift the tick, then dispatch whatever the shift cascaded into the
// near ring.
func (w *Wheel) update() {
	w.lock.Lock()
	w.execute()
	w.shift()
	w.execute()
	w.lock.Unlock()
}

// Advance reads the monotonic clock and ticks the wheel forward by the elapsed
// centiseconds (skynet_updatetime). A backward jump in the monotonic
// reading is logged and the clock resynced without ticking — it should
// never happen on correct hardware, but a stalled goroutine or a clock_gettime
// oddity must not wedge the wheel.
func (w *Wheel) Advance() {
	cp := w.clock.MonotonicCentiseconds()
	if cp < w.currentPoint {
		log.Printf("timer: monotonic clock regression: %d -> %d", w.currentPoint, cp)
		w.currentPoint = cp
		return
	}
	if cp == w.currentPoint {
		return
	}
	diff := cp - w.currentPoint
	w.currentPoint = cp
	w.current += diff
	for i := uint64(0); i < diff; i++ {
		w.update()
	}
}
