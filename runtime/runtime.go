// File: runtime/runtime.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runtime wires mq.Queue, timer.Wheel, registry.Registry, the control
// plane, and the NUMA pool manager into one explicit, non-global value —
// skynet keeps TI and the global message queue as process-wide singletons;
// Go has no equivalent need, so one Runtime per process (or per test) is
// the idiomatic shape instead.

package runtime

import (
	"github.com/momentics/skyqueue/control"
	"github.com/momentics/skyqueue/internal/apierr"
	"github.com/momentics/skyqueue/internal/clock"
	"github.com/momentics/skyqueue/mq"
	"github.com/momentics/skyqueue/pool"
	"github.com/momentics/skyqueue/registry"
	"github.com/momentics/skyqueue/timer"
)

// Runtime bundles the dispatch substrate's moving parts.
type Runtime struct {
	Queue    *mq.Queue
	Wheel    *timer.Wheel
	Registry *registry.Registry
	Config   *control.ConfigStore
	Metrics  *control.MetricsRegistry
	Events   *control.EventRing
	Debug    *control.DebugProbes
	Pools    *pool.Manager
}

// New builds a Runtime. clockSrc drives the wheel; pass clock.NewSystem()
// in production and a fake in tests. Config changes are wired to the
// package-level hot-reload hooks so a reload listener registered anywhere
// in the process (control.RegisterReloadHook) fires on every SetConfig.
func New(clockSrc clock.Source) *Runtime {
	rt := &Runtime{
		Queue:    mq.NewQueue(),
		Registry: registry.New(),
		Config:   control.NewConfigStore(),
		Metrics:  control.NewMetricsRegistry(),
		Events:   control.NewEventRing(256),
		Debug:    control.NewDebugProbes(),
		Pools:    pool.DefaultManager(),
	}
	rt.Wheel = timer.New(clockSrc, rt.deliverTimeout)
	rt.Config.OnReload(control.TriggerHotReload)
	rt.Debug.RegisterProbe("timer_now_centiseconds", func() any { return rt.Wheel.Now() })
	rt.Debug.RegisterProbe("metrics", func() any { return rt.Metrics.GetSnapshot() })
	rt.Debug.RegisterProbe("recent_events", func() any { return rt.Events.Drain() })
	control.RegisterPlatformProbes(rt.Debug)
	return rt
}

// deliverTimeout is the timer.DispatchFunc bridging a fired Event back into
// the mailbox substrate: a response message tagged mq.PTypeResponse, with
// no payload, exactly as skynet_timer.c's dispatch_list constructs it.
func (rt *Runtime) deliverTimeout(ev timer.Event) error {
	rt.Metrics.Set("timer_fired_total", rt.metricCounter("timer_fired_total")+1)
	sz := mq.WithTag(mq.PTypeResponse, 0)
	err := rt.Registry.PushToHandle(ev.Handle, nil, sz, 0, ev.Session)
	if err == apierr.ErrDeadHandle {
		rt.Events.Record("timer_dead_handle", ev)
		return timer.ErrDeadHandle
	}
	return err
}

// ScheduleTimeout arranges for handle to receive a PTypeResponse message
// tagged with session after delayCentiseconds, delegating to the wheel's
// schedule(handle, delay, session) -> session contract. Returns -1 and the
// underlying error if delayCentiseconds <= 0 and handle is already dead, so
// a caller scheduling an immediate timeout learns synchronously rather than
// having the failure silently swallowed.
func (rt *Runtime) ScheduleTimeout(handle uint32, session int32, delayCentiseconds int) (int32, error) {
	return rt.Wheel.Timeout(timer.Event{Handle: handle, Session: session}, delayCentiseconds)
}

func (rt *Runtime) metricCounter(key string) int {
	snap := rt.Metrics.GetSnapshot()
	if v, ok := snap[key]; ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return 0
}

// NewService reserves a handle, creates its mailbox, binds the two through
// the registry, and publishes the mailbox into the ready list so it is
// immediately reachable. The handle is known before the mailbox exists
// (mailbox.Handle() reports it), matching how an actor typically needs its
// own address before its first message arrives.
func (rt *Runtime) NewService() (handle uint32, mailbox *mq.Mailbox) {
	handle = rt.Registry.Reserve()
	mailbox = rt.Queue.CreateMailbox(handle)
	rt.Registry.Bind(handle, &mailboxPusher{queue: rt.Queue, mailbox: mailbox})
	rt.Queue.Publish(mailbox)
	return handle, mailbox
}

// mailboxPusher adapts a mailbox + queue pair to registry.Pusher, keeping
// the registry package free of an mq import.
type mailboxPusher struct {
	queue   *mq.Queue
	mailbox *mq.Mailbox
}

// AcquireBuffer returns a pooled payload buffer from numaNode's pool (node
// -1 for "no preference"), truncated to n bytes. Callers constructing
// mq.Message.Data for a push should draw from here rather than make()
// directly, so the buffer's memory stays local to whichever node a pinned
// worker will eventually read it on.
func (rt *Runtime) AcquireBuffer(numaNode, n int) []byte {
	buf := rt.Pools.PoolForNode(numaNode).Get()
	if n > len(buf) {
		n = len(buf)
	}
	return buf[:n]
}

// ReleaseBuffer returns buf to numaNode's pool. Called from the mq.DropFunc
// a worker passes to Queue.Release, so a torn-down mailbox's unread payload
// buffers are recycled instead of left for the GC. Buffers not originally
// drawn from the pool (e.g. a caller-supplied literal) are too small for
// NUMAPool.Put's fixed-size re-slice and are left for the GC instead.
func (rt *Runtime) ReleaseBuffer(numaNode int, buf []byte) {
	if buf == nil {
		return
	}
	p := rt.Pools.PoolForNode(numaNode)
	if cap(buf) < p.Size() {
		return
	}
	p.Put(buf)
}

func (p *mailboxPusher) Push(data []byte, sz uint64, source uint32, session int32) {
	p.queue.Push(p.mailbox, mq.Message{
		Source:  source,
		Session: session,
		Data:    data,
		Sz:      sz,
	})
}
