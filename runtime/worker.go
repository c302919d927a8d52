// File: runtime/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker and WorkerPool are a demonstration scheduler loop: spec.md
// explicitly leaves "how workers consume the ready list" external to the
// MQ/TW modules themselves, so this is reference wiring, not a named
// module. The stop/stopped channel handshake and affinity pinning follow
// internal/concurrency/executor.go's worker shape. Popping mailboxes off
// the ready list and running handlers are deliberately decoupled: a
// Worker's own goroutine only ever does cheap ring-buffer operations,
// while the handler call for each message is submitted to a shared
// concurrency.Executor, so one slow handler cannot stall the drain loop
// that keeps every other mailbox moving.

package runtime

import (
	goruntime "runtime"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/skyqueue/affinity"
	"github.com/momentics/skyqueue/internal/concurrency"
	"github.com/momentics/skyqueue/mq"
)

// Handler processes one message popped from a mailbox.
type Handler func(handle uint32, msg mq.Message)

// batchLimit caps how many messages a worker drains from a single mailbox
// before releasing it back to the ready list, so one chatty mailbox cannot
// starve every other mailbox waiting behind it.
const batchLimit = 256

// Worker repeatedly pops a ready mailbox, drains a bounded batch of its
// messages through a per-worker eapache/queue buffer, and releases the
// mailbox back to the queue unless the batch found it empty.
type Worker struct {
	id       int
	rt       *Runtime
	handler  Handler
	numaNode int
	exec     *concurrency.Executor

	stopCh    chan struct{}
	stoppedCh chan struct{}

	batch *queue.Queue
}

func newWorker(id int, rt *Runtime, handler Handler, numaNode int, exec *concurrency.Executor) *Worker {
	return &Worker{
		id:        id,
		rt:        rt,
		handler:   handler,
		numaNode:  numaNode,
		exec:      exec,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
		batch:     queue.New(),
	}
}

func (w *Worker) run() {
	defer close(w.stoppedCh)
	if w.numaNode >= 0 {
		// SetAffinity only pins whichever OS thread happens to be running
		// right now; without locking this goroutine to it first, the Go
		// scheduler is free to migrate it afterward and the pin is lost.
		goruntime.LockOSThread()
		_ = affinity.SetAffinity(w.numaNode)
	}
	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		mailbox := w.rt.Queue.Pop()
		if mailbox == nil {
			time.Sleep(time.Millisecond)
			continue
		}
		w.drain(mailbox)
	}
}

// drain pulls up to batchLimit messages off mailbox into the worker's own
// buffer before handling them, so a burst of pushes from another goroutine
// mid-dispatch cannot extend this worker's turn indefinitely.
func (w *Worker) drain(mailbox *mq.Mailbox) {
	emptied := false
	for i := 0; i < batchLimit; i++ {
		msg, ok := w.rt.Queue.PopMessage(mailbox)
		if !ok {
			emptied = true
			break
		}
		w.batch.Add(msg)
	}
	if n := mailbox.Overload(); n > 0 {
		w.rt.Metrics.Set("mq_overload_last", n)
		w.rt.Events.Record("mq_overload", n)
	}
	handle := mailbox.Handle()
	for w.batch.Length() > 0 {
		msg := w.batch.Remove().(mq.Message)
		if err := w.exec.Submit(func() { w.handler(handle, msg) }); err != nil {
			// Executor is closed or has no queue room; run inline rather
			// than drop work.
			w.handler(handle, msg)
		}
	}
	if emptied {
		// The PopMessage call that found the mailbox empty already cleared
		// its in-ready flag; the next Push relinks it, so relinking here
		// could put it on the ready list twice.
		return
	}
	w.rt.Queue.Release(mailbox, w.drop)
}

func (w *Worker) drop(msg mq.Message) {
	w.rt.Metrics.Set("mq_dropped_total", 1+w.droppedSoFar())
	w.rt.ReleaseBuffer(w.numaNode, msg.Data)
}

func (w *Worker) droppedSoFar() int {
	snap := w.rt.Metrics.GetSnapshot()
	if v, ok := snap["mq_dropped_total"]; ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return 0
}

// WorkerPool runs a fixed set of Workers draining the same Runtime, plus a
// shared Executor that actually invokes handlers.
type WorkerPool struct {
	workers []*Worker
	exec    *concurrency.Executor
}

// NewWorkerPool starts n workers handling messages with handler. A
// numaNode >= 0 is passed to affinity.SetAffinity as a logical CPU id, so
// every worker (and the backing executor's threads) is pinned to the CPU
// with that index; no NUMA-node-to-CPU mapping is done. Pass -1 to leave
// placement to the Go scheduler.
func NewWorkerPool(rt *Runtime, n int, handler Handler, numaNode int) *WorkerPool {
	if n <= 0 {
		n = 1
	}
	exec := concurrency.NewExecutor(n, numaNode)
	wp := &WorkerPool{workers: make([]*Worker, n), exec: exec}
	for i := 0; i < n; i++ {
		w := newWorker(i, rt, handler, numaNode, exec)
		wp.workers[i] = w
		go w.run()
	}
	return wp
}

// Stop signals every worker to exit, waits for all of them to do so, then
// closes the backing executor.
func (wp *WorkerPool) Stop() {
	for _, w := range wp.workers {
		close(w.stopCh)
	}
	for _, w := range wp.workers {
		<-w.stoppedCh
	}
	wp.exec.Close()
}

// NumWorkers reports the pool's fixed worker count.
func (wp *WorkerPool) NumWorkers() int {
	return len(wp.workers)
}
