// File: cmd/skyqueued/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// skyqueued is a demonstration binary: it brings up a Runtime, a fixed pool
// of workers draining the ready list, and a goroutine advancing the timing
// wheel — enough to exercise mq, timer, registry and control end-to-end.
// Service addressing and wire protocols are out of scope (spec.md Non-goals);
// this only proves the dispatch substrate runs.

package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	goruntime "runtime"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/momentics/skyqueue/internal/clock"
	"github.com/momentics/skyqueue/mq"
	"github.com/momentics/skyqueue/runtime"
)

func main() {
	workers := pflag.Int("workers", 0, "worker pool size (0 = GOMAXPROCS)")
	tickMS := pflag.Int("tick-ms", 10, "timing wheel advance interval in milliseconds")
	numaNode := pflag.Int("numa-node", -1, "NUMA node to pin workers to (-1 = unpinned)")
	pflag.Parse()

	if _, err := maxprocs.Set(maxprocs.Logger(log.Printf)); err != nil {
		log.Printf("skyqueued: maxprocs.Set: %v", err)
	}

	n := *workers
	if n <= 0 {
		n = automaxprocsFallback()
	}

	rt := runtime.New(clock.NewSystem())
	rt.Config.SetConfig(map[string]any{
		"workers":   n,
		"tick_ms":   *tickMS,
		"numa_node": *numaNode,
	})

	handle, mailbox := rt.NewService()
	log.Printf("skyqueued: demo service registered at handle %d", handle)

	pool := runtime.NewWorkerPool(rt, n, func(handle uint32, msg mq.Message) {
		log.Printf("skyqueued: handle=%d session=%d tag=%d bytes=%d", handle, msg.Session, msg.Tag(), len(msg.Data))
		rt.ReleaseBuffer(*numaNode, msg.Data)
	}, *numaNode)
	log.Printf("skyqueued: started %d workers", pool.NumWorkers())

	stopWheel := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(*tickMS) * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopWheel:
				return
			case <-ticker.C:
				rt.Wheel.Advance()
			}
		}
	}()

	stopProducer := make(chan struct{})
	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		var session int32
		for {
			select {
			case <-stopProducer:
				return
			case <-ticker.C:
				session++
				buf := rt.AcquireBuffer(*numaNode, len("ping"))
				copy(buf, "ping")
				rt.Queue.Push(mailbox, mq.Message{
					Source:  0,
					Session: session,
					Data:    buf,
					Sz:      uint64(len(buf)),
				})
				if _, err := rt.ScheduleTimeout(handle, session, 100); err != nil {
					log.Printf("skyqueued: scheduled timeout session=%d: %v", session, err)
				}
			}
		}
	}()

	reportStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-reportStop:
				return
			case <-ticker.C:
				fmt.Printf("skyqueued: mailbox_len=%d debug=%+v\n", mailbox.Length(), rt.Debug.DumpState())
			}
		}
	}()

	signalCh := make(chan os.Signal, 2)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	<-signalCh
	log.Println("skyqueued: shutdown signal received")

	close(stopWheel)
	close(stopProducer)
	close(reportStop)
	pool.Stop()
	log.Println("skyqueued: shutdown complete")
}

// automaxprocsFallback sizes the worker pool when -workers is left at its
// default; automaxprocs has already right-sized GOMAXPROCS by the time this
// runs, so it reflects the container's actual CPU quota rather than the
// host's.
func automaxprocsFallback() int {
	n := goruntime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}
