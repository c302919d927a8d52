// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lock-free building blocks used outside the mq/timer core itself: an MPMC
// ring buffer backing control.EventRing's recent-events log, and a resizable
// task executor (built on the package's MPMC queue) that runtime.WorkerPool
// uses to run message handlers off the ready-list-draining goroutines.
package concurrency
