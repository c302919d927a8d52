// File: runtime/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package runtime wires mq.Queue, timer.Wheel, registry.Registry, and the
// control/pool packages into one Runtime value, plus a demonstration
// Worker/WorkerPool loop that drains the ready list. Neither Runtime nor
// WorkerPool is a module spec.md names; they exist so the substrate is
// runnable end-to-end rather than a set of disconnected packages.
package runtime
