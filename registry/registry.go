// File: registry/registry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Registry is a minimal stand-in for skynet_handle.c: just enough of a
// handle table to let mq.Queue and timer.Wheel drive each other inside
// package runtime. It is not a module spec.md names — the spec places
// service addressing out of scope and consumes only push_to_handle — but
// without some handle table the rest of the substrate has nothing to push
// messages into.

package registry

import (
	"sync"

	"github.com/momentics/skyqueue/internal/apierr"
)

// Pusher is whatever a handle resolves to: something that can accept a
// pushed message. mq.Queue's Mailbox satisfies this shape indirectly
// through runtime's adapter, keeping registry free of an mq import.
type Pusher interface {
	Push(data []byte, sz uint64, source uint32, session int32)
}

// Registry maps handles to Pushers under a single RWMutex — handle
// registration/lookup is orders of magnitude less frequent than mailbox
// push/pop, so a spinlock here would be the wrong trade-off.
type Registry struct {
	mu      sync.RWMutex
	next    uint32
	entries map[uint32]Pusher
}

// New creates an empty Registry. Handles are allocated starting at 1;
// handle 0 is reserved, matching skynet's convention that 0 means "no
// source" on messages that did not originate from a registered service.
func New() *Registry {
	return &Registry{entries: make(map[uint32]Pusher)}
}

// Register allocates a fresh handle for p and returns it.
func (r *Registry) Register(p Pusher) uint32 {
	handle := r.Reserve()
	r.Bind(handle, p)
	return handle
}

// Reserve allocates a handle with no Pusher bound yet. Useful when the
// Pusher itself needs to know its own handle before it can be constructed
// (a mailbox, for instance, is created with its handle already set).
func (r *Registry) Reserve() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	return r.next
}

// Bind attaches p to an already-reserved handle, replacing any prior
// binding for that handle.
func (r *Registry) Bind(handle uint32, p Pusher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[handle] = p
}

// Unregister removes handle, if present. Safe to call more than once.
func (r *Registry) Unregister(handle uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, handle)
}

// PushToHandle resolves handle and pushes the message, returning
// apierr.ErrDeadHandle if the handle is not (or no longer) registered.
func (r *Registry) PushToHandle(handle uint32, data []byte, sz uint64, source uint32, session int32) error {
	r.mu.RLock()
	p, ok := r.entries[handle]
	r.mu.RUnlock()
	if !ok {
		return apierr.ErrDeadHandle
	}
	p.Push(data, sz, source, session)
	return nil
}
