// File: timer/event.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package timer

import "errors"

// ErrDeadHandle is returned by a DispatchFunc when the timer fired for a
// handle that has since been unregistered. The wheel treats it as routine —
// logged at most, never propagated — rather than a dispatch failure.
var ErrDeadHandle = errors.New("timer: target handle no longer registered")

// Event is the payload carried by a scheduled timer (skynet_timer.c's
// struct timer_event): just enough to route a response back to the
// requester, never the response body itself.
type Event struct {
	Handle  uint32
	Session int32
}

// DispatchFunc delivers a fired Event, typically by pushing a tagged
// response Message into the target handle's mailbox (mq.PTypeResponse).
type DispatchFunc func(Event) error
