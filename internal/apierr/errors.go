// File: internal/apierr/errors.go
// Author: momentics <momentics@gmail.com>
//
// Structured, non-fatal error types shared by the runtime's public packages.
// Invariant violations remain Go panics (mirroring the original core's
// assert() calls); this package covers everything that crosses a public
// API boundary as a return value instead.

package apierr

import "fmt"

// ErrDeadHandle is returned by registry.PushToHandle when the target handle
// is not, or no longer, registered. runtime.Runtime.deliverTimeout translates
// it into timer.ErrDeadHandle before handing it back to the wheel.
var ErrDeadHandle = fmt.Errorf("handle no longer registered")
