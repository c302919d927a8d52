// File: internal/concurrency/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for the concurrency module.

package concurrency

import "errors"

var (
	// ErrExecutorClosed is returned by Submit once the executor has been shut
	// down, and also when it has no queue room for the task.
	ErrExecutorClosed = errors.New("executor is closed")
)
