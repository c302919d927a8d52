// File: registry/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package registry is a minimal handle table: just enough of
// skynet_handle.c's addressing to let package runtime wire mq.Queue and
// timer.Wheel to each other. Service addressing proper is out of scope.
package registry
