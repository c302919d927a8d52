// File: timer/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package timer is a hierarchical timing wheel: a 256-slot near ring for
// events due within roughly the next 2.56 seconds, cascading into four
// 64-slot levels for anything further out. It is a direct reimplementation
// of skynet_timer.c — O(1) insertion, O(1) amortized tick advancement, and
// no delete operation, matching the original's design.
package timer
