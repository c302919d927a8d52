//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation for setting thread CPU affinity, via
// golang.org/x/sys/unix's sched_setaffinity wrapper rather than cgo.

package affinity

import "golang.org/x/sys/unix"

// setAffinityPlatform sets the calling OS thread's affinity to cpuID.
func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}
