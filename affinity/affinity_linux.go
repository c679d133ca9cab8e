//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation for setting thread CPU affinity, via
// golang.org/x/sys/unix's SchedSetaffinity rather than a cgo call into
// pthread_setaffinity_np: it operates on the calling thread ID directly
// (tid 0 means "self" to the kernel), needs no C compiler, and is what
// the teacher's own internal/concurrency/affinity_linux_pure.go already
// used for the same syscall.

package affinity

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// setAffinityPlatform sets thread affinity to a given CPU for Linux.
func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity failed: %w", err)
	}
	return nil
}
