// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.
//
// Pins the calling OS thread to a logical CPU, letting a scheduler.Pool
// give each worker its own core and avoid cross-core cache migration
// under steady load. The Linux and Windows bodies go through
// golang.org/x/sys rather than cgo or raw syscall, so a worker can call
// runtime.LockOSThread and pin in the same goroutine without pulling in
// a C toolchain.

package affinity

import "runtime"

// Pin locks the calling goroutine to its current OS thread and sets
// that thread's affinity to cpuID. The caller must not unlock the OS
// thread afterward for the pin to remain effective; a scheduler worker
// calls this once at startup and keeps it for its whole lifetime.
func Pin(cpuID int) error {
	runtime.LockOSThread()
	return setAffinityPlatform(cpuID)
}

// SetAffinity pins current OS thread to a given logical CPU/core on supported platforms.
// On unsupported platforms returns an error.
func SetAffinity(cpuID int) error {
	return setAffinityPlatform(cpuID)
}
