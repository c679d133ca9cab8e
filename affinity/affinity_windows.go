//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity, via
// golang.org/x/sys/windows's typed NewLazySystemDLL/NewProc wrappers
// rather than raw syscall.NewLazyDLL, matching the teacher's
// internal/concurrency/affinity_windows.go.

package affinity

import "golang.org/x/sys/windows"

var (
	modkernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask    = modkernel32.NewProc("SetThreadAffinityMask")
	procGetCurrentThread         = modkernel32.NewProc("GetCurrentThread")
)

// setAffinityPlatform sets thread affinity to a given CPU for Windows.
func setAffinityPlatform(cpuID int) error {
	hThread, _, _ := procGetCurrentThread.Call()
	mask := uintptr(1) << uint(cpuID)
	ret, _, err := procSetThreadAffinityMask.Call(hThread, mask)
	if ret == 0 {
		return err
	}
	return nil
}
