//go:build windows

package probe

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modpsapi    = windows.NewLazySystemDLL("psapi.dll")
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetProcessMemoryInfo = modpsapi.NewProc("GetProcessMemoryInfo")
	procGetProcessIoCounters = modkernel32.NewProc("GetProcessIoCounters")
)

// processMemoryCounters mirrors PROCESS_MEMORY_COUNTERS.
type processMemoryCounters struct {
	CB                         uint32
	PageFaultCount             uint32
	PeakWorkingSetSize         uintptr
	WorkingSetSize             uintptr
	QuotaPeakPagedPoolUsage    uintptr
	QuotaPagedPoolUsage        uintptr
	QuotaPeakNonPagedPoolUsage uintptr
	QuotaNonPagedPoolUsage     uintptr
	PagefileUsage              uintptr
	PeakPagefileUsage          uintptr
}

// ioCounters mirrors IO_COUNTERS.
type ioCounters struct {
	ReadOperationCount  uint64
	WriteOperationCount uint64
	OtherOperationCount uint64
	ReadTransferCount   uint64
	WriteTransferCount  uint64
	OtherTransferCount  uint64
}

type win32Sampler struct{}

func newPlatformSampler() Sampler { return win32Sampler{} }

// Sample reads process times, peak working set and I/O operation counts.
// Windows has no block counters; read and write operations stand in for them.
func (win32Sampler) Sample() (Snapshot, error) {
	proc := windows.CurrentProcess()

	var creation, exit, kernel, user windows.Filetime
	if err := windows.GetProcessTimes(proc, &creation, &exit, &kernel, &user); err != nil {
		return Snapshot{}, fmt.Errorf("GetProcessTimes: %w", err)
	}

	var mem processMemoryCounters
	mem.CB = uint32(unsafe.Sizeof(mem))
	if r, _, err := procGetProcessMemoryInfo.Call(uintptr(proc), uintptr(unsafe.Pointer(&mem)), uintptr(mem.CB)); r == 0 {
		return Snapshot{}, fmt.Errorf("GetProcessMemoryInfo: %w", err)
	}

	var io ioCounters
	if r, _, err := procGetProcessIoCounters.Call(uintptr(proc), uintptr(unsafe.Pointer(&io))); r == 0 {
		return Snapshot{}, fmt.Errorf("GetProcessIoCounters: %w", err)
	}

	return Snapshot{
		User:     filetimeMicros(user),
		System:   filetimeMicros(kernel),
		MaxRSS:   int64(mem.PeakWorkingSetSize),
		InBlock:  int64(io.ReadOperationCount),
		OutBlock: int64(io.WriteOperationCount),
	}, nil
}

// filetimeMicros converts a FILETIME duration (100ns ticks) to microseconds.
func filetimeMicros(ft windows.Filetime) int64 {
	ticks := int64(ft.HighDateTime)<<32 | int64(ft.LowDateTime)
	return ticks / 10
}
