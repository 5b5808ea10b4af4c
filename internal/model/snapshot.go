package model

import "time"

// CPULine is one cumulative tick counter pair from the kernel's per-CPU
// accounting. Busy excludes idle and iowait time.
type CPULine struct {
	Busy  uint64
	Total uint64
}

// CPUCounters holds the aggregate line at index 0 followed by one line per
// logical core.
type CPUCounters struct {
	Lines []CPULine
}

// Cores returns the number of logical cores covered by the snapshot.
func (c CPUCounters) Cores() int {
	if len(c.Lines) == 0 {
		return 0
	}
	return len(c.Lines) - 1
}

// MemCounters captures memory totals in kibibytes.
type MemCounters struct {
	TotalKB     uint64
	FreeKB      uint64
	AvailableKB uint64
	CachedKB    uint64
	BuffersKB   uint64
	SwapTotalKB uint64
	SwapFreeKB  uint64
}

// DiskIOCounters is the cumulative I/O activity summed across eligible
// physical block devices. IOTicksMS counts milliseconds the devices spent
// with I/O in flight.
type DiskIOCounters struct {
	ReadsCompleted  uint64
	WritesCompleted uint64
	SectorsRead     uint64
	SectorsWritten  uint64
	IOTicksMS       uint64
}

// SysCounters mixes cumulative counters (context switches, interrupts)
// with instantaneous readings (load average, uptime).
type SysCounters struct {
	CtxSwitches uint64
	Interrupts  uint64
	Load1       float64
	Load5       float64
	Load15      float64
	UptimeSec   float64
}

// ProcCounters is one process observed in a single read: its cumulative
// CPU ticks (utime+stime) and resident memory.
type ProcCounters struct {
	PID      int
	Name     string
	CPUTicks uint64
	RSSKB    uint64
}

// FilesystemUsage is the capacity view of one mounted filesystem.
type FilesystemUsage struct {
	Device  string
	Mount   string
	TotalKB uint64
	FreeKB  uint64
}

// Temp is a thermal sensor reading.
type Temp struct {
	Zone string
	Temp float64
}

// Snapshot is the full set of raw counters captured at one tick.
// Counter fields are cumulative and monotonically non-decreasing while
// the underlying device/process persists; derivation clamps apparent
// regressions to zero.
type Snapshot struct {
	Taken  time.Time
	CPU    CPUCounters
	Mem    MemCounters
	DiskIO DiskIOCounters
	Sys    SysCounters
	Procs  []ProcCounters
	Disks  []FilesystemUsage
	Temps  []Temp
}
