package model

// CPUMetrics aggregates instantaneous CPU usage derived from two
// snapshots.
type CPUMetrics struct {
	Total   float64   // percent 0-100
	PerCore []float64 // per-core percent
	Alert   bool      // aggregate usage at or above the configured threshold
}

// MemMetrics captures derived RAM and swap usage.
type MemMetrics struct {
	UsedKB      uint64
	TotalKB     uint64
	Percent     float64
	SwapUsedKB  uint64
	SwapTotalKB uint64
	SwapPercent float64

	// Display-only estimates derived from cache pressure and usage.
	CacheHitRate float64 // percent, -1 when unknown
	LatencyNS    float64 // -1 when unknown
}

// DiskIOMetrics holds per-tick disk throughput and utilization rates.
type DiskIOMetrics struct {
	ReadMBps    float64
	WriteMBps   float64
	ReadOpsSec  float64
	WriteOpsSec float64
	BusyPercent float64
}

// SysMetrics is the system-counter panel: rates plus pass-through
// instantaneous readings.
type SysMetrics struct {
	CtxSwitchesSec float64
	InterruptsSec  float64
	Load1          float64
	Load5          float64
	Load15         float64
	UptimeSec      float64
}

// DiskMetrics is the capacity view of one filesystem with derived usage.
type DiskMetrics struct {
	Device        string
	Mount         string
	TotalKB       uint64
	FreeKB        uint64
	UsedKB        uint64
	Percent       float64
	ReadLatencyMS float64 // usage-based estimate, -1 when unknown
}

// Metrics is everything one tick derives; computed once per tick and
// handed to the history store and renderer, never mutated afterwards.
type Metrics struct {
	CPU    CPUMetrics
	Mem    MemMetrics
	DiskIO DiskIOMetrics
	Sys    SysMetrics
	Disks  []DiskMetrics
	Temps  []Temp
}
