package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procpulse/procpulse/internal/model"
)

func TestBusyPercent(t *testing.T) {
	tests := []struct {
		name string
		prev model.CPULine
		curr model.CPULine
		want float64
	}{
		{
			// total 1000->1100, idle 800->860
			name: "forty percent busy",
			prev: model.CPULine{Busy: 200, Total: 1000},
			curr: model.CPULine{Busy: 240, Total: 1100},
			want: 40.0,
		},
		{
			name: "no tick movement reads zero",
			prev: model.CPULine{Busy: 200, Total: 1000},
			curr: model.CPULine{Busy: 200, Total: 1000},
			want: 0,
		},
		{
			name: "counter regression reads zero not negative",
			prev: model.CPULine{Busy: 500, Total: 2000},
			curr: model.CPULine{Busy: 100, Total: 1000},
			want: 0,
		},
		{
			name: "fully busy clamps at 100",
			prev: model.CPULine{Busy: 0, Total: 1000},
			curr: model.CPULine{Busy: 100, Total: 1100},
			want: 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := busyPercent(tt.prev, tt.curr)
			assert.Equal(t, tt.want, got)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestBusyPercentAlwaysInRange(t *testing.T) {
	// Sweep of prev/curr pairs including regressions and idle-only jumps.
	lines := []model.CPULine{
		{Busy: 0, Total: 0},
		{Busy: 0, Total: 100},
		{Busy: 100, Total: 100},
		{Busy: 50, Total: 200},
		{Busy: 400, Total: 1000},
		{Busy: 999, Total: 1000},
	}
	for _, prev := range lines {
		for _, curr := range lines {
			got := busyPercent(prev, curr)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
			assert.False(t, math.IsNaN(got))
		}
	}
}

func TestDeriveCPUPerLineIndependence(t *testing.T) {
	// Asymmetric cores: each percentage must come from that core's own
	// deltas, not a share of the aggregate.
	prev := model.CPUCounters{Lines: []model.CPULine{
		{Busy: 100, Total: 2000}, // aggregate
		{Busy: 90, Total: 1000},
		{Busy: 10, Total: 1000},
	}}
	curr := model.CPUCounters{Lines: []model.CPULine{
		{Busy: 200, Total: 2200},
		{Busy: 180, Total: 1100},
		{Busy: 20, Total: 1100},
	}}
	m := DeriveCPU(prev, curr)
	require.Len(t, m.PerCore, 2)
	assert.Equal(t, 50.0, m.Total)
	assert.Equal(t, 90.0, m.PerCore[0])
	assert.Equal(t, 10.0, m.PerCore[1])
}

func TestDeriveCPUCoreCountChange(t *testing.T) {
	prev := model.CPUCounters{Lines: []model.CPULine{{Busy: 10, Total: 100}, {Busy: 10, Total: 100}}}
	curr := model.CPUCounters{Lines: []model.CPULine{
		{Busy: 20, Total: 200}, {Busy: 20, Total: 200}, {Busy: 5, Total: 100},
	}}
	m := DeriveCPU(prev, curr)
	require.Len(t, m.PerCore, 2)
	assert.Equal(t, 0.0, m.PerCore[1], "core without a previous line reads zero")
}

func TestDeriveMem(t *testing.T) {
	m := DeriveMem(model.MemCounters{
		TotalKB:     8_000_000,
		AvailableKB: 2_000_000,
		SwapTotalKB: 4_000_000,
		SwapFreeKB:  1_000_000,
	})
	assert.Equal(t, uint64(6_000_000), m.UsedKB)
	assert.Equal(t, 75.0, m.Percent)
	assert.Equal(t, uint64(3_000_000), m.SwapUsedKB)
	assert.Equal(t, 75.0, m.SwapPercent)
}

func TestDeriveMemEdgeCases(t *testing.T) {
	t.Run("zero total", func(t *testing.T) {
		m := DeriveMem(model.MemCounters{})
		assert.Equal(t, 0.0, m.Percent)
		assert.Equal(t, -1.0, m.CacheHitRate)
	})
	t.Run("available transiently above total", func(t *testing.T) {
		m := DeriveMem(model.MemCounters{TotalKB: 100, AvailableKB: 150})
		assert.Equal(t, uint64(0), m.UsedKB)
		assert.Equal(t, 0.0, m.Percent)
	})
}

func TestDeriveDiskIO(t *testing.T) {
	prev := model.DiskIOCounters{SectorsRead: 10_000, ReadsCompleted: 100, IOTicksMS: 1000}
	curr := model.DiskIOCounters{SectorsRead: 30_000, ReadsCompleted: 300, IOTicksMS: 1500}

	m := DeriveDiskIO(prev, curr, 2.0)
	// 20000 sectors * 512 / 2s / 1MiB
	assert.InDelta(t, 4.8828125, m.ReadMBps, 1e-9)
	assert.Equal(t, 100.0, m.ReadOpsSec)
	assert.InDelta(t, 25.0, m.BusyPercent, 1e-9, "500 busy-ms over 2s is 25 percent")
	assert.Equal(t, 0.0, m.WriteMBps)
}

func TestDeriveDiskIOElapsedGuard(t *testing.T) {
	prev := model.DiskIOCounters{}
	curr := model.DiskIOCounters{SectorsRead: 2048, IOTicksMS: 100}

	tests := []struct {
		name    string
		elapsed float64
	}{
		{name: "zero elapsed", elapsed: 0},
		{name: "negative elapsed", elapsed: -3},
		{name: "suspend-sized gap", elapsed: 3600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DeriveDiskIO(prev, curr, tt.elapsed)
			// substituted 1.0s denominator
			assert.InDelta(t, 1.0, m.ReadMBps, 1e-9)
			assert.InDelta(t, 10.0, m.BusyPercent, 1e-9)
		})
	}
}

func TestDeriveDiskIORegression(t *testing.T) {
	prev := model.DiskIOCounters{SectorsRead: 50_000, SectorsWritten: 50_000}
	curr := model.DiskIOCounters{SectorsRead: 10, SectorsWritten: 20}
	m := DeriveDiskIO(prev, curr, 1.0)
	assert.GreaterOrEqual(t, m.ReadMBps, 0.0)
	assert.GreaterOrEqual(t, m.WriteMBps, 0.0)
}

func TestDeriveDiskIOBusyCap(t *testing.T) {
	prev := model.DiskIOCounters{}
	curr := model.DiskIOCounters{IOTicksMS: 5000}
	m := DeriveDiskIO(prev, curr, 1.0)
	assert.Equal(t, 100.0, m.BusyPercent)
}

func TestDeriveSys(t *testing.T) {
	prev := model.SysCounters{CtxSwitches: 1000, Interrupts: 500}
	curr := model.SysCounters{CtxSwitches: 3000, Interrupts: 700, Load1: 0.5, UptimeSec: 99}
	m := DeriveSys(prev, curr, 2.0)
	assert.Equal(t, 1000.0, m.CtxSwitchesSec)
	assert.Equal(t, 100.0, m.InterruptsSec)
	assert.Equal(t, 0.5, m.Load1)
	assert.Equal(t, 99.0, m.UptimeSec)
}

func TestDeriveDisks(t *testing.T) {
	out := DeriveDisks([]model.FilesystemUsage{
		{Device: "/dev/sda1", Mount: "/", TotalKB: 1000, FreeKB: 250},
		{Device: "tmpfs", Mount: "/weird", TotalKB: 0, FreeKB: 0},
	})
	require.Len(t, out, 2)
	assert.Equal(t, uint64(750), out[0].UsedKB)
	assert.Equal(t, 75.0, out[0].Percent)
	assert.Equal(t, 0.0, out[1].Percent)
	assert.Equal(t, -1.0, out[1].ReadLatencyMS)
}
