package procfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procpulse/procpulse/internal/model"
)

// fixtureRoot builds a fake proc tree from path -> contents.
func fixtureRoot(t *testing.T, files map[string]string) *Source {
	t.Helper()
	root := t.TempDir()
	for path, contents := range files {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
	}
	s := New(root)
	s.SysRoot = filepath.Join(root, "no-such-sys")
	return s
}

func TestReadStat(t *testing.T) {
	s := fixtureRoot(t, map[string]string{
		"stat": "cpu  100 0 100 700 100 0 0 0 0 0\n" +
			"cpu0 60 0 60 330 50 0 0 0 0 0\n" +
			"cpu1 40 0 40 370 50 0 0 0 0 0\n" +
			"intr 987654 1 2 3\n" +
			"ctxt 123456\n" +
			"btime 1700000000\n",
	})
	st, err := s.readStat()
	require.NoError(t, err)

	require.Len(t, st.cpus, 3, "aggregate line plus one per core")
	assert.Equal(t, model.CPULine{Busy: 200, Total: 1000}, st.cpus[0])
	assert.Equal(t, model.CPULine{Busy: 120, Total: 500}, st.cpus[1])
	assert.Equal(t, uint64(123456), st.ctxt)
	assert.Equal(t, uint64(987654), st.intr)
}

func TestReadStatSkipsMalformedCPULine(t *testing.T) {
	s := fixtureRoot(t, map[string]string{
		"stat": "cpu  100 0 100 700 100 0 0 0\n" +
			"cpu0 garbage here\n" +
			"cpu1 40 0 40 370 50 0 0 0\n" +
			"ctxt 99\n",
	})
	st, err := s.readStat()
	require.NoError(t, err)
	assert.Len(t, st.cpus, 2, "malformed line skipped, parsing continues")
	assert.Equal(t, uint64(99), st.ctxt)
}

func TestReadStatMissingFileErrors(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.readStat()
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	s := fixtureRoot(t, map[string]string{
		"meminfo": "MemTotal:       8000000 kB\n" +
			"MemFree:        1000000 kB\n" +
			"MemAvailable:   2000000 kB\n" +
			"Buffers:         300000 kB\n" +
			"Cached:         1500000 kB\n" +
			"SwapTotal:      4000000 kB\n" +
			"SwapFree:       3000000 kB\n" +
			"BogusLine\n" +
			"Shmem:         notanumber kB\n",
	})
	m, err := s.Memory()
	require.NoError(t, err)
	assert.Equal(t, model.MemCounters{
		TotalKB:     8_000_000,
		FreeKB:      1_000_000,
		AvailableKB: 2_000_000,
		CachedKB:    1_500_000,
		BuffersKB:   300_000,
		SwapTotalKB: 4_000_000,
		SwapFreeKB:  3_000_000,
	}, m)
}

func TestDiskIOAggregatesEligibleDevices(t *testing.T) {
	s := fixtureRoot(t, map[string]string{
		"diskstats": " 259 0 nvme0n1 1000 0 16000 50 500 0 8000 30 0 700 80\n" +
			" 259 1 nvme0n1p1 900 0 14000 45 400 0 7000 25 0 600 70\n" +
			"   8 0 sda 200 0 4000 10 100 0 2000 5 0 100 15\n" +
			"   8 1 sda1 190 0 3900 9 90 0 1900 4 0 90 13\n" +
			"   7 0 loop0 50 0 400 1 0 0 0 0 0 10 1\n" +
			"   1 0 ram0 10 0 80 0 0 0 0 0 0 1 0\n" +
			" 253 0 dm-0 5 0 40 0 0 0 0 0 0 1 0\n" +
			" bad line\n",
	})
	io, err := s.DiskIO()
	require.NoError(t, err)
	// nvme0n1 + sda only: partitions, loop, ram, dm excluded.
	assert.Equal(t, model.DiskIOCounters{
		ReadsCompleted:  1200,
		SectorsRead:     20000,
		WritesCompleted: 600,
		SectorsWritten:  10000,
		IOTicksMS:       800,
	}, io)
}

func TestEligibleDevice(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "sda", want: true},
		{name: "sda1", want: false},
		{name: "vdb", want: true},
		{name: "vdb2", want: false},
		{name: "xvda3", want: false},
		{name: "nvme0n1", want: true},
		{name: "nvme0n1p2", want: false},
		{name: "mmcblk0", want: true},
		{name: "mmcblk0p1", want: false},
		{name: "loop7", want: false},
		{name: "ram3", want: false},
		{name: "zram0", want: false},
		{name: "dm-1", want: false},
		{name: "sr0", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eligibleDevice(tt.name))
		})
	}
}

func TestProcesses(t *testing.T) {
	s := fixtureRoot(t, map[string]string{
		"1/stat": "1 (systemd) S 0 1 1 0 -1 4194560 1 2 3 4 500 300 0 0 20 0 1 0 5 6 7\n",
		"1/status": "Name:\tsystemd\n" +
			"VmRSS:\t   11264 kB\n",
		"42/stat": "42 (weird name) with parens)) R 1 42 42 0 -1 0 0 0 0 0 70 30 0 0 20 0 1 0 5 6 7\n",
		"42/status": "Name:\tweird\n" +
			"VmRSS:\t    2048 kB\n",
		"99/stat":  "garbage without parens\n",
		"selfdir/": "",
	})
	// non-numeric dir and a file alongside
	require.NoError(t, os.WriteFile(filepath.Join(s.Root, "uptime"), []byte("1 1"), 0o644))

	procs, err := s.Processes()
	require.NoError(t, err)
	require.Len(t, procs, 2, "malformed and non-numeric entries skipped")

	byPID := map[int]model.ProcCounters{}
	for _, p := range procs {
		byPID[p.PID] = p
	}
	assert.Equal(t, model.ProcCounters{PID: 1, Name: "systemd", CPUTicks: 800, RSSKB: 11264}, byPID[1])
	assert.Equal(t, "weird", byPID[42].Name, "status Name wins over comm")
	assert.Equal(t, uint64(100), byPID[42].CPUTicks, "fields counted from the last closing paren")
}

func TestProcessMissingStatusStillCounts(t *testing.T) {
	s := fixtureRoot(t, map[string]string{
		"7/stat": "7 (kworker/0:1) I 2 0 0 0 -1 69238880 0 0 0 0 12 8 0 0 20 0 1 0 5 0 0\n",
	})
	procs, err := s.Processes()
	require.NoError(t, err)
	require.Len(t, procs, 1)
	assert.Equal(t, model.ProcCounters{PID: 7, Name: "kworker/0:1", CPUTicks: 20}, procs[0])
}

func TestLoadAvgAndUptime(t *testing.T) {
	s := fixtureRoot(t, map[string]string{
		"loadavg": "0.52 0.58 0.59 1/234 5678\n",
		"uptime":  "12345.67 23456.78\n",
	})
	var sys model.SysCounters
	s.loadAvgInto(&sys)
	s.uptimeInto(&sys)
	assert.Equal(t, 0.52, sys.Load1)
	assert.Equal(t, 0.58, sys.Load5)
	assert.Equal(t, 0.59, sys.Load15)
	assert.Equal(t, 12345.67, sys.UptimeSec)
}

func TestSnapshotRequiresCPUAndMemory(t *testing.T) {
	s := fixtureRoot(t, map[string]string{
		"meminfo": "MemTotal: 1 kB\n",
	})
	_, err := s.Snapshot()
	assert.Error(t, err, "missing stat is fatal for a snapshot")

	s2 := fixtureRoot(t, map[string]string{
		"stat":    "cpu  1 0 1 7 1 0 0 0 0 0\ncpu0 1 0 1 7 1 0 0 0 0 0\n",
		"meminfo": "MemTotal: 100 kB\nMemAvailable: 60 kB\n",
	})
	snap, err := s2.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CPU.Cores())
	assert.Equal(t, uint64(100), snap.Mem.TotalKB)
	// diskstats/loadavg/uptime missing: optional families read as zero.
	assert.Zero(t, snap.DiskIO)
	assert.Zero(t, snap.Sys.Load1)
	assert.False(t, snap.Taken.IsZero())
}
