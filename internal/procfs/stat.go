package procfs

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/procpulse/procpulse/internal/model"
)

type statCounters struct {
	cpus []model.CPULine // index 0 aggregate
	ctxt uint64
	intr uint64
}

// readStat parses /proc/stat: the aggregate cpu line, one line per
// logical core, and the global ctxt/intr counters. A cpu line with too
// few fields is skipped; the rest of the file still parses.
func (s *Source) readStat() (statCounters, error) {
	f, err := os.Open(filepath.Join(s.Root, "stat"))
	if err != nil {
		return statCounters{}, err
	}
	defer f.Close()

	var out statCounters
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "cpu"):
			if cl, ok := parseCPULine(line); ok {
				out.cpus = append(out.cpus, cl)
			}
		case strings.HasPrefix(line, "ctxt "):
			out.ctxt = parseUintField(line, 1)
		case strings.HasPrefix(line, "intr "):
			out.intr = parseUintField(line, 1)
		}
	}
	return out, sc.Err()
}

// parseCPULine turns "cpuN user nice system idle iowait irq softirq
// steal ..." into a busy/total tick pair. Busy excludes idle and iowait.
func parseCPULine(line string) (model.CPULine, bool) {
	fields := strings.Fields(line)
	// label + at least user..iowait
	if len(fields) < 6 {
		return model.CPULine{}, false
	}
	var ticks [8]uint64
	for i := 0; i < 8 && i+1 < len(fields); i++ {
		v, err := strconv.ParseUint(fields[i+1], 10, 64)
		if err != nil {
			return model.CPULine{}, false
		}
		ticks[i] = v
	}
	var total uint64
	for _, t := range ticks {
		total += t
	}
	idle := ticks[3] + ticks[4] // idle + iowait
	return model.CPULine{Busy: total - idle, Total: total}, true
}

func parseUintField(line string, idx int) uint64 {
	fields := strings.Fields(line)
	if idx >= len(fields) {
		return 0
	}
	v, _ := strconv.ParseUint(fields[idx], 10, 64)
	return v
}
