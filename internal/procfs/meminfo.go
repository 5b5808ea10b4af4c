package procfs

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/procpulse/procpulse/internal/model"
)

// Memory parses /proc/meminfo. Values are kibibytes. Unrecognized or
// malformed lines are skipped.
func (s *Source) Memory() (model.MemCounters, error) {
	f, err := os.Open(filepath.Join(s.Root, "meminfo"))
	if err != nil {
		return model.MemCounters{}, err
	}
	defer f.Close()

	var m model.MemCounters
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			m.TotalKB = v
		case "MemFree:":
			m.FreeKB = v
		case "MemAvailable:":
			m.AvailableKB = v
		case "Cached:":
			m.CachedKB = v
		case "Buffers:":
			m.BuffersKB = v
		case "SwapTotal:":
			m.SwapTotalKB = v
		case "SwapFree:":
			m.SwapFreeKB = v
		}
	}
	return m, sc.Err()
}
