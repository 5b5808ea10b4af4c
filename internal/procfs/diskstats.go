package procfs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/procpulse/procpulse/internal/model"
)

// Partition names carry a digit suffix on the parent disk name:
// sda1, vdb2, xvda3, nvme0n1p2, mmcblk0p1.
var partitionPattern = regexp.MustCompile(`^(?:(?:s|h|v|xv)d[a-z]+\d+|nvme\d+n\d+p\d+|mmcblk\d+p\d+)$`)

// eligibleDevice applies the name-pattern heuristic for which block
// devices count toward aggregate I/O: loopback, ramdisks, and partitions
// are excluded so a physical disk is not double counted with its
// partitions.
func eligibleDevice(name string) bool {
	for _, prefix := range []string{"loop", "ram", "zram", "fd", "sr", "dm-", "md"} {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	return !partitionPattern.MatchString(name)
}

// DiskIO parses /proc/diskstats and sums counters across eligible
// devices. Sector counters are 512-byte units regardless of the device's
// logical block size. Malformed lines are skipped.
func (s *Source) DiskIO() (model.DiskIOCounters, error) {
	f, err := os.Open(filepath.Join(s.Root, "diskstats"))
	if err != nil {
		return model.DiskIOCounters{}, err
	}
	defer f.Close()

	var io model.DiskIOCounters
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		// major minor name reads rmerged rsectors rms writes wmerged
		// wsectors wms inflight ioticks weightedms
		fields := strings.Fields(sc.Text())
		if len(fields) < 13 {
			continue
		}
		name := fields[2]
		if !eligibleDevice(name) {
			continue
		}
		vals := make([]uint64, 0, 10)
		ok := true
		for _, idx := range []int{3, 5, 7, 9, 12} {
			v, err := strconv.ParseUint(fields[idx], 10, 64)
			if err != nil {
				ok = false
				break
			}
			vals = append(vals, v)
		}
		if !ok {
			continue
		}
		io.ReadsCompleted += vals[0]
		io.SectorsRead += vals[1]
		io.WritesCompleted += vals[2]
		io.SectorsWritten += vals[3]
		io.IOTicksMS += vals[4]
	}
	return io, sc.Err()
}
