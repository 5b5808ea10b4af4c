package procfs

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/procpulse/procpulse/internal/model"
)

// Processes reads one ProcCounters per numeric /proc entry. A process
// that exits mid-scan or whose stat line does not parse is skipped; the
// scan never aborts on a single bad record.
func (s *Source) Processes() ([]model.ProcCounters, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, err
	}

	procs := make([]model.ProcCounters, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		p, ok := s.readProc(pid)
		if !ok {
			continue
		}
		procs = append(procs, p)
	}
	return procs, nil
}

func (s *Source) readProc(pid int) (model.ProcCounters, bool) {
	dir := filepath.Join(s.Root, strconv.Itoa(pid))

	data, err := os.ReadFile(filepath.Join(dir, "stat"))
	if err != nil {
		return model.ProcCounters{}, false
	}
	name, ticks, ok := parseProcStat(string(data))
	if !ok {
		return model.ProcCounters{}, false
	}

	p := model.ProcCounters{PID: pid, Name: name, CPUTicks: ticks}

	// status supplies the canonical name and resident memory; both are
	// optional (kernel threads have no VmRSS).
	if f, err := os.Open(filepath.Join(dir, "status")); err == nil {
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := sc.Text()
			switch {
			case strings.HasPrefix(line, "Name:"):
				if fields := strings.Fields(line); len(fields) >= 2 {
					p.Name = fields[1]
				}
			case strings.HasPrefix(line, "VmRSS:"):
				if fields := strings.Fields(line); len(fields) >= 2 {
					if v, err := strconv.ParseUint(fields[1], 10, 64); err == nil {
						p.RSSKB = v
					}
				}
			}
		}
		f.Close()
	}
	return p, true
}

// parseProcStat extracts comm and utime+stime from a /proc/[pid]/stat
// line. comm is parenthesized and may itself contain spaces or
// parentheses, so fields are counted from the last ')'. utime and stime
// are kernel fields 14 and 15, i.e. indices 11 and 12 of the remainder.
func parseProcStat(line string) (name string, cpuTicks uint64, ok bool) {
	open := strings.IndexByte(line, '(')
	end := strings.LastIndexByte(line, ')')
	if open < 0 || end < open {
		return "", 0, false
	}
	name = line[open+1 : end]

	rest := strings.Fields(line[end+1:])
	if len(rest) <= 12 {
		return "", 0, false
	}
	utime, err1 := strconv.ParseUint(rest[11], 10, 64)
	stime, err2 := strconv.ParseUint(rest[12], 10, 64)
	if err1 != nil || err2 != nil {
		return "", 0, false
	}
	return name, utime + stime, true
}
