// Package procfs reads the kernel counter families the engine derives
// metrics from. It parses raw text only; all delta math lives in the
// engine. The proc root is configurable so parsers run against fixture
// trees in tests.
package procfs

import (
	"fmt"
	"time"

	"github.com/procpulse/procpulse/internal/model"
)

// Source reads kernel counters at one point in time.
type Source struct {
	Root    string // proc mount, normally /proc
	SysRoot string // sysfs mount, normally /sys
}

func New(root string) *Source {
	if root == "" {
		root = "/proc"
	}
	return &Source{Root: root, SysRoot: "/sys"}
}

// Snapshot captures all counter families at once. CPU and memory are
// required; a failure to read either fails the snapshot. The remaining
// families are optional: on error their quantity reads as zero/empty for
// this tick and the rest of the snapshot stands.
func (s *Source) Snapshot() (model.Snapshot, error) {
	snap := model.Snapshot{Taken: time.Now()}

	st, err := s.readStat()
	if err != nil {
		return snap, fmt.Errorf("read cpu counters: %w", err)
	}
	snap.CPU = model.CPUCounters{Lines: st.cpus}
	snap.Sys.CtxSwitches = st.ctxt
	snap.Sys.Interrupts = st.intr

	snap.Mem, err = s.Memory()
	if err != nil {
		return snap, fmt.Errorf("read memory counters: %w", err)
	}

	// Best-effort families: a missing source zeroes its panel this tick
	// without interrupting the others.
	snap.DiskIO, _ = s.DiskIO()
	snap.Procs, _ = s.Processes()
	snap.Disks, _ = s.Filesystems()
	s.loadAvgInto(&snap.Sys)
	s.uptimeInto(&snap.Sys)
	snap.Temps = s.Temps()

	return snap, nil
}
