// Package procctl terminates processes on the monitor's behalf.
package procctl

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// pollInterval is how often the wait loop re-checks process existence.
const pollInterval = 50 * time.Millisecond

// exists probes the pid with signal 0.
func exists(pid int) bool {
	return unix.Kill(pid, 0) == nil
}

// Terminate asks pid to exit with SIGTERM, polls for it to disappear for
// up to wait, then escalates to SIGKILL. This bounded wait is the one
// place the tick loop may stall past the refresh interval; it is user
// initiated and rare. Returns nil once the process is gone.
func Terminate(pid int, wait time.Duration) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}

	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return nil
		}
		// SIGTERM refused (e.g. EPERM on the syscall path); go straight
		// to SIGKILL, which fails the same way if it cannot apply.
		return forceKill(pid)
	}

	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		if !exists(pid) {
			return nil
		}
		time.Sleep(pollInterval)
	}
	return forceKill(pid)
}

func forceKill(pid int) error {
	err := unix.Kill(pid, unix.SIGKILL)
	if err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("kill %d: %w", pid, err)
	}
	// Give the kernel a moment to reap before the existence re-check.
	time.Sleep(100 * time.Millisecond)
	if exists(pid) {
		return fmt.Errorf("process %d survived SIGKILL", pid)
	}
	return nil
}
