// Package debuglog appends per-tick diagnostics to a file when enabled.
// Off by default; all calls are no-ops until Enable succeeds.
package debuglog

import (
	"log"
	"os"
)

var logger *log.Logger

// Enable opens (or creates) the log file in append mode.
func Enable(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	logger = log.New(f, "", log.LstdFlags)
	return nil
}

// Enabled reports whether diagnostics are being written.
func Enabled() bool { return logger != nil }

// Printf writes one diagnostic line when enabled.
func Printf(format string, args ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, args...)
}
