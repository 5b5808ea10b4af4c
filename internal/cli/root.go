// Package cli wires flags and config into the dashboard.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/procpulse/procpulse/internal/config"
	"github.com/procpulse/procpulse/internal/debuglog"
	"github.com/procpulse/procpulse/internal/engine"
	"github.com/procpulse/procpulse/internal/procfs"
	"github.com/procpulse/procpulse/internal/ui"
)

const debugLogPath = "procpulse_debug.log"

var (
	intervalFlag  time.Duration
	thresholdFlag float64
	noAlertFlag   bool
	historyFlag   int
	killWaitFlag  time.Duration
	aggregateFlag bool
	debugFlag     bool
	debugOnlyFlag bool
	procRootFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "procpulse",
	Short: "Terminal activity monitor for Linux",
	Long: `procpulse samples kernel counters on a fixed interval and renders
CPU, memory, disk, disk I/O, and process metrics as a live dashboard
with sparkline history.

Keys: q quit · r refresh · c/m sort by cpu/mem · / search · k kill ·
s toggle dynamic scaling · p toggle physical-core pairing`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig(cmd)
		if cfg.Debug {
			if err := debuglog.Enable(debugLogPath); err != nil {
				fmt.Fprintf(os.Stderr, "debug log disabled: %v\n", err)
			}
		}
		if cfg.DebugOnly {
			return debugOnly(cfg)
		}
		return ui.RunTUI(cfg)
	},
}

// buildConfig layers explicitly set flags over env/default config.
func buildConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()
	if cmd.Flags().Changed("interval") {
		cfg.Interval = intervalFlag
	}
	if cmd.Flags().Changed("threshold") {
		cfg.CPUThreshold = thresholdFlag
	}
	if cmd.Flags().Changed("history") {
		cfg.HistoryCap = historyFlag
	}
	if cmd.Flags().Changed("kill-wait") {
		cfg.KillWait = killWaitFlag
	}
	if cmd.Flags().Changed("aggregate") {
		cfg.AggregatePhysical = aggregateFlag
	}
	if cmd.Flags().Changed("proc-root") {
		cfg.ProcRoot = procRootFlag
	}
	if noAlertFlag {
		cfg.ShowAlert = false
	}
	cfg.Debug = debugFlag || debugOnlyFlag
	cfg.DebugOnly = debugOnlyFlag
	return cfg.Sanitized()
}

// debugOnly samples twice across one interval and prints derived metrics
// without starting the UI.
func debugOnly(cfg config.Config) error {
	src := procfs.New(cfg.ProcRoot)
	eng := engine.New(cfg)

	snap, err := src.Snapshot()
	if err != nil {
		return fmt.Errorf("cannot establish baseline: %w", err)
	}
	eng.Tick(snap)
	time.Sleep(cfg.Interval)

	snap, err = src.Snapshot()
	if err != nil {
		return fmt.Errorf("sample failed: %w", err)
	}
	res := eng.Tick(snap)

	m := res.Metrics
	fmt.Printf("cpu total: %.1f%%\n", m.CPU.Total)
	for i, v := range m.CPU.PerCore {
		fmt.Printf("cpu core %d: %.1f%%\n", i, v)
	}
	fmt.Printf("memory: %.1f%% (%d/%d kB)  swap: %.1f%%\n", m.Mem.Percent, m.Mem.UsedKB, m.Mem.TotalKB, m.Mem.SwapPercent)
	fmt.Printf("disk io: read %.1f MB/s write %.1f MB/s busy %.1f%%\n", m.DiskIO.ReadMBps, m.DiskIO.WriteMBps, m.DiskIO.BusyPercent)
	fmt.Printf("ctx/s: %.0f  intr/s: %.0f  load: %.2f %.2f %.2f\n",
		m.Sys.CtxSwitchesSec, m.Sys.InterruptsSec, m.Sys.Load1, m.Sys.Load5, m.Sys.Load15)
	for _, d := range m.Disks {
		fmt.Printf("fs %s on %s: %.1f%% used\n", d.Device, d.Mount, d.Percent)
	}
	fmt.Printf("processes: %d\n", len(res.Procs))
	return nil
}

func init() {
	def := config.Default()
	rootCmd.Flags().DurationVarP(&intervalFlag, "interval", "r", def.Interval, "refresh interval")
	rootCmd.Flags().Float64VarP(&thresholdFlag, "threshold", "t", def.CPUThreshold, "CPU alert threshold percent")
	rootCmd.Flags().BoolVarP(&noAlertFlag, "no-alert", "a", false, "disable CPU threshold alerts")
	rootCmd.Flags().IntVar(&historyFlag, "history", def.HistoryCap, "history samples kept per graph")
	rootCmd.Flags().DurationVar(&killWaitFlag, "kill-wait", def.KillWait, "wait after SIGTERM before SIGKILL")
	rootCmd.Flags().BoolVar(&aggregateFlag, "aggregate", def.AggregatePhysical, "pair logical cores into physical-core view")
	rootCmd.Flags().BoolVarP(&debugFlag, "debug", "d", false, "write per-tick diagnostics to "+debugLogPath)
	rootCmd.Flags().BoolVarP(&debugOnlyFlag, "debug-only", "o", false, "print one derived sample and exit (no UI)")
	rootCmd.Flags().StringVar(&procRootFlag, "proc-root", def.ProcRoot, "proc filesystem mount point")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
