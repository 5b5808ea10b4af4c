// Package engine turns successive raw counter snapshots into derived
// metrics, history points, and reconciled process records.
package engine

import (
	"github.com/procpulse/procpulse/internal/config"
	"github.com/procpulse/procpulse/internal/history"
	"github.com/procpulse/procpulse/internal/model"
	"github.com/procpulse/procpulse/internal/proctable"
)

// Engine owns the carried tick-to-tick state: the previous snapshot, the
// per-pid CPU tick map, and the history store. The derivation itself is
// pure; Tick just threads state through it. Single driver context, no
// locking.
type Engine struct {
	cfg       config.Config
	hist      *history.Store
	prev      model.Snapshot
	havePrev  bool
	procTicks map[int]uint64
}

func New(cfg config.Config) *Engine {
	return &Engine{
		cfg:       cfg,
		hist:      history.NewStore(cfg.HistoryCap),
		procTicks: make(map[int]uint64),
	}
}

// History exposes the rolling buffers for the renderer.
func (e *Engine) History() *history.Store { return e.hist }

// TickResult is everything one tick produces for the renderer.
type TickResult struct {
	Metrics model.Metrics
	Procs   []proctable.Record
	First   bool
}

// Tick consumes the new snapshot. The first-ever snapshot only
// establishes the baseline: all derived values read zero and no history
// point is emitted. Every later tick derives metrics against the
// previous snapshot, appends history, and reconciles the process table;
// the previous snapshot is then replaced wholesale.
func (e *Engine) Tick(curr model.Snapshot) TickResult {
	if !e.havePrev {
		e.prev = curr
		e.havePrev = true
		e.procTicks = seedTicks(curr.Procs)

		res := TickResult{First: true}
		// Memory and disk capacity are instantaneous, so the baseline tick
		// can show them; the delta-derived quantities all read zero.
		res.Metrics.Mem = DeriveMem(curr.Mem)
		res.Metrics.Disks = DeriveDisks(curr.Disks)
		res.Metrics.Sys.Load1 = curr.Sys.Load1
		res.Metrics.Sys.Load5 = curr.Sys.Load5
		res.Metrics.Sys.Load15 = curr.Sys.Load15
		res.Metrics.Sys.UptimeSec = curr.Sys.UptimeSec
		res.Metrics.CPU.PerCore = make([]float64, curr.CPU.Cores())
		res.Metrics.Temps = curr.Temps
		res.Procs, e.procTicks = proctable.Reconcile(curr.Procs, e.procTicks, 1, curr.CPU.Cores(), curr.Mem.TotalKB)
		return res
	}

	m := Derive(e.prev, curr)
	m.CPU.Alert = e.cfg.ShowAlert && m.CPU.Total >= e.cfg.CPUThreshold

	e.hist.Append(history.SeriesCPUTotal, m.CPU.Total)
	for i, v := range m.CPU.PerCore {
		e.hist.Append(history.CoreSeries(i), v)
	}
	e.hist.Append(history.SeriesMem, m.Mem.Percent)
	e.hist.Append(history.SeriesSwap, m.Mem.SwapPercent)
	e.hist.Append(history.SeriesDiskRead, m.DiskIO.ReadMBps)
	e.hist.Append(history.SeriesDiskWrite, m.DiskIO.WriteMBps)

	totalDelta := aggregateTickDelta(e.prev.CPU, curr.CPU)
	var procs []proctable.Record
	procs, e.procTicks = proctable.Reconcile(curr.Procs, e.procTicks, totalDelta, curr.CPU.Cores(), curr.Mem.TotalKB)

	e.prev = curr
	return TickResult{Metrics: m, Procs: procs}
}

// aggregateTickDelta is the denominator for per-process CPU shares,
// taken from the aggregate line of both snapshots.
func aggregateTickDelta(prev, curr model.CPUCounters) uint64 {
	if len(prev.Lines) == 0 || len(curr.Lines) == 0 {
		return 1
	}
	d := tickDelta(prev.Lines[0].Total, curr.Lines[0].Total)
	if d == 0 {
		return 1
	}
	return d
}

// seedTicks primes the carried map with the baseline's own counters so
// the first reconciliation diffs against them instead of reporting every
// process's whole accumulated usage.
func seedTicks(procs []model.ProcCounters) map[int]uint64 {
	m := make(map[int]uint64, len(procs))
	for _, p := range procs {
		m[p.PID] = p.CPUTicks
	}
	return m
}
