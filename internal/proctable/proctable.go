// Package proctable reconciles the observed process set across ticks and
// provides the sorted/filtered views the process panel renders.
package proctable

import (
	"sort"
	"strings"

	"github.com/procpulse/procpulse/internal/model"
)

// Record is one row of the process panel, rebuilt in full every tick.
type Record struct {
	PID        int
	Name       string
	CPUPercent float64
	MemPercent float64
}

// Reconcile matches the current raw process reads against the previous
// tick's per-pid CPU ticks and returns the new records plus the carried
// map for the next tick. Pids absent from raw are dropped from the carried
// map in the same tick, so exited processes cannot accumulate. A pid with
// no previous entry diffs against zero; its first CPU% reading covers the
// process's whole accumulated usage, which is accepted for newly seen
// processes.
//
// CPU% multiplies by coreCount and is deliberately not clamped at 100:
// a process busy on several cores legitimately exceeds 100, matching
// top's convention. System-wide CPU% stays clamped elsewhere.
func Reconcile(raw []model.ProcCounters, prevTicks map[int]uint64, totalTickDelta uint64, coreCount int, memTotalKB uint64) ([]Record, map[int]uint64) {
	if totalTickDelta == 0 {
		totalTickDelta = 1
	}
	if coreCount < 1 {
		coreCount = 1
	}

	records := make([]Record, 0, len(raw))
	next := make(map[int]uint64, len(raw))
	for _, p := range raw {
		var delta uint64
		if prev, ok := prevTicks[p.PID]; ok && p.CPUTicks > prev {
			delta = p.CPUTicks - prev
		} else if !ok {
			delta = p.CPUTicks
		}
		next[p.PID] = p.CPUTicks

		var memPct float64
		if memTotalKB > 0 {
			memPct = 100 * float64(p.RSSKB) / float64(memTotalKB)
		}
		records = append(records, Record{
			PID:        p.PID,
			Name:       p.Name,
			CPUPercent: 100 * float64(delta) * float64(coreCount) / float64(totalTickDelta),
			MemPercent: memPct,
		})
	}
	return records, next
}

// SortMode selects the process panel ordering.
type SortMode int

const (
	SortCPU SortMode = iota
	SortMem
)

// Sort orders records in place: primary key descending, ties broken by
// the other percentage descending, then by pid so reordering is
// deterministic under equal data.
func Sort(records []Record, mode SortMode) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch mode {
		case SortMem:
			if a.MemPercent != b.MemPercent {
				return a.MemPercent > b.MemPercent
			}
			if a.CPUPercent != b.CPUPercent {
				return a.CPUPercent > b.CPUPercent
			}
		default:
			if a.CPUPercent != b.CPUPercent {
				return a.CPUPercent > b.CPUPercent
			}
			if a.MemPercent != b.MemPercent {
				return a.MemPercent > b.MemPercent
			}
		}
		return a.PID < b.PID
	})
}

// Filter returns the records whose name contains query, case-insensitive.
// The result is always a fresh slice, never an alias of records: callers
// sort the view in place and must not disturb the full record set.
func Filter(records []Record, query string) []Record {
	if query == "" {
		return append([]Record(nil), records...)
	}
	q := strings.ToLower(query)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r)
		}
	}
	return out
}
