// Package history keeps bounded rolling buffers of derived-metric samples
// for sparkline rendering.
package history

import "strconv"

// Well-known series IDs. Per-core series come from CoreSeries.
const (
	SeriesCPUTotal  = "cpu.total"
	SeriesMem       = "mem"
	SeriesSwap      = "swap"
	SeriesDiskRead  = "diskio.read"
	SeriesDiskWrite = "diskio.write"
)

// CoreSeries returns the series ID for one logical core.
func CoreSeries(core int) string {
	return "cpu.core." + strconv.Itoa(core)
}

// Store holds one bounded series per metric. Series are created on first
// append, start empty, and never shrink below capacity once full.
type Store struct {
	capacity int
	series   map[string][]float64
}

// NewStore returns a store whose series each hold at most capacity
// samples.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = 1
	}
	return &Store{
		capacity: capacity,
		series:   make(map[string][]float64),
	}
}

// Capacity reports the per-series sample bound.
func (s *Store) Capacity() int { return s.capacity }

// Append pushes v to the tail of the named series, evicting the oldest
// sample first when the series is at capacity.
func (s *Store) Append(id string, v float64) {
	h := s.series[id]
	if len(h) >= s.capacity {
		copy(h, h[1:])
		h[len(h)-1] = v
	} else {
		h = append(h, v)
	}
	s.series[id] = h
}

// Len reports the current number of samples in the named series.
func (s *Store) Len(id string) int { return len(s.series[id]) }

// Window returns the most recent width samples of the named series,
// oldest first, or fewer when the series is shorter. Callers map the
// returned slice right-aligned onto display columns: newest sample in
// the rightmost column, so already-drawn columns never shift between
// ticks. The slice aliases the store; callers must not mutate it.
func (s *Store) Window(id string, width int) []float64 {
	h := s.series[id]
	if width <= 0 {
		return nil
	}
	if width >= len(h) {
		return h
	}
	return h[len(h)-width:]
}
