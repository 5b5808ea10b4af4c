// Package scale derives graph axis bounds from visible history samples.
package scale

import "math"

// Mode selects how axis bounds are computed. There are exactly two
// behaviors, so a closed enum with a switch beats a strategy type.
type Mode int

const (
	// Fixed pins percentage graphs to [0, 100].
	Fixed Mode = iota
	// Dynamic zooms the axis to the visible sample range so narrow-band
	// series (e.g. CPU hovering at 8-9%) still show micro-variation.
	Dynamic
)

// Policy describes the natural domain of a graphed quantity. DomainMax <= 0
// means unbounded above (throughput series). FloorUpper, when positive,
// keeps the upper bound from collapsing below a readable minimum
// (e.g. 10 MB/s for disk throughput).
type Policy struct {
	Mode       Mode
	DomainMin  float64
	DomainMax  float64
	FloorUpper float64
}

// Percentage returns the policy for a 0-100 bounded series.
func Percentage(mode Mode) Policy {
	return Policy{Mode: mode, DomainMin: 0, DomainMax: 100}
}

// Throughput returns the policy for an unbounded-above rate series with
// the given minimum upper bound.
func Throughput(floorUpper float64) Policy {
	return Policy{Mode: Dynamic, DomainMin: 0, FloorUpper: floorUpper}
}

// Bounds is an inclusive axis range, Lower < Upper.
type Bounds struct {
	Lower float64
	Upper float64
}

// minSpan keeps a perfectly flat series rendering as a visible line
// instead of collapsing to a point.
const minSpan = 0.5

// Compute derives axis bounds for the given visible windows. Multiple
// series share one axis (memory and swap overlay on the same graph).
func (p Policy) Compute(series ...[]float64) Bounds {
	if p.Mode == Fixed {
		return Bounds{Lower: 0, Upper: 100}
	}

	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if lo > hi { // no visible samples yet
		lo, hi = p.DomainMin, p.DomainMin
	}

	b := Bounds{
		Lower: math.Floor(lo*2) / 2,
		Upper: math.Ceil(hi*2) / 2,
	}
	if b.Upper-b.Lower < minSpan {
		b.Upper = b.Lower + minSpan
	}
	if b.Upper < p.FloorUpper {
		b.Upper = p.FloorUpper
	}
	return p.clamp(b)
}

func (p Policy) clamp(b Bounds) Bounds {
	if b.Lower < p.DomainMin {
		b.Lower = p.DomainMin
	}
	if p.DomainMax > 0 && b.Upper > p.DomainMax {
		b.Upper = p.DomainMax
		if b.Upper-b.Lower < minSpan {
			b.Lower = b.Upper - minSpan
			if b.Lower < p.DomainMin {
				b.Lower = p.DomainMin
			}
		}
	}
	return b
}

// Normalize maps v into [0, 1] within the bounds, clamped.
func (b Bounds) Normalize(v float64) float64 {
	span := b.Upper - b.Lower
	if span <= 0 {
		return 0
	}
	n := (v - b.Lower) / span
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}
