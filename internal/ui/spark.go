package ui

import (
	"strings"

	"github.com/procpulse/procpulse/internal/scale"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// sparkline renders samples into a fixed-width run of block characters.
// The newest sample lands in the rightmost column and columns never
// shift between ticks: the line is left-padded when the series is still
// shorter than the width.
func sparkline(samples []float64, b scale.Bounds, width int) string {
	if width <= 0 {
		return ""
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}
	var sb strings.Builder
	for i := len(samples); i < width; i++ {
		sb.WriteByte(' ')
	}
	for _, v := range samples {
		idx := int(b.Normalize(v) * float64(len(sparkLevels)-1))
		sb.WriteRune(sparkLevels[idx])
	}
	return sb.String()
}

// pairCores averages adjacent logical cores into a physical-core view.
// An odd trailing core passes through alone. Presentation only; the
// underlying per-core derivation is untouched.
func pairCores(per []float64) []float64 {
	if len(per) < 2 {
		return per
	}
	out := make([]float64, 0, (len(per)+1)/2)
	for i := 0; i < len(per); i += 2 {
		if i+1 < len(per) {
			out = append(out, (per[i]+per[i+1])/2)
		} else {
			out = append(out, per[i])
		}
	}
	return out
}

// pairHistory averages two core history windows sample by sample,
// aligned on the newest tail. Both series receive one append per tick so
// lengths only differ transiently.
func pairHistory(a, b []float64) []float64 {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = (a[len(a)-n+i] + b[len(b)-n+i]) / 2
	}
	return out
}
