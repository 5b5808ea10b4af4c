package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/procpulse/procpulse/internal/history"
	"github.com/procpulse/procpulse/internal/scale"
)

// colorProfile downgrades the palette on terminals without 256-color
// support, probed once at startup.
var colorProfile = termenv.ColorProfile()

func color(c256, ansi string) lipgloss.Color {
	if colorProfile == termenv.ANSI || colorProfile == termenv.Ascii {
		return lipgloss.Color(ansi)
	}
	return lipgloss.Color(c256)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(color("45", "6"))
	subtleStyle = lipgloss.NewStyle().Foreground(color("244", "7"))
	labelStyle  = lipgloss.NewStyle().Foreground(color("81", "4")).Bold(true)
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(color("231", "7")).Background(color("160", "1")).Padding(0, 1)
	selStyle    = lipgloss.NewStyle().Reverse(true)
	statusStyle = lipgloss.NewStyle().Foreground(color("220", "3"))
	sparkStyle  = lipgloss.NewStyle().Foreground(color("114", "2"))
	gaugeFill   = "█"
	gaugeEmpty  = "░"
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color("60", "8")).
			Padding(0, 1).
			MarginRight(1)
)

func (m *Model) View() string {
	gw := m.graphWidth()
	sections := []string{m.header()}
	if m.res.Metrics.CPU.Alert {
		sections = append(sections,
			alertStyle.Render(fmt.Sprintf("ALERT: CPU usage %.1f%% at or above %.1f%%",
				m.res.Metrics.CPU.Total, m.cfg.CPUThreshold)))
	}

	row1 := lipgloss.JoinHorizontal(lipgloss.Top, m.cpuCard(gw), m.memCard(gw))
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, m.diskIOCard(gw), m.sysCard(), m.diskCard())
	sections = append(sections, row1, row2, m.processCard(), m.footer())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) graphWidth() int {
	gw := m.width/2 - 14
	if gw < 20 {
		gw = 20
	}
	if gw > 60 {
		gw = 60
	}
	return gw
}

func (m *Model) percentPolicy() scale.Policy {
	if m.dynamicScale {
		return scale.Percentage(scale.Dynamic)
	}
	return scale.Percentage(scale.Fixed)
}

func (m *Model) header() string {
	sys := m.res.Metrics.Sys
	left := titleStyle.Render("procpulse")
	if m.hostname != "" {
		left += subtleStyle.Render(" @ " + m.hostname)
	}
	right := subtleStyle.Render(fmt.Sprintf("up %s  load %.2f %.2f %.2f",
		formatUptime(sys.UptimeSec), sys.Load1, sys.Load5, sys.Load15))
	return left + "  " + right
}

func (m *Model) cpuCard(gw int) string {
	cpu := m.res.Metrics.CPU
	pol := m.percentPolicy()

	total := m.eng.History().Window(history.SeriesCPUTotal, gw)
	b := pol.Compute(total)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", gaugeBar(cpu.Total, gw-8))
	fmt.Fprintf(&sb, "%s %s\n", sparkStyle.Render(sparkline(total, b, gw)), axisLabel(b))

	per := cpu.PerCore
	coreWindows := make([][]float64, len(per))
	for i := range per {
		coreWindows[i] = m.eng.History().Window(history.CoreSeries(i), gw)
	}
	label := "cpu"
	if m.pairPhysical {
		per = pairCores(per)
		paired := make([][]float64, 0, (len(coreWindows)+1)/2)
		for i := 0; i < len(coreWindows); i += 2 {
			if i+1 < len(coreWindows) {
				paired = append(paired, pairHistory(coreWindows[i], coreWindows[i+1]))
			} else {
				paired = append(paired, coreWindows[i])
			}
		}
		coreWindows = paired
		label = "core"
	}
	cb := pol.Compute(coreWindows...)
	for i, v := range per {
		fmt.Fprintf(&sb, "%s%-2d %5.1f%% %s\n",
			label, i, v, sparkStyle.Render(sparkline(coreWindows[i], cb, gw-12)))
	}
	mode := "fixed 0-100"
	if m.dynamicScale {
		mode = "dynamic"
	}
	sb.WriteString(subtleStyle.Render("scale: " + mode))
	return card(fmt.Sprintf("CPU %5.1f%%", cpu.Total), sb.String())
}

func (m *Model) memCard(gw int) string {
	mem := m.res.Metrics.Mem
	pol := m.percentPolicy()

	memWin := m.eng.History().Window(history.SeriesMem, gw)
	swapWin := m.eng.History().Window(history.SeriesSwap, gw)
	b := pol.Compute(memWin, swapWin)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s / %s\n", gaugeBar(mem.Percent, gw-8),
		kb(mem.UsedKB), kb(mem.TotalKB))
	fmt.Fprintf(&sb, "mem  %s %s\n", sparkStyle.Render(sparkline(memWin, b, gw-5)), axisLabel(b))
	fmt.Fprintf(&sb, "swap %s %5.1f%% (%s)\n",
		sparkStyle.Render(sparkline(swapWin, b, gw-5)), mem.SwapPercent, kb(mem.SwapUsedKB))
	if mem.CacheHitRate >= 0 {
		fmt.Fprintf(&sb, "cache hit ~%.0f%%  latency ~%.0f ns", mem.CacheHitRate, mem.LatencyNS)
	}
	return card(fmt.Sprintf("Memory %5.1f%%", mem.Percent), sb.String())
}

func (m *Model) diskIOCard(gw int) string {
	io := m.res.Metrics.DiskIO
	pol := scale.Throughput(10)

	readWin := m.eng.History().Window(history.SeriesDiskRead, gw)
	writeWin := m.eng.History().Window(history.SeriesDiskWrite, gw)
	b := pol.Compute(readWin, writeWin)

	var sb strings.Builder
	fmt.Fprintf(&sb, "read  %7.1f MB/s %s\n", io.ReadMBps, sparkStyle.Render(sparkline(readWin, b, gw-20)))
	fmt.Fprintf(&sb, "write %7.1f MB/s %s\n", io.WriteMBps, sparkStyle.Render(sparkline(writeWin, b, gw-20)))
	fmt.Fprintf(&sb, "ops r/w %.0f/%.0f per s\n", io.ReadOpsSec, io.WriteOpsSec)
	fmt.Fprintf(&sb, "busy %5.1f%%", io.BusyPercent)
	return card("Disk I/O", sb.String())
}

func (m *Model) sysCard() string {
	sys := m.res.Metrics.Sys
	var sb strings.Builder
	fmt.Fprintf(&sb, "ctx switches %10.0f/s\n", sys.CtxSwitchesSec)
	fmt.Fprintf(&sb, "interrupts   %10.0f/s\n", sys.InterruptsSec)
	if len(m.res.Metrics.Temps) > 0 {
		t := m.res.Metrics.Temps[0]
		fmt.Fprintf(&sb, "%s %.0f°C", truncate(t.Zone, 12), t.Temp)
	}
	return card("System", strings.TrimRight(sb.String(), "\n"))
}

func (m *Model) diskCard() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-14s %8s %8s %6s\n", "mount", "size", "free", "used")
	n := 0
	for _, d := range m.res.Metrics.Disks {
		if n == 5 {
			break
		}
		fmt.Fprintf(&sb, "%-14s %8s %8s %5.1f%%\n",
			truncate(d.Mount, 14), kb(d.TotalKB), kb(d.FreeKB), d.Percent)
		n++
	}
	return card("Filesystems", strings.TrimRight(sb.String(), "\n"))
}

func (m *Model) processCard() string {
	rows := m.height - 24
	if rows < 5 {
		rows = 5
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-7s %-24s %7s %7s\n", "pid", "name", "cpu%", "mem%")
	for i := m.offset; i < len(m.visible) && i < m.offset+rows; i++ {
		r := m.visible[i]
		line := fmt.Sprintf("%-7d %-24s %7.1f %7.1f", r.PID, truncate(r.Name, 24), r.CPUPercent, r.MemPercent)
		if i == m.selected {
			line = selStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}

	title := fmt.Sprintf("Processes (%d", len(m.visible))
	if m.query != "" {
		title += fmt.Sprintf(" matching %q", m.query)
	}
	title += ")"
	return card(title, strings.TrimRight(sb.String(), "\n"))
}

func (m *Model) footer() string {
	if m.confirming {
		return alertStyle.Render(m.confirmStr)
	}
	if m.searching {
		return m.search.View()
	}
	help := subtleStyle.Render("q quit · r refresh · c/m sort · / search · k kill · s scale · p cores · ↑↓ select")
	if m.status != "" {
		return statusStyle.Render(m.status) + "  " + help
	}
	return help
}

// Helpers

func card(title, body string) string {
	return cardStyle.Render(labelStyle.Render(title) + "\n" + body)
}

func gaugeBar(pct float64, width int) string {
	if width < 10 {
		width = 10
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int((pct/100)*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %5.1f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

func axisLabel(b scale.Bounds) string {
	return subtleStyle.Render(fmt.Sprintf("%.1f-%.1f", b.Lower, b.Upper))
}

func kb(v uint64) string {
	return humanize.IBytes(v * 1024)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatUptime(sec float64) string {
	d := time.Duration(sec) * time.Second
	days := int(d.Hours()) / 24
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, int(d.Hours())%24)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
