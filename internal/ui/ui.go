// Package ui renders the live dashboard. The bubbletea event loop is the
// single execution context: sampling, derivation, and rendering all run
// sequentially inside Update/View, so no state needs locking.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/procpulse/procpulse/internal/config"
	"github.com/procpulse/procpulse/internal/debuglog"
	"github.com/procpulse/procpulse/internal/engine"
	"github.com/procpulse/procpulse/internal/procctl"
	"github.com/procpulse/procpulse/internal/procfs"
	"github.com/procpulse/procpulse/internal/proctable"
)

// Model owns the engine state and the view-layer knobs (sort mode,
// filter, selection, scaling mode).
type Model struct {
	cfg config.Config
	src *procfs.Source
	eng *engine.Engine

	res     engine.TickResult
	records []proctable.Record // reconciled set, unsorted/unfiltered
	visible []proctable.Record // filter+sort applied

	sortMode     proctable.SortMode
	search       textinput.Model
	searching    bool
	query        string
	selected     int
	offset       int
	dynamicScale bool
	pairPhysical bool

	confirming bool
	confirmPID int
	confirmStr string
	status     string

	hostname string
	width    int
	height   int
}

func New(cfg config.Config) *Model {
	search := textinput.New()
	search.Placeholder = "process name"
	search.Prompt = "/"
	search.CharLimit = 64

	hostname := ""
	if info, err := host.Info(); err == nil {
		hostname = info.Hostname
	}

	return &Model{
		cfg:          cfg,
		src:          procfs.New(cfg.ProcRoot),
		eng:          engine.New(cfg),
		search:       search,
		pairPhysical: cfg.AggregatePhysical,
		hostname:     hostname,
		width:        120,
		height:       40,
	}
}

type tickMsg time.Time

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.Interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// establishBaseline takes the startup snapshot. A source that cannot be
// read at all here is fatal: without a baseline no deltas can ever be
// derived, so the process must not begin monitoring. Later reads degrade
// instead (see sample).
func (m *Model) establishBaseline() error {
	snap, err := m.src.Snapshot()
	if err != nil {
		return fmt.Errorf("cannot begin monitoring: %w", err)
	}
	m.res = m.eng.Tick(snap)
	m.records = m.res.Procs
	m.refreshView()
	return nil
}

func (m *Model) Init() tea.Cmd {
	// The baseline is established before the program starts; the first
	// derived sample lands after one interval.
	return m.tickCmd()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		m.sample()
		return m, m.tickCmd()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// sample runs one tick: read, derive, reconcile, refresh the view set.
// Mid-run a failed read degrades to the previous state rather than
// crashing the loop; only the startup baseline is fatal.
func (m *Model) sample() {
	snap, err := m.src.Snapshot()
	if err != nil {
		m.status = fmt.Sprintf("sample failed: %v", err)
		return
	}
	m.res = m.eng.Tick(snap)
	m.records = m.res.Procs
	m.refreshView()
	debuglog.Printf("tick cpu=%.1f%% mem=%.1f%% io r/w=%.1f/%.1f MB/s procs=%d",
		m.res.Metrics.CPU.Total, m.res.Metrics.Mem.Percent,
		m.res.Metrics.DiskIO.ReadMBps, m.res.Metrics.DiskIO.WriteMBps, len(m.records))
}

// refreshView recomputes the filtered, sorted process view from the full
// record set and clamps the selection into it.
func (m *Model) refreshView() {
	m.visible = proctable.Filter(m.records, m.query)
	proctable.Sort(m.visible, m.sortMode)
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.offset > m.selected {
		m.offset = m.selected
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Confirmation dialog swallows all keys until answered.
	if m.confirming {
		switch msg.String() {
		case "y", "Y", "enter":
			m.confirming = false
			m.killConfirmed()
		case "n", "N", "esc", "q":
			m.confirming = false
			m.status = ""
		}
		return m, nil
	}

	// Search input mode.
	if m.searching {
		switch msg.String() {
		case "enter":
			m.searching = false
			m.search.Blur()
		case "esc":
			m.searching = false
			m.query = ""
			m.search.SetValue("")
			m.search.Blur()
			m.refreshView()
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.query = m.search.Value()
			m.refreshView()
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.sample()
	case "c":
		m.sortMode = proctable.SortCPU
		m.refreshView()
	case "m":
		m.sortMode = proctable.SortMem
		m.refreshView()
	case "s":
		m.dynamicScale = !m.dynamicScale
	case "p":
		m.pairPhysical = !m.pairPhysical
	case "/":
		m.searching = true
		m.search.Focus()
	case "k":
		if m.selected < len(m.visible) {
			p := m.visible[m.selected]
			m.confirming = true
			m.confirmPID = p.PID
			m.confirmStr = fmt.Sprintf("Kill process %d (%s)? [y/n]", p.PID, p.Name)
		}
	case "up":
		if m.selected > 0 {
			m.selected--
		}
	case "down":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
	case "pgup":
		m.selected -= 10
		if m.selected < 0 {
			m.selected = 0
		}
	case "pgdown":
		m.selected += 10
		if m.selected > len(m.visible)-1 {
			m.selected = len(m.visible) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
	case "home":
		m.selected, m.offset = 0, 0
	case "end":
		if n := len(m.visible); n > 0 {
			m.selected = n - 1
		}
	}
	return m, nil
}

// killConfirmed performs the bounded terminate-and-wait, then resamples
// so the table reflects the outcome immediately.
func (m *Model) killConfirmed() {
	if err := procctl.Terminate(m.confirmPID, m.cfg.KillWait); err != nil {
		m.status = fmt.Sprintf("failed to terminate %d: %v (check permissions)", m.confirmPID, err)
	} else {
		m.status = fmt.Sprintf("process %d terminated", m.confirmPID)
	}
	m.sample()
}

// RunTUI establishes the counter baseline and starts the Bubble Tea
// program. A baseline failure surfaces as a hard error instead of an
// empty dashboard.
func RunTUI(cfg config.Config) error {
	m := New(cfg)
	if err := m.establishBaseline(); err != nil {
		return err
	}
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
