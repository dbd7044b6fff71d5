package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/spinsim/internal/analysis"
	"github.com/san-kum/spinsim/internal/physics"
	"github.com/san-kum/spinsim/internal/viz"
)

type pointMsg struct {
	idx       int
	coherence float64
}

type errMsg struct{ err error }

// Model drives a coherence scan point by point so the curve grows on
// screen as it is computed. Quitting before the end aborts the scan.
type Model struct {
	sys *physics.System
	cfg analysis.ScanConfig

	freqs     []float64
	coherence []float64
	next      int

	done    bool
	aborted bool
	err     error
	start   time.Time
	width   int
}

func NewScan(sys *physics.System, cfg analysis.ScanConfig) Model {
	freqs := make([]float64, cfg.Points)
	step := 0.0
	if cfg.Points > 1 {
		step = (cfg.End - cfg.Start) / float64(cfg.Points-1)
	}
	for i := range freqs {
		freqs[i] = cfg.Start + float64(i)*step
	}
	return Model{
		sys:   sys,
		cfg:   cfg,
		freqs: freqs,
		start: time.Now(),
		width: 80,
	}
}

func (m Model) Init() tea.Cmd {
	return m.compute(0)
}

func (m Model) compute(idx int) tea.Cmd {
	return func() tea.Msg {
		c, err := analysis.Coherence(m.sys, m.freqs[idx], m.cfg.Harmonic, m.cfg.F, m.cfg.ScanTime)
		if err != nil {
			return errMsg{err}
		}
		return pointMsg{idx: idx, coherence: c}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.done {
				m.aborted = true
			}
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case pointMsg:
		m.coherence = append(m.coherence, msg.coherence)
		m.next = msg.idx + 1
		if m.next >= m.cfg.Points {
			m.done = true
			return m, tea.Quit
		}
		return m, m.compute(m.next)

	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	header := viz.Title.Render("coherence scan") + "  " +
		viz.Subtle.Render(fmt.Sprintf("%d nuclei, %d clusters",
			len(m.sys.Nuclei), len(m.sys.Clusters)))

	progress := float64(m.next) / float64(m.cfg.Points)
	status := viz.StatusRunning.Render("running")
	if m.err != nil {
		status = viz.StatusFailed.Render("failed: " + m.err.Error())
	} else if m.done {
		status = viz.StatusRunning.Render("done")
	}

	barWidth := m.width - 20
	if barWidth < 10 {
		barWidth = 10
	}

	return header + "\n" +
		viz.Separator(m.width) + "\n" +
		viz.Sparkline(m.coherence, barWidth) + "\n" +
		viz.ProgressBar(progress, barWidth) + "  " +
		viz.MetricValue.Render(fmt.Sprintf("%d/%d", m.next, m.cfg.Points)) + "\n" +
		status + "  " +
		viz.MetricLabel.Render(fmt.Sprintf("elapsed %s", time.Since(m.start).Round(time.Second))) + "\n" +
		viz.KeyHint.Render("q to abort") + "\n"
}

// Signal returns the scanned curve accumulated so far.
func (m Model) Signal() *analysis.Signal {
	return &analysis.Signal{
		Freqs:     m.freqs[:len(m.coherence)],
		Coherence: m.coherence,
	}
}

// RunScan runs the live scan view and returns the completed signal. An
// aborted scan returns the partial curve and no error.
func RunScan(sys *physics.System, cfg analysis.ScanConfig) (*analysis.Signal, bool, error) {
	final, err := tea.NewProgram(NewScan(sys, cfg)).Run()
	if err != nil {
		return nil, false, err
	}
	m := final.(Model)
	if m.err != nil {
		return nil, false, m.err
	}
	return m.Signal(), m.done, nil
}
