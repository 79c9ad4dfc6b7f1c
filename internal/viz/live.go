package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gaussiancl/internal/solver"
)

const DefaultTick = 400 * time.Millisecond

type TickMsg time.Time

// LiveModel steps a solve one iteration per tick and draws its progress.
type LiveModel struct {
	solver    *solver.Solver
	target    []float64
	name      string
	run       *solver.Run
	err       error
	residuals []float64
	running   bool
	tick      time.Duration
}

// NewLiveModel starts a run for target. A start error is shown in the view.
func NewLiveModel(s *solver.Solver, target []float64, tick time.Duration) LiveModel {
	if tick <= 0 {
		tick = DefaultTick
	}
	m := LiveModel{
		solver:  s,
		target:  target,
		name:    "solver",
		running: true,
		tick:    tick,
	}
	if t := s.Transform(); t != nil {
		m.name = t.Name()
	}
	m.restart()
	return m
}

func (m *LiveModel) restart() {
	m.run, m.err = m.solver.Start(m.target)
	m.residuals = nil
}

func (m LiveModel) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "r":
			m.restart()
		case "t":
			SetTheme(NextTheme(CurrentTheme.Name))
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tickCmd()
	}
	return m, nil
}

func (m *LiveModel) step() {
	if m.run == nil || m.run.Done() {
		return
	}
	before := m.run.Iterations()
	m.run.Step()
	if m.run.Iterations() > before {
		m.residuals = append(m.residuals, m.run.Residual())
	}
}

// Result returns the current state of the run, or nil if it failed to start.
func (m LiveModel) Result() *solver.Result {
	if m.run == nil {
		return nil
	}
	return m.run.Result()
}

// Residuals returns the residual after each accepted iteration.
func (m LiveModel) Residuals() []float64 {
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

func (m LiveModel) View() string {
	var s strings.Builder
	s.WriteString(titleStyle().Render(strings.ToUpper(m.name)) + "\n\n")

	if m.err != nil {
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render("error: "+m.err.Error()) + "\n")
		s.WriteString(helpStyle.Render("Q:Quit"))
		return panelStyle.Render(s.String())
	}

	state := "RUNNING"
	switch {
	case m.run.Done():
		state = StatusStyle(m.run.Status()).Render(strings.ToUpper(m.run.Status().String()))
	case !m.running:
		state = "PAUSED"
	}
	s.WriteString(state + "\n\n")

	maxIter := m.solver.Config().MaxIter
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Iteration", fmt.Sprintf("%d/%d %s", m.run.Iterations(), maxIter, ProgressBar(m.run.Iterations(), maxIter, 20)))
	row("Residual", fmt.Sprintf("%.3e", m.run.Residual()))
	row("Step", fmt.Sprintf("%.3e", m.run.StepSize()))
	row("Length", fmt.Sprintf("%d", m.run.Length()))

	if len(m.residuals) > 1 {
		s.WriteString(graphStyle.Render(PlotResiduals(m.residuals, 40, 6)) + "\n")
	}
	s.WriteString(graphStyle.Render(PlotSpectra(m.target, m.run.Current(), 40, 8)) + "\n")

	s.WriteString(helpStyle.Render("SP:Pause N:Step R:Restart T:Theme Q:Quit"))
	return panelStyle.Render(s.String())
}
