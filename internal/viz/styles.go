package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gaussiancl/internal/solver"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Primary)
}

// StatusStyle colors a status by outcome.
func StatusStyle(s solver.Status) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true)
	switch {
	case s.Converged():
		return st.Foreground(CurrentTheme.Success)
	case s.IsStalled():
		return st.Foreground(CurrentTheme.Error)
	default:
		return st.Foreground(CurrentTheme.Warning)
	}
}

// SparklineChart renders residuals on a log scale, one glyph per value.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	logs := Log10(values)
	lo, hi := logs[0], logs[0]
	for _, v := range logs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	if len(logs) > width {
		logs = logs[len(logs)-width:]
	}

	var b strings.Builder
	for _, v := range logs {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(b.String())
}

// ProgressBar shows used iterations out of the budget.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Log10 maps values to log10 |v|, flooring zeros and non-finite values
// at the smallest finite exponent present, or -16.
func Log10(values []float64) []float64 {
	out := make([]float64, len(values))
	floor := math.Inf(1)
	for i, v := range values {
		l := math.Log10(math.Abs(v))
		if math.IsNaN(l) || math.IsInf(l, 0) {
			out[i] = math.NaN()
			continue
		}
		out[i] = l
		floor = math.Min(floor, l)
	}
	if math.IsInf(floor, 1) {
		floor = -16
	}
	for i, v := range out {
		if math.IsNaN(v) {
			out[i] = floor
		}
	}
	return out
}
