package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gaussiancl/internal/solver"
)

// Report is the input to RenderResult.
type Report struct {
	Transform string
	Target    []float64
	Result    *solver.Result
	Residuals []float64
	// Order is the empirical convergence order, NaN if unknown.
	Order float64
}

// RenderResult formats a finished solve as a bordered panel.
func RenderResult(r Report) string {
	res := r.Result
	var s strings.Builder

	s.WriteString(titleStyle().Render(strings.ToUpper(r.Transform)) + "\n\n")
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	s.WriteString(labelStyle.Render("Status") + StatusStyle(res.Status).Render(res.Status.String()) + "\n")
	row("Code", fmt.Sprintf("%d", res.Code()))
	row("Iterations", fmt.Sprintf("%d", res.Iterations))
	row("Residual", fmt.Sprintf("%.3e (%s)", res.Residual, res.Metric))
	row("Step", fmt.Sprintf("%.3e", res.StepSize))
	row("Multipoles", fmt.Sprintf("%d of %d", len(res.Spectrum), res.Length))
	if !math.IsNaN(r.Order) {
		row("Order", fmt.Sprintf("%.2f", r.Order))
	}
	if len(r.Residuals) > 0 {
		row("History", SparklineChart(r.Residuals, 40))
	}

	s.WriteString("\n" + valueStyle.Render(fmt.Sprintf("%4s  %14s  %14s", "ell", "target", "gaussian")) + "\n")
	for ell, g := range res.Spectrum {
		c := 0.0
		if ell < len(r.Target) {
			c = r.Target[ell]
		}
		s.WriteString(fmt.Sprintf("%4d  %14.6e  %14.6e\n", ell, c, g))
	}

	return panelStyle.Render(strings.TrimRight(s.String(), "\n"))
}

// PlotSpectra plots log10 |C_ℓ| of the target and the Gaussian spectrum.
func PlotSpectra(target, gaussian []float64, width, height int) string {
	if len(target) == 0 && len(gaussian) == 0 {
		return ""
	}
	series := make([][]float64, 0, 2)
	if len(target) > 0 {
		series = append(series, Log10(target))
	}
	if len(gaussian) > 0 {
		series = append(series, Log10(gaussian))
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
		asciigraph.Caption("log10 |C_l|: target (blue), gaussian (green)"),
	)
}

// PlotResiduals plots log10 of the residual per iteration.
func PlotResiduals(residuals []float64, width, height int) string {
	if len(residuals) == 0 {
		return ""
	}
	return asciigraph.Plot(Log10(residuals),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("log10 residual"),
	)
}
