package solver

import (
	"strings"

	"github.com/san-kum/gaussiancl/internal/gcl"
)

// Status describes how a solve terminated.
//
// The two low bits report which convergence criteria were met. A zero
// status means the iteration budget ran out while the residual was still
// improving. Stalled is never combined with the convergence bits.
type Status int

const (
	NotConverged      Status = 0
	ConvergedResidual Status = 1 << 0
	ConvergedStep     Status = 1 << 1
	Stalled           Status = 1 << 2
)

func (s Status) Converged() bool {
	return s&(ConvergedResidual|ConvergedStep) != 0
}

func (s Status) IsStalled() bool {
	return s&Stalled != 0
}

func (s Status) String() string {
	if s == NotConverged {
		return "max-iterations"
	}
	if s.IsStalled() {
		return "stalled"
	}
	parts := make([]string, 0, 2)
	if s&ConvergedResidual != 0 {
		parts = append(parts, "residual")
	}
	if s&ConvergedStep != 0 {
		parts = append(parts, "step")
	}
	return "converged(" + strings.Join(parts, "+") + ")"
}

// Result is the outcome of a solve.
type Result struct {
	Spectrum   gcl.Spectrum
	Status     Status
	Residual   float64
	StepSize   float64
	Iterations int
	Length     int
	Metric     string
}

// Code returns the integer error indicator: 0 when converged, -i when no
// improving step was found in iteration i, and +i when the budget of i
// iterations ran out. A positive code means more iterations could help.
func (r *Result) Code() int {
	switch {
	case r.Status.Converged():
		return 0
	case r.Status.IsStalled():
		return -(r.Iterations + 1)
	default:
		return r.Iterations
	}
}
