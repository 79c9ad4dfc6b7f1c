package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Residual reduces a residual spectrum to a scalar magnitude.
type Residual interface {
	Name() string
	Measure(fl, cl []float64) float64
}

// RelativeMax is max |fl/cl| over entries where both the residual and the
// target are non-zero.
type RelativeMax struct{}

func NewRelativeMax() RelativeMax { return RelativeMax{} }

func (RelativeMax) Name() string { return "relmax" }

func (RelativeMax) Measure(fl, cl []float64) float64 {
	worst := 0.0
	for i, f := range fl {
		if f == 0 || i >= len(cl) || cl[i] == 0 {
			continue
		}
		if r := math.Abs(f / cl[i]); r > worst || math.IsNaN(r) {
			worst = r
		}
	}
	return worst
}

// SumSquares is fl·fl / cl·cl, the squared residual norm relative to the
// target. It falls back to fl·fl when the target is all zeros.
type SumSquares struct{}

func NewSumSquares() SumSquares { return SumSquares{} }

func (SumSquares) Name() string { return "sumsq" }

func (SumSquares) Measure(fl, cl []float64) float64 {
	ss := floats.Dot(fl, fl)
	n := len(cl)
	if n > len(fl) {
		n = len(fl)
	}
	if norm := floats.Dot(cl[:n], cl[:n]); norm > 0 {
		return ss / norm
	}
	return ss
}

// ByName returns the residual metric registered under name.
func ByName(name string) (Residual, error) {
	switch name {
	case "", "relmax":
		return RelativeMax{}, nil
	case "sumsq":
		return SumSquares{}, nil
	default:
		return nil, fmt.Errorf("unknown residual metric: %s", name)
	}
}

// Names lists the residual metrics accepted by ByName.
func Names() []string {
	return []string{"relmax", "sumsq"}
}
