package gcl

import (
	"math"
)

// Spectrum is an angular power spectrum indexed by multipole ℓ = 0 … m-1.
type Spectrum []float64

func (s Spectrum) Clone() Spectrum {
	c := make(Spectrum, len(s))
	copy(c, s)
	return c
}

// Pad returns a copy of s extended by k trailing zeros.
func (s Spectrum) Pad(k int) Spectrum {
	if k < 0 {
		k = 0
	}
	p := make(Spectrum, len(s)+k)
	copy(p, s)
	return p
}

// Truncate returns a copy of the first m entries of s.
func (s Spectrum) Truncate(m int) Spectrum {
	if m > len(s) {
		m = len(s)
	}
	c := make(Spectrum, m)
	copy(c, s[:m])
	return c
}

func (s Spectrum) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Transform is a pointwise transform of a correlation function.
//
// Every method is elementwise over x and writes into dst, which must have
// the same length as x and may alias it.
type Transform interface {
	Name() string
	Forward(x, dst []float64)
	ForwardDerivative(x, dst []float64)
	Inverse(x, dst []float64)
	InverseDerivative(x, dst []float64)
}

// Mode selects one of the four transform operations.
type Mode struct {
	Inv bool
	Der bool
}

func (m Mode) String() string {
	switch {
	case m.Inv && m.Der:
		return "inverse-derivative"
	case m.Inv:
		return "inverse"
	case m.Der:
		return "forward-derivative"
	default:
		return "forward"
	}
}

// Apply dispatches t according to mode.
func Apply(t Transform, mode Mode, x, dst []float64) {
	switch {
	case mode.Inv && mode.Der:
		t.InverseDerivative(x, dst)
	case mode.Inv:
		t.Inverse(x, dst)
	case mode.Der:
		t.ForwardDerivative(x, dst)
	default:
		t.Forward(x, dst)
	}
}

// Pair converts between an angular power spectrum and its correlation function.
//
// A Pair is built for a fixed number of samples; both directions take and
// return slices of that length.
type Pair interface {
	Len() int
	ToCorrelation(cl []float64) []float64
	ToSpectrum(corr []float64) []float64
}

// PairFactory builds a transform pair for n samples.
type PairFactory func(n int) (Pair, error)

type Configurable interface {
	Params() map[string]float64
	SetParam(name string, value float64) error
}

// Iteration summarises one accepted solver iteration.
type Iteration struct {
	Index    int
	Residual float64
	StepSize float64
	Halvings int
}

type Observer interface {
	OnIteration(it Iteration)
}
