package analysis

import (
	"github.com/san-kum/gaussiancl/internal/gcl"
	"github.com/san-kum/gaussiancl/internal/transforms"
)

// LogNormalToNormal returns the spectrum of the Gaussian field underlying a
// lognormal field with spectrum cl and shifts alpha, alpha2. It is the
// analytic starting point of the solver, without band-limit correction.
func LogNormalToNormal(pair gcl.Pair, cl []float64, alpha, alpha2 float64) ([]float64, error) {
	return convert(pair, cl, alpha, alpha2, gcl.Mode{Inv: true})
}

// NormalToLogNormal returns the spectrum of the lognormal field built from
// a Gaussian field with spectrum gl.
func NormalToLogNormal(pair gcl.Pair, gl []float64, alpha, alpha2 float64) ([]float64, error) {
	return convert(pair, gl, alpha, alpha2, gcl.Mode{})
}

func convert(pair gcl.Pair, cl []float64, alpha, alpha2 float64, mode gcl.Mode) ([]float64, error) {
	if len(cl) == 0 {
		return nil, gcl.ErrEmptySpectrum
	}
	if len(cl) > pair.Len() {
		return nil, gcl.ErrLengthMismatch
	}
	if alpha2 == 0 {
		alpha2 = alpha
	}
	t, err := transforms.NewLogNormalCross(alpha, alpha2)
	if err != nil {
		return nil, err
	}

	xi := pair.ToCorrelation(cl)
	gcl.Apply(t, mode, xi, xi)
	return pair.ToSpectrum(xi), nil
}
