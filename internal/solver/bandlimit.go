package solver

import (
	"fmt"

	"github.com/san-kum/gaussiancl/internal/gcl"
)

// BandLimit transforms cl through the correlation domain: cl is mapped to
// its correlation function, t is applied pointwise in the given mode, and
// the result is mapped back. No padding is added; the pair length decides
// the angular resolution.
func BandLimit(pair gcl.Pair, cl []float64, t gcl.Transform, mode gcl.Mode) []float64 {
	xi := pair.ToCorrelation(cl)
	gcl.Apply(t, mode, xi, xi)
	return pair.ToSpectrum(xi)
}

// BandLimited is BandLimit with a pair of len(cl) samples from the shared cache.
func BandLimited(cl []float64, t gcl.Transform, mode gcl.Mode) ([]float64, error) {
	return bandLimitWith(defaultPairs, cl, t, mode)
}

func bandLimitWith(pairs gcl.PairFactory, cl []float64, t gcl.Transform, mode gcl.Mode) ([]float64, error) {
	if len(cl) == 0 {
		return nil, gcl.ErrEmptySpectrum
	}
	pair, err := pairs(len(cl))
	if err != nil {
		return nil, fmt.Errorf("band limit: %w", err)
	}
	return BandLimit(pair, cl, t, mode), nil
}
