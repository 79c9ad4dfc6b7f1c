package analysis

import "math"

// ConvergenceOrder estimates q in r_{k+1} ≈ C r_k^q from the last three
// positive residuals. Quadratic convergence gives q ≈ 2, linear gives
// q ≈ 1. It returns NaN when fewer than three usable residuals exist.
func ConvergenceOrder(residuals []float64) float64 {
	r := make([]float64, 0, len(residuals))
	for _, v := range residuals {
		if v > 0 && !math.IsInf(v, 0) {
			r = append(r, v)
		}
	}
	if len(r) < 3 {
		return math.NaN()
	}

	k := len(r) - 1
	num := math.Log(r[k] / r[k-1])
	den := math.Log(r[k-1] / r[k-2])
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

// ReductionRate returns the mean per-iteration log10 reduction of the
// residual from first to last.
func ReductionRate(residuals []float64) float64 {
	if len(residuals) < 2 {
		return 0
	}
	first, last := residuals[0], residuals[len(residuals)-1]
	if first <= 0 || last <= 0 {
		return math.NaN()
	}
	return math.Log10(first/last) / float64(len(residuals)-1)
}
