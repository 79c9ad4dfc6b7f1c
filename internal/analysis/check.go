package analysis

import (
	"math"

	"github.com/san-kum/gaussiancl/internal/gcl"
)

// Samples returns n evenly spaced points on [lo, hi].
func Samples(lo, hi float64, n int) []float64 {
	x := make([]float64, n)
	if n == 1 {
		x[0] = lo
		return x
	}
	for i := range x {
		x[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return x
}

// RoundTrip returns max |Inverse(Forward(x)) - x|.
func RoundTrip(t gcl.Transform, x []float64) float64 {
	y := make([]float64, len(x))
	t.Forward(x, y)
	t.Inverse(y, y)

	worst := 0.0
	for i, v := range x {
		worst = maxNaN(worst, math.Abs(y[i]-v))
	}
	return worst
}

// DerivativeCheck returns the largest deviation of the analytic forward
// derivative from a centred finite difference with step h, relative to
// max(1, |analytic|).
func DerivativeCheck(t gcl.Transform, x []float64, h float64) float64 {
	n := len(x)
	lo := make([]float64, n)
	hi := make([]float64, n)
	for i, v := range x {
		lo[i] = v - h
		hi[i] = v + h
	}
	t.Forward(lo, lo)
	t.Forward(hi, hi)

	d := make([]float64, n)
	t.ForwardDerivative(x, d)

	worst := 0.0
	for i := range x {
		fd := (hi[i] - lo[i]) / (2 * h)
		worst = maxNaN(worst, math.Abs(fd-d[i])/math.Max(1, math.Abs(d[i])))
	}
	return worst
}

// RelativeError returns max |a-b|/|b| over entries with b != 0, and
// max |a| over entries with b == 0.
func RelativeError(a, b []float64) float64 {
	worst := 0.0
	for i := range b {
		if i >= len(a) {
			return math.Inf(1)
		}
		diff := math.Abs(a[i] - b[i])
		if b[i] != 0 {
			diff /= math.Abs(b[i])
		}
		worst = maxNaN(worst, diff)
	}
	return worst
}

func maxNaN(a, b float64) float64 {
	if math.IsNaN(b) || b > a {
		return b
	}
	return a
}
