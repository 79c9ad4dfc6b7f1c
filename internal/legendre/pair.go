package legendre

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/gaussiancl/internal/gcl"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/mat"
)

// rows per worker when filling the basis tables
const minChunk = 64

// Pair is a Gauss–Legendre transform pair for a fixed number of samples.
type Pair struct {
	n       int
	nodes   []float64 // cos θ_j, ascending
	weights []float64
	synth   *mat.Dense // ξ = synth · C
	anal    *mat.Dense // C = anal · ξ
}

var _ gcl.Pair = (*Pair)(nil)

// New builds the transform pair for n samples and n multipoles.
func New(n int) (*Pair, error) {
	if n < 1 {
		return nil, fmt.Errorf("legendre: %w", gcl.ErrEmptySpectrum)
	}

	x := make([]float64, n)
	w := make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, -1, 1)
	sortNodes(x, w)

	synth := make([]float64, n*n)
	anal := make([]float64, n*n)

	gcl.ParallelFor(n, minChunk, func(start, end int) {
		p := make([]float64, n)
		for j := start; j < end; j++ {
			evalLegendre(x[j], p)
			for l := 0; l < n; l++ {
				synth[j*n+l] = float64(2*l+1) / (4 * math.Pi) * p[l]
				anal[l*n+j] = 2 * math.Pi * w[j] * p[l]
			}
		}
	})

	return &Pair{
		n:       n,
		nodes:   x,
		weights: w,
		synth:   mat.NewDense(n, n, synth),
		anal:    mat.NewDense(n, n, anal),
	}, nil
}

func (p *Pair) Len() int { return p.n }

// ToCorrelation evaluates the correlation function of cl on the grid.
// Spectra shorter than the pair are zero-padded.
func (p *Pair) ToCorrelation(cl []float64) []float64 {
	if len(cl) > p.n {
		panic(fmt.Errorf("legendre: ToCorrelation: %w (got %d, want <= %d)", gcl.ErrLengthMismatch, len(cl), p.n))
	}
	in := make([]float64, p.n)
	copy(in, cl)

	var out mat.VecDense
	out.MulVec(p.synth, mat.NewVecDense(p.n, in))
	return out.RawVector().Data
}

// ToSpectrum projects a sampled correlation function onto P_ℓ.
func (p *Pair) ToSpectrum(corr []float64) []float64 {
	if len(corr) != p.n {
		panic(fmt.Errorf("legendre: ToSpectrum: %w (got %d, want %d)", gcl.ErrLengthMismatch, len(corr), p.n))
	}
	in := make([]float64, p.n)
	copy(in, corr)

	var out mat.VecDense
	out.MulVec(p.anal, mat.NewVecDense(p.n, in))
	return out.RawVector().Data
}

// Nodes returns a copy of the sample locations cos θ_j.
func (p *Pair) Nodes() []float64 {
	c := make([]float64, p.n)
	copy(c, p.nodes)
	return c
}

// Weights returns a copy of the quadrature weights.
func (p *Pair) Weights() []float64 {
	c := make([]float64, p.n)
	copy(c, p.weights)
	return c
}

// Angles returns the angular separations θ_j in radians, descending.
func (p *Pair) Angles() []float64 {
	theta := make([]float64, p.n)
	for i, x := range p.nodes {
		theta[i] = math.Acos(math.Max(-1, math.Min(1, x)))
	}
	return theta
}

// evalLegendre fills p with P_0(x) … P_{len(p)-1}(x) by upward recurrence.
func evalLegendre(x float64, p []float64) {
	if len(p) == 0 {
		return
	}
	p[0] = 1
	if len(p) == 1 {
		return
	}
	p[1] = x
	for l := 1; l+1 < len(p); l++ {
		fl := float64(l)
		p[l+1] = ((2*fl+1)*x*p[l] - fl*p[l-1]) / (fl + 1)
	}
}

func sortNodes(x, w []float64) {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	xs := make([]float64, len(x))
	ws := make([]float64, len(w))
	for i, k := range idx {
		xs[i] = x[k]
		ws[i] = w[k]
	}
	copy(x, xs)
	copy(w, ws)
}
