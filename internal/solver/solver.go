package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gaussiancl/internal/gcl"
	"github.com/san-kum/gaussiancl/internal/metrics"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Solver finds the Gaussian spectrum that a transform maps onto a target.
type Solver struct {
	transform gcl.Transform
	pairs     gcl.PairFactory
	cfg       Config
	logger    *zap.Logger
	observers []gcl.Observer
}

func New(t gcl.Transform, opts ...Option) *Solver {
	s := &Solver{
		transform: t,
		pairs:     defaultPairs,
		cfg:       DefaultConfig(),
		logger:    Logger(),
		observers: make([]gcl.Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) Config() Config           { return s.cfg }
func (s *Solver) Transform() gcl.Transform { return s.transform }

func (s *Solver) AddObserver(o gcl.Observer) { s.observers = append(s.observers, o) }

// BandLimit applies the solver's transform to cl using a pair of len(cl) samples.
func (s *Solver) BandLimit(cl []float64, mode gcl.Mode) ([]float64, error) {
	return bandLimitWith(s.pairs, cl, s.transform, mode)
}

// Solve iterates until convergence, stall or the iteration budget is spent.
// Non-convergence is reported through Result.Status, never as an error.
func (s *Solver) Solve(ctx context.Context, cl []float64) (*Result, error) {
	run, err := s.Start(cl)
	if err != nil {
		return nil, err
	}

	for !run.Done() {
		select {
		case <-ctx.Done():
			return run.Result(), ctx.Err()
		default:
		}
		run.Step()
	}

	return run.Result(), nil
}

// Run is the state of one solve. The trial spectrum, its correlation image
// and its residual are replaced together when a step is accepted.
type Run struct {
	s    *Solver
	cfg  Config
	cl   []float64
	m    int
	pair gcl.Pair
	work *Pool

	gl       []float64
	gt       []float64
	fl       []float64
	residual float64
	step     float64

	iter   int
	status Status
	done   bool
}

// Start validates the problem and evaluates the starting point. The
// returned run is already done if the starting point meets the residual
// tolerance or the iteration budget is zero.
func (s *Solver) Start(cl []float64) (*Run, error) {
	if s.transform == nil {
		return nil, fmt.Errorf("%w: no transform", ErrInvalidConfig)
	}
	cfg := s.cfg
	if cfg.Metric == nil {
		cfg.Metric = metrics.RelativeMax{}
	}
	if err := cfg.validate(cl); err != nil {
		return nil, err
	}

	m := len(cl)
	n := cfg.workingLength(m)
	pair, err := s.pairs(n)
	if err != nil {
		return nil, fmt.Errorf("solver: transform pair for n=%d: %w", n, err)
	}
	if pair.Len() != n {
		return nil, fmt.Errorf("solver: %w: pair has %d samples, want %d", gcl.ErrLengthMismatch, pair.Len(), n)
	}

	r := &Run{
		s:    s,
		cfg:  cfg,
		cl:   gcl.Spectrum(cl).Clone(),
		m:    m,
		pair: pair,
		work: NewPool(n),
	}

	var gl []float64
	if cfg.InitialGuess != nil {
		gl = gcl.Spectrum(cfg.InitialGuess).Clone()
	} else {
		gl, err = bandLimitWith(s.pairs, r.cl, s.transform, gcl.Mode{Inv: true})
		if err != nil {
			return nil, err
		}
	}
	if cfg.Monopole != nil {
		gl[0] = *cfg.Monopole
	}

	gt, fl, res := r.evaluate(gl)
	if !gcl.Spectrum(fl).IsValid() {
		return nil, fmt.Errorf("%w: %s transform of the starting point", ErrNonFiniteResidual, s.transform.Name())
	}
	r.gl, r.gt, r.fl, r.residual = gl, gt, fl, res

	s.logger.Debug("solve started",
		zap.String("transform", s.transform.Name()),
		zap.Int("m", m),
		zap.Int("n", n),
		zap.String("metric", cfg.Metric.Name()),
		zap.Float64("residual", res))

	switch {
	case res <= cfg.ResidualTol:
		r.finish(ConvergedResidual)
	case cfg.MaxIter == 0:
		r.finish(NotConverged)
	}

	return r, nil
}

// Step performs one damped Newton iteration and reports whether the run is done.
func (r *Run) Step() bool {
	if r.done {
		return true
	}

	xl := r.newtonStep()

	halvings := 0
	for {
		if !gcl.Spectrum(xl).IsValid() || floats.Dot(xl, xl) == 0 {
			r.stall(halvings)
			return true
		}

		gl := make([]float64, r.m)
		floats.AddTo(gl, r.gl, xl)
		if floats.Equal(gl, r.gl) {
			// smaller steps cannot move gl either
			r.stall(halvings)
			return true
		}

		gt, fl, res := r.evaluate(gl)
		if res <= r.residual {
			r.gl, r.gt, r.fl, r.residual = gl, gt, fl, res
			break
		}

		floats.Scale(0.5, xl)
		halvings++
	}

	r.iter++
	r.step = math.Ldexp(stepSize(xl, r.gl), halvings)

	it := gcl.Iteration{
		Index:    r.iter,
		Residual: r.residual,
		StepSize: r.step,
		Halvings: halvings,
	}
	for _, o := range r.s.observers {
		o.OnIteration(it)
	}
	r.s.logger.Debug("iteration",
		zap.Int("iteration", r.iter),
		zap.Float64("residual", r.residual),
		zap.Float64("step", r.step),
		zap.Int("halvings", halvings))

	var status Status
	if r.residual <= r.cfg.ResidualTol {
		status |= ConvergedResidual
	}
	if r.step <= r.cfg.StepTol {
		status |= ConvergedStep
	}

	switch {
	case status != NotConverged:
		r.finish(status)
	case r.iter >= r.cfg.MaxIter:
		r.finish(NotConverged)
	}

	return r.done
}

// stepSize is max |x/g| over the non-zero entries of g, or max |x| when g is
// all zeros.
func stepSize(x, g []float64) float64 {
	if floats.Norm(g, math.Inf(1)) == 0 {
		return floats.Norm(x, math.Inf(1))
	}
	return metrics.RelativeMax{}.Measure(x, g)
}

// newtonStep linearises the residual in the correlation domain, where the
// transform acts pointwise and its Jacobian is diagonal.
func (r *Run) newtonStep() []float64 {
	padded := r.work.GetPadded(r.fl)
	ft := r.pair.ToCorrelation(padded)
	r.work.Put(padded)

	dt := r.work.Get()
	r.s.transform.ForwardDerivative(r.gt, dt)

	q := r.work.Get()
	safeDivTo(q, ft, dt)
	full := r.pair.ToSpectrum(q)
	r.work.Put(dt)
	r.work.Put(q)

	xl := make([]float64, r.m)
	copy(xl, full[:r.m])
	floats.Scale(-1, xl)
	if r.cfg.Monopole != nil {
		xl[0] = 0
	}
	return xl
}

// evaluate maps a trial spectrum to its padded correlation image and its
// residual against the target.
func (r *Run) evaluate(gl []float64) (gt, fl []float64, res float64) {
	padded := r.work.GetPadded(gl)
	gt = r.pair.ToCorrelation(padded)
	r.work.Put(padded)

	yt := r.work.Get()
	r.s.transform.Forward(gt, yt)
	full := r.pair.ToSpectrum(yt)
	r.work.Put(yt)

	fl = make([]float64, r.m)
	floats.SubTo(fl, full[:r.m], r.cl)
	if r.cfg.Monopole != nil {
		fl[0] = 0
	}
	return gt, fl, r.cfg.Metric.Measure(fl, r.cl)
}

func (r *Run) finish(status Status) {
	r.status = status
	r.done = true
	r.s.logger.Info("solve finished",
		zap.String("transform", r.s.transform.Name()),
		zap.Stringer("status", status),
		zap.Int("iterations", r.iter),
		zap.Float64("residual", r.residual))
}

func (r *Run) stall(halvings int) {
	r.s.logger.Warn("no improving step",
		zap.Int("iteration", r.iter+1),
		zap.Int("halvings", halvings),
		zap.Float64("residual", r.residual))
	r.finish(Stalled)
}

func (r *Run) Done() bool         { return r.done }
func (r *Run) Status() Status     { return r.status }
func (r *Run) Iterations() int    { return r.iter }
func (r *Run) Residual() float64  { return r.residual }
func (r *Run) StepSize() float64  { return r.step }
func (r *Run) Length() int        { return r.pair.Len() }
func (r *Run) Target() []float64  { return gcl.Spectrum(r.cl).Clone() }
func (r *Run) Current() []float64 { return gcl.Spectrum(r.gl).Clone() }

// Result snapshots the run. It may be called before the run is done.
func (r *Run) Result() *Result {
	return &Result{
		Spectrum:   gcl.Spectrum(r.gl).Clone(),
		Status:     r.status,
		Residual:   r.residual,
		StepSize:   r.step,
		Iterations: r.iter,
		Length:     r.pair.Len(),
		Metric:     r.cfg.Metric.Name(),
	}
}

// safeDivTo stores num/den in dst, with zero wherever num is zero.
func safeDivTo(dst, num, den []float64) {
	floats.DivTo(dst, num, den)
	for i, v := range num {
		if v == 0 {
			dst[i] = 0
		}
	}
}
