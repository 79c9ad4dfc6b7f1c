package solver

import (
	"fmt"
	"math"

	"github.com/san-kum/gaussiancl/internal/gcl"
	"github.com/san-kum/gaussiancl/internal/legendre"
	"github.com/san-kum/gaussiancl/internal/metrics"
	"go.uber.org/zap"
)

const (
	DefaultResidualTol = 1e-5
	DefaultStepTol     = 1e-5
	DefaultMaxIter     = 20

	// padding factor: n = (1 + DefaultPadding) m when no length is given
	DefaultPadding = 2
)

type Config struct {
	ResidualTol float64
	StepTol     float64
	MaxIter     int

	// Length is the total working length n >= m. Zero selects 3m.
	Length int

	// Monopole pins gl[0] and removes ℓ = 0 from the root finding.
	Monopole *float64

	// InitialGuess replaces the analytic starting point. It is copied.
	InitialGuess []float64

	Metric metrics.Residual
}

func DefaultConfig() Config {
	return Config{
		ResidualTol: DefaultResidualTol,
		StepTol:     DefaultStepTol,
		MaxIter:     DefaultMaxIter,
		Metric:      metrics.RelativeMax{},
	}
}

// Monopole returns a pointer suitable for Config.Monopole.
func Monopole(v float64) *float64 {
	return &v
}

// workingLength returns n for a spectrum of m multipoles.
func (c Config) workingLength(m int) int {
	if c.Length == 0 {
		return (1 + DefaultPadding) * m
	}
	return c.Length
}

func (c Config) validate(cl []float64) error {
	m := len(cl)
	if m == 0 {
		return gcl.ErrEmptySpectrum
	}
	if !gcl.Spectrum(cl).IsValid() {
		return fmt.Errorf("%w: target", ErrInvalidSpectrum)
	}
	if c.Length < 0 || (c.Length != 0 && c.Length < m) {
		return fmt.Errorf("%w: n=%d, m=%d", gcl.ErrInvalidLength, c.Length, m)
	}
	if c.MaxIter < 0 {
		return fmt.Errorf("%w: max iterations must be non-negative, got %d", ErrInvalidConfig, c.MaxIter)
	}
	if c.ResidualTol < 0 || math.IsNaN(c.ResidualTol) {
		return fmt.Errorf("%w: residual tolerance must be non-negative, got %g", ErrInvalidConfig, c.ResidualTol)
	}
	if c.StepTol < 0 || math.IsNaN(c.StepTol) {
		return fmt.Errorf("%w: step tolerance must be non-negative, got %g", ErrInvalidConfig, c.StepTol)
	}
	if c.InitialGuess != nil {
		if len(c.InitialGuess) != m {
			return fmt.Errorf("%w: initial guess has %d entries, target has %d", gcl.ErrLengthMismatch, len(c.InitialGuess), m)
		}
		if !gcl.Spectrum(c.InitialGuess).IsValid() {
			return fmt.Errorf("%w: initial guess", ErrInvalidSpectrum)
		}
	}
	if c.Monopole != nil && (math.IsNaN(*c.Monopole) || math.IsInf(*c.Monopole, 0)) {
		return fmt.Errorf("%w: monopole", ErrInvalidSpectrum)
	}
	return nil
}

type Option func(*Solver)

func WithConfig(cfg Config) Option {
	return func(s *Solver) {
		if cfg.Metric == nil {
			cfg.Metric = metrics.RelativeMax{}
		}
		s.cfg = cfg
	}
}

func WithTolerance(residual, step float64) Option {
	return func(s *Solver) {
		s.cfg.ResidualTol = residual
		s.cfg.StepTol = step
	}
}

func WithMaxIter(n int) Option {
	return func(s *Solver) { s.cfg.MaxIter = n }
}

func WithLength(n int) Option {
	return func(s *Solver) { s.cfg.Length = n }
}

func WithMonopole(v float64) Option {
	return func(s *Solver) { s.cfg.Monopole = Monopole(v) }
}

func WithInitialGuess(gl []float64) Option {
	return func(s *Solver) {
		if gl == nil {
			s.cfg.InitialGuess = nil
			return
		}
		s.cfg.InitialGuess = gcl.Spectrum(gl).Clone()
	}
}

func WithMetric(m metrics.Residual) Option {
	return func(s *Solver) {
		if m != nil {
			s.cfg.Metric = m
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithObserver(o gcl.Observer) Option {
	return func(s *Solver) { s.observers = append(s.observers, o) }
}

// WithPairFactory replaces the shared Gauss–Legendre pair cache.
func WithPairFactory(f gcl.PairFactory) Option {
	return func(s *Solver) {
		if f != nil {
			s.pairs = f
		}
	}
}

var defaultPairs gcl.PairFactory = legendre.Shared.Factory()
