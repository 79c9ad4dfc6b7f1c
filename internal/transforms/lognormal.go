package transforms

import (
	"fmt"
	"math"

	"github.com/san-kum/gaussiancl/internal/gcl"
)

type LogNormal struct {
	Alpha  float64
	Alpha2 float64
}

var (
	_ gcl.Transform    = (*LogNormal)(nil)
	_ gcl.Configurable = (*LogNormal)(nil)
)

// NewLogNormal returns the lognormal auto-correlation transform with shift alpha.
func NewLogNormal(alpha float64) (*LogNormal, error) {
	return NewLogNormalCross(alpha, alpha)
}

// NewLogNormalCross returns the transform for the cross-correlation of two
// lognormal fields with shifts alpha and alpha2.
func NewLogNormalCross(alpha, alpha2 float64) (*LogNormal, error) {
	if err := checkShift("alpha", alpha); err != nil {
		return nil, err
	}
	if err := checkShift("alpha2", alpha2); err != nil {
		return nil, err
	}
	return &LogNormal{Alpha: alpha, Alpha2: alpha2}, nil
}

func (l *LogNormal) Name() string { return "lognormal" }

func (l *LogNormal) scale() float64 {
	return l.Alpha * l.Alpha2
}

func (l *LogNormal) Forward(x, dst []float64) {
	a := l.scale()
	for i, v := range x {
		dst[i] = math.Expm1(v) * a
	}
}

func (l *LogNormal) ForwardDerivative(x, dst []float64) {
	a := l.scale()
	for i, v := range x {
		dst[i] = math.Exp(v) * a
	}
}

func (l *LogNormal) Inverse(x, dst []float64) {
	a := l.scale()
	for i, v := range x {
		dst[i] = math.Log1p(v / a)
	}
}

func (l *LogNormal) InverseDerivative(x, dst []float64) {
	a := l.scale()
	for i, v := range x {
		dst[i] = 1 / (v + a)
	}
}

func (l *LogNormal) Params() map[string]float64 {
	return map[string]float64{
		"alpha":  l.Alpha,
		"alpha2": l.Alpha2,
	}
}

func (l *LogNormal) SetParam(name string, value float64) error {
	if err := checkShift(name, value); err != nil {
		return err
	}
	switch name {
	case "alpha":
		l.Alpha = value
	case "alpha2":
		l.Alpha2 = value
	default:
		return fmt.Errorf("%w: lognormal has no parameter %q", gcl.ErrInvalidParameter, name)
	}
	return nil
}

func checkShift(name string, v float64) error {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite and non-zero, got %g", gcl.ErrInvalidParameter, name, v)
	}
	return nil
}
