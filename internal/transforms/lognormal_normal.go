package transforms

import (
	"fmt"

	"github.com/san-kum/gaussiancl/internal/gcl"
)

// LogNormalNormal relates the cross-correlation of a lognormal field with
// shift Alpha and a normal field to the underlying Gaussian cross-correlation.
type LogNormalNormal struct {
	Alpha float64
}

var (
	_ gcl.Transform    = (*LogNormalNormal)(nil)
	_ gcl.Configurable = (*LogNormalNormal)(nil)
)

func NewLogNormalNormal(alpha float64) (*LogNormalNormal, error) {
	if err := checkShift("alpha", alpha); err != nil {
		return nil, err
	}
	return &LogNormalNormal{Alpha: alpha}, nil
}

func (l *LogNormalNormal) Name() string { return "lognormal_normal" }

func (l *LogNormalNormal) Forward(x, dst []float64) {
	for i, v := range x {
		dst[i] = v * l.Alpha
	}
}

func (l *LogNormalNormal) ForwardDerivative(x, dst []float64) {
	for i := range x {
		dst[i] = l.Alpha
	}
}

func (l *LogNormalNormal) Inverse(x, dst []float64) {
	for i, v := range x {
		dst[i] = v / l.Alpha
	}
}

func (l *LogNormalNormal) InverseDerivative(x, dst []float64) {
	inv := 1 / l.Alpha
	for i := range x {
		dst[i] = inv
	}
}

func (l *LogNormalNormal) Params() map[string]float64 {
	return map[string]float64{"alpha": l.Alpha}
}

func (l *LogNormalNormal) SetParam(name string, value float64) error {
	if name != "alpha" {
		return fmt.Errorf("%w: lognormal_normal has no parameter %q", gcl.ErrInvalidParameter, name)
	}
	if err := checkShift(name, value); err != nil {
		return err
	}
	l.Alpha = value
	return nil
}
