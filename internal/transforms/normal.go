package transforms

import (
	"github.com/san-kum/gaussiancl/internal/gcl"
)

// Normal is the identity transform. Its derivative is reported as zero in
// both directions.
type Normal struct{}

var _ gcl.Transform = Normal{}

func NewNormal() Normal {
	return Normal{}
}

func (Normal) Name() string { return "normal" }

func (Normal) Forward(x, dst []float64) {
	copy(dst, x)
}

func (Normal) ForwardDerivative(x, dst []float64) {
	clear(dst[:len(x)])
}

func (Normal) Inverse(x, dst []float64) {
	copy(dst, x)
}

func (Normal) InverseDerivative(x, dst []float64) {
	clear(dst[:len(x)])
}
