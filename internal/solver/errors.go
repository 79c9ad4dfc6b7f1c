package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a negative tolerance or iteration budget.
	ErrInvalidConfig = errors.New("solver: invalid configuration")

	// ErrInvalidSpectrum indicates a target or initial guess containing NaN or Inf.
	ErrInvalidSpectrum = errors.New("solver: spectrum contains NaN or Inf")

	// ErrNonFiniteResidual indicates the starting point maps to a non-finite
	// residual, usually because the target lies outside the transform's domain.
	ErrNonFiniteResidual = errors.New("solver: initial residual is not finite")
)

// SolveError wraps a hard failure of one problem in a batch.
type SolveError struct {
	Index   int
	Name    string
	Wrapped error
}

func (e *SolveError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("problem %d (%s): %v", e.Index, e.Name, e.Wrapped)
	}
	return fmt.Sprintf("problem %d: %v", e.Index, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
