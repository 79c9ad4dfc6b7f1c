package gcl

import (
	"errors"
	"fmt"
)

// Domain errors for spectrum and transform operations.
var (
	// ErrInvalidLength indicates an explicit working length shorter than the spectrum.
	ErrInvalidLength = errors.New("gcl: working length must not be smaller than the spectrum length")

	// ErrUnknownTransform indicates a transform name missing from the registry.
	ErrUnknownTransform = errors.New("gcl: unknown transformation")

	// ErrInvalidParameter indicates a transform parameter outside its valid range.
	ErrInvalidParameter = errors.New("gcl: invalid transform parameter")

	// ErrEmptySpectrum indicates a spectrum with no multipoles.
	ErrEmptySpectrum = errors.New("gcl: empty spectrum")

	// ErrLengthMismatch indicates an array whose length does not match the transform pair.
	ErrLengthMismatch = errors.New("gcl: length mismatch between array and transform pair")
)

// UnknownTransformError names the transform that could not be found.
type UnknownTransformError struct {
	Name string
}

func (e *UnknownTransformError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownTransform.Error(), e.Name)
}

func (e *UnknownTransformError) Unwrap() error {
	return ErrUnknownTransform
}
