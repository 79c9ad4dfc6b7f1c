// Package gcl provides the core primitives for working with angular power
// spectra of transformed Gaussian random fields on the sphere.
//
// The package defines the shared vocabulary of the solver:
//
//   - [Spectrum]: angular power spectrum C_ℓ, indexed by multipole ℓ
//   - [Transform]: pointwise correlation-function transform with its four
//     call modes (forward, forward derivative, inverse, inverse derivative)
//   - [Pair]: the spectrum ↔ correlation-function transform pair
//   - [Mode]: the flag-style view of a transform call
//
// # Example
//
//	pair, _ := legendre.New(len(cl))
//	t, _ := transforms.Default.Lookup("lognormal", []float64{1.0})
//	xi := pair.ToCorrelation(cl)
//	gcl.Apply(t, gcl.Mode{Inv: true}, xi, xi)
//	gl := pair.ToSpectrum(xi)
//
// # Thread Safety
//
// Transforms and pairs are read-only after construction and may be shared
// between goroutines. Spectra are plain slices and are not.
package gcl
