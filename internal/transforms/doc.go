// Package transforms provides the pointwise correlation-function transforms
// used to build non-Gaussian fields from Gaussian ones.
//
// Each transform implements [gcl.Transform]. Most also implement
// [gcl.Configurable] so that their parameters can be reported and adjusted:
//
//   - [Normal]: identity map, the no-op transform
//   - [LogNormal]: correlations of Y = e^X - λ with shifts α, α₂
//   - [LogNormalNormal]: cross-correlation of a lognormal and a normal field
//
// # Lognormal Fields
//
// For a lognormal field Y = e^X - λ the shift parameter is α = E[Y] + λ, and
// the correlation functions are related by
//
//	ξ_Y = α α₂ (e^{ξ_X} - 1)
//
// with α₂ = α for auto-correlations.
//
// # Registry
//
// Transforms are looked up by name through an immutable [Registry]:
//
//	t, err := transforms.Default.Lookup("lognormal", []float64{1.0})
package transforms
