// Package analysis provides conversions and diagnostics around the
// Gaussian spectrum solver.
//
//   - [LogNormalToNormal] and [NormalToLogNormal]: direct spectrum
//     conversions for lognormal fields, without iteration
//   - [RoundTrip] and [DerivativeCheck]: consistency checks for a transform
//   - [RelativeError]: elementwise relative comparison of two spectra
//   - [ConvergenceOrder]: empirical order of a residual sequence
//
// # Transform Checks
//
// A user transform can be validated before it is handed to the solver:
//
//	x := analysis.Samples(-0.5, 0.5, 101)
//	if analysis.RoundTrip(t, x) > 1e-12 || analysis.DerivativeCheck(t, x, 1e-6) > 1e-6 {
//	    // Inverse or ForwardDerivative is inconsistent with Forward
//	}
package analysis
