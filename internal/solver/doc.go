// Package solver recovers the angular power spectrum of a Gaussian field
// from the spectrum of a pointwise transform of that field.
//
// Given a target spectrum C_ℓ (ℓ < m) and a transform T, the solver finds
// G_ℓ with
//
//	T(G)_ℓ - C_ℓ = 0,  ℓ < m
//
// where T(G) is evaluated by padding G to n ≥ m multipoles, moving to the
// correlation domain, applying T pointwise and moving back ([BandLimit]).
//
// # Algorithm
//
// Damped Newton iteration. Because T acts pointwise on the correlation
// function, its Jacobian is diagonal there, so each Newton step is
//
//	x_ℓ = -[ξ⁻¹(ξ(f) / T'(ξ(g)))]_ℓ
//
// The step is halved until the residual metric does not increase. If it
// underflows without improvement the run stalls.
//
// # Status
//
// [Result.Status] separates the three terminal conditions: converged
// ([ConvergedResidual] and/or [ConvergedStep]), iteration budget exhausted
// ([NotConverged]), and no improving step ([Stalled]). Only invalid input is
// reported as an error.
//
// # Example
//
//	t, _ := transforms.Default.Lookup("lognormal", []float64{1.0})
//	res, err := solver.New(t).Solve(ctx, cl)
//	if err == nil && res.Status.Converged() {
//	    gl := res.Spectrum
//	}
//
// # Thread Safety
//
// A Solver may be shared for concurrent Solve calls as long as its
// observers are safe for concurrent use. A [Run] is not thread-safe. Use
// [Batch] to solve independent problems in parallel.
package solver
