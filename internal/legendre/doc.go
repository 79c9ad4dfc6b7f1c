// Package legendre implements the spectrum ↔ correlation-function transform
// pair on a Gauss–Legendre grid.
//
// For n samples the correlation function is evaluated at the n roots x_j of
// P_n, and the transforms are
//
//	ξ(x_j) = Σ_ℓ (2ℓ+1)/(4π) C_ℓ P_ℓ(x_j)
//	C_ℓ    = 2π Σ_j w_j ξ(x_j) P_ℓ(x_j)
//
// Gauss–Legendre quadrature on n nodes is exact for polynomials of degree
// 2n-1, so the round trip C_ℓ → ξ → C_ℓ reproduces the input up to rounding.
//
// Pairs are immutable once built. Use a [Cache] to share them across solves.
package legendre
