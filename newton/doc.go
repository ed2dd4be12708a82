// SPDX-License-Identifier: MIT

// Package newton implements a generic semismooth Newton method with line
// search (Newton-LSA) for equations Φ(z) = 0 arising from complementarity
// reformulations, typically Φ = φ_FB(z, F(z)).
//
// Each iteration:
//
//  1. solves H d = -Φ(z) with H ∈ ∂Φ(z); when the LU factorization is
//     rejected the steepest-descent direction d = -∇θ = -HᵀΦ is used;
//  2. accepts the full step when θ(z+d) ≤ σ θ(z), θ = ½‖Φ‖²;
//  3. otherwise replaces d by -∇θ when ⟨∇θ, d⟩ > -ρ‖d‖^p and runs an Armijo
//     backtracking search from α0, halving down to α_min, against the
//     reference max(θ over the last M iterates) (M = 0: monotone).
//
// The problem-specific parts come in through System; the lcp and mlcp
// packages provide the Fischer-Burmeister systems.
package newton
