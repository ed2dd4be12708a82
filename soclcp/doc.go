// SPDX-License-Identifier: MIT

// Package soclcp solves second-order cone complementarity problems
//
//	u = M r + q,  K ∋ r ⟂ u ∈ K*,  K = K_1 × … × K_m,
//
// where K_i = {x : ‖x_{1:}‖ ≤ mu_i x_0} occupies one block of unknowns.
package soclcp
