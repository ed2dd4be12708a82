// SPDX-License-Identifier: MIT

// Package fc solves 2D and 3D friction-contact problems
//
//	u = M r + q,  for each contact i:  K_i ∋ r_i ⟂ u_i + mu_i‖u_t,i‖ e_n ∈ K_i*
//
// where K_i is the Coulomb cone of friction coefficient mu_i.
//
// NSGS sweeps the contacts. For contact i it takes the diagonal block
// W_i = M_ii, builds the local right-hand side q_i + Σ_{j≠i} M_ij r_j with
// one RowProdNoDiag call and lets the local solver configured in
// opts.Internal update r_i in place. After each sweep the error is checked
// (see IParamErrorMode). A local numerical failure stops the solve with
// NumericalFailure; local non-convergence is counted and tolerated.
//
// DeSaxceFixedPoint iterates the global projection
// r ← Π_K(r - ρ(u + mu‖u_t‖ e_n)).
//
// TrescaFixedPoint freezes the friction thresholds mu_i·r_n,i, solves the
// Tresca problem on those cylinders with an inner NSGS and repeats until
// the Coulomb error falls below the tolerance.
package fc
