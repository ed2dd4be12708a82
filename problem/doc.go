// SPDX-License-Identifier: MIT

// Package problem holds the descriptors handed to the solvers: plain records
// bundling a system matrix, a right-hand side and per-contact parameters.
//
//	LCP             w = M z + q,  0 ≤ z ⟂ w ≥ 0
//	FrictionContact u = M r + q,  per contact: 0 ≤ r_n ⟂ u_n ≥ 0 and the
//	                Coulomb law with coefficient mu_i (dimension 2 or 3)
//	MLCP            A u + C v + a = 0,  w = D u + B v + b,  0 ≤ v ⟂ w ≥ 0
//	SOCLCP          u = M r + q,  K ∋ r ⟂ u ∈ K*, K a product of
//	                second-order cones of arbitrary dimension
//
// Descriptors are owned by the caller; solvers never mutate them. Each kind
// has a Print/Read pair producing a self-describing text record whose
// read-back is bit-identical.
package problem
