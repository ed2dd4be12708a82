// SPDX-License-Identifier: MIT

// Package cone implements the closed-form Euclidean projections used by the
// friction and second-order-cone solvers. Vectors are laid out normal
// component first: r = (r_n, r_t[, r_s]).
//
//	OnCone            Coulomb cone {r_n ≥ 0, ‖r_t‖ ≤ mu r_n}, 2D and 3D
//	OnSecondOrderCone same cone for any dimension ≥ 2
//	OnCylinder        Tresca set {r_n ≥ 0, ‖r_t‖ ≤ radius}
//	OnDisk            {‖r_t‖ ≤ radius} on tangential components only
//
// All projections work in place, are idempotent and never allocate.
package cone
