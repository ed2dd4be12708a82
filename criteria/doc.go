// SPDX-License-Identifier: MIT

// Package criteria computes the error measures that decide when a solver
// stops, together with the Fischer-Burmeister reformulation shared by the
// Newton-based drivers.
//
// Every global measure recomputes the dual vector from the current iterate
// (w = Mz+q, u = Mr+q) instead of trusting a possibly stale copy, and is
// normalized by ‖q‖ so one tolerance fits problems of any scale:
//
//	LCP    Σ_i [(z_i w_i)+ + (-z_i)+ + (-w_i)+] / ‖q‖
//	FC     sqrt(Σ_contacts ‖r - Π_K(r - (u + mu‖u_t‖ e_n))‖²) / ‖q‖
//	MLCP   (‖A u + C v + a‖ + LCP sum on (v, w)) / ‖q‖
//	SOCLCP sqrt(Σ_cones ‖r - Π_K(r - u)‖²) / ‖q‖
//
// When ‖q‖ is zero the raw sum is returned.
package criteria
