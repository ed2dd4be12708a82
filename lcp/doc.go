// SPDX-License-Identifier: MIT

// Package lcp solves linear complementarity problems
//
//	w = M z + q,   0 ≤ z ⟂ w ≥ 0.
//
// Every algorithm takes the initial guess in z, overwrites z and w with the
// final iterate, stores the iteration count and error in the options'
// output slots and returns a solver.Info. A problem with ‖q‖ at machine
// precision is answered immediately with z = 0, w = q.
package lcp
