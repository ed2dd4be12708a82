// SPDX-License-Identifier: MIT

// Package local solves one contact at a time: given the diagonal block W of
// a contact, its local right-hand side q (which already folds in the current
// reactions of every other contact) and its friction coefficient, it
// updates the contact reaction r in place.
//
// Variants, all behind the Solver interface and chosen once by New:
//
//	Projection                 one projected gradient step with step 1/W_nn
//	ProjectionDiagonalization  r = -diag(W)⁻¹ q scaled back into the cone
//	ProjectionRegularization   projection step on W + ρI
//	ProjectionCylinder         projection step on the Tresca cylinder
//	ProjectionLocalIteration   repeated projection with an adaptive step
//	NewtonAlartCurnier         generalized Newton on the Alart-Curnier equation
//	NewtonFischerBurmeister    generalized Newton with an FB normal part
//
// Every call receives its whole context through *Problem: there is no
// "current contact" state shared between calls. Stateful variants (the
// adaptive step of ProjectionLocalIteration) keep one slot per contact and
// implement Resetter.
//
// Status codes follow solver.Info: 0 converged, 1 local cap reached (the
// partial update is kept), 2 numerical failure (vanishing pivot or singular
// Jacobian).
package local
