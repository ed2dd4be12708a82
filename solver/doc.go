// SPDX-License-Identifier: MIT

// Package solver carries what every algorithm of the module shares: the
// solver identifiers and their names, the Options record (iparam/dparam
// slots, nested internal options, workspace, logger, iteration callback),
// the Info status codes and the workspace arena.
//
// Options keep the classic integer/float parameter arrays so a setting can
// be addressed by slot (IParamMaxIter, DParamTol, ...), while construction
// goes through functional options that fill per-algorithm defaults:
//
//	opts, err := solver.New(solver.FC3DNSGS,
//		solver.WithTolerance(1e-8),
//		solver.WithLocalSolver(solver.FC3DProjectionOnCone),
//	)
//
// Status codes:
//
//	0 Success           the iterate satisfies the tolerance
//	1 NoConvergence     the iteration cap was reached; the iterate is kept
//	2 NumericalFailure  a singular system stopped the algorithm
package solver
