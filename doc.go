// Package nonsmooth computes solutions of the complementarity and
// friction-contact problems that one time step of a nonsmooth mechanical
// simulation produces.
//
// What is inside?
//
//	A pure-Go solver core built on gonum:
//		• Problems: LCP, MLCP, 2D/3D Coulomb friction contact, SOCLCP
//		• Matrices: dense and sparse-block storage behind one sealed interface
//		• Local solvers: cone projections (plain, diagonalized, regularized,
//		  iterated, Tresca cylinder), Alart-Curnier and Fischer-Burmeister Newton
//		• Global solvers: NSGS, De Saxcé fixed point, PGS, Newton-LSA,
//		  enumeration, direct MLCP with a configuration cache
//		• Criteria: normalized LCP / MLCP / friction / SOCLCP errors
//		• Tooling: text persistence, iteration history and convergence charts
//
// Everything is organized under these subpackages:
//
//	matrix/   — Dense, SparseBlock, LU, print/read
//	problem/  — problem descriptors, validation, print/read
//	cone/     — closed-form projections
//	criteria/ — error measures and the Fischer-Burmeister function
//	solver/   — IDs, Options, Info codes, workspace, tracing
//	local/    — per-contact solvers
//	newton/   — Newton with Armijo / nonmonotone line search
//	lcp/, mlcp/, fc/, soclcp/ — algorithms per problem family
//	driver/   — dispatch by ID with workspace sizing
//	history/  — iteration recorder and charts
//
// Quick example (one contact pressed into the ground and pushed sideways):
//
//	m, _ := matrix.NewDenseFrom(3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
//	p, _ := problem.NewFrictionContact(3, m, []float64{-1, 1, 3}, []float64{0.1})
//	r, u := make([]float64, 3), make([]float64, 3)
//	info, err := driver.FrictionContact(p, r, u, solver.MustNew(solver.FC3DNSGS))
//
// info is solver.Success and r lies on the boundary of the friction cone.
//
//	go get github.com/katalvlaran/nonsmooth
package nonsmooth
