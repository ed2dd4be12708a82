// SPDX-License-Identifier: MIT

// Package matrix is the numeric matrix layer shared by every solver of the
// module: a closed sum type over two storages with one capability set.
//
// What & Why:
//
//	Complementarity and friction solvers only need three things from the
//	global operator: a product y = M·x, a view on one contact block, and the
//	product of one block row with the diagonal block left out. Matrix exposes
//	exactly that surface, so a driver written once works for both storages:
//
//	  - Dense:       n×n row-major values backed by gonum's *mat.Dense;
//	                 products go through BLAS GEMV.
//	  - SparseBlock: CSR over dense blocks (block-row pointers, block-column
//	                 indices); products touch stored blocks only.
//
// The package also carries an LU wrapper over gonum's mat.LU that refuses
// near-singular systems (used by enumeration, direct and Newton solvers) and
// a self-describing text format whose read-back is bit-exact.
//
// Determinism:
//
//	All iteration orders are fixed (row-major, ascending block indices), so
//	two runs on the same data produce identical bits.
//
// Complexity:
//
//	Dense.MulVec O(n²); SparseBlock.MulVec O(Σ block sizes);
//	Block O(1) for Dense, O(row length) for SparseBlock.
package matrix
