// SPDX-License-Identifier: MIT

// Package matrix defines the Matrix sum type consumed by the solvers.
//
// What & Why:
//
//	Matrix is a sealed interface: only *Dense and *SparseBlock implement it.
//	Drivers dispatch by method call (or by a type switch when a storage
//	specific fast path exists) instead of checking a storage discriminant.
//
// Complexity:
//
//	Size and Storage run in O(1). Product and block costs are documented on
//	each implementation.
package matrix

import "gonum.org/v1/gonum/mat"

// StorageType is the discriminant persisted in the text format.
type StorageType int

const (
	// StorageDense is a flat n×n array.
	StorageDense StorageType = 0
	// StorageSparseBlock is a CSR layout over dense blocks.
	StorageSparseBlock StorageType = 1
)

// String implements fmt.Stringer.
func (s StorageType) String() string {
	switch s {
	case StorageDense:
		return "dense"
	case StorageSparseBlock:
		return "sparse-block"
	default:
		return "unknown"
	}
}

// Matrix is a square n×n operator in one of two storages.
//
// Contract:
//   - Size() is the number of rows (== columns).
//   - Products never allocate on the hot path and never mutate the receiver.
//   - Block returns a view into the receiver's storage: callers must treat
//     it as read-only while a solve is running.
type Matrix interface {
	// Size returns n for an n×n matrix.
	Size() int

	// Storage reports the concrete representation.
	Storage() StorageType

	// At returns entry (i, j); absent sparse entries read as 0.
	At(i, j int) (float64, error)

	// MulVec computes y = M·x. len(x) == len(y) == Size().
	MulVec(y, x []float64) error

	// AddMulVec computes y += M·x.
	AddMulVec(y, x []float64) error

	// Block returns the dim×dim block at (blockRow, blockCol), where the
	// block grid is the uniform dim-partition for Dense and the stored
	// structure for SparseBlock.
	Block(blockRow, blockCol, dim int) (*mat.Dense, error)

	// RowProdNoDiag computes y += (block row of M without its diagonal
	// block)·x. len(y) == dim, len(x) == Size().
	RowProdNoDiag(blockRow, dim int, x, y []float64) error

	// ToDense materializes the matrix as a Dense copy (or returns the
	// receiver itself when it already is one).
	ToDense() *Dense

	sealed()
}

// checkProduct validates the operand lengths of a matrix-vector product and
// reports whether x and y share their first element.
func checkProduct(tag string, n int, y, x []float64) (aliased bool, err error) {
	if len(x) != n || len(y) != n {
		return false, matrixErrorf(tag, ErrDimensionMismatch)
	}
	if n > 0 && &x[0] == &y[0] {
		return true, nil
	}

	return false, nil
}
