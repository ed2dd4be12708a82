// SPDX-License-Identifier: MIT

// Package matrix - Dense storage backed by gonum and safe accessors.
//
// Purpose:
//   - Keep values in a gonum *mat.Dense so products use BLAS GEMV directly.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Provide contact blocks as no-copy views.
//
// Complexity quicksheet:
//   - NewDense: O(n²) zero-init; At/Set: O(1); MulVec: O(n²);
//     Block: O(1); RowProdNoDiag: O(dim·n).

package matrix

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// ---------- error context tags ----------

const (
	ctxAt            = "At"
	ctxSet           = "Set"
	ctxMulVec        = "MulVec"
	ctxAddMulVec     = "AddMulVec"
	ctxBlock         = "Block"
	ctxRowProdNoDiag = "RowProdNoDiag"
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is an n×n matrix stored row-major in a gonum *mat.Dense.
type Dense struct {
	n              int
	m              *mat.Dense
	validateNaNInf bool
}

// Compile-time assertions.
var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an n×n zero matrix.
//
// Errors:
//   - ErrBadShape when n <= 0.
//
// Complexity:
//   - Time O(n²), Space O(n²).
func NewDense(n int, opts ...Option) (*Dense, error) {
	if n <= 0 {
		return nil, matrixErrorf("NewDense", ErrBadShape)
	}
	o := gatherOptions(opts...)

	return &Dense{n: n, m: mat.NewDense(n, n, nil), validateNaNInf: o.validateNaNInf}, nil
}

// NewDenseFrom creates an n×n matrix from row-major values. The slice is
// copied, so the caller keeps ownership of rowMajor.
//
// Errors:
//   - ErrBadShape when n <= 0.
//   - ErrDimensionMismatch when len(rowMajor) != n*n.
//   - ErrNaNInf when validation is on and a value is not finite.
func NewDenseFrom(n int, rowMajor []float64, opts ...Option) (*Dense, error) {
	if n <= 0 {
		return nil, matrixErrorf("NewDenseFrom", ErrBadShape)
	}
	if len(rowMajor) != n*n {
		return nil, matrixErrorf("NewDenseFrom", ErrDimensionMismatch)
	}
	o := gatherOptions(opts...)
	if o.validateNaNInf {
		if err := ValidateFinite(rowMajor); err != nil {
			return nil, matrixErrorf("NewDenseFrom", err)
		}
	}
	data := make([]float64, len(rowMajor))
	copy(data, rowMajor)

	return &Dense{n: n, m: mat.NewDense(n, n, data), validateNaNInf: o.validateNaNInf}, nil
}

// NewDenseFromMat copies a square gonum matrix.
//
// Errors: ErrBadShape on an empty matrix, ErrNonSquare.
func NewDenseFromMat(a mat.Matrix, opts ...Option) (*Dense, error) {
	r, c := a.Dims()
	if r == 0 {
		return nil, matrixErrorf("NewDenseFromMat", ErrBadShape)
	}
	if r != c {
		return nil, matrixErrorf("NewDenseFromMat", ErrNonSquare)
	}
	o := gatherOptions(opts...)

	return &Dense{n: r, m: mat.DenseCopyOf(a), validateNaNInf: o.validateNaNInf}, nil
}

func (*Dense) sealed() {}

// Size returns n.
func (d *Dense) Size() int { return d.n }

// Storage returns StorageDense.
func (*Dense) Storage() StorageType { return StorageDense }

// Raw exposes the backing gonum matrix. Mutations are visible to d.
func (d *Dense) Raw() *mat.Dense { return d.m }

// At returns entry (i, j).
func (d *Dense) At(i, j int) (float64, error) {
	if i < 0 || i >= d.n || j < 0 || j >= d.n {
		return 0, denseErrorf(ctxAt, i, j, ErrOutOfRange)
	}

	return d.m.At(i, j), nil
}

// Set assigns entry (i, j), honoring the NaN/Inf policy.
func (d *Dense) Set(i, j int, v float64) error {
	if i < 0 || i >= d.n || j < 0 || j >= d.n {
		return denseErrorf(ctxSet, i, j, ErrOutOfRange)
	}
	if d.validateNaNInf && isNonFinite(v) {
		return denseErrorf(ctxSet, i, j, ErrNaNInf)
	}
	d.m.Set(i, j, v)

	return nil
}

// MulVec computes y = M·x with one GEMV call. Aliased x and y are handled
// through a temporary copy of x.
func (d *Dense) MulVec(y, x []float64) error {
	return d.gemv(ctxMulVec, 0, y, x)
}

// AddMulVec computes y += M·x.
func (d *Dense) AddMulVec(y, x []float64) error {
	return d.gemv(ctxAddMulVec, 1, y, x)
}

func (d *Dense) gemv(tag string, beta float64, y, x []float64) error {
	aliased, err := checkProduct("Dense."+tag, d.n, y, x)
	if err != nil {
		return err
	}
	if aliased {
		x = append([]float64(nil), x...)
	}
	blas64.Gemv(blas.NoTrans, 1, d.m.RawMatrix(),
		blas64.Vector{N: d.n, Data: x, Inc: 1}, beta,
		blas64.Vector{N: d.n, Data: y, Inc: 1})

	return nil
}

// Block returns a view on rows/cols [r·dim, (r+1)·dim) × [c·dim, (c+1)·dim).
//
// Errors: ErrBadShape (dim <= 0), ErrOutOfRange.
func (d *Dense) Block(blockRow, blockCol, dim int) (*mat.Dense, error) {
	if dim <= 0 {
		return nil, denseErrorf(ctxBlock, blockRow, blockCol, ErrBadShape)
	}
	r0, c0 := blockRow*dim, blockCol*dim
	if blockRow < 0 || blockCol < 0 || r0+dim > d.n || c0+dim > d.n {
		return nil, denseErrorf(ctxBlock, blockRow, blockCol, ErrOutOfRange)
	}

	return d.m.Slice(r0, r0+dim, c0, c0+dim).(*mat.Dense), nil
}

// RowProdNoDiag accumulates y += M[rows of block r, all cols except block r]·x.
//
// Implementation:
//   - Two GEMV calls on the column ranges left and right of the diagonal block.
func (d *Dense) RowProdNoDiag(blockRow, dim int, x, y []float64) error {
	if dim <= 0 {
		return denseErrorf(ctxRowProdNoDiag, blockRow, blockRow, ErrBadShape)
	}
	r0 := blockRow * dim
	if blockRow < 0 || r0+dim > d.n {
		return denseErrorf(ctxRowProdNoDiag, blockRow, blockRow, ErrOutOfRange)
	}
	if len(x) != d.n || len(y) != dim {
		return denseErrorf(ctxRowProdNoDiag, blockRow, blockRow, ErrDimensionMismatch)
	}
	raw := d.m.RawMatrix()
	yv := blas64.Vector{N: dim, Data: y, Inc: 1}
	if r0 > 0 {
		left := blas64.General{Rows: dim, Cols: r0, Stride: raw.Stride, Data: raw.Data[r0*raw.Stride:]}
		blas64.Gemv(blas.NoTrans, 1, left, blas64.Vector{N: r0, Data: x[:r0], Inc: 1}, 1, yv)
	}
	if c1 := r0 + dim; c1 < d.n {
		right := blas64.General{Rows: dim, Cols: d.n - c1, Stride: raw.Stride, Data: raw.Data[r0*raw.Stride+c1:]}
		blas64.Gemv(blas.NoTrans, 1, right, blas64.Vector{N: d.n - c1, Data: x[c1:], Inc: 1}, 1, yv)
	}

	return nil
}

// ToDense returns d itself.
func (d *Dense) ToDense() *Dense { return d }

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	return &Dense{n: d.n, m: mat.DenseCopyOf(d.m), validateNaNInf: d.validateNaNInf}
}

// Scale returns a copy of d multiplied by alpha.
func (d *Dense) Scale(alpha float64) *Dense {
	out := d.Clone()
	out.m.Scale(alpha, d.m)

	return out
}

// String renders the matrix row by row.
func (d *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < d.n; i++ {
		sb.WriteString("[")
		for j := 0; j < d.n; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", d.m.At(i, j))
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}
