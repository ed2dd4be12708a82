// SPDX-License-Identifier: MIT

// Package matrix - LU factorization with a singularity guard.
//
// Purpose:
//   - Wrap gonum's partially pivoted mat.LU behind a factor-once/solve-many
//     handle that the enumeration, direct and Newton solvers keep around.
//   - Refuse near-singular systems at factorization time (ErrSingular)
//     instead of letting a huge pivot ratio leak into an iterate.

package matrix

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

const ctxFactorize = "Factorize"

// LU is a factorized square system.
type LU struct {
	n    int
	cond float64
	lu   mat.LU
}

// Factorize computes the LU factorization of a.
//
// Implementation:
//   - Stage 1: shape checks.
//   - Stage 2: mat.LU.Factorize (partial pivoting).
//   - Stage 3: reject when the condition estimate is NaN, +Inf or above
//     the configured limit (WithConditionLimit).
//
// Errors:
//   - ErrBadShape, ErrNonSquare, ErrSingular.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func Factorize(a mat.Matrix, opts ...Option) (*LU, error) {
	r, c := a.Dims()
	if r == 0 {
		return nil, matrixErrorf(ctxFactorize, ErrBadShape)
	}
	if r != c {
		return nil, matrixErrorf(ctxFactorize, ErrNonSquare)
	}
	o := gatherOptions(opts...)

	f := &LU{n: r}
	f.lu.Factorize(a)
	f.cond = f.lu.Cond()
	if math.IsNaN(f.cond) || math.IsInf(f.cond, 1) || f.cond > o.conditionLimit {
		return nil, matrixErrorf(ctxFactorize, ErrSingular)
	}

	return f, nil
}

// Size returns the order of the factorized system.
func (f *LU) Size() int { return f.n }

// Cond returns the condition number estimate computed at factorization.
func (f *LU) Cond() float64 { return f.cond }

// Solve writes the solution of A·x = b into dst. dst and b may alias.
//
// Errors: ErrDimensionMismatch, ErrSingular (gonum condition failure).
func (f *LU) Solve(dst, b []float64) error {
	if len(dst) != f.n || len(b) != f.n {
		return matrixErrorf("LU.Solve", ErrDimensionMismatch)
	}
	rhs := mat.NewVecDense(f.n, append([]float64(nil), b...))
	out := mat.NewVecDense(f.n, dst)
	if err := f.lu.SolveVecTo(out, false, rhs); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return matrixErrorf("LU.Solve", ErrSingular)
		}

		return matrixErrorf("LU.Solve", err)
	}

	return nil
}

// SolveDense factorizes a and solves a·x = b in one call.
func SolveDense(a mat.Matrix, dst, b []float64, opts ...Option) error {
	f, err := Factorize(a, opts...)
	if err != nil {
		return err
	}

	return f.Solve(dst, b)
}
