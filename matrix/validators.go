// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - One canonical place for the shape and value checks every solver runs
//     before its first iteration.
//   - Return sentinel errors tagged with the validator name so call sites can
//     wrap uniformly.
//
// Determinism & Performance:
//   - All checks are pure and allocate nothing.

package matrix

import (
	"math"
	"reflect"
)

// ValidateNotNil ensures the matrix reference is non-nil, including typed nil
// pointers stored in the interface.
//
// Errors: ErrNilMatrix.
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return matrixErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if v := reflect.ValueOf(m); v.Kind() == reflect.Ptr && v.IsNil() {
		return matrixErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateVecLen checks len(x) == n.
//
// Errors: ErrDimensionMismatch.
// Complexity: O(1).
func ValidateVecLen(x []float64, n int) error {
	if len(x) != n {
		return matrixErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateBlockDim checks that m is non-nil and splits evenly into dim×dim
// contact blocks.
//
// Errors: ErrNilMatrix, ErrBadShape (dim <= 0), ErrDimensionMismatch.
// Complexity: O(1).
func ValidateBlockDim(m Matrix, dim int) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if dim <= 0 {
		return matrixErrorf("ValidateBlockDim", ErrBadShape)
	}
	if m.Size()%dim != 0 {
		return matrixErrorf("ValidateBlockDim", ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite rejects NaN and ±Inf entries.
//
// Errors: ErrNaNInf.
// Complexity: O(len(x)).
func ValidateFinite(x []float64) error {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return matrixErrorf("ValidateFinite", ErrNaNInf)
		}
	}

	return nil
}

// isNonFinite reports NaN or ±Inf.
func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
