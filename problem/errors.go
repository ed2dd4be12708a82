// SPDX-License-Identifier: MIT

package problem

import (
	"errors"
	"fmt"
)

var (
	// ErrNilProblem indicates a nil descriptor or a descriptor without matrix.
	ErrNilProblem = errors.New("problem: nil problem")

	// ErrDimension indicates sizes that do not fit together (len(q) != n,
	// n != dim·contacts, bad cone index, ...).
	ErrDimension = errors.New("problem: inconsistent dimensions")

	// ErrContactDimension indicates a friction-contact dimension other than 2 or 3.
	ErrContactDimension = errors.New("problem: contact dimension must be 2 or 3")

	// ErrFriction indicates a negative or non-finite friction coefficient.
	ErrFriction = errors.New("problem: invalid friction coefficient")

	// ErrNonFinite indicates NaN or ±Inf in q.
	ErrNonFinite = errors.New("problem: non-finite value")
)

// problemErrorf wraps err with an operation tag.
func problemErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
