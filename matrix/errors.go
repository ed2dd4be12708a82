// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All exported operations return these sentinels (possibly wrapped with a
// method tag); tests and callers match them with errors.Is.

package matrix

import (
	"errors"
	"fmt"
)

// Every message is prefixed with "matrix: ..." so logs stay greppable.
// Context is added at the detection site with matrixErrorf; the sentinel is
// always preserved through %w.

var (
	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrBadShape is returned when a requested size or block size is invalid (<= 0).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that an index (row, column or block) is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible vector/matrix dimensions.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf signals a NaN or ±Inf where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrSingular is returned when a factorization meets a zero pivot or the
	// condition number exceeds the configured limit.
	ErrSingular = errors.New("matrix: singular matrix")

	// ErrBlockNotFound indicates a block lookup on a position that holds no stored block.
	ErrBlockNotFound = errors.New("matrix: block not stored")

	// ErrDuplicateBlock indicates an attempt to store two blocks at one (row, col).
	ErrDuplicateBlock = errors.New("matrix: duplicate block")

	// ErrBlockStructure indicates a block whose shape disagrees with the declared block sizes.
	ErrBlockStructure = errors.New("matrix: inconsistent block structure")

	// ErrUnknownStorage indicates an unsupported storage discriminant in persisted data.
	ErrUnknownStorage = errors.New("matrix: unknown storage type")

	// ErrParse indicates malformed text input.
	ErrParse = errors.New("matrix: parse error")
)

// matrixErrorf wraps err with a method tag: "<tag>: <err>".
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
