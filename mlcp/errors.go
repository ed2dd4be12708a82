// SPDX-License-Identifier: MIT

package mlcp

import (
	"errors"
	"fmt"
)

var (
	// ErrDimension indicates output buffers that do not match the problem.
	ErrDimension = errors.New("mlcp: buffer length mismatch")

	// ErrTooLarge indicates more complementarity pairs than enumeration supports.
	ErrTooLarge = errors.New("mlcp: too many complementarity pairs to enumerate")

	// ErrConfig indicates a configuration of the wrong length.
	ErrConfig = errors.New("mlcp: configuration length mismatch")
)

func mlcpErrorf(tag string, err error) error {
	return fmt.Errorf("mlcp.%s: %w", tag, err)
}
