// SPDX-License-Identifier: MIT

package criteria

import "errors"

// ErrDimension indicates vectors whose length disagrees with the problem.
var ErrDimension = errors.New("criteria: dimension mismatch")
