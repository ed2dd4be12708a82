// SPDX-License-Identifier: MIT

package solver

// Info is the outcome code of a solve (and Status the outcome of one local
// solve; both share the same scale).
type Info int

// Status is the outcome code of a local per-contact solve.
type Status = Info

const (
	// Success: the tolerance is met.
	Success Info = 0
	// NoConvergence: the iteration cap was reached.
	NoConvergence Info = 1
	// NumericalFailure: a singular system was met.
	NumericalFailure Info = 2
)

// String implements fmt.Stringer.
func (i Info) String() string {
	switch i {
	case Success:
		return "success"
	case NoConvergence:
		return "no convergence"
	case NumericalFailure:
		return "numerical failure"
	default:
		return "unknown"
	}
}

// Err maps the code onto ErrNoConvergence / ErrNumericalFailure (nil on success).
func (i Info) Err() error {
	switch i {
	case Success:
		return nil
	case NoConvergence:
		return ErrNoConvergence
	default:
		return ErrNumericalFailure
	}
}

// Worst returns the more severe of two codes.
func Worst(a, b Info) Info {
	if b > a {
		return b
	}

	return a
}
