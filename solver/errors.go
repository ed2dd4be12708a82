// SPDX-License-Identifier: MIT

package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSolver indicates an identifier or name with no registered algorithm.
	ErrUnknownSolver = errors.New("solver: unknown solver")

	// ErrKindMismatch indicates a solver used on the wrong problem kind.
	ErrKindMismatch = errors.New("solver: solver does not apply to this problem kind")

	// ErrOptions indicates malformed options (short parameter arrays, nil options).
	ErrOptions = errors.New("solver: invalid options")

	// ErrWorkspace indicates a caller-supplied workspace smaller than required.
	ErrWorkspace = errors.New("solver: workspace too small")

	// ErrNoConvergence is the error form of Info NoConvergence.
	ErrNoConvergence = errors.New("solver: no convergence")

	// ErrNumericalFailure is the error form of Info NumericalFailure.
	ErrNumericalFailure = errors.New("solver: numerical failure")
)

// SolveError reports a solve that ended with a non-zero Info, for callers
// that prefer an error value over the status code.
type SolveError struct {
	Solver    ID
	Info      Info
	Iteration int
	Residual  float64
}

// Error implements error.
func (e *SolveError) Error() string {
	return fmt.Sprintf("%s: %s after %d iterations (error %g)", e.Solver, e.Info, e.Iteration, e.Residual)
}

// Unwrap returns the sentinel of the Info code.
func (e *SolveError) Unwrap() error { return e.Info.Err() }
