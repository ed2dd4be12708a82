// SPDX-License-Identifier: MIT

package local

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/solver"
)

var (
	// ErrDimension indicates a contact dimension the variant does not handle.
	ErrDimension = errors.New("local: unsupported contact dimension")

	// ErrNotLocal indicates options whose ID is not a local solver.
	ErrNotLocal = errors.New("local: not a local solver")
)

// DefaultPivotTol is the smallest accepted diagonal pivot / Jacobian
// determinant magnitude.
const DefaultPivotTol = 2.220446049250313e-16

// Problem is the context of one local solve.
type Problem struct {
	// W is the dim×dim diagonal block of the contact (read-only view).
	W *mat.Dense
	// Q is the local right-hand side q_i + Σ_{j≠i} M_ij r_j.
	Q []float64
	// Mu is the friction coefficient (Tresca radius for ProjectionCylinder).
	Mu float64
	// Contact is the contact index, used by stateful variants.
	Contact int
}

// Result reports one local solve.
type Result struct {
	Status     solver.Status
	Iterations int
	Error      float64
}

// Solver updates a contact reaction in place.
type Solver interface {
	Solve(p *Problem, r []float64) Result
}

// Resetter is implemented by variants that keep per-contact state.
type Resetter interface {
	Reset(numberOfContacts int)
}

// New builds the local solver configured by opts for contacts of dimension dim.
//
// Errors: ErrNotLocal, ErrDimension.
func New(opts *solver.Options, dim int) (Solver, error) {
	if opts == nil {
		return nil, fmt.Errorf("local.New: %w", ErrNotLocal)
	}
	if dim != 2 && dim != 3 {
		return nil, fmt.Errorf("local.New(%v, %d): %w", opts.ID, dim, ErrDimension)
	}
	tol, maxIter := opts.Tolerance(), opts.MaxIter()

	switch opts.ID {
	case solver.FC3DProjectionOnCone, solver.FC2DProjectionOnCone:
		return &Projection{PivotTol: DefaultPivotTol}, nil
	case solver.FC3DProjectionOnConeWithDiagonalization:
		return &ProjectionDiagonalization{PivotTol: DefaultPivotTol}, nil
	case solver.FC3DProjectionOnConeWithRegularization:
		return &ProjectionRegularization{Rho: opts.DParam[solver.DParamRho], PivotTol: DefaultPivotTol}, nil
	case solver.FC3DProjectionOnCylinder:
		return &ProjectionCylinder{PivotTol: DefaultPivotTol}, nil
	case solver.FC3DProjectionOnConeWithLocalIteration:
		return NewProjectionLocalIteration(tol, maxIter), nil
	case solver.FC3DAlartCurnierNewton:
		if dim != 3 {
			return nil, fmt.Errorf("local.New(%v, %d): %w", opts.ID, dim, ErrDimension)
		}

		return NewNewtonAlartCurnier(tol, maxIter), nil
	case solver.FC3DFischerBurmeisterNewton:
		if dim != 3 {
			return nil, fmt.Errorf("local.New(%v, %d): %w", opts.ID, dim, ErrDimension)
		}

		return NewNewtonFischerBurmeister(tol, maxIter), nil
	default:
		return nil, fmt.Errorf("local.New(%v): %w", opts.ID, ErrNotLocal)
	}
}

// velocity writes u = q + W r (dim ≤ 3, no allocation).
func velocity(w *mat.Dense, q, r, u []float64) {
	for i := range u {
		s := q[i]
		for j := range r {
			s += w.At(i, j) * r[j]
		}
		u[i] = s
	}
}
