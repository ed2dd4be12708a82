// SPDX-License-Identifier: MIT

package soclcp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/nonsmooth/cone"
	"github.com/katalvlaran/nonsmooth/criteria"
	"github.com/katalvlaran/nonsmooth/problem"
	"github.com/katalvlaran/nonsmooth/solver"
)

// ErrDimension indicates r or u of the wrong length.
var ErrDimension = errors.New("soclcp: buffer length mismatch")

// RhoMin is the floor of the adaptive step.
const RhoMin = 1e-12

// WorkspaceSize is empty: the iteration works in the caller's r and u.
func WorkspaceSize(n int) solver.WorkspaceSize {
	return solver.WorkspaceSize{}
}

// FixedPointProjection iterates r ← Π_K(r - ρ(M r + q)) cone by cone.
// ρ starts at DParamRho and is halved (down to RhoMin) after every step
// that makes the error grow.
//
// Errors: ErrDimension, solver.ErrWorkspace, problem errors.
func FixedPointProjection(p *problem.SOCLCP, r, u []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "soclcp.FixedPointProjection"
	if err := p.Validate(); err != nil {
		return solver.NumericalFailure, fmt.Errorf("%s: %w", tag, err)
	}
	n := p.Size()
	if len(r) != n || len(u) != n {
		return solver.NumericalFailure, fmt.Errorf("%s: %w", tag, ErrDimension)
	}
	if criteria.IsTrivial(p.Q) {
		for i := range r {
			r[i] = 0
		}
		copy(u, p.Q)
		opts.SetResult(0, 0)

		return solver.Success, nil
	}
	if _, err := opts.Acquire(WorkspaceSize(n)); err != nil {
		return solver.NumericalFailure, fmt.Errorf("%s: %w", tag, err)
	}

	rho := opts.DParam[solver.DParamRho]
	tol, maxIter := opts.Tolerance(), opts.MaxIter()
	e, err := criteria.SOCLCPError(p, r, u)
	if err != nil {
		return solver.NumericalFailure, fmt.Errorf("%s: %w", tag, err)
	}
	iter := 0
	for ; iter < maxIter && e > tol; iter++ {
		floats.AddScaled(r, -rho, u)
		for c := 0; c < p.NumberOfCones(); c++ {
			lo, hi := p.Cone(c)
			cone.OnSecondOrderCone(r[lo:hi], p.Mu[c])
		}
		next, err := criteria.SOCLCPError(p, r, u)
		if err != nil {
			return solver.NumericalFailure, fmt.Errorf("%s: %w", tag, err)
		}
		if next > e && rho > RhoMin {
			rho = max(rho/2, RhoMin)
			opts.Log().Debug("step reduced", "solver", opts.ID.String(), "iter", iter+1, "rho", rho)
		}
		e = next
		opts.Trace(iter+1, e, r, u)
	}
	opts.SetResult(iter, e)
	if e > tol {
		return solver.NoConvergence, nil
	}

	return solver.Success, nil
}
