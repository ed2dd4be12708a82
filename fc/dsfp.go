// SPDX-License-Identifier: MIT

package fc

import (
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/nonsmooth/cone"
	"github.com/katalvlaran/nonsmooth/criteria"
	"github.com/katalvlaran/nonsmooth/problem"
	"github.com/katalvlaran/nonsmooth/solver"
)

// DeSaxceFixedPointWorkspaceSize is empty: the iteration works in the
// caller's reaction and velocity buffers.
func DeSaxceFixedPointWorkspaceSize(numberOfContacts, dim int) solver.WorkspaceSize {
	return solver.WorkspaceSize{}
}

// DeSaxceFixedPoint iterates r ← Π_K(r - ρ(M r + q + mu‖u_t‖ e_n)) contact
// by contact, with ρ = DParamRho. On exit velocity holds M r + q.
//
// Errors: ErrDimension, problem errors.
func DeSaxceFixedPoint(p *problem.FrictionContact, reaction, velocity []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "DeSaxceFixedPoint"
	done, err := prepare(tag, p, reaction, velocity, opts)
	if err != nil {
		return solver.NumericalFailure, err
	}
	if done {
		return solver.Success, nil
	}
	if _, err = opts.Acquire(DeSaxceFixedPointWorkspaceSize(p.NumberOfContacts, p.Dimension)); err != nil {
		return solver.NumericalFailure, fcErrorf(tag, err)
	}

	rho := opts.DParam[solver.DParamRho]
	tol, maxIter := opts.Tolerance(), opts.MaxIter()
	e, err := criteria.FrictionContactError(p, reaction, velocity)
	if err != nil {
		return solver.NumericalFailure, fcErrorf(tag, err)
	}
	iter := 0
	for ; iter < maxIter && e > tol; iter++ {
		for c := 0; c < p.NumberOfContacts; c++ {
			lo, hi := p.Contact(c)
			r, u := reaction[lo:hi], velocity[lo:hi]
			normUT := floats.Norm(u[1:], 2)
			r[0] -= rho * (u[0] + p.Mu[c]*normUT)
			for k := 1; k < len(r); k++ {
				r[k] -= rho * u[k]
			}
			cone.OnCone(r, p.Mu[c])
		}
		if e, err = criteria.FrictionContactError(p, reaction, velocity); err != nil {
			return solver.NumericalFailure, fcErrorf(tag, err)
		}
		opts.Trace(iter+1, e, reaction, velocity)
	}
	opts.SetResult(iter, e)
	if e > tol {
		return solver.NoConvergence, nil
	}

	return solver.Success, nil
}
