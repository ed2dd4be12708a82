// SPDX-License-Identifier: MIT

package fc

import (
	"fmt"
	"math"

	"github.com/katalvlaran/nonsmooth/criteria"
	"github.com/katalvlaran/nonsmooth/problem"
	"github.com/katalvlaran/nonsmooth/solver"
)

// TrescaFixedPointWorkspaceSize returns one float per contact for the
// cylinder radii plus the inner NSGS workspace.
func TrescaFixedPointWorkspaceSize(numberOfContacts int) solver.WorkspaceSize {
	return solver.WorkspaceSize{Floats: numberOfContacts}.Add(NSGSWorkspaceSize(numberOfContacts, 3))
}

// TrescaFixedPoint solves a 3D problem as a sequence of Tresca problems.
// Each outer iteration freezes the friction threshold of contact i at
// mu_i·max(r_n,i, 0), solves the resulting cylinder problem with the NSGS
// configured in opts.Internal (whose own Internal is the cylinder local
// solver) and evaluates the Coulomb error of the result. The inner
// tolerance follows the outer error: max(e/10, tol/nc).
//
// The outer iteration is a fixed point on the thresholds; it is not
// guaranteed to converge for large friction coefficients.
//
// Errors: ErrDimension, solver.ErrOptions (missing or non-NSGS inner
// options), solver.ErrWorkspace, problem errors, inner NSGS errors.
func TrescaFixedPoint(p *problem.FrictionContact, reaction, velocity []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "TrescaFixedPoint"
	done, err := prepare(tag, p, reaction, velocity, opts)
	if err != nil {
		return solver.NumericalFailure, err
	}
	if done {
		return solver.Success, nil
	}
	if p.Dimension != 3 {
		return solver.NumericalFailure, fcErrorf(tag, fmt.Errorf("%dD problem: %w", p.Dimension, ErrDimension))
	}
	if opts.Internal == nil || opts.Internal.ID != solver.FC3DNSGS {
		return solver.NumericalFailure, fcErrorf(tag, fmt.Errorf("%v: inner solver must be %v: %w", opts.ID, solver.FC3DNSGS, solver.ErrOptions))
	}

	// INIT
	nc := p.NumberOfContacts
	ws, err := opts.Acquire(TrescaFixedPointWorkspaceSize(nc))
	if err != nil {
		return solver.NumericalFailure, fcErrorf(tag, err)
	}
	radii, _ := ws.Floats(nc)
	innerWS, err := ws.Split(NSGSWorkspaceSize(nc, 3))
	if err != nil {
		return solver.NumericalFailure, fcErrorf(tag, err)
	}
	inner := opts.Internal.Clone()
	inner.Workspace = innerWS
	if inner.Logger == nil {
		inner.Logger = opts.Logger
	}
	tresca := *p
	tresca.Mu = radii

	tol, maxIter := opts.Tolerance(), opts.MaxIter()
	e := 1.0
	info := solver.NoConvergence
	sweeps := 0
	iter := 0
	for iter < maxIter {
		iter++
		for c := 0; c < nc; c++ {
			lo, _ := p.Contact(c)
			radii[c] = p.Mu[c] * math.Max(reaction[lo], 0)
		}
		inner.DParam[solver.DParamTol] = math.Max(e/10, tol/float64(nc))

		st, err := NSGS(&tresca, reaction, velocity, inner)
		if err != nil {
			return solver.NumericalFailure, fcErrorf(tag, err)
		}
		sweeps += inner.Iterations()
		if st == solver.NumericalFailure {
			info = solver.NumericalFailure

			break
		}

		// CHECK
		if e, err = criteria.FrictionContactError(p, reaction, velocity); err != nil {
			return solver.NumericalFailure, fcErrorf(tag, err)
		}
		opts.Trace(iter, e, reaction, velocity)
		if e <= tol {
			info = solver.Success

			break
		}
	}
	opts.Log().Debug("tresca fixed point done", "solver", opts.ID.String(), "iter", iter, "sweeps", sweeps)
	opts.SetResult(iter, e)

	return info, nil
}
