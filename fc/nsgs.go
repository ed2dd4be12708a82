// SPDX-License-Identifier: MIT

package fc

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/criteria"
	"github.com/katalvlaran/nonsmooth/local"
	"github.com/katalvlaran/nonsmooth/matrix"
	"github.com/katalvlaran/nonsmooth/problem"
	"github.com/katalvlaran/nonsmooth/solver"
)

// ErrDimension indicates reaction or velocity buffers of the wrong length.
var ErrDimension = errors.New("fc: buffer length mismatch")

func fcErrorf(tag string, err error) error {
	return fmt.Errorf("fc.%s: %w", tag, err)
}

// prepare validates the call and answers the trivial problem.
func prepare(tag string, p *problem.FrictionContact, reaction, velocity []float64, opts *solver.Options) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, fcErrorf(tag, err)
	}
	for _, v := range [][]float64{reaction, velocity} {
		if err := matrix.ValidateVecLen(v, p.Size()); err != nil {
			return false, fcErrorf(tag, fmt.Errorf("%w: %w", ErrDimension, err))
		}
	}
	if criteria.IsTrivial(p.Q) {
		for i := range reaction {
			reaction[i] = 0
		}
		copy(velocity, p.Q)
		opts.SetResult(0, 0)

		return true, nil
	}

	return false, nil
}

// NSGSWorkspaceSize returns dWork = n + dim² + dim (previous sweep, local
// block, local right-hand side) and one int per contact for the ordering.
func NSGSWorkspaceSize(numberOfContacts, dim int) solver.WorkspaceSize {
	return solver.WorkspaceSize{
		Ints:   numberOfContacts,
		Floats: numberOfContacts*dim + dim*dim + dim,
	}
}

// shuffleStream is the PCG stream constant; the seed comes from IParamSeed.
const shuffleStream = 0x9e3779b97f4a7c15

// NSGS runs the nonsmooth Gauss-Seidel sweep.
//
// Parameters read from opts: IParamMaxIter, DParamTol, IParamErrorMode,
// IParamShuffle with IParamSeed, IParamRelax with DParamRelax, and the
// local solver options in Internal. IParamLocalFailures receives the number
// of local solves that hit their own cap.
//
// Errors: ErrDimension, solver.ErrOptions, local.ErrDimension,
// matrix.ErrBlockNotFound (missing diagonal block), problem errors.
func NSGS(p *problem.FrictionContact, reaction, velocity []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "NSGS"
	done, err := prepare(tag, p, reaction, velocity, opts)
	if err != nil {
		return solver.NumericalFailure, err
	}
	if done {
		return solver.Success, nil
	}
	if opts.Internal == nil {
		return solver.NumericalFailure, fcErrorf(tag, fmt.Errorf("%v: no local solver: %w", opts.ID, solver.ErrOptions))
	}

	// INIT
	dim, nc := p.Dimension, p.NumberOfContacts
	ls, err := local.New(opts.Internal, dim)
	if err != nil {
		return solver.NumericalFailure, fcErrorf(tag, err)
	}
	if rs, ok := ls.(local.Resetter); ok {
		rs.Reset(nc)
	}
	ws, err := opts.Acquire(NSGSWorkspaceSize(nc, dim))
	if err != nil {
		return solver.NumericalFailure, fcErrorf(tag, err)
	}
	prev, _ := ws.Floats(p.Size())
	wbuf, _ := ws.Floats(dim * dim)
	qloc, _ := ws.Floats(dim)
	order, _ := ws.Ints(nc)
	for i := range order {
		order[i] = i
	}
	lp := &local.Problem{W: mat.NewDense(dim, dim, wbuf), Q: qloc}
	diag, err := diagonalBlocks(p)
	if err != nil {
		return solver.NumericalFailure, fcErrorf(tag, err)
	}

	var rng *rand.Rand
	swap := func(i, j int) { order[i], order[j] = order[j], order[i] }
	shuffle := opts.IParam[solver.IParamShuffle]
	if shuffle != solver.ShuffleNone {
		seed := uint64(opts.IParam[solver.IParamSeed])
		rng = rand.New(rand.NewPCG(seed, seed^shuffleStream))
		if shuffle == solver.ShuffleOnce {
			rng.Shuffle(nc, swap)
		}
	}
	omega := 1.0
	if opts.IParam[solver.IParamRelax] == 1 {
		omega = opts.DParam[solver.DParamRelax]
	}
	mode := opts.IParam[solver.IParamErrorMode]
	tol, maxIter := opts.Tolerance(), opts.MaxIter()

	info := solver.NoConvergence
	failures := 0
	e := math.Inf(1)
	iter := 0
sweeps:
	for iter < maxIter {
		iter++
		if shuffle == solver.ShuffleEachSweep {
			rng.Shuffle(nc, swap)
		}
		copy(prev, reaction)

		// SWEEP
		for _, c := range order {
			lo, hi := p.Contact(c)
			lp.W.Copy(diag[c])
			copy(qloc, p.Q[lo:hi])
			if err = p.M.RowProdNoDiag(c, dim, reaction, qloc); err != nil {
				return solver.NumericalFailure, fcErrorf(tag, err)
			}
			lp.Mu, lp.Contact = p.Mu[c], c

			r := reaction[lo:hi]
			res := ls.Solve(lp, r)
			switch res.Status {
			case solver.NumericalFailure:
				opts.Log().Debug("local solver failed", "solver", opts.ID.String(), "iter", iter, "contact", c)
				info = solver.NumericalFailure

				break sweeps
			case solver.NoConvergence:
				failures++
			}
			if omega != 1 {
				for k := range r {
					r[k] = omega*r[k] + (1-omega)*prev[lo+k]
				}
			}
		}

		// CHECK
		if mode == solver.ErrorFull {
			if e, err = criteria.FrictionContactError(p, reaction, velocity); err != nil {
				return solver.NumericalFailure, fcErrorf(tag, err)
			}
		} else {
			e = lightError(reaction, prev)
		}
		opts.Trace(iter, e, reaction, velocity)
		if e > tol {
			continue
		}
		if mode == solver.ErrorLightWithFinal {
			full, err := criteria.FrictionContactError(p, reaction, velocity)
			if err != nil {
				return solver.NumericalFailure, fcErrorf(tag, err)
			}
			if e = full; e > tol {
				continue
			}
		}
		info = solver.Success

		break
	}

	// velocity always leaves consistent with the final reaction
	full, err := criteria.FrictionContactError(p, reaction, velocity)
	if err != nil {
		return solver.NumericalFailure, fcErrorf(tag, err)
	}
	if mode != solver.ErrorLight && info != solver.NumericalFailure {
		e = full
		if info == solver.NoConvergence && e <= tol {
			info = solver.Success
		}
	}
	opts.IParam[solver.IParamLocalFailures] = failures
	opts.SetResult(iter, e)

	return info, nil
}

// diagonalBlocks fetches every contact's diagonal block once so a missing
// block fails before any reaction is touched.
func diagonalBlocks(p *problem.FrictionContact) ([]*mat.Dense, error) {
	dim, nc := p.Dimension, p.NumberOfContacts
	out := make([]*mat.Dense, nc)
	for c := range out {
		blk, err := p.M.Block(c, c, dim)
		if err != nil {
			return nil, err
		}
		out[c] = blk
	}

	return out, nil
}

// lightError is ‖r - prev‖/‖r‖ (the absolute increment when r = 0).
func lightError(r, prev []float64) float64 {
	d := floats.Distance(r, prev, 2)
	if nr := floats.Norm(r, 2); nr > 0 {
		return d / nr
	}

	return d
}
