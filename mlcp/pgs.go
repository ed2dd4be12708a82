// SPDX-License-Identifier: MIT

package mlcp

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/nonsmooth/criteria"
	"github.com/katalvlaran/nonsmooth/problem"
	"github.com/katalvlaran/nonsmooth/solver"
)

// DiagonalTol is the smallest accepted |diagonal| in PGS.
const DiagonalTol = 1e-16

// PGSWorkspaceSize returns dWork = n+m (inverse diagonal).
func PGSWorkspaceSize(n, m int) solver.WorkspaceSize {
	return solver.WorkspaceSize{Floats: n + m}
}

// PGS runs projected Gauss-Seidel from the initial z: equality rows take
// the exact row update, complementarity rows are projected on v ≥ 0.
// Relaxation applies when IParamRelax is 1.
//
// NumericalFailure is returned (with a nil error) when a diagonal entry is
// below DiagonalTol in magnitude.
func PGS(p *problem.MLCP, z, w []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "PGS"
	if err := checkBuffers(tag, p, z, w); err != nil {
		return solver.NumericalFailure, err
	}
	size := p.Size()
	ws, err := opts.Acquire(PGSWorkspaceSize(p.N, p.M))
	if err != nil {
		return solver.NumericalFailure, mlcpErrorf(tag, err)
	}
	inv, _ := ws.Floats(size)
	raw := p.Matrix.Raw()
	for i := range inv {
		d := raw.At(i, i)
		if math.Abs(d) < DiagonalTol {
			opts.SetResult(0, math.Inf(1))
			opts.Log().Debug("vanishing diagonal", "solver", opts.ID.String(), "row", i)

			return solver.NumericalFailure, nil
		}
		inv[i] = 1 / d
	}
	omega := 1.0
	if opts.IParam[solver.IParamRelax] == 1 {
		omega = opts.DParam[solver.DParamRelax]
	}

	tol, maxIter := opts.Tolerance(), opts.MaxIter()
	e := math.Inf(1)
	for iter := 1; iter <= maxIter; iter++ {
		for i := 0; i < size; i++ {
			s := floats.Dot(raw.RawRowView(i), z) - raw.At(i, i)*z[i] + p.Q[i]
			zi := -s * inv[i]
			if i >= p.N {
				zi = math.Max(0, zi)
			}
			z[i] = omega*zi + (1-omega)*z[i]
		}
		if e, err = criteria.MLCPError(p, z, w); err != nil {
			return solver.NumericalFailure, mlcpErrorf(tag, err)
		}
		opts.SetResult(iter, e)
		opts.Trace(iter, e, z, w)
		if e <= tol {
			return solver.Success, nil
		}
	}
	if maxIter == 0 {
		if e, err = criteria.MLCPError(p, z, w); err != nil {
			return solver.NumericalFailure, mlcpErrorf(tag, err)
		}
		opts.SetResult(0, e)
	}

	return solver.NoConvergence, nil
}
