// SPDX-License-Identifier: MIT

package mlcp

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/criteria"
	"github.com/katalvlaran/nonsmooth/matrix"
	"github.com/katalvlaran/nonsmooth/problem"
	"github.com/katalvlaran/nonsmooth/solver"
)

// MaxEnumerate is the largest number of complementarity pairs Enumerate
// accepts.
const MaxEnumerate = 30

// EnumerateWorkspaceSize returns iWork = 2(n+m), dWork = 3(n+m) + (n+m)².
func EnumerateWorkspaceSize(n, m int) solver.WorkspaceSize {
	s := n + m

	return solver.WorkspaceSize{Ints: 2 * s, Floats: 3*s + s*s}
}

func checkBuffers(tag string, p *problem.MLCP, z, w []float64) error {
	if err := p.Validate(); err != nil {
		return mlcpErrorf(tag, err)
	}
	if len(z) != p.Size() || len(w) != p.M {
		return mlcpErrorf(tag, ErrDimension)
	}

	return nil
}

// Enumerate scans the 2^M sign configurations in index order and stops at
// the first one whose solution has complementary unknowns ≥ -tolNeg
// (DParamTolNeg) and an MLCP error ≤ 10·tol. Configurations whose system is
// singular are skipped. The accepted configuration is returned with
// Success; NoConvergence means none qualified.
//
// Errors: ErrDimension, ErrTooLarge, solver.ErrWorkspace, problem errors.
func Enumerate(p *problem.MLCP, z, w []float64, opts *solver.Options) (solver.Info, Config, error) {
	const tag = "Enumerate"
	if err := checkBuffers(tag, p, z, w); err != nil {
		return solver.NumericalFailure, nil, err
	}
	if p.M > MaxEnumerate {
		return solver.NumericalFailure, nil, mlcpErrorf(tag, ErrTooLarge)
	}
	size := p.Size()
	ws, err := opts.Acquire(EnumerateWorkspaceSize(p.N, p.M))
	if err != nil {
		return solver.NumericalFailure, nil, mlcpErrorf(tag, err)
	}
	x, _ := ws.Floats(size)
	zt, _ := ws.Floats(size)
	wt, _ := ws.Floats(size)
	wt = wt[:p.M]
	buf, _ := ws.Floats(size * size)
	sys := mat.NewDense(size, size, buf)

	tol, tolNeg := opts.Tolerance(), opts.DParam[solver.DParamTolNeg]
	solve := func(dst, b []float64) error { return matrix.SolveDense(sys, dst, b) }
	total := uint64(1) << uint(p.M)
	for k := uint64(0); k < total; k++ {
		cfg := ConfigFromIndex(k, p.M)
		assemble(p, cfg, sys)
		// singular systems fail inside the solve and are skipped
		ok, err := solveConfig(p, cfg, solve, x, zt, wt, tolNeg)
		if err != nil || !ok {
			continue
		}
		e, err := criteria.MLCPError(p, zt, wt)
		if err != nil || e > 10*tol {
			continue
		}
		copy(z, zt)
		copy(w, wt)
		opts.SetResult(int(k)+1, e)
		opts.Trace(int(k)+1, e, z, w)
		opts.Log().Debug("configuration found", "solver", opts.ID.String(), "config", cfg.String())

		return solver.Success, cfg, nil
	}

	e, err := criteria.MLCPError(p, z, w)
	if err != nil {
		return solver.NumericalFailure, nil, mlcpErrorf(tag, err)
	}
	opts.SetResult(int(total), e)

	return solver.NoConvergence, nil, nil
}
