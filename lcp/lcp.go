// SPDX-License-Identifier: MIT

package lcp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/criteria"
	"github.com/katalvlaran/nonsmooth/mlcp"
	"github.com/katalvlaran/nonsmooth/newton"
	"github.com/katalvlaran/nonsmooth/problem"
	"github.com/katalvlaran/nonsmooth/solver"
)

// ErrDimension indicates z or w of the wrong length.
var ErrDimension = errors.New("lcp: buffer length mismatch")

// DiagonalTol is the smallest accepted |M_ii| in PGS.
const DiagonalTol = 1e-16

func lcpErrorf(tag string, err error) error {
	return fmt.Errorf("lcp.%s: %w", tag, err)
}

// prepare validates the call and handles the trivial problem. done reports
// that z and w already hold the answer.
func prepare(tag string, p *problem.LCP, z, w []float64, opts *solver.Options) (done bool, err error) {
	if err = p.Validate(); err != nil {
		return false, lcpErrorf(tag, err)
	}
	if len(z) != p.Size() || len(w) != p.Size() {
		return false, lcpErrorf(tag, ErrDimension)
	}
	if criteria.IsTrivial(p.Q) {
		for i := range z {
			z[i] = 0
		}
		copy(w, p.Q)
		opts.SetResult(0, 0)

		return true, nil
	}

	return false, nil
}

// PGSWorkspaceSize returns dWork = n.
func PGSWorkspaceSize(n int) solver.WorkspaceSize {
	return solver.WorkspaceSize{Floats: n}
}

// PGS runs projected Gauss-Seidel
//
//	z_i ← max(0, -(q_i + Σ_{j≠i} M_ij z_j)/M_ii)
//
// with optional relaxation (IParamRelax = 1, ω = DParamRelax). A diagonal
// entry below DiagonalTol in magnitude yields NumericalFailure.
func PGS(p *problem.LCP, z, w []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "PGS"
	done, err := prepare(tag, p, z, w, opts)
	if err != nil {
		return solver.NumericalFailure, err
	}
	if done {
		return solver.Success, nil
	}
	n := p.Size()
	ws, err := opts.Acquire(PGSWorkspaceSize(n))
	if err != nil {
		return solver.NumericalFailure, lcpErrorf(tag, err)
	}
	inv, _ := ws.Floats(n)
	m := p.M.ToDense().Raw()
	for i := range inv {
		d := m.At(i, i)
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
	e, err := criteria.LCPError(p.M, p.Q, z, w)
	if err != nil {
		return solver.NumericalFailure, lcpErrorf(tag, err)
	}
	iter := 0
	for iter < maxIter && e > tol {
		iter++
		for i := 0; i < n; i++ {
			s := floats.Dot(m.RawRowView(i), z) - m.At(i, i)*z[i] + p.Q[i]
			zi := math.Max(0, -s*inv[i])
			z[i] = omega*zi + (1-omega)*z[i]
		}
		if e, err = criteria.LCPError(p.M, p.Q, z, w); err != nil {
			return solver.NumericalFailure, lcpErrorf(tag, err)
		}
		opts.Trace(iter, e, z, w)
	}
	opts.SetResult(iter, e)
	if e > tol {
		return solver.NoConvergence, nil
	}

	return solver.Success, nil
}

// fbSystem is Φ(z) = φ_FB(z, M z + q).
type fbSystem struct {
	p *problem.LCP
	m *mat.Dense
	w []float64
}

func (s *fbSystem) Size() int { return s.p.Size() }

func (s *fbSystem) Eval(z, f []float64) {
	mat.NewVecDense(len(f), f).MulVec(s.m, mat.NewVecDense(len(z), z))
	floats.Add(f, s.p.Q)
}

func (s *fbSystem) Merit(z, f, phi []float64) { criteria.FischerBurmeister(0, z, f, phi) }

func (s *fbSystem) Jacobian(z, f []float64, h *mat.Dense) {
	criteria.FischerBurmeisterJacobian(0, z, f, s.m, h)
}

func (s *fbSystem) Error(z, _ []float64) float64 {
	e, _ := criteria.LCPError(s.p.M, s.p.Q, z, s.w)

	return e
}

// NewtonFBWorkspaceSize returns the Newton-LSA scratch for n unknowns.
func NewtonFBWorkspaceSize(n, memory int) solver.WorkspaceSize {
	return newton.WorkspaceSize(n, memory)
}

// NewtonFB solves φ_FB(z, M z + q) = 0 with Newton-LSA.
func NewtonFB(p *problem.LCP, z, w []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "NewtonFB"
	done, err := prepare(tag, p, z, w, opts)
	if err != nil {
		return solver.NumericalFailure, err
	}
	if done {
		return solver.Success, nil
	}
	info, err := newton.Solve(&fbSystem{p: p, m: p.M.ToDense().Raw(), w: w}, z, opts)
	if err != nil {
		return solver.NumericalFailure, lcpErrorf(tag, err)
	}
	if _, err = criteria.LCPError(p.M, p.Q, z, w); err != nil {
		return solver.NumericalFailure, lcpErrorf(tag, err)
	}

	return info, nil
}

// EnumWorkspaceSize returns the enumeration scratch for n unknowns.
func EnumWorkspaceSize(n int) solver.WorkspaceSize {
	return mlcp.EnumerateWorkspaceSize(0, n)
}

// Enum enumerates the 2^n sign configurations of the LCP viewed as an MLCP
// without equality rows.
//
// Errors: mlcp.ErrTooLarge, problem errors.
func Enum(p *problem.LCP, z, w []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "Enum"
	done, err := prepare(tag, p, z, w, opts)
	if err != nil {
		return solver.NumericalFailure, err
	}
	if done {
		return solver.Success, nil
	}
	mp, err := AsMLCP(p)
	if err != nil {
		return solver.NumericalFailure, lcpErrorf(tag, err)
	}
	info, _, err := mlcp.Enumerate(mp, z, w, opts)
	if err != nil {
		return solver.NumericalFailure, lcpErrorf(tag, err)
	}
	if info == solver.Success {
		// report the LCP error of the accepted configuration
		e, err := criteria.LCPError(p.M, p.Q, z, w)
		if err != nil {
			return solver.NumericalFailure, lcpErrorf(tag, err)
		}
		opts.SetResult(opts.Iterations(), e)
	}

	return info, nil
}

// AsMLCP views p as an MLCP with no equality rows. Sparse-block matrices
// are densified; a dense matrix is shared.
func AsMLCP(p *problem.LCP) (*problem.MLCP, error) {
	return problem.NewMLCPFromMatrix(0, p.Size(), p.M.ToDense(), p.Q)
}
