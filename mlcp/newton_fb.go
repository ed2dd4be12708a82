// SPDX-License-Identifier: MIT

package mlcp

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/criteria"
	"github.com/katalvlaran/nonsmooth/newton"
	"github.com/katalvlaran/nonsmooth/problem"
	"github.com/katalvlaran/nonsmooth/solver"
)

// fbSystem is Φ(z) = [A u + C v + a; φ_FB(v, D u + B v + b)].
type fbSystem struct {
	p *problem.MLCP
	w []float64
}

func (s *fbSystem) Size() int { return s.p.Size() }

func (s *fbSystem) Eval(z, f []float64) {
	mat.NewVecDense(len(f), f).MulVec(s.p.Matrix.Raw(), mat.NewVecDense(len(z), z))
	floats.Add(f, s.p.Q)
}

func (s *fbSystem) Merit(z, f, phi []float64) {
	criteria.FischerBurmeister(s.p.N, z, f, phi)
}

func (s *fbSystem) Jacobian(z, f []float64, h *mat.Dense) {
	criteria.FischerBurmeisterJacobian(s.p.N, z, f, s.p.Matrix.Raw(), h)
}

func (s *fbSystem) Error(z, _ []float64) float64 {
	e, _ := criteria.MLCPError(s.p, z, s.w)

	return e
}

// NewtonFBWorkspaceSize returns the Newton-LSA scratch for n+m unknowns.
func NewtonFBWorkspaceSize(n, m, memory int) solver.WorkspaceSize {
	return newton.WorkspaceSize(n+m, memory)
}

// NewtonFB solves the Fischer-Burmeister reformulation with Newton-LSA from
// the initial z and writes the slack w of the final iterate.
//
// Errors: ErrDimension, solver.ErrWorkspace, problem errors.
func NewtonFB(p *problem.MLCP, z, w []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "NewtonFB"
	if err := checkBuffers(tag, p, z, w); err != nil {
		return solver.NumericalFailure, err
	}
	info, err := newton.Solve(&fbSystem{p: p, w: w}, z, opts)
	if err != nil {
		return solver.NumericalFailure, mlcpErrorf(tag, err)
	}
	if _, err = criteria.MLCPError(p, z, w); err != nil {
		return solver.NumericalFailure, mlcpErrorf(tag, err)
	}

	return info, nil
}
