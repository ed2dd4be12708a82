// SPDX-License-Identifier: MIT

package newton

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/matrix"
	"github.com/katalvlaran/nonsmooth/solver"
)

// ErrDimension indicates an iterate whose length differs from System.Size.
var ErrDimension = errors.New("newton: iterate length mismatch")

// System is a nonsmooth equation Φ(z) = 0 built on a base mapping F.
type System interface {
	// Size returns the number of unknowns.
	Size() int
	// Eval writes F(z).
	Eval(z, f []float64)
	// Merit writes Φ(z) given f = F(z).
	Merit(z, f, phi []float64)
	// Jacobian writes an element of ∂Φ(z) given f = F(z).
	Jacobian(z, f []float64, h *mat.Dense)
	// Error returns the stopping criterion at z given f = F(z).
	Error(z, f []float64) float64
}

// Params are the line-search constants.
type Params struct {
	P        float64 // exponent of the sufficient-descent test
	Sigma    float64 // full Newton step accepted when θ drops below σθ
	Gamma    float64 // Armijo sufficient-decrease factor
	Rho      float64 // sufficient-descent threshold factor
	AlphaMin float64
	Alpha0   float64
}

// DefaultParams returns p = 2.1, σ = 0.9, γ = 1e-4, ρ = 1e-8, α_min = 1e-12, α0 = 2.
func DefaultParams() Params {
	return Params{P: 2.1, Sigma: 0.9, Gamma: 1e-4, Rho: 1e-8, AlphaMin: 1e-12, Alpha0: 2}
}

// WorkspaceSize returns the scratch needed for n unknowns and a nonmonotone
// memory of length memory: F, Φ, d, trial point and ∇θ, the n×n Jacobian
// and the merit history.
func WorkspaceSize(n, memory int) solver.WorkspaceSize {
	if memory < 0 {
		memory = 0
	}

	return solver.WorkspaceSize{Floats: 5*n + n*n + memory}
}

// Solve runs Newton-LSA with DefaultParams.
func Solve(sys System, z []float64, opts *solver.Options) (solver.Info, error) {
	return DefaultParams().Solve(sys, z, opts)
}

// state groups the views carved out of the workspace.
type state struct {
	sys                  System
	f, phi, d, trial, gr []float64
	h                    *mat.Dense
	hist                 []float64
	histLen, histPos     int
}

// theta evaluates ½‖Φ(x)‖², clobbering f and phi.
func (s *state) theta(x []float64) float64 {
	s.sys.Eval(x, s.f)
	s.sys.Merit(x, s.f, s.phi)
	nrm := floats.Norm(s.phi, 2)

	return 0.5 * nrm * nrm
}

func (s *state) push(theta float64) {
	if len(s.hist) == 0 {
		return
	}
	s.hist[s.histPos] = theta
	s.histPos = (s.histPos + 1) % len(s.hist)
	if s.histLen < len(s.hist) {
		s.histLen++
	}
}

// reference returns the nonmonotone reference value.
func (s *state) reference(theta float64) float64 {
	ref := theta
	for _, v := range s.hist[:s.histLen] {
		ref = math.Max(ref, v)
	}

	return ref
}

// Solve runs Newton-LSA on sys from the initial iterate z (updated in place).
// The iteration count and final error are stored in opts' output slots.
//
// Errors: ErrDimension, solver.ErrWorkspace.
func (p Params) Solve(sys System, z []float64, opts *solver.Options) (solver.Info, error) {
	n := sys.Size()
	if len(z) != n {
		return solver.NumericalFailure, fmt.Errorf("newton.Solve: %w", ErrDimension)
	}
	if n == 0 {
		opts.SetResult(0, 0)

		return solver.Success, nil
	}
	memory := opts.IParam[solver.IParamNonMonotone]
	ws, err := opts.Acquire(WorkspaceSize(n, memory))
	if err != nil {
		return solver.NumericalFailure, fmt.Errorf("newton.Solve: %w", err)
	}
	s := &state{sys: sys}
	for _, v := range []*[]float64{&s.f, &s.phi, &s.d, &s.trial, &s.gr} {
		if *v, err = ws.Floats(n); err != nil {
			return solver.NumericalFailure, err
		}
	}
	hbuf, err := ws.Floats(n * n)
	if err != nil {
		return solver.NumericalFailure, err
	}
	if s.hist, err = ws.Floats(max(memory, 0)); err != nil {
		return solver.NumericalFailure, err
	}
	s.h = mat.NewDense(n, n, hbuf)
	gradV, phiV := mat.NewVecDense(n, s.gr), mat.NewVecDense(n, s.phi)

	tol, maxIter := opts.Tolerance(), opts.MaxIter()
	theta := s.theta(z)
	s.push(theta)
	e := sys.Error(z, s.f)

	info := solver.Success
	iter := 0
	for e > tol && iter < maxIter {
		iter++
		sys.Jacobian(z, s.f, s.h)
		gradV.MulVec(s.h.T(), phiV)

		steepest := !p.newtonDirection(s)
		tau := 1.0
		accepted := false
		if !steepest {
			floats.AddTo(s.trial, z, s.d)
			accepted = s.theta(s.trial) <= p.Sigma*theta
		}
		if !accepted {
			slope := floats.Dot(s.gr, s.d)
			if steepest || slope > -p.Rho*math.Pow(floats.Norm(s.d, 2), p.P) {
				floats.ScaleTo(s.d, -1, s.gr)
				slope = floats.Dot(s.gr, s.d)
				steepest = true
			}
			var ok bool
			if slope < 0 {
				tau, ok = p.armijo(s, z, s.reference(theta), p.Gamma*slope)
			}
			if !ok && !steepest {
				// the Newton direction could not move; fall back to -∇θ
				floats.ScaleTo(s.d, -1, s.gr)
				if slope = floats.Dot(s.gr, s.d); slope < 0 {
					tau, ok = p.armijo(s, z, s.reference(theta), p.Gamma*slope)
				}
			}
			if !ok {
				opts.Log().Debug("line search failed", "solver", opts.ID.String(), "iter", iter, "merit", theta)
				info = solver.NumericalFailure

				break
			}
		}
		floats.AddScaled(z, tau, s.d)

		theta = s.theta(z)
		s.push(theta)
		e = sys.Error(z, s.f)
		opts.Trace(iter, e, z, s.f)
	}
	if info == solver.Success && e > tol {
		info = solver.NoConvergence
	}
	opts.SetResult(iter, e)

	return info, nil
}

// newtonDirection solves H d = -Φ. It reports false when H is rejected.
func (p Params) newtonDirection(s *state) bool {
	lu, err := matrix.Factorize(s.h)
	if err != nil {
		return false
	}
	floats.ScaleTo(s.d, -1, s.phi)
	if err = lu.Solve(s.d, s.d); err != nil {
		return false
	}
	for _, v := range s.d {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// armijo returns the first α = α0·2^-k ≥ α_min with
// θ(z + α d) ≤ ref + α·slope.
func (p Params) armijo(s *state, z []float64, ref, slope float64) (float64, bool) {
	for alpha := p.Alpha0; alpha >= p.AlphaMin; alpha *= 0.5 {
		floats.AddScaledTo(s.trial, z, alpha, s.d)
		if s.theta(s.trial) <= ref+alpha*slope {
			return alpha, true
		}
	}

	return 0, false
}
