// SPDX-License-Identifier: MIT

package local

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/nonsmooth/cone"
	"github.com/katalvlaran/nonsmooth/criteria"
	"github.com/katalvlaran/nonsmooth/solver"
)

// Projection performs one projected step
//
//	r ← Π_K(r - (u + mu‖u_t‖ e_n)/W_nn),  u = q + W r.
//
// Starting from r = 0 with a scaled-identity W and mu = 0 this is exactly
// r = Π_K(-W⁻¹ q); in general the outer sweep iterates it to the fixed point.
type Projection struct {
	PivotTol float64
}

// Solve implements Solver.
func (s *Projection) Solve(p *Problem, r []float64) Result {
	wnn := p.W.At(0, 0)
	if wnn <= s.PivotTol {
		return Result{Status: solver.NumericalFailure}
	}
	step(p, r, 1/wnn)
	cone.OnCone(r, p.Mu)

	return Result{Status: solver.Success, Iterations: 1, Error: unitaryError(p, r)}
}

// step writes r ← r - an·(u + mu‖u_t‖ e_n) with u = q + W r.
func step(p *Problem, r []float64, an float64) {
	var buf [3]float64
	u := buf[:len(r)]
	velocity(p.W, p.Q, r, u)
	normUT := floats.Norm(u[1:], 2)
	r[0] -= an * (u[0] + p.Mu*normUT)
	for i := 1; i < len(r); i++ {
		r[i] -= an * u[i]
	}
}

// unitaryError evaluates the local natural-map residual at r.
func unitaryError(p *Problem, r []float64) float64 {
	var buf [3]float64
	u := buf[:len(r)]
	velocity(p.W, p.Q, r, u)

	return math.Sqrt(criteria.FrictionContactUnitary(r, u, p.Mu))
}

// ProjectionDiagonalization keeps only the diagonal of W:
//
//	q_n > 0:    r = 0 (separation);
//	otherwise:  r_i = -q_i/W_ii, then r_t is scaled radially to ‖r_t‖ ≤ mu r_n.
type ProjectionDiagonalization struct {
	PivotTol float64
}

// Solve implements Solver.
func (s *ProjectionDiagonalization) Solve(p *Problem, r []float64) Result {
	if p.Q[0] > 0 {
		for i := range r {
			r[i] = 0
		}

		return Result{Status: solver.Success, Iterations: 1, Error: unitaryError(p, r)}
	}
	for i := range r {
		wii := p.W.At(i, i)
		if wii <= s.PivotTol {
			return Result{Status: solver.NumericalFailure}
		}
		r[i] = -p.Q[i] / wii
	}
	if normT := floats.Norm(r[1:], 2); normT > p.Mu*r[0] {
		floats.Scale(p.Mu*r[0]/normT, r[1:])
	}

	return Result{Status: solver.Success, Iterations: 1, Error: unitaryError(p, r)}
}

// ProjectionRegularization is the Projection step applied to the proximal
// problem W + ρI, q - ρ r_prev, i.e. with step 1/(W_nn + ρ).
type ProjectionRegularization struct {
	Rho      float64
	PivotTol float64
}

// Solve implements Solver.
func (s *ProjectionRegularization) Solve(p *Problem, r []float64) Result {
	wnn := p.W.At(0, 0) + s.Rho
	if wnn <= s.PivotTol {
		return Result{Status: solver.NumericalFailure}
	}
	step(p, r, 1/wnn)
	cone.OnCone(r, p.Mu)

	return Result{Status: solver.Success, Iterations: 1, Error: unitaryError(p, r)}
}

// ProjectionCylinder solves the Tresca variant: Problem.Mu is the radius of
// the admissible disk and the normal part is a plain LCP step.
type ProjectionCylinder struct {
	PivotTol float64
}

// Solve implements Solver.
func (s *ProjectionCylinder) Solve(p *Problem, r []float64) Result {
	wnn := p.W.At(0, 0)
	if wnn <= s.PivotTol {
		return Result{Status: solver.NumericalFailure}
	}
	var buf [3]float64
	u := buf[:len(r)]
	velocity(p.W, p.Q, r, u)
	an := 1 / wnn
	for i := range r {
		r[i] -= an * u[i]
	}
	cone.OnCylinder(r, p.Mu)

	// residual of the cylinder natural map
	velocity(p.W, p.Q, r, u)
	var wbuf [3]float64
	w := wbuf[:len(r)]
	floats.SubTo(w, r, u)
	cone.OnCylinder(w, p.Mu)
	floats.Sub(w, r)

	return Result{Status: solver.Success, Iterations: 1, Error: floats.Norm(w, 2)}
}
