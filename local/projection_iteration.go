// SPDX-License-Identifier: MIT

package local

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/nonsmooth/cone"
	"github.com/katalvlaran/nonsmooth/criteria"
	"github.com/katalvlaran/nonsmooth/solver"
)

// Step-size control of ProjectionLocalIteration.
const (
	stepShrink     = 0.6 // ρ ← τ ρ while the Lipschitz test fails
	stepLipschitz  = 0.9 // accept when ρ‖Δu‖ ≤ L‖Δr‖
	stepLipschitzL = 0.3 // grow ρ when ρ‖Δu‖ < Lmin‖Δr‖
	stepGrow       = 0.7 // ρ ← ρ/τmin
	stepSearchMax  = 10
)

// ProjectionLocalIteration repeats r ← Π_K(r - ρ(u + mu‖u_t‖ e_n)) with a
// self-adaptive ρ. The last accepted ρ of each contact is remembered and
// reused on the next visit of that contact.
type ProjectionLocalIteration struct {
	Tol     float64
	MaxIter int

	rho []float64
}

// NewProjectionLocalIteration returns a solver with ρ = 1 for every contact.
func NewProjectionLocalIteration(tol float64, maxIter int) *ProjectionLocalIteration {
	return &ProjectionLocalIteration{Tol: tol, MaxIter: maxIter}
}

// Reset re-initializes the per-contact step sizes.
func (s *ProjectionLocalIteration) Reset(numberOfContacts int) {
	s.rho = make([]float64, numberOfContacts)
	for i := range s.rho {
		s.rho[i] = 1
	}
}

func (s *ProjectionLocalIteration) stepFor(contact int) float64 {
	for len(s.rho) <= contact {
		s.rho = append(s.rho, 1)
	}

	return s.rho[contact]
}

// Solve implements Solver.
func (s *ProjectionLocalIteration) Solve(p *Problem, r []float64) Result {
	dim := len(r)
	var rkBuf, ukBuf, uBuf [3]float64
	rk, uk, u := rkBuf[:dim], ukBuf[:dim], uBuf[:dim]

	rho := s.stepFor(p.Contact)
	res := Result{Status: solver.NoConvergence}
	for it := 1; it <= s.MaxIter; it++ {
		copy(rk, r)
		velocity(p.W, p.Q, rk, uk)
		normUT := floats.Norm(uk[1:], 2)

		var a1, a2 float64
		for ls := 0; ls < stepSearchMax; ls++ {
			copy(r, rk)
			r[0] -= rho * (uk[0] + p.Mu*normUT)
			for i := 1; i < dim; i++ {
				r[i] -= rho * uk[i]
			}
			cone.OnCone(r, p.Mu)
			velocity(p.W, p.Q, r, u)
			a1 = floats.Distance(uk, u, 2)
			a2 = floats.Distance(rk, r, 2)
			if rho*a1 <= stepLipschitz*a2 {
				break
			}
			rho *= stepShrink
		}
		if rho*a1 < stepLipschitzL*a2 {
			rho /= stepGrow
		}

		res.Iterations = it
		res.Error = math.Sqrt(criteria.FrictionContactUnitary(r, u, p.Mu))
		if res.Error < s.Tol {
			res.Status = solver.Success

			break
		}
	}
	s.rho[p.Contact] = rho

	return res
}
