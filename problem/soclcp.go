// SPDX-License-Identifier: MIT

package problem

import (
	"math"

	"github.com/katalvlaran/nonsmooth/matrix"
)

// SOCLCP is the second-order cone linear complementarity problem.
//
// Cone i occupies [ConeIndex[i], ConeIndex[i+1]) of the unknowns; its first
// component is the axis, the rest are bounded by Mu[i] times the axis.
type SOCLCP struct {
	M         matrix.Matrix
	Q         []float64
	ConeIndex []int
	Mu        []float64
}

// NewSOCLCP builds and validates a problem; q, coneIndex and mu are copied.
func NewSOCLCP(m matrix.Matrix, q []float64, coneIndex []int, mu []float64) (*SOCLCP, error) {
	p := &SOCLCP{
		M:         m,
		Q:         append([]float64(nil), q...),
		ConeIndex: append([]int(nil), coneIndex...),
		Mu:        append([]float64(nil), mu...),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Size returns the number of unknowns.
func (p *SOCLCP) Size() int { return len(p.Q) }

// NumberOfCones returns the number of cones.
func (p *SOCLCP) NumberOfCones() int { return len(p.Mu) }

// Cone returns the half-open range of cone i.
func (p *SOCLCP) Cone(i int) (lo, hi int) { return p.ConeIndex[i], p.ConeIndex[i+1] }

// Validate checks that the cones tile [0, n) with dimension ≥ 2 each.
func (p *SOCLCP) Validate() error {
	const tag = "SOCLCP"
	if p == nil || matrix.ValidateNotNil(p.M) != nil {
		return problemErrorf(tag, ErrNilProblem)
	}
	nc := len(p.Mu)
	if nc == 0 || len(p.ConeIndex) != nc+1 || p.M.Size() != len(p.Q) ||
		p.ConeIndex[0] != 0 || p.ConeIndex[nc] != len(p.Q) {
		return problemErrorf(tag, ErrDimension)
	}
	for i := 0; i < nc; i++ {
		if p.ConeIndex[i+1]-p.ConeIndex[i] < 2 {
			return problemErrorf(tag, ErrDimension)
		}
		if math.IsNaN(p.Mu[i]) || math.IsInf(p.Mu[i], 0) || p.Mu[i] < 0 {
			return problemErrorf(tag, ErrFriction)
		}
	}
	if matrix.ValidateFinite(p.Q) != nil {
		return problemErrorf(tag, ErrNonFinite)
	}

	return nil
}
