// SPDX-License-Identifier: MIT

package problem

import (
	"github.com/katalvlaran/nonsmooth/matrix"
)

// LCP is the linear complementarity problem w = M z + q, 0 ≤ z ⟂ w ≥ 0.
type LCP struct {
	M matrix.Matrix
	Q []float64
}

// NewLCP builds and validates an LCP. q is copied.
func NewLCP(m matrix.Matrix, q []float64) (*LCP, error) {
	p := &LCP{M: m, Q: append([]float64(nil), q...)}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Size returns the number of unknowns.
func (p *LCP) Size() int { return len(p.Q) }

// Validate checks the descriptor shape.
//
// Errors: ErrNilProblem, ErrDimension, ErrNonFinite.
func (p *LCP) Validate() error {
	if p == nil || matrix.ValidateNotNil(p.M) != nil {
		return problemErrorf("LCP", ErrNilProblem)
	}
	if p.M.Size() != len(p.Q) {
		return problemErrorf("LCP", ErrDimension)
	}
	if matrix.ValidateFinite(p.Q) != nil {
		return problemErrorf("LCP", ErrNonFinite)
	}

	return nil
}
