// SPDX-License-Identifier: MIT

package problem

import (
	"fmt"
	"math"

	"github.com/katalvlaran/nonsmooth/matrix"
)

// FrictionContact is the 2D or 3D Coulomb friction-contact problem.
//
// Unknowns are stored contact by contact: (r_n, r_t[, r_s]) for contact i
// occupies [i·Dimension, (i+1)·Dimension). Mu[i] is the friction coefficient
// of contact i (the Tresca threshold for cylinder-based local solvers).
type FrictionContact struct {
	Dimension        int
	NumberOfContacts int
	M                matrix.Matrix
	Q                []float64
	Mu               []float64
}

// NewFrictionContact builds and validates a problem; q and mu are copied.
func NewFrictionContact(dim int, m matrix.Matrix, q, mu []float64) (*FrictionContact, error) {
	p := &FrictionContact{
		Dimension:        dim,
		NumberOfContacts: len(mu),
		M:                m,
		Q:                append([]float64(nil), q...),
		Mu:               append([]float64(nil), mu...),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Size returns Dimension·NumberOfContacts.
func (p *FrictionContact) Size() int { return p.Dimension * p.NumberOfContacts }

// Contact returns the half-open range of contact i in the global vectors.
func (p *FrictionContact) Contact(i int) (lo, hi int) {
	return i * p.Dimension, (i + 1) * p.Dimension
}

// Validate checks the descriptor shape and friction coefficients.
//
// A sparse-block matrix must have one dim×dim block row and column per
// contact, so per-contact sweeps never meet a mismatched block.
//
// Errors: ErrNilProblem, ErrContactDimension, ErrDimension (wrapping
// matrix.ErrBlockStructure for a bad block layout), ErrFriction,
// ErrNonFinite.
func (p *FrictionContact) Validate() error {
	const tag = "FrictionContact"
	if p == nil || matrix.ValidateNotNil(p.M) != nil {
		return problemErrorf(tag, ErrNilProblem)
	}
	if p.Dimension != 2 && p.Dimension != 3 {
		return problemErrorf(tag, ErrContactDimension)
	}
	if p.NumberOfContacts <= 0 || len(p.Mu) != p.NumberOfContacts ||
		len(p.Q) != p.Size() || p.M.Size() != p.Size() {
		return problemErrorf(tag, ErrDimension)
	}
	if err := matrix.ValidateBlockDim(p.M, p.Dimension); err != nil {
		return problemErrorf(tag, fmt.Errorf("%w: %w", ErrDimension, err))
	}
	if sb, ok := p.M.(*matrix.SparseBlock); ok {
		if err := contactBlocks(sb, p.Dimension, p.NumberOfContacts); err != nil {
			return problemErrorf(tag, err)
		}
	}
	for _, mu := range p.Mu {
		if math.IsNaN(mu) || math.IsInf(mu, 0) || mu < 0 {
			return problemErrorf(tag, ErrFriction)
		}
	}
	if matrix.ValidateFinite(p.Q) != nil {
		return problemErrorf(tag, ErrNonFinite)
	}

	return nil
}

func contactBlocks(sb *matrix.SparseBlock, dim, nc int) error {
	if sb.BlockRows() != nc || sb.BlockCols() != nc {
		return fmt.Errorf("%d×%d block grid for %d contacts: %w: %w",
			sb.BlockRows(), sb.BlockCols(), nc, ErrDimension, matrix.ErrBlockStructure)
	}
	for c := 0; c < nc; c++ {
		if sb.RowBlockSize(c) != dim || sb.ColBlockSize(c) != dim {
			return fmt.Errorf("block %d is %d×%d, want %d×%d: %w: %w",
				c, sb.RowBlockSize(c), sb.ColBlockSize(c), dim, dim, ErrDimension, matrix.ErrBlockStructure)
		}
	}

	return nil
}
