// SPDX-License-Identifier: MIT

package problem

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/matrix"
)

// MLCP is the mixed linear complementarity problem
//
//	A u + C v + a = 0
//	D u + B v + b = w,   0 ≤ v ⟂ w ≥ 0
//
// with N equality unknowns u and M complementarity unknowns v. The blocks
// are kept assembled as Matrix = [[A, C], [D, B]] and Q = [a; b].
type MLCP struct {
	N, M   int
	Matrix *matrix.Dense
	Q      []float64
}

// NewMLCP assembles an MLCP from its blocks. A, C, D may be nil when
// len(a) == 0; C, D, B may be nil when len(b) == 0.
//
// Errors: ErrNilProblem (no unknowns or missing block), ErrDimension.
func NewMLCP(a, b, c, d mat.Matrix, qa, qb []float64) (*MLCP, error) {
	const tag = "NewMLCP"
	n, m := len(qa), len(qb)
	if n+m == 0 {
		return nil, problemErrorf(tag, ErrNilProblem)
	}
	check := func(blk mat.Matrix, r, c int) error {
		if r == 0 || c == 0 {
			return nil
		}
		if blk == nil {
			return ErrNilProblem
		}
		if br, bc := blk.Dims(); br != r || bc != c {
			return ErrDimension
		}

		return nil
	}
	for _, e := range []error{check(a, n, n), check(c, n, m), check(d, m, n), check(b, m, m)} {
		if e != nil {
			return nil, problemErrorf(tag, e)
		}
	}

	full := mat.NewDense(n+m, n+m, nil)
	if n > 0 {
		full.Slice(0, n, 0, n).(*mat.Dense).Copy(a)
	}
	if n > 0 && m > 0 {
		full.Slice(0, n, n, n+m).(*mat.Dense).Copy(c)
		full.Slice(n, n+m, 0, n).(*mat.Dense).Copy(d)
	}
	if m > 0 {
		full.Slice(n, n+m, n, n+m).(*mat.Dense).Copy(b)
	}
	dense, err := matrix.NewDenseFromMat(full)
	if err != nil {
		return nil, problemErrorf(tag, err)
	}
	q := make([]float64, 0, n+m)
	q = append(append(q, qa...), qb...)

	return NewMLCPFromMatrix(n, m, dense, q)
}

// NewMLCPFromMatrix wraps an already assembled (n+m)×(n+m) matrix; q is copied.
func NewMLCPFromMatrix(n, m int, full *matrix.Dense, q []float64) (*MLCP, error) {
	p := &MLCP{N: n, M: m, Matrix: full, Q: append([]float64(nil), q...)}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Size returns N+M.
func (p *MLCP) Size() int { return p.N + p.M }

// Validate checks the descriptor shape.
func (p *MLCP) Validate() error {
	const tag = "MLCP"
	if p == nil || p.Matrix == nil {
		return problemErrorf(tag, ErrNilProblem)
	}
	if p.N < 0 || p.M < 0 || p.N+p.M == 0 || p.Matrix.Size() != p.N+p.M || len(p.Q) != p.N+p.M {
		return problemErrorf(tag, ErrDimension)
	}
	if matrix.ValidateFinite(p.Q) != nil {
		return problemErrorf(tag, ErrNonFinite)
	}

	return nil
}

// view returns the [r0,r1)×[c0,c1) window or nil when it is empty.
func (p *MLCP) view(r0, r1, c0, c1 int) *mat.Dense {
	if r1 == r0 || c1 == c0 {
		return nil
	}

	return p.Matrix.Raw().Slice(r0, r1, c0, c1).(*mat.Dense)
}

// A returns the N×N equality block (nil when N == 0).
func (p *MLCP) A() *mat.Dense { return p.view(0, p.N, 0, p.N) }

// C returns the N×M coupling block of the equality rows.
func (p *MLCP) C() *mat.Dense { return p.view(0, p.N, p.N, p.N+p.M) }

// D returns the M×N coupling block of the complementarity rows.
func (p *MLCP) D() *mat.Dense { return p.view(p.N, p.N+p.M, 0, p.N) }

// B returns the M×M complementarity block (nil when M == 0).
func (p *MLCP) B() *mat.Dense { return p.view(p.N, p.N+p.M, p.N, p.N+p.M) }
