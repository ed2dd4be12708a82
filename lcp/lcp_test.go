// SPDX-License-Identifier: MIT

package lcp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/lcp"
	"github.com/katalvlaran/nonsmooth/matrix"
	"github.com/katalvlaran/nonsmooth/problem"
	"github.com/katalvlaran/nonsmooth/solver"
)

type algorithm struct {
	id    solver.ID
	solve func(*problem.LCP, []float64, []float64, *solver.Options) (solver.Info, error)
}

var algorithms = []algorithm{
	{solver.LCPPGS, lcp.PGS},
	{solver.LCPNewtonFB, lcp.NewtonFB},
	{solver.LCPEnum, lcp.Enum},
}

func mustLCP(t *testing.T, n int, m, q []float64) *problem.LCP {
	t.Helper()
	d, err := matrix.NewDenseFrom(n, m)
	require.NoError(t, err)
	p, err := problem.NewLCP(d, q)
	require.NoError(t, err)

	return p
}

// tridiagonal returns the SPD matrix with 4 on the diagonal and -1 beside it.
func tridiagonal(n int) []float64 {
	m := make([]float64, n*n)
	for i := 0; i < n; i++ {
		m[i*n+i] = 4
		if i > 0 {
			m[i*n+i-1] = -1
		}
		if i+1 < n {
			m[i*n+i+1] = -1
		}
	}

	return m
}

// TestScalar solves the scalar LCP with every algorithm.
func TestScalar(t *testing.T) {
	for _, a := range algorithms {
		t.Run(a.id.String(), func(t *testing.T) {
			p := mustLCP(t, 1, []float64{1}, []float64{-1})
			z, w := make([]float64, 1), make([]float64, 1)
			info, err := a.solve(p, z, w, solver.MustNew(a.id))
			require.NoError(t, err)
			assert.Equal(t, solver.Success, info)
			assert.InDelta(t, 1.0, z[0], 1e-8)
			assert.InDelta(t, 0.0, w[0], 1e-8)
		})
	}
}

// TestProperties checks complementarity and agreement of all algorithms on a tridiagonal LCP.
func TestProperties(t *testing.T) {
	const n = 6
	q := []float64{-1, 2, -3, 0.5, -2, 1}
	p := mustLCP(t, n, tridiagonal(n), q)

	var ref []float64
	for _, a := range algorithms {
		t.Run(a.id.String(), func(t *testing.T) {
			z, w := make([]float64, n), make([]float64, n)
			opts := solver.MustNew(a.id, solver.WithTolerance(1e-12))
			info, err := a.solve(p, z, w, opts)
			require.NoError(t, err)
			require.Equal(t, solver.Success, info)
			assert.LessOrEqual(t, opts.Residual(), 1e-11)

			// residual: w = M z + q
			mz := make([]float64, n)
			require.NoError(t, p.M.MulVec(mz, z))
			floats.Add(mz, q)
			assert.InDeltaSlice(t, mz, w, 1e-12)

			// sign and complementarity
			for i := range z {
				assert.GreaterOrEqual(t, z[i], -1e-10)
				assert.GreaterOrEqual(t, w[i], -1e-10)
				assert.InDelta(t, 0, z[i]*w[i], 1e-10)
			}

			if ref == nil {
				ref = append([]float64(nil), z...)
			} else {
				assert.InDeltaSlice(t, ref, z, 1e-8, "algorithms agree")
			}
		})
	}
}

// TestScaleInvariance verifies that scaling q scales the solution.
func TestScaleInvariance(t *testing.T) {
	const n = 6
	q := []float64{-1, 2, -3, 0.5, -2, 1}
	big := append([]float64(nil), q...)
	floats.Scale(1e3, big)

	for _, a := range algorithms {
		t.Run(a.id.String(), func(t *testing.T) {
			z1, w1 := make([]float64, n), make([]float64, n)
			z2, w2 := make([]float64, n), make([]float64, n)
			o1 := solver.MustNew(a.id, solver.WithTolerance(1e-10))
			o2 := solver.MustNew(a.id, solver.WithTolerance(1e-10))
			_, err := a.solve(mustLCP(t, n, tridiagonal(n), q), z1, w1, o1)
			require.NoError(t, err)
			_, err = a.solve(mustLCP(t, n, tridiagonal(n), big), z2, w2, o2)
			require.NoError(t, err)

			floats.Scale(1e3, z1)
			assert.InDeltaSlice(t, z1, z2, 1e-5)
			assert.InDelta(t, o1.Residual(), o2.Residual(), 1e-9, "normalized error")
		})
	}
}

// TestDeterminism checks that repeated solves are bit identical.
func TestDeterminism(t *testing.T) {
	const n = 6
	q := []float64{-1, 2, -3, 0.5, -2, 1}
	for _, a := range algorithms {
		run := func() []float64 {
			z, w := make([]float64, n), make([]float64, n)
			_, err := a.solve(mustLCP(t, n, tridiagonal(n), q), z, w, solver.MustNew(a.id))
			require.NoError(t, err)

			return z
		}
		assert.Equal(t, run(), run(), a.id.String())
	}
}

// TestTrivial verifies that q ≥ 0 returns z = 0 without iterating.
func TestTrivial(t *testing.T) {
	for _, a := range algorithms {
		p := mustLCP(t, 2, []float64{1, 0, 0, 1}, []float64{0, 0})
		z, w := []float64{5, 5}, []float64{5, 5}
		opts := solver.MustNew(a.id)
		info, err := a.solve(p, z, w, opts)
		require.NoError(t, err)
		assert.Equal(t, solver.Success, info)
		assert.Equal(t, []float64{0, 0}, z)
		assert.Equal(t, []float64{0, 0}, w)
		assert.Zero(t, opts.Iterations())
	}
}

// TestPGS_Failures covers a zero pivot and the iteration cap.
func TestPGS_Failures(t *testing.T) {
	p := mustLCP(t, 2, []float64{0, 1, 1, 1}, []float64{-1, -1})
	info, err := lcp.PGS(p, make([]float64, 2), make([]float64, 2), solver.MustNew(solver.LCPPGS))
	require.NoError(t, err)
	assert.Equal(t, solver.NumericalFailure, info)

	p = mustLCP(t, 1, []float64{1}, []float64{-1})
	_, err = lcp.PGS(p, make([]float64, 2), make([]float64, 1), solver.MustNew(solver.LCPPGS))
	assert.ErrorIs(t, err, lcp.ErrDimension)

	info, err = lcp.PGS(mustLCP(t, 6, tridiagonal(6), []float64{-1, 2, -3, 0.5, -2, 1}),
		make([]float64, 6), make([]float64, 6), solver.MustNew(solver.LCPPGS, solver.WithMaxIter(1), solver.WithTolerance(1e-14)))
	require.NoError(t, err)
	assert.Equal(t, solver.NoConvergence, info)
}

// TestPGS_RelaxationAndSparseBlock solves a sparse-block LCP with over-relaxation.
func TestPGS_RelaxationAndSparseBlock(t *testing.T) {
	b, err := matrix.NewSparseBlockBuilder(matrix.UniformSizes(2, 2), matrix.UniformSizes(2, 2))
	require.NoError(t, err)
	require.NoError(t, b.Set(0, 0, mat.NewDense(2, 2, []float64{4, -1, -1, 4})))
	require.NoError(t, b.Set(1, 1, mat.NewDense(2, 2, []float64{4, -1, -1, 4})))
	require.NoError(t, b.Set(0, 1, mat.NewDense(2, 2, []float64{0, 0, -1, 0})))
	require.NoError(t, b.Set(1, 0, mat.NewDense(2, 2, []float64{0, -1, 0, 0})))
	sbm := b.Build()
	q := []float64{-1, 2, -3, 0.5}

	ps, err := problem.NewLCP(sbm, q)
	require.NoError(t, err)
	pd := mustLCP(t, 4, tridiagonal(4), q)

	zs, ws := make([]float64, 4), make([]float64, 4)
	info, err := lcp.PGS(ps, zs, ws, solver.MustNew(solver.LCPPGS, solver.WithRelaxation(1.2), solver.WithTolerance(1e-12)))
	require.NoError(t, err)
	require.Equal(t, solver.Success, info)

	zd, wd := make([]float64, 4), make([]float64, 4)
	info, err = lcp.PGS(pd, zd, wd, solver.MustNew(solver.LCPPGS, solver.WithTolerance(1e-12)))
	require.NoError(t, err)
	require.Equal(t, solver.Success, info)
	assert.InDeltaSlice(t, zd, zs, 1e-10)
}

// TestAsMLCP checks the LCP to MLCP view shares the matrix.
func TestAsMLCP(t *testing.T) {
	p := mustLCP(t, 2, []float64{2, 1, 1, 2}, []float64{-1, -1})
	mp, err := lcp.AsMLCP(p)
	require.NoError(t, err)
	assert.Equal(t, 0, mp.N)
	assert.Equal(t, 2, mp.M)
	assert.Same(t, p.M, mp.Matrix)
}
