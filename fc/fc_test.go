// SPDX-License-Identifier: MIT

package fc_test

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/cone"
	"github.com/katalvlaran/nonsmooth/fc"
	"github.com/katalvlaran/nonsmooth/matrix"
	"github.com/katalvlaran/nonsmooth/problem"
	"github.com/katalvlaran/nonsmooth/solver"
)

func identity(n int) []float64 {
	m := make([]float64, n*n)
	for i := 0; i < n; i++ {
		m[i*n+i] = 1
	}

	return m
}

func mustFC(t *testing.T, dim int, m matrix.Matrix, q, mu []float64) *problem.FrictionContact {
	t.Helper()
	p, err := problem.NewFrictionContact(dim, m, q, mu)
	require.NoError(t, err)

	return p
}

func mustDense(t *testing.T, n int, vals []float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewDenseFrom(n, vals)
	require.NoError(t, err)

	return d
}

// threeSliding is three uncoupled copies of W = I, q = (-1, 1, 3), mu = 0.1.
func threeSliding(t *testing.T) *problem.FrictionContact {
	q := []float64{-1, 1, 3, -1, 1, 3, -1, 1, 3}

	return mustFC(t, 3, mustDense(t, 9, identity(9)), q, []float64{0.1, 0.1, 0.1})
}

func slidingSolution() []float64 {
	s := 0.1 / math.Sqrt(10)

	return []float64{1, -s, -3 * s}
}

// coupled is a two-contact problem with off-diagonal coupling 0.5·I.
func coupled(t *testing.T, sparse bool) *problem.FrictionContact {
	q := []float64{-1, 0.2, 0.1, -2, -0.5, 0.3}
	mu := []float64{0.3, 0.5}
	diag := mat.NewDense(3, 3, []float64{2, 0, 0, 0, 2, 0, 0, 0, 2})
	off := mat.NewDense(3, 3, []float64{0.5, 0, 0, 0, 0.5, 0, 0, 0, 0.5})
	if !sparse {
		full := mat.NewDense(6, 6, nil)
		full.Slice(0, 3, 0, 3).(*mat.Dense).Copy(diag)
		full.Slice(3, 6, 3, 6).(*mat.Dense).Copy(diag)
		full.Slice(0, 3, 3, 6).(*mat.Dense).Copy(off)
		full.Slice(3, 6, 0, 3).(*mat.Dense).Copy(off)
		d, err := matrix.NewDenseFromMat(full)
		require.NoError(t, err)

		return mustFC(t, 3, d, q, mu)
	}
	b, err := matrix.NewSparseBlockBuilder(matrix.UniformSizes(2, 3), matrix.UniformSizes(2, 3))
	require.NoError(t, err)
	require.NoError(t, b.Set(0, 0, diag))
	require.NoError(t, b.Set(1, 1, diag))
	require.NoError(t, b.Set(0, 1, off))
	require.NoError(t, b.Set(1, 0, off))

	return mustFC(t, 3, b.Build(), q, mu)
}

// assertSolution checks velocity consistency, cone feasibility and
// complementarity of the normal components.
func assertSolution(t *testing.T, p *problem.FrictionContact, r, u []float64, eps float64) {
	t.Helper()
	want := make([]float64, p.Size())
	require.NoError(t, p.M.MulVec(want, r))
	floats.Add(want, p.Q)
	assert.InDeltaSlice(t, want, u, 1e-12, "velocity")
	for c := 0; c < p.NumberOfContacts; c++ {
		lo, hi := p.Contact(c)
		assert.True(t, cone.Contains(r[lo:hi], p.Mu[c], eps), "contact %d in cone", c)
		assert.GreaterOrEqual(t, u[lo], -eps, "contact %d normal gap", c)
		assert.InDelta(t, 0, r[lo]*u[lo], eps, "contact %d complementarity", c)
	}
}

// TestNSGS_UncoupledProjection solves three uncoupled contacts with the projection local solver.
func TestNSGS_UncoupledProjection(t *testing.T) {
	p := threeSliding(t)
	r, u := make([]float64, 9), make([]float64, 9)
	opts := solver.MustNew(solver.FC3DNSGS,
		solver.WithLocalSolver(solver.FC3DProjectionOnCone),
		solver.WithTolerance(1e-10))
	info, err := fc.NSGS(p, r, u, opts)
	require.NoError(t, err)
	require.Equal(t, solver.Success, info)
	assert.LessOrEqual(t, opts.Residual(), 1e-10)
	for c := 0; c < 3; c++ {
		assert.InDeltaSlice(t, slidingSolution(), r[3*c:3*c+3], 1e-9, "contact %d", c)
	}
	assertSolution(t, p, r, u, 1e-9)
}

// TestNSGS_UncoupledNewton solves three uncoupled contacts with the default Newton local solver.
func TestNSGS_UncoupledNewton(t *testing.T) {
	p := threeSliding(t)
	r, u := make([]float64, 9), make([]float64, 9)
	opts := solver.MustNew(solver.FC3DNSGS)
	info, err := fc.NSGS(p, r, u, opts)
	require.NoError(t, err)
	require.Equal(t, solver.Success, info)
	assert.LessOrEqual(t, opts.Iterations(), 2)
	for c := 0; c < 3; c++ {
		assert.InDeltaSlice(t, slidingSolution(), r[3*c:3*c+3], 1e-8, "contact %d", c)
	}
}

// TestNSGS_SingularLocalBlock stops with NumericalFailure on a zero diagonal block.
func TestNSGS_SingularLocalBlock(t *testing.T) {
	m := identity(6)
	for i := 3; i < 6; i++ {
		m[i*6+i] = 0
	}
	p := mustFC(t, 3, mustDense(t, 6, m), []float64{-1, 0, 0, -1, 0, 0}, []float64{0.3, 0.3})
	r, u := make([]float64, 6), make([]float64, 6)
	opts := solver.MustNew(solver.FC3DNSGS)
	info, err := fc.NSGS(p, r, u, opts)
	require.NoError(t, err)
	assert.Equal(t, solver.NumericalFailure, info)
	assert.Error(t, opts.Err(info))
	assert.Equal(t, []float64{0, 0, 0}, r[3:], "failed contact untouched")
}

// TestNSGS_CoupledDenseMatchesSparseBlock verifies that both storages give the same solution.
func TestNSGS_CoupledDenseMatchesSparseBlock(t *testing.T) {
	var sols [2][]float64
	for k, sparse := range []bool{false, true} {
		p := coupled(t, sparse)
		r, u := make([]float64, 6), make([]float64, 6)
		opts := solver.MustNew(solver.FC3DNSGS, solver.WithTolerance(1e-10))
		info, err := fc.NSGS(p, r, u, opts)
		require.NoError(t, err)
		require.Equal(t, solver.Success, info)
		assertSolution(t, p, r, u, 1e-8)
		sols[k] = r
	}
	assert.InDeltaSlice(t, sols[0], sols[1], 1e-10)
}

// TestNSGS_Options checks every local solver and relaxation against a reference solution.
func TestNSGS_Options(t *testing.T) {
	ref := make([]float64, 6)
	{
		p := coupled(t, false)
		u := make([]float64, 6)
		_, err := fc.NSGS(p, ref, u, solver.MustNew(solver.FC3DNSGS, solver.WithTolerance(1e-12)))
		require.NoError(t, err)
	}

	cases := []struct {
		name string
		opts []solver.Option
	}{
		{"shuffle once", []solver.Option{solver.WithShuffle(solver.ShuffleOnce, 7)}},
		{"shuffle each sweep", []solver.Option{solver.WithShuffle(solver.ShuffleEachSweep, 42)}},
		{"relaxation", []solver.Option{solver.WithRelaxation(0.8)}},
		{"light with final", []solver.Option{solver.WithErrorMode(solver.ErrorLightWithFinal)}},
		{"light", []solver.Option{solver.WithErrorMode(solver.ErrorLight)}},
		{"fischer-burmeister local", []solver.Option{solver.WithLocalSolver(solver.FC3DFischerBurmeisterNewton)}},
		{"local iteration", []solver.Option{solver.WithLocalSolver(solver.FC3DProjectionOnConeWithLocalIteration)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := coupled(t, true)
			r, u := make([]float64, 6), make([]float64, 6)
			opts := solver.MustNew(solver.FC3DNSGS, append([]solver.Option{solver.WithTolerance(1e-10)}, tc.opts...)...)
			info, err := fc.NSGS(p, r, u, opts)
			require.NoError(t, err)
			require.Equal(t, solver.Success, info)
			assert.InDeltaSlice(t, ref, r, 1e-6)
			assertSolution(t, p, r, u, 1e-6)
		})
	}
}

// TestNSGS_ShuffleDeterministic verifies that a seeded shuffle repeats exactly.
func TestNSGS_ShuffleDeterministic(t *testing.T) {
	run := func() ([]float64, int) {
		p := coupled(t, false)
		r, u := make([]float64, 6), make([]float64, 6)
		opts := solver.MustNew(solver.FC3DNSGS,
			solver.WithShuffle(solver.ShuffleEachSweep, 1234),
			solver.WithLocalSolver(solver.FC3DProjectionOnCone),
			solver.WithTolerance(1e-9))
		_, err := fc.NSGS(p, r, u, opts)
		require.NoError(t, err)

		return r, opts.Iterations()
	}
	r1, it1 := run()
	r2, it2 := run()
	assert.Equal(t, r1, r2)
	assert.Equal(t, it1, it2)
}

// TestNSGS_LocalFailuresCounted counts local solves that hit their cap.
func TestNSGS_LocalFailuresCounted(t *testing.T) {
	p := threeSliding(t)
	r, u := make([]float64, 9), make([]float64, 9)
	opts := solver.MustNew(solver.FC3DNSGS, solver.WithLocalMaxIter(0), solver.WithMaxIter(3))
	info, err := fc.NSGS(p, r, u, opts)
	require.NoError(t, err)
	assert.Equal(t, solver.NoConvergence, info)
	assert.Equal(t, 3, opts.Iterations())
	assert.Equal(t, 9, opts.IParam[solver.IParamLocalFailures])
}

// TestNSGS_2D solves two planar contacts.
func TestNSGS_2D(t *testing.T) {
	p := mustFC(t, 2, mustDense(t, 4, identity(4)), []float64{-1, 1, -1, -1}, []float64{0.5, 0.5})
	r, u := make([]float64, 4), make([]float64, 4)
	opts := solver.MustNew(solver.FC2DNSGS, solver.WithTolerance(1e-10))
	info, err := fc.NSGS(p, r, u, opts)
	require.NoError(t, err)
	require.Equal(t, solver.Success, info)
	assert.InDeltaSlice(t, []float64{1, -0.5, 1, 0.5}, r, 1e-8)
}

// TestNSGS_TraceAndTrivial checks one trace per sweep and the q = 0 shortcut.
func TestNSGS_TraceAndTrivial(t *testing.T) {
	p := coupled(t, false)
	r, u := make([]float64, 6), make([]float64, 6)
	calls := 0
	opts := solver.MustNew(solver.FC3DNSGS, solver.WithCallback(func(it solver.Iteration) {
		calls++
		assert.Equal(t, calls, it.Iter)
		assert.Len(t, it.Solution, 6)
	}))
	_, err := fc.NSGS(p, r, u, opts)
	require.NoError(t, err)
	assert.Equal(t, opts.Iterations(), calls)

	zero := mustFC(t, 3, mustDense(t, 3, identity(3)), []float64{0, 0, 0}, []float64{0.5})
	r = []float64{1, 2, 3}
	u = make([]float64, 3)
	info, err := fc.NSGS(zero, r, u, solver.MustNew(solver.FC3DNSGS))
	require.NoError(t, err)
	assert.Equal(t, solver.Success, info)
	assert.Equal(t, []float64{0, 0, 0}, r)
}

// TestNSGS_Errors covers buffer, option, workspace and block structure errors.
func TestNSGS_Errors(t *testing.T) {
	p := threeSliding(t)
	r, u := make([]float64, 9), make([]float64, 9)

	_, err := fc.NSGS(p, r[:3], u, solver.MustNew(solver.FC3DNSGS))
	assert.ErrorIs(t, err, fc.ErrDimension)

	opts := solver.MustNew(solver.FC3DNSGS)
	opts.Internal = nil
	_, err = fc.NSGS(p, r, u, opts)
	assert.ErrorIs(t, err, solver.ErrOptions)

	small := solver.NewWorkspace(solver.WorkspaceSize{Floats: 1})
	_, err = fc.NSGS(p, r, u, solver.MustNew(solver.FC3DNSGS, solver.WithWorkspace(small)))
	assert.ErrorIs(t, err, solver.ErrWorkspace)

	// diagonal block 1 missing
	b, err := matrix.NewSparseBlockBuilder(matrix.UniformSizes(2, 3), matrix.UniformSizes(2, 3))
	require.NoError(t, err)
	require.NoError(t, b.Set(0, 0, mat.NewDense(3, 3, identity(3))))
	holey := mustFC(t, 3, b.Build(), []float64{-1, 0, 0, -1, 0, 0}, []float64{0.1, 0.1})
	start := []float64{1, 0, 0, 1, 0, 0}
	r = slices.Clone(start)
	_, err = fc.NSGS(holey, r, make([]float64, 6), solver.MustNew(solver.FC3DNSGS))
	assert.ErrorIs(t, err, matrix.ErrBlockNotFound)
	assert.Equal(t, start, r, "a missing block is reported before any sweep")
}

// TestNSGS_SuppliedWorkspace solves inside a caller-supplied arena.
func TestNSGS_SuppliedWorkspace(t *testing.T) {
	p := coupled(t, true)
	ws := solver.NewWorkspace(fc.NSGSWorkspaceSize(2, 3))
	assert.Equal(t, solver.WorkspaceSize{Ints: 2, Floats: 6 + 9 + 3}, ws.Size())
	r, u := make([]float64, 6), make([]float64, 6)
	info, err := fc.NSGS(p, r, u, solver.MustNew(solver.FC3DNSGS, solver.WithWorkspace(ws)))
	require.NoError(t, err)
	assert.Equal(t, solver.Success, info)
}

// TestDeSaxceFixedPoint checks the global projection on uncoupled and coupled problems.
func TestDeSaxceFixedPoint(t *testing.T) {
	t.Run("uncoupled", func(t *testing.T) {
		p := threeSliding(t)
		r, u := make([]float64, 9), make([]float64, 9)
		opts := solver.MustNew(solver.FC3DDeSaxceFixedPoint, solver.WithTolerance(1e-10))
		info, err := fc.DeSaxceFixedPoint(p, r, u, opts)
		require.NoError(t, err)
		require.Equal(t, solver.Success, info)
		for c := 0; c < 3; c++ {
			assert.InDeltaSlice(t, slidingSolution(), r[3*c:3*c+3], 1e-9)
		}
	})
	t.Run("coupled agrees with NSGS", func(t *testing.T) {
		p := coupled(t, true)
		ref, u := make([]float64, 6), make([]float64, 6)
		_, err := fc.NSGS(p, ref, u, solver.MustNew(solver.FC3DNSGS, solver.WithTolerance(1e-12)))
		require.NoError(t, err)

		r := make([]float64, 6)
		opts := solver.MustNew(solver.FC3DDeSaxceFixedPoint, solver.WithTolerance(1e-10), solver.WithRho(0.3))
		info, err := fc.DeSaxceFixedPoint(p, r, u, opts)
		require.NoError(t, err)
		require.Equal(t, solver.Success, info)
		assert.InDeltaSlice(t, ref, r, 1e-7)
		assertSolution(t, p, r, u, 1e-7)
	})
	t.Run("iteration cap", func(t *testing.T) {
		p := threeSliding(t)
		r, u := make([]float64, 9), make([]float64, 9)
		opts := solver.MustNew(solver.FC3DDeSaxceFixedPoint, solver.WithMaxIter(2), solver.WithTolerance(1e-14))
		info, err := fc.DeSaxceFixedPoint(p, r, u, opts)
		require.NoError(t, err)
		assert.Equal(t, solver.NoConvergence, info)
		assert.Equal(t, 2, opts.Iterations())
	})
}

// TestTrescaFixedPoint checks the Tresca sequence reaches the Coulomb
// solution NSGS finds and reports outer iterations only.
func TestTrescaFixedPoint(t *testing.T) {
	for _, sparse := range []bool{false, true} {
		p := coupled(t, sparse)
		t.Run(fmt.Sprintf("coupled sparse=%v", sparse), func(t *testing.T) {
			ref, u := make([]float64, 6), make([]float64, 6)
			_, err := fc.NSGS(p, ref, u, solver.MustNew(solver.FC3DNSGS, solver.WithTolerance(1e-12)))
			require.NoError(t, err)

			r := make([]float64, 6)
			var seen []int
			opts := solver.MustNew(solver.FC3DTrescaFixedPoint, solver.WithTolerance(1e-10),
				solver.WithCallback(func(it solver.Iteration) {
					assert.Equal(t, solver.FC3DTrescaFixedPoint, it.Solver)
					seen = append(seen, it.Iter)
				}))
			info, err := fc.TrescaFixedPoint(p, r, u, opts)
			require.NoError(t, err)
			require.Equal(t, solver.Success, info)
			assert.InDeltaSlice(t, ref, r, 1e-7)
			assertSolution(t, p, r, u, 1e-7)
			assert.LessOrEqual(t, opts.Residual(), 1e-10)
			require.NotEmpty(t, seen)
			assert.Equal(t, opts.Iterations(), seen[len(seen)-1])
		})
	}

	t.Run("uncoupled", func(t *testing.T) {
		p := threeSliding(t)
		r, u := make([]float64, 9), make([]float64, 9)
		ws := solver.NewWorkspace(fc.TrescaFixedPointWorkspaceSize(3))
		assert.Equal(t, solver.WorkspaceSize{Ints: 3, Floats: 3 + 9 + 9 + 3}, ws.Size())
		opts := solver.MustNew(solver.FC3DTrescaFixedPoint, solver.WithTolerance(1e-10), solver.WithWorkspace(ws))
		info, err := fc.TrescaFixedPoint(p, r, u, opts)
		require.NoError(t, err)
		require.Equal(t, solver.Success, info)
		for c := 0; c < 3; c++ {
			assert.InDeltaSlice(t, slidingSolution(), r[3*c:3*c+3], 1e-9)
		}
	})

	t.Run("errors", func(t *testing.T) {
		planar := mustFC(t, 2, mustDense(t, 2, identity(2)), []float64{-1, 1}, []float64{0.3})
		_, err := fc.TrescaFixedPoint(planar, make([]float64, 2), make([]float64, 2), solver.MustNew(solver.FC3DTrescaFixedPoint))
		assert.ErrorIs(t, err, fc.ErrDimension)

		p := threeSliding(t)
		local := solver.MustNew(solver.FC3DTrescaFixedPoint, solver.WithLocalSolver(solver.FC3DProjectionOnCylinder))
		_, err = fc.TrescaFixedPoint(p, make([]float64, 9), make([]float64, 9), local)
		assert.ErrorIs(t, err, solver.ErrOptions)

		small := solver.NewWorkspace(fc.NSGSWorkspaceSize(3, 3))
		_, err = fc.TrescaFixedPoint(p, make([]float64, 9), make([]float64, 9),
			solver.MustNew(solver.FC3DTrescaFixedPoint, solver.WithWorkspace(small)))
		assert.ErrorIs(t, err, solver.ErrWorkspace)
	})
}
