// SPDX-License-Identifier: MIT

package mlcp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/mlcp"
	"github.com/katalvlaran/nonsmooth/problem"
	"github.com/katalvlaran/nonsmooth/solver"
)

// mixed is A=2, C=1, D=1, B=2, a=-2, b=1 with solution u=1, v=0, w=2.
func mixed(t *testing.T) *problem.MLCP {
	t.Helper()
	one := func(v float64) *mat.Dense { return mat.NewDense(1, 1, []float64{v}) }
	p, err := problem.NewMLCP(one(2), one(2), one(1), one(1), []float64{-2}, []float64{1})
	require.NoError(t, err)

	return p
}

// pureLCP wraps w = M v + q as an MLCP without equality rows.
func pureLCP(t *testing.T, m int, data, q []float64) *problem.MLCP {
	t.Helper()
	p, err := problem.NewMLCP(nil, mat.NewDense(m, m, data), nil, nil, nil, q)
	require.NoError(t, err)

	return p
}

// TestConfig checks configuration indexing, rendering and slack derivation.
func TestConfig(t *testing.T) {
	c := mlcp.ConfigFromIndex(5, 3)
	assert.Equal(t, mlcp.Config{true, false, true}, c)
	assert.Equal(t, "101", c.String())
	assert.True(t, c.Equal(mlcp.Config{true, false, true}))
	assert.False(t, c.Equal(mlcp.Config{true, false}))
	assert.Equal(t, mlcp.Config{false, true}, mlcp.ConfigFromSlack([]float64{1e-12, 0.5}, 1e-10))
}

// TestEnumerate finds the solving configuration by enumeration.
func TestEnumerate(t *testing.T) {
	t.Run("scalar LCP", func(t *testing.T) {
		p := pureLCP(t, 1, []float64{1}, []float64{-1})
		z, w := make([]float64, 1), make([]float64, 1)
		info, cfg, err := mlcp.Enumerate(p, z, w, solver.MustNew(solver.MLCPEnum))
		require.NoError(t, err)
		assert.Equal(t, solver.Success, info)
		assert.Equal(t, "0", cfg.String())
		assert.InDeltaSlice(t, []float64{1}, z, 1e-15)
		assert.InDeltaSlice(t, []float64{0}, w, 1e-15)
	})
	t.Run("mixed", func(t *testing.T) {
		z, w := make([]float64, 2), make([]float64, 1)
		opts := solver.MustNew(solver.MLCPEnum)
		info, cfg, err := mlcp.Enumerate(mixed(t), z, w, opts)
		require.NoError(t, err)
		assert.Equal(t, solver.Success, info)
		assert.Equal(t, "1", cfg.String())
		assert.InDeltaSlice(t, []float64{1, 0}, z, 1e-14)
		assert.InDeltaSlice(t, []float64{2}, w, 1e-14)
		assert.Equal(t, 2, opts.Iterations(), "second configuration")
	})
	t.Run("infeasible", func(t *testing.T) {
		p := pureLCP(t, 1, []float64{-1}, []float64{-1})
		info, cfg, err := mlcp.Enumerate(p, make([]float64, 1), make([]float64, 1), solver.MustNew(solver.MLCPEnum))
		require.NoError(t, err)
		assert.Equal(t, solver.NoConvergence, info)
		assert.Nil(t, cfg)
	})
	t.Run("errors", func(t *testing.T) {
		_, _, err := mlcp.Enumerate(mixed(t), make([]float64, 1), make([]float64, 1), solver.MustNew(solver.MLCPEnum))
		assert.ErrorIs(t, err, mlcp.ErrDimension)

		const big = mlcp.MaxEnumerate + 1
		id := mat.NewDiagDense(big, nil)
		for i := 0; i < big; i++ {
			id.SetDiag(i, 1)
		}
		p, err := problem.NewMLCP(nil, id, nil, nil, nil, make([]float64, big))
		require.NoError(t, err)
		_, _, err = mlcp.Enumerate(p, make([]float64, big), make([]float64, big), solver.MustNew(solver.MLCPEnum))
		assert.ErrorIs(t, err, mlcp.ErrTooLarge)
	})
}

// TestDirectSolver_CacheHitSkipsEnumeration verifies that a repeated problem is answered from the cache.
func TestDirectSolver_CacheHitSkipsEnumeration(t *testing.T) {
	d := mlcp.NewDirectSolver(solver.DefaultCacheSize)
	p := mixed(t)
	for i := 0; i < 2; i++ {
		z, w := make([]float64, 2), make([]float64, 1)
		info, err := d.Solve(p, z, w, solver.MustNew(solver.MLCPDirectEnum))
		require.NoError(t, err)
		require.Equal(t, solver.Success, info)
		assert.InDeltaSlice(t, []float64{1, 0}, z, 1e-14)
		assert.InDeltaSlice(t, []float64{2}, w, 1e-14)
	}
	st := d.Stats()
	assert.Equal(t, 1, st.EnumInvocations)
	assert.Equal(t, 1, st.Hits)
	assert.Equal(t, 1, st.Misses)
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, []mlcp.Config{{true}}, d.Configs())

	// same active set, different right-hand side: still a hit
	q, err := problem.NewMLCPFromMatrix(1, 1, p.Matrix, []float64{-4, 3})
	require.NoError(t, err)
	z, w := make([]float64, 2), make([]float64, 1)
	info, err := d.Solve(q, z, w, solver.MustNew(solver.MLCPDirectEnum))
	require.NoError(t, err)
	assert.Equal(t, solver.Success, info)
	assert.InDeltaSlice(t, []float64{2, 0}, z, 1e-14)
	assert.Equal(t, 1, d.Stats().EnumInvocations)
	assert.Equal(t, 2, d.Stats().Hits)
}

// TestDirectSolver_LRU checks promotion and eviction order of cached configurations.
func TestDirectSolver_LRU(t *testing.T) {
	ident := []float64{1, 0, 0, 1}
	both := pureLCP(t, 2, ident, []float64{-1, -1})  // config 00
	second := pureLCP(t, 2, ident, []float64{1, -1}) // config 10

	solve := func(d *mlcp.DirectSolver, p *problem.MLCP) {
		z, w := make([]float64, 2), make([]float64, 2)
		info, err := d.Solve(p, z, w, solver.MustNew(solver.MLCPDirectEnum))
		require.NoError(t, err)
		require.Equal(t, solver.Success, info)
	}

	small := mlcp.NewDirectSolver(1)
	solve(small, both)
	solve(small, second)
	solve(small, both)
	assert.Equal(t, 3, small.Stats().EnumInvocations)
	assert.Equal(t, 2, small.Stats().Evictions)
	assert.Equal(t, []mlcp.Config{{false, false}}, small.Configs())

	roomy := mlcp.NewDirectSolver(2)
	solve(roomy, both)
	solve(roomy, second)
	solve(roomy, both)
	assert.Equal(t, 2, roomy.Stats().EnumInvocations)
	assert.Equal(t, 1, roomy.Stats().Hits)
	assert.Equal(t, []mlcp.Config{{false, false}, {true, false}}, roomy.Configs(), "hit moved to front")

	roomy.Reset()
	assert.Zero(t, roomy.Len())
	assert.Equal(t, mlcp.CacheStats{}, roomy.Stats())
}

// TestDirectSolver_PathFallback runs the Newton stage when no configuration qualifies.
func TestDirectSolver_PathFallback(t *testing.T) {
	d := mlcp.NewDirectSolver(4)
	p := pureLCP(t, 1, []float64{-1}, []float64{-1})
	info, err := d.Solve(p, make([]float64, 1), make([]float64, 1), solver.MustNew(solver.MLCPDirectEnumPath))
	require.NoError(t, err)
	assert.NotEqual(t, solver.Success, info)
	assert.Equal(t, 1, d.Stats().PathInvocations)
	assert.Zero(t, d.Len())

	info, err = d.Solve(p, make([]float64, 1), make([]float64, 1), solver.MustNew(solver.MLCPDirectEnum))
	require.NoError(t, err)
	assert.Equal(t, solver.NoConvergence, info)
	assert.Equal(t, 1, d.Stats().PathInvocations, "no path stage without _PATH")

	_, err = d.Solve(p, make([]float64, 1), make([]float64, 1), solver.MustNew(solver.MLCPPGS))
	assert.ErrorIs(t, err, solver.ErrKindMismatch)

	assert.Panics(t, func() { mlcp.NewDirectSolver(0) })
}

// TestDirectSolver_PathHonorsCallerOptions checks that the Newton-FB stage
// runs under the caller's tolerance, cap, callback and workspace.
func TestDirectSolver_PathHonorsCallerOptions(t *testing.T) {
	t.Run("unsolvable", func(t *testing.T) {
		d := mlcp.NewDirectSolver(4)
		p := pureLCP(t, 1, []float64{-1}, []float64{-1})
		calls := 0
		opts := solver.MustNew(solver.MLCPDirectEnumPath,
			solver.WithMaxIter(3),
			solver.WithCallback(func(it solver.Iteration) {
				calls++
				assert.Equal(t, solver.MLCPNewtonFB, it.Solver)
			}))
		info, err := d.Solve(p, make([]float64, 1), make([]float64, 1), opts)
		require.NoError(t, err)
		assert.NotEqual(t, solver.Success, info)
		assert.Equal(t, 1, d.Stats().PathInvocations)
		assert.LessOrEqual(t, opts.Iterations(), 3)
		assert.Positive(t, calls)
		assert.LessOrEqual(t, calls, opts.Iterations())
		assert.Zero(t, d.Len())
	})

	t.Run("tolerance out of reach", func(t *testing.T) {
		d := mlcp.NewDirectSolver(4)
		p := pureLCP(t, 3,
			[]float64{4.1, 1.3, 0.7, 1.3, 3.7, 0.9, 0.7, 0.9, 2.9},
			[]float64{-1.1, 0.37, -2.3})
		const tol = 1e-300
		opts := solver.MustNew(solver.MLCPDirectEnumPath, solver.WithTolerance(tol), solver.WithMaxIter(3))
		info, err := d.Solve(p, make([]float64, 3), make([]float64, 3), opts)
		require.NoError(t, err)
		if info == solver.Success {
			assert.LessOrEqual(t, opts.Residual(), tol)
		} else {
			assert.Zero(t, d.Len(), "failed solves are not cached")
		}
		if d.Stats().PathInvocations == 1 {
			assert.LessOrEqual(t, opts.Iterations(), 3)
		}
	})

	t.Run("workspace", func(t *testing.T) {
		p := pureLCP(t, 1, []float64{-1}, []float64{-1})
		fits := solver.NewWorkspace(mlcp.DirectEnumPathWorkspaceSize(0, 1, 4, 0))
		_, err := mlcp.NewDirectSolver(4).Solve(p, make([]float64, 1), make([]float64, 1),
			solver.MustNew(solver.MLCPDirectEnumPath, solver.WithWorkspace(fits)))
		require.NoError(t, err)

		short := solver.NewWorkspace(mlcp.DirectEnumWorkspaceSize(0, 1, 4))
		_, err = mlcp.NewDirectSolver(4).Solve(p, make([]float64, 1), make([]float64, 1),
			solver.MustNew(solver.MLCPDirectEnumPath, solver.WithWorkspace(short)))
		assert.ErrorIs(t, err, solver.ErrWorkspace)
	})
}

// TestDirectSolver_Workspace solves inside a caller-supplied arena and rejects a short one.
func TestDirectSolver_Workspace(t *testing.T) {
	need := mlcp.DirectEnumWorkspaceSize(1, 1, 3)
	ws := solver.NewWorkspace(need)
	d := mlcp.NewDirectSolver(3)
	info, err := d.Solve(mixed(t), make([]float64, 2), make([]float64, 1),
		solver.MustNew(solver.MLCPDirectEnum, solver.WithWorkspace(ws)))
	require.NoError(t, err)
	assert.Equal(t, solver.Success, info)

	_, err = d.Solve(mixed(t), make([]float64, 2), make([]float64, 1),
		solver.MustNew(solver.MLCPDirectEnum, solver.WithWorkspace(solver.NewWorkspace(solver.WorkspaceSize{Floats: 4}))))
	assert.ErrorIs(t, err, solver.ErrWorkspace)
}

// TestPGS solves the 1+1 MLCP with projected Gauss-Seidel.
func TestPGS(t *testing.T) {
	z, w := make([]float64, 2), make([]float64, 1)
	opts := solver.MustNew(solver.MLCPPGS, solver.WithTolerance(1e-12))
	info, err := mlcp.PGS(mixed(t), z, w, opts)
	require.NoError(t, err)
	assert.Equal(t, solver.Success, info)
	assert.InDeltaSlice(t, []float64{1, 0}, z, 1e-12)
	assert.InDeltaSlice(t, []float64{2}, w, 1e-12)

	zero := pureLCP(t, 1, []float64{0}, []float64{-1})
	info, err = mlcp.PGS(zero, make([]float64, 1), make([]float64, 1), solver.MustNew(solver.MLCPPGS))
	require.NoError(t, err)
	assert.Equal(t, solver.NumericalFailure, info)
}

// TestNewtonFB solves the 1+1 MLCP with the Fischer-Burmeister Newton method.
func TestNewtonFB(t *testing.T) {
	z, w := make([]float64, 2), make([]float64, 1)
	opts := solver.MustNew(solver.MLCPNewtonFB)
	info, err := mlcp.NewtonFB(mixed(t), z, w, opts)
	require.NoError(t, err)
	assert.Equal(t, solver.Success, info)
	assert.InDeltaSlice(t, []float64{1, 0}, z, 1e-10)
	assert.InDeltaSlice(t, []float64{2}, w, 1e-10)
	assert.LessOrEqual(t, opts.Residual(), 1e-10)
}
