// SPDX-License-Identifier: MIT

package local_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/cone"
	"github.com/katalvlaran/nonsmooth/local"
	"github.com/katalvlaran/nonsmooth/solver"
)

func problem3(w []float64, q []float64, mu float64) *local.Problem {
	return &local.Problem{W: mat.NewDense(3, 3, w), Q: q, Mu: mu}
}

var identity3 = []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}

// slidingSolution is the exact reaction for W = I, q = (-1, 1, 3), mu = 0.1.
func slidingSolution() []float64 {
	s := 0.1 / math.Sqrt(10)

	return []float64{1, -s, -3 * s}
}

// TestNew_Dispatch maps every local identifier to its solver.
func TestNew_Dispatch(t *testing.T) {
	cases := []struct {
		id   solver.ID
		dim  int
		want any
	}{
		{solver.FC3DProjectionOnCone, 3, &local.Projection{}},
		{solver.FC2DProjectionOnCone, 2, &local.Projection{}},
		{solver.FC3DProjectionOnConeWithDiagonalization, 3, &local.ProjectionDiagonalization{}},
		{solver.FC3DProjectionOnConeWithRegularization, 3, &local.ProjectionRegularization{}},
		{solver.FC3DProjectionOnCylinder, 3, &local.ProjectionCylinder{}},
		{solver.FC3DProjectionOnConeWithLocalIteration, 3, &local.ProjectionLocalIteration{}},
		{solver.FC3DAlartCurnierNewton, 3, &local.NewtonAlartCurnier{}},
		{solver.FC3DFischerBurmeisterNewton, 3, &local.NewtonFischerBurmeister{}},
	}
	for _, tc := range cases {
		t.Run(tc.id.String(), func(t *testing.T) {
			s, err := local.New(solver.MustNew(tc.id), tc.dim)
			require.NoError(t, err)
			assert.IsType(t, tc.want, s)
		})
	}

	_, err := local.New(solver.MustNew(solver.LCPPGS), 3)
	assert.ErrorIs(t, err, local.ErrNotLocal)
	_, err = local.New(solver.MustNew(solver.FC3DProjectionOnCone), 4)
	assert.ErrorIs(t, err, local.ErrDimension)
	_, err = local.New(solver.MustNew(solver.FC3DAlartCurnierNewton), 2)
	assert.ErrorIs(t, err, local.ErrDimension)
	_, err = local.New(nil, 3)
	assert.ErrorIs(t, err, local.ErrNotLocal)
}

// TestProjection_ConvergesWhenIterated iterates the projection to the sliding solution.
func TestProjection_ConvergesWhenIterated(t *testing.T) {
	p := problem3(identity3, []float64{-1, 1, 3}, 0.1)
	s := &local.Projection{PivotTol: local.DefaultPivotTol}
	r := make([]float64, 3)
	var res local.Result
	for i := 0; i < 50; i++ {
		res = s.Solve(p, r)
		require.Equal(t, solver.Success, res.Status)
	}
	assert.InDeltaSlice(t, slidingSolution(), r, 1e-10)
	assert.Less(t, res.Error, 1e-10)
	assert.True(t, cone.Contains(r, p.Mu, 1e-12))
}

// TestProjection_2D iterates the planar projection to the sliding solution.
func TestProjection_2D(t *testing.T) {
	p := &local.Problem{W: mat.NewDense(2, 2, []float64{1, 0, 0, 1}), Q: []float64{-1, 1}, Mu: 0.5}
	s := &local.Projection{PivotTol: local.DefaultPivotTol}
	r := make([]float64, 2)
	for i := 0; i < 200; i++ {
		s.Solve(p, r)
	}
	assert.InDeltaSlice(t, []float64{1, -0.5}, r, 1e-9)
}

// TestProjection_Separation leaves r = 0 when the contact opens.
func TestProjection_Separation(t *testing.T) {
	p := problem3(identity3, []float64{1, 0.2, 0}, 0.3)
	r := []float64{0, 0, 0}
	res := (&local.Projection{}).Solve(p, r)
	assert.Equal(t, solver.Success, res.Status)
	assert.Equal(t, []float64{0, 0, 0}, r)
}

// TestProjectionDiagonalization checks the diagonal closed form for a sliding and an opening contact.
func TestProjectionDiagonalization(t *testing.T) {
	s := &local.ProjectionDiagonalization{PivotTol: local.DefaultPivotTol}
	w := []float64{2, 0, 0, 0, 1, 0, 0, 0, 1}

	r := make([]float64, 3)
	res := s.Solve(problem3(w, []float64{-1, 0.5, 0}, 0.5), r)
	assert.Equal(t, solver.Success, res.Status)
	assert.InDeltaSlice(t, []float64{0.5, -0.25, 0}, r, 1e-15)

	r = []float64{4, 4, 4}
	s.Solve(problem3(w, []float64{1, 0.5, 0}, 0.5), r)
	assert.Equal(t, []float64{0, 0, 0}, r)
}

// TestProjectionRegularization_ApproachesSolution iterates the regularized step to the solution.
func TestProjectionRegularization_ApproachesSolution(t *testing.T) {
	p := problem3(identity3, []float64{-1, 1, 3}, 0.1)
	s := &local.ProjectionRegularization{Rho: 1, PivotTol: local.DefaultPivotTol}
	r := make([]float64, 3)
	for i := 0; i < 200; i++ {
		s.Solve(p, r)
	}
	assert.InDeltaSlice(t, slidingSolution(), r, 1e-9)

	// a vanishing block is rescued by ρ
	res := s.Solve(problem3(make([]float64, 9), []float64{-1, 0, 0}, 0.1), make([]float64, 3))
	assert.Equal(t, solver.Success, res.Status)
}

// TestProjectionCylinder checks one Tresca step with W = I.
func TestProjectionCylinder(t *testing.T) {
	p := problem3(identity3, []float64{-1, 2, 0}, 0.5)
	r := make([]float64, 3)
	res := (&local.ProjectionCylinder{PivotTol: local.DefaultPivotTol}).Solve(p, r)
	assert.Equal(t, solver.Success, res.Status)
	assert.InDeltaSlice(t, []float64{1, -0.5, 0}, r, 1e-15)
	assert.InDelta(t, 0, res.Error, 1e-15)
}

// TestProjectionLocalIteration converges and keeps a per-contact step.
func TestProjectionLocalIteration(t *testing.T) {
	s := local.NewProjectionLocalIteration(1e-12, 200)
	s.Reset(2)
	p := problem3(identity3, []float64{-1, 1, 3}, 0.1)
	p.Contact = 1
	r := make([]float64, 3)
	res := s.Solve(p, r)
	assert.Equal(t, solver.Success, res.Status)
	assert.InDeltaSlice(t, slidingSolution(), r, 1e-10)

	// contacts beyond the reset count get a fresh step
	p.Contact = 5
	r = make([]float64, 3)
	res = s.Solve(p, r)
	assert.Equal(t, solver.Success, res.Status)
}

// TestProjectionLocalIteration_IterationCap stops at its own cap.
func TestProjectionLocalIteration_IterationCap(t *testing.T) {
	s := local.NewProjectionLocalIteration(1e-300, 2)
	s.Reset(1)
	r := make([]float64, 3)
	res := s.Solve(problem3(identity3, []float64{-1, 1, 3}, 0.1), r)
	if res.Status != solver.Success {
		assert.Equal(t, solver.NoConvergence, res.Status)
		assert.Equal(t, 2, res.Iterations)
	}
}

// TestNewtonAlartCurnier solves each contact regime, sliding first.
func TestNewtonAlartCurnier(t *testing.T) {
	s := local.NewNewtonAlartCurnier(1e-14, 10)

	t.Run("identity", func(t *testing.T) {
		r := make([]float64, 3)
		res := s.Solve(problem3(identity3, []float64{-1, 1, 3}, 0.1), r)
		require.Equal(t, solver.Success, res.Status)
		assert.InDeltaSlice(t, slidingSolution(), r, 1e-14)
		assert.LessOrEqual(t, res.Iterations, 2)
	})
	t.Run("anisotropic", func(t *testing.T) {
		r := make([]float64, 3)
		res := s.Solve(problem3([]float64{2, 0, 0, 0, 1, 0, 0, 0, 1}, []float64{-1, 0.5, 0}, 0.5), r)
		require.Equal(t, solver.Success, res.Status)
		assert.InDeltaSlice(t, []float64{0.5, -0.25, 0}, r, 1e-14)
	})
	t.Run("stick", func(t *testing.T) {
		r := make([]float64, 3)
		res := s.Solve(problem3(identity3, []float64{-1, 0.1, 0}, 0.5), r)
		require.Equal(t, solver.Success, res.Status)
		assert.InDeltaSlice(t, []float64{1, -0.1, 0}, r, 1e-14)
	})
	t.Run("separation", func(t *testing.T) {
		r := make([]float64, 3)
		res := s.Solve(problem3(identity3, []float64{2, 1, 0}, 0.5), r)
		require.Equal(t, solver.Success, res.Status)
		assert.InDeltaSlice(t, []float64{0, 0, 0}, r, 1e-14)
	})
}

// TestNewtonFischerBurmeister solves a sliding local problem.
func TestNewtonFischerBurmeister(t *testing.T) {
	s := local.NewNewtonFischerBurmeister(1e-12, 50)
	r := make([]float64, 3)
	res := s.Solve(problem3([]float64{2, 0, 0, 0, 1, 0, 0, 0, 1}, []float64{-1, 0.5, 0}, 0.5), r)
	require.Equal(t, solver.Success, res.Status)
	assert.InDeltaSlice(t, []float64{0.5, -0.25, 0}, r, 1e-10)
}

// TestSingularBlock_NumericalFailure verifies that every solver reports a zero block as a failure.
func TestSingularBlock_NumericalFailure(t *testing.T) {
	zero := make([]float64, 9)
	solvers := map[string]local.Solver{
		"projection":      &local.Projection{PivotTol: local.DefaultPivotTol},
		"diagonalization": &local.ProjectionDiagonalization{PivotTol: local.DefaultPivotTol},
		"cylinder":        &local.ProjectionCylinder{PivotTol: local.DefaultPivotTol},
		"alart-curnier":   local.NewNewtonAlartCurnier(1e-14, 10),
		"fischer":         local.NewNewtonFischerBurmeister(1e-14, 10),
	}
	for name, s := range solvers {
		t.Run(name, func(t *testing.T) {
			r := []float64{0.5, 0.1, 0}
			res := s.Solve(problem3(zero, []float64{-1, 0, 0}, 0.3), r)
			assert.Equal(t, solver.NumericalFailure, res.Status)
			assert.Equal(t, []float64{0.5, 0.1, 0}, r, "reaction untouched")
		})
	}
}
