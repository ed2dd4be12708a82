// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures (dense and block-sparse) for the
//     product, block and persistence tests.
//   - Keep all data finite so the numeric policy never interferes.

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/matrix"
)

// MustDenseFrom builds an n×n *Dense from row-major values or fails the test.
func MustDenseFrom(t testing.TB, n int, vals []float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(n, vals)
	require.NoError(t, err)

	return m
}

// RandomValues returns n deterministic pseudo-random values in [-1, 1).
func RandomValues(seed int64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = 2*rng.Float64() - 1
	}

	return out
}

// TridiagonalBlocks builds a block-tridiagonal SparseBlock with nb blocks of
// size dim, plus the equivalent Dense for cross-checking.
//
// Diagonal blocks are 4·I + noise; off-diagonal blocks are noise.
func TridiagonalBlocks(t testing.TB, nb, dim int, seed int64) (*matrix.SparseBlock, *matrix.Dense) {
	t.Helper()
	b, err := matrix.NewSparseBlockBuilder(matrix.UniformSizes(nb, dim), matrix.UniformSizes(nb, dim))
	require.NoError(t, err)
	n := nb * dim
	full := make([]float64, n*n)
	k := int64(0)
	for r := 0; r < nb; r++ {
		for c := r - 1; c <= r+1; c++ {
			if c < 0 || c >= nb {
				continue
			}
			vals := RandomValues(seed+k, dim*dim)
			k++
			if r == c {
				for i := 0; i < dim; i++ {
					vals[i*dim+i] += 4
				}
			}
			require.NoError(t, b.Set(r, c, mat.NewDense(dim, dim, vals)))
			for i := 0; i < dim; i++ {
				for j := 0; j < dim; j++ {
					full[(r*dim+i)*n+c*dim+j] = vals[i*dim+j]
				}
			}
		}
	}

	return b.Build(), MustDenseFrom(t, n, full)
}
