// SPDX-License-Identifier: MIT

package mlcp

import (
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/problem"
)

// Config is a sign configuration over the M complementarity pairs:
// Config[j] true means w_j is the unknown and v_j = 0; false means v_j is
// the unknown and w_j = 0.
type Config []bool

// ConfigFromIndex returns configuration k of the enumeration order (bit j
// of k drives pair j).
func ConfigFromIndex(k uint64, m int) Config {
	c := make(Config, m)
	for j := range c {
		c[j] = k&(1<<uint(j)) != 0
	}

	return c
}

// ConfigFromSlack derives the configuration of a solution: w_j > tolPos
// marks w_j as the unknown.
func ConfigFromSlack(w []float64, tolPos float64) Config {
	c := make(Config, len(w))
	for j, v := range w {
		c[j] = v > tolPos
	}

	return c
}

// Equal reports whether both configurations pin the same members.
func (c Config) Equal(o Config) bool { return slices.Equal(c, o) }

// String renders the configuration as a bit string, pair 0 first.
func (c Config) String() string {
	var sb strings.Builder
	for _, b := range c {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// assemble writes into dst the (n+m)×(n+m) matrix of the linear system of
// configuration c: column j < n is column j of the problem matrix; column
// n+j is -e_{n+j} when c[j] is set and column n+j of the problem otherwise.
func assemble(p *problem.MLCP, c Config, dst *mat.Dense) {
	full := p.Matrix.Raw()
	size := p.Size()
	for col := 0; col < size; col++ {
		if col >= p.N && c[col-p.N] {
			for i := 0; i < size; i++ {
				dst.Set(i, col, 0)
			}
			dst.Set(col, col, -1)

			continue
		}
		for i := 0; i < size; i++ {
			dst.Set(i, col, full.At(i, col))
		}
	}
}

// linearSolve solves the configuration system in place: dst and b may alias.
type linearSolve func(dst, b []float64) error

// solveConfig solves the configuration system with solve and unpacks the
// result into z and w. It reports whether every complementary unknown is
// ≥ -tolNeg.
func solveConfig(p *problem.MLCP, c Config, solve linearSolve, x, z, w []float64, tolNeg float64) (bool, error) {
	for i := range x {
		x[i] = -p.Q[i]
	}
	if err := solve(x, x); err != nil {
		return false, err
	}
	copy(z[:p.N], x[:p.N])
	ok := true
	for j := 0; j < p.M; j++ {
		v := x[p.N+j]
		if v < -tolNeg {
			ok = false
		}
		if c[j] {
			z[p.N+j], w[j] = 0, v
		} else {
			z[p.N+j], w[j] = v, 0
		}
	}

	return ok, nil
}
