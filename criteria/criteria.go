// SPDX-License-Identifier: MIT

package criteria

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/nonsmooth/cone"
	"github.com/katalvlaran/nonsmooth/matrix"
	"github.com/katalvlaran/nonsmooth/problem"
)

// MachineEpsilon is the float64 unit roundoff (DBL_EPSILON).
const MachineEpsilon = 2.220446049250313e-16

// IsTrivial reports ‖q‖ ≤ MachineEpsilon, in which case z = 0 solves every
// problem family of the module.
func IsTrivial(q []float64) bool {
	return floats.Norm(q, 2) <= MachineEpsilon
}

// Scale returns the normalization factor ‖q‖, or 1 when q is zero.
func Scale(q []float64) float64 {
	if n := floats.Norm(q, 2); n > 0 {
		return n
	}

	return 1
}

func pos(x float64) float64 { return math.Max(0, x) }

// lcpTerm is the complementarity violation of one pair.
func lcpTerm(z, w float64) float64 {
	return pos(z*w) + pos(-z) + pos(-w)
}

// LCPError recomputes w = M z + q and returns the normalized LCP error.
//
// Errors: ErrDimension, matrix product errors.
func LCPError(m matrix.Matrix, q, z, w []float64) (float64, error) {
	n := len(q)
	if len(z) != n || len(w) != n {
		return 0, fmt.Errorf("LCPError: %w", ErrDimension)
	}
	if err := m.MulVec(w, z); err != nil {
		return 0, fmt.Errorf("LCPError: %w", err)
	}
	floats.Add(w, q)
	sum := 0.0
	for i := range z {
		sum += lcpTerm(z[i], w[i])
	}

	return sum / Scale(q), nil
}

// FrictionContactUnitary returns ‖r - Π_K(r - (u + mu‖u_t‖ e_n))‖² for one
// contact of dimension 2 or 3. It allocates nothing.
func FrictionContactUnitary(r, u []float64, mu float64) float64 {
	var buf [3]float64
	w := buf[:len(r)]
	normUT := floats.Norm(u[1:], 2)
	w[0] = r[0] - (u[0] + mu*normUT)
	for i := 1; i < len(r); i++ {
		w[i] = r[i] - u[i]
	}
	cone.OnCone(w, mu)
	sum := 0.0
	for i := range w {
		d := r[i] - w[i]
		sum += d * d
	}

	return sum
}

// FrictionContactError recomputes u = M r + q and returns the normalized
// friction-contact error.
func FrictionContactError(p *problem.FrictionContact, r, u []float64) (float64, error) {
	n := p.Size()
	if len(r) != n || len(u) != n {
		return 0, fmt.Errorf("FrictionContactError: %w", ErrDimension)
	}
	if err := p.M.MulVec(u, r); err != nil {
		return 0, fmt.Errorf("FrictionContactError: %w", err)
	}
	floats.Add(u, p.Q)

	return FrictionContactErrorNoUpdate(p, r, u), nil
}

// FrictionContactErrorNoUpdate evaluates the error with u taken as is.
func FrictionContactErrorNoUpdate(p *problem.FrictionContact, r, u []float64) float64 {
	sum := 0.0
	for c := 0; c < p.NumberOfContacts; c++ {
		lo, hi := p.Contact(c)
		sum += FrictionContactUnitary(r[lo:hi], u[lo:hi], p.Mu[c])
	}

	return math.Sqrt(sum) / Scale(p.Q)
}

// MLCPError evaluates z = [u; v], writes w = D u + B v + b and returns the
// normalized mixed error.
func MLCPError(p *problem.MLCP, z, w []float64) (float64, error) {
	if len(z) != p.Size() || len(w) != p.M {
		return 0, fmt.Errorf("MLCPError: %w", ErrDimension)
	}
	raw := p.Matrix.Raw()
	eq := 0.0
	for i := 0; i < p.N; i++ {
		y := floats.Dot(raw.RawRowView(i), z) + p.Q[i]
		eq += y * y
	}
	sum := math.Sqrt(eq)
	for j := 0; j < p.M; j++ {
		w[j] = floats.Dot(raw.RawRowView(p.N+j), z) + p.Q[p.N+j]
		sum += lcpTerm(z[p.N+j], w[j])
	}

	return sum / Scale(p.Q), nil
}

// SOCLCPError recomputes u = M r + q and returns the normalized natural-map
// error over all cones.
func SOCLCPError(p *problem.SOCLCP, r, u []float64) (float64, error) {
	n := p.Size()
	if len(r) != n || len(u) != n {
		return 0, fmt.Errorf("SOCLCPError: %w", ErrDimension)
	}
	if err := p.M.MulVec(u, r); err != nil {
		return 0, fmt.Errorf("SOCLCPError: %w", err)
	}
	floats.Add(u, p.Q)

	maxDim := 0
	for c := 0; c < p.NumberOfCones(); c++ {
		lo, hi := p.Cone(c)
		maxDim = max(maxDim, hi-lo)
	}
	w := make([]float64, maxDim)
	sum := 0.0
	for c := 0; c < p.NumberOfCones(); c++ {
		lo, hi := p.Cone(c)
		wc := w[:hi-lo]
		floats.SubTo(wc, r[lo:hi], u[lo:hi])
		cone.OnSecondOrderCone(wc, p.Mu[c])
		for i := range wc {
			d := r[lo+i] - wc[i]
			sum += d * d
		}
	}

	return math.Sqrt(sum) / Scale(p.Q), nil
}
