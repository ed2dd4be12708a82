// SPDX-License-Identifier: MIT

package criteria

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// PhiFB is the Fischer-Burmeister function sqrt(a²+b²) - a - b; it vanishes
// exactly when a ≥ 0, b ≥ 0 and a·b = 0.
func PhiFB(a, b float64) float64 {
	return math.Hypot(a, b) - a - b
}

// FischerBurmeister fills phi: the first nEq rows copy F (equality rows of
// a mixed problem), the others are PhiFB(z_i, F_i).
func FischerBurmeister(nEq int, z, f, phi []float64) {
	copy(phi[:nEq], f[:nEq])
	for i := nEq; i < len(z); i++ {
		phi[i] = PhiFB(z[i], f[i])
	}
}

// FischerBurmeisterJacobian writes into h an element of the generalized
// Jacobian of FischerBurmeister, given the Jacobian jf of F (constant M for
// linear problems):
//
//	row i < nEq:  jf_i
//	row i ≥ nEq:  (a_i - 1) e_i + (b_i - 1) jf_i,
//	              (a_i, b_i) = (z_i, F_i)/‖(z_i, F_i)‖, or (1/√2, 1/√2) at the origin.
func FischerBurmeisterJacobian(nEq int, z, f []float64, jf mat.Matrix, h *mat.Dense) {
	n := len(z)
	for i := 0; i < n; i++ {
		if i < nEq {
			for j := 0; j < n; j++ {
				h.Set(i, j, jf.At(i, j))
			}

			continue
		}
		a, b := fbDirection(z[i], f[i])
		for j := 0; j < n; j++ {
			h.Set(i, j, (b-1)*jf.At(i, j))
		}
		h.Set(i, i, h.At(i, i)+(a-1))
	}
}

func fbDirection(z, f float64) (a, b float64) {
	norm := math.Hypot(z, f)
	if norm <= MachineEpsilon {
		return math.Sqrt2 / 2, math.Sqrt2 / 2
	}

	return z / norm, f / norm
}
