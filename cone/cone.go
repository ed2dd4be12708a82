// SPDX-License-Identifier: MIT

package cone

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// OnSecondOrderCone projects r (len ≥ 2) onto {r_0 ≥ 0, ‖r_{1:}‖ ≤ mu r_0}.
//
// Cases:
//   - mu‖r_t‖ ≤ -r_n: the polar cone, projection is the origin;
//   - ‖r_t‖ ≤ mu r_n: already inside, unchanged;
//   - otherwise radial projection onto the boundary:
//     r_n ← (mu‖r_t‖ + r_n)/(mu² + 1), r_t ← mu r_n r_t/‖r_t‖.
//
// Returns the region that applied.
func OnSecondOrderCone(r []float64, mu float64) Region {
	normT := floats.Norm(r[1:], 2)
	switch {
	case mu*normT <= -r[0]:
		for i := range r {
			r[i] = 0
		}

		return Polar
	case normT <= mu*r[0]:
		return Inside
	default:
		rn := (mu*normT + r[0]) / (mu*mu + 1)
		r[0] = rn
		floats.Scale(mu*rn/normT, r[1:])

		return Boundary
	}
}

// OnCone projects a 2D or 3D contact reaction onto the Coulomb cone.
func OnCone(r []float64, mu float64) Region {
	if len(r) == 2 {
		return OnCone2D(r, mu)
	}

	return OnSecondOrderCone(r, mu)
}

// OnCone2D projects a 2D reaction (r_n, r_t) onto the planar cone
// |r_t| ≤ mu r_n.
func OnCone2D(r []float64, mu float64) Region {
	at := math.Abs(r[1])
	switch {
	case mu*at <= -r[0]:
		r[0], r[1] = 0, 0

		return Polar
	case at <= mu*r[0]:
		return Inside
	default:
		rn := (mu*at + r[0]) / (mu*mu + 1)
		r[0] = rn
		r[1] = math.Copysign(mu*rn, r[1])

		return Boundary
	}
}

// OnDisk clips the tangential vector rt to the disk of the given radius
// (radius ≤ 0 collapses it to zero).
func OnDisk(rt []float64, radius float64) Region {
	norm := floats.Norm(rt, 2)
	if norm <= radius {
		return Inside
	}
	if radius <= 0 {
		for i := range rt {
			rt[i] = 0
		}

		return Polar
	}
	floats.Scale(radius/norm, rt)

	return Boundary
}

// OnCylinder projects r onto the Tresca set {r_n ≥ 0, ‖r_t‖ ≤ radius}.
func OnCylinder(r []float64, radius float64) Region {
	region := Inside
	if r[0] < 0 {
		r[0] = 0
		region = Boundary
	}
	if t := OnDisk(r[1:], radius); t != Inside {
		region = Boundary
	}

	return region
}

// Region reports which branch a projection took.
type Region int

const (
	// Inside: the point was already admissible.
	Inside Region = iota
	// Boundary: the point was moved onto the boundary.
	Boundary
	// Polar: the point was sent to the apex (origin).
	Polar
)

// Contains reports whether r lies in the Coulomb cone up to eps.
func Contains(r []float64, mu, eps float64) bool {
	return r[0] >= -eps && floats.Norm(r[1:], 2) <= mu*r[0]+eps
}
