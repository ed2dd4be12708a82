// SPDX-License-Identifier: MIT

package local

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/criteria"
	"github.com/katalvlaran/nonsmooth/solver"
)

// dampingMax bounds the step halvings of the damped Newton update.
const dampingMax = 10

var (
	e0 = mgl64.Vec3{1, 0, 0}
	e1 = mgl64.Vec3{0, 1, 0}
	e2 = mgl64.Vec3{0, 0, 1}
)

// equation evaluates a nonsmooth local reformulation F(r) and one element of
// its generalized Jacobian. u = q + W r is supplied by the caller.
type equation func(c *context3, r, u mgl64.Vec3) (f mgl64.Vec3, jac mgl64.Mat3)

// context3 is the per-call data shared by the Newton formulations.
type context3 struct {
	w      mgl64.Mat3
	q      mgl64.Vec3
	mu     float64
	rhoN   float64
	rhoT   float64
	rowsWt [2]mgl64.Vec3
}

func newContext3(p *Problem) *context3 {
	c := &context3{w: toMat3(p.W), q: mgl64.Vec3{p.Q[0], p.Q[1], p.Q[2]}, mu: p.Mu}
	c.rhoN = 1 / c.w.At(0, 0)
	c.rhoT = tangentialStep(c.w, c.rhoN)
	c.rowsWt = [2]mgl64.Vec3{c.w.Row(1), c.w.Row(2)}

	return c
}

// tangentialStep returns λmin/λmax² of the symmetric part of the tangential
// 2×2 block, or fallback when the block is not positive definite.
func tangentialStep(w mgl64.Mat3, fallback float64) float64 {
	alpha := w.At(1, 1) + w.At(2, 2)
	off := 0.5 * (w.At(1, 2) + w.At(2, 1))
	det := w.At(1, 1)*w.At(2, 2) - off*off
	if alpha <= 0 || det <= 0 {
		return fallback
	}
	beta := math.Sqrt(math.Max(0, alpha*alpha-4*det))

	return 2 * (alpha - beta) / ((alpha + beta) * (alpha + beta))
}

func toMat3(w *mat.Dense) mgl64.Mat3 {
	var m mgl64.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, w.At(i, j))
		}
	}

	return m
}

// newton3 is the damped generalized Newton loop shared by the 3D variants.
type newton3 struct {
	Tol      float64
	MaxIter  int
	PivotTol float64

	eq equation
}

// NewtonAlartCurnier solves F_AC(r) = 0 with
//
//	F_n = r_n - max(0, r_n - ρ_n u_n)
//	F_t = r_t - Π_{D(mu·max(0, r_n - ρ_n u_n))}(r_t - ρ_t u_t)
//
// ρ_n = 1/W_nn and ρ_t is derived from the tangential block.
type NewtonAlartCurnier struct{ newton3 }

// NewNewtonAlartCurnier returns an Alart-Curnier Newton local solver.
func NewNewtonAlartCurnier(tol float64, maxIter int) *NewtonAlartCurnier {
	return &NewtonAlartCurnier{newton3{Tol: tol, MaxIter: maxIter, PivotTol: DefaultPivotTol, eq: alartCurnier}}
}

// NewtonFischerBurmeister uses φ_FB(r_n, u_n) for the normal part and the
// Alart-Curnier tangential part with the disk radius mu·max(0, r_n).
type NewtonFischerBurmeister struct{ newton3 }

// NewNewtonFischerBurmeister returns a Fischer-Burmeister Newton local solver.
func NewNewtonFischerBurmeister(tol float64, maxIter int) *NewtonFischerBurmeister {
	return &NewtonFischerBurmeister{newton3{Tol: tol, MaxIter: maxIter, PivotTol: DefaultPivotTol, eq: fischerBurmeister}}
}

// Solve implements Solver.
func (s *newton3) Solve(p *Problem, r []float64) Result {
	if p.W.At(0, 0) <= s.PivotTol {
		return Result{Status: solver.NumericalFailure}
	}
	c := newContext3(p)
	x := mgl64.Vec3{r[0], r[1], r[2]}
	defer func() { r[0], r[1], r[2] = x[0], x[1], x[2] }()

	f, jac := s.eq(c, x, c.velocity(x))
	res := f.Len()
	for it := 0; ; it++ {
		if res <= s.Tol {
			return Result{Status: solver.Success, Iterations: it, Error: res}
		}
		if it >= s.MaxIter {
			return Result{Status: solver.NoConvergence, Iterations: it, Error: res}
		}
		if math.Abs(jac.Det()) <= s.PivotTol {
			return Result{Status: solver.NumericalFailure, Iterations: it, Error: res}
		}
		d := jac.Inv().Mul3x1(f).Mul(-1)

		t := 1.0
		var trial mgl64.Vec3
		var ft mgl64.Vec3
		var jt mgl64.Mat3
		for k := 0; k < dampingMax; k++ {
			trial = x.Add(d.Mul(t))
			ft, jt = s.eq(c, trial, c.velocity(trial))
			if ft.Len() < res {
				break
			}
			t *= 0.5
		}
		x, f, jac = trial, ft, jt
		res = f.Len()
	}
}

func (c *context3) velocity(r mgl64.Vec3) mgl64.Vec3 {
	return c.w.Mul3x1(r).Add(c.q)
}

// tangential fills rows 1 and 2 of (F, J) for the disk of radius
// radius(r) with gradient dRadius.
func (c *context3) tangential(r, u mgl64.Vec3, radius float64, dRadius mgl64.Vec3, f *mgl64.Vec3, rows *[3]mgl64.Vec3) {
	pt := [2]float64{r[1] - c.rhoT*u[1], r[2] - c.rhoT*u[2]}
	npt := math.Hypot(pt[0], pt[1])
	if npt <= radius {
		// stick: F_t = ρ_t u_t
		f[1], f[2] = c.rhoT*u[1], c.rhoT*u[2]
		rows[1] = c.rowsWt[0].Mul(c.rhoT)
		rows[2] = c.rowsWt[1].Mul(c.rhoT)

		return
	}
	// slip: F_t = r_t - radius·n, n = pt/‖pt‖
	n := [2]float64{pt[0] / npt, pt[1] / npt}
	f[1], f[2] = r[1]-radius*n[0], r[2]-radius*n[1]
	dpt := [2]mgl64.Vec3{e1.Sub(c.rowsWt[0].Mul(c.rhoT)), e2.Sub(c.rowsWt[1].Mul(c.rhoT))}
	unit := [2]mgl64.Vec3{e1, e2}
	for i := 0; i < 2; i++ {
		var dn mgl64.Vec3
		for k := 0; k < 2; k++ {
			delta := 0.0
			if i == k {
				delta = 1
			}
			dn = dn.Add(dpt[k].Mul(delta - n[i]*n[k]))
		}
		rows[i+1] = unit[i].Sub(dRadius.Mul(n[i])).Sub(dn.Mul(radius / npt))
	}
}

func alartCurnier(c *context3, r, u mgl64.Vec3) (mgl64.Vec3, mgl64.Mat3) {
	var f mgl64.Vec3
	var rows [3]mgl64.Vec3
	var dRadius mgl64.Vec3

	pn := r[0] - c.rhoN*u[0]
	radius := 0.0
	if pn > 0 {
		f[0] = c.rhoN * u[0]
		rows[0] = c.w.Row(0).Mul(c.rhoN)
		radius = c.mu * pn
		dRadius = e0.Sub(c.w.Row(0).Mul(c.rhoN)).Mul(c.mu)
	} else {
		f[0] = r[0]
		rows[0] = e0
	}
	c.tangential(r, u, radius, dRadius, &f, &rows)

	return f, mgl64.Mat3FromRows(rows[0], rows[1], rows[2])
}

func fischerBurmeister(c *context3, r, u mgl64.Vec3) (mgl64.Vec3, mgl64.Mat3) {
	var f mgl64.Vec3
	var rows [3]mgl64.Vec3
	var dRadius mgl64.Vec3

	f[0] = criteria.PhiFB(r[0], u[0])
	a, b := 1/math.Sqrt2, 1/math.Sqrt2
	if nrm := math.Hypot(r[0], u[0]); nrm > 0 {
		a, b = r[0]/nrm, u[0]/nrm
	}
	rows[0] = e0.Mul(a - 1).Add(c.w.Row(0).Mul(b - 1))
	radius := 0.0
	if r[0] > 0 {
		radius = c.mu * r[0]
		dRadius = e0.Mul(c.mu)
	}
	c.tangential(r, u, radius, dRadius, &f, &rows)

	return f, mgl64.Mat3FromRows(rows[0], rows[1], rows[2])
}
