// SPDX-License-Identifier: MIT

package history

import (
	"github.com/katalvlaran/nonsmooth/solver"
)

// Point is one outer iteration.
type Point struct {
	Solver solver.ID
	Iter   int
	Error  float64
}

// Recorder accumulates iteration points. It is not safe for concurrent
// use, like the solve feeding it.
type Recorder struct {
	points []Point
	next   solver.Callback
}

// NewRecorder returns an empty recorder. When next is non-nil it is called
// after each point is stored, so an existing callback keeps working.
func NewRecorder(next solver.Callback) *Recorder {
	return &Recorder{next: next}
}

// Callback returns the function to install with solver.WithCallback.
func (r *Recorder) Callback() solver.Callback {
	return func(it solver.Iteration) {
		r.points = append(r.points, Point{Solver: it.Solver, Iter: it.Iter, Error: it.Error})
		if r.next != nil {
			r.next(it)
		}
	}
}

// Points returns a copy of the recorded points in arrival order.
func (r *Recorder) Points() []Point {
	return append([]Point(nil), r.points...)
}

// Len returns the number of recorded points.
func (r *Recorder) Len() int { return len(r.points) }

// Reset drops every point.
func (r *Recorder) Reset() { r.points = r.points[:0] }

// Monotone reports whether the recorded errors never increase.
func (r *Recorder) Monotone() bool {
	for i := 1; i < len(r.points); i++ {
		if r.points[i].Error > r.points[i-1].Error {
			return false
		}
	}

	return true
}

// Series names the recorded points for Chart.
func (r *Recorder) Series(name string) Series {
	return Series{Name: name, Points: r.Points()}
}
