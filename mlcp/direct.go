// SPDX-License-Identifier: MIT

package mlcp

import (
	"container/list"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nonsmooth/criteria"
	"github.com/katalvlaran/nonsmooth/matrix"
	"github.com/katalvlaran/nonsmooth/problem"
	"github.com/katalvlaran/nonsmooth/solver"
)

// DirectWorkspaceSize returns the direct-solver part of the scratch for a
// cache of n0 configurations: iWork = (n+m)(n0+1) + n0·m,
// dWork = (n+m) + n0(n+m)² + (n+m).
func DirectWorkspaceSize(n, m, n0 int) solver.WorkspaceSize {
	s := n + m

	return solver.WorkspaceSize{Ints: s*(n0+1) + n0*m, Floats: s + n0*s*s + s}
}

// DirectEnumWorkspaceSize is DirectWorkspaceSize plus EnumerateWorkspaceSize.
func DirectEnumWorkspaceSize(n, m, n0 int) solver.WorkspaceSize {
	return DirectWorkspaceSize(n, m, n0).Add(EnumerateWorkspaceSize(n, m))
}

// DirectEnumPathWorkspaceSize adds the Newton-FB stage, with nonmonotone
// memory length memory, to DirectEnumWorkspaceSize.
func DirectEnumPathWorkspaceSize(n, m, n0, memory int) solver.WorkspaceSize {
	return DirectEnumWorkspaceSize(n, m, n0).Add(NewtonFBWorkspaceSize(n, m, memory))
}

// cached is one configuration with the LU factors of its system.
type cached struct {
	config Config
	lu     *matrix.LU
}

// CacheStats counts how DirectSolver calls were resolved.
type CacheStats struct {
	Hits            int // solved from a cached configuration
	Misses          int // no cached configuration worked
	EnumInvocations int // enumeration fallbacks
	PathInvocations int // Newton-FB fallbacks after a failed enumeration
	Evictions       int // least recently used entries dropped
}

// DirectSolver keeps the last successful configurations across calls. It
// is not safe for concurrent use; give each simulation its own instance.
type DirectSolver struct {
	capacity int
	size     int // N+M of the cached systems
	n        int
	entries  *list.List // of *cached, front = most recently used
	stats    CacheStats
}

// NewDirectSolver returns an empty cache of the given capacity.
//
// Panics when capacity <= 0.
func NewDirectSolver(capacity int) *DirectSolver {
	if capacity <= 0 {
		panic("mlcp: NewDirectSolver: capacity must be > 0")
	}

	return &DirectSolver{capacity: capacity, entries: list.New()}
}

// Capacity returns the maximal number of cached configurations.
func (d *DirectSolver) Capacity() int { return d.capacity }

// Len returns the number of cached configurations.
func (d *DirectSolver) Len() int { return d.entries.Len() }

// Stats returns the counters.
func (d *DirectSolver) Stats() CacheStats { return d.stats }

// Configs returns the cached configurations, most recently used first.
func (d *DirectSolver) Configs() []Config {
	out := make([]Config, 0, d.entries.Len())
	for e := d.entries.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*cached).config)
	}

	return out
}

// Reset empties the cache and clears the counters.
func (d *DirectSolver) Reset() {
	d.entries.Init()
	d.stats = CacheStats{}
	d.size, d.n = 0, 0
}

// Solve runs the direct chain selected by opts.ID (MLCPDirectEnum or
// MLCPDirectEnumPath).
//
// Stages:
//  1. cached configurations, most recent first; a hit moves to the front;
//  2. Enumerate;
//  3. for MLCPDirectEnumPath, NewtonFB under the caller's tolerance,
//     iteration cap, logger and callback;
//  4. on success the configuration of the solution (w_j > tolPos) is
//     factorized and pushed to the front, evicting the least recently used.
//
// Errors: ErrDimension, ErrTooLarge, solver.ErrKindMismatch,
// solver.ErrWorkspace, problem errors.
func (d *DirectSolver) Solve(p *problem.MLCP, z, w []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "DirectSolver.Solve"
	if err := checkBuffers(tag, p, z, w); err != nil {
		return solver.NumericalFailure, err
	}
	if opts.ID != solver.MLCPDirectEnum && opts.ID != solver.MLCPDirectEnumPath {
		return solver.NumericalFailure, mlcpErrorf(tag, fmt.Errorf("%v: %w", opts.ID, solver.ErrKindMismatch))
	}
	if p.Size() != d.size || p.N != d.n {
		// cached factors belong to another problem shape
		d.entries.Init()
		d.size, d.n = p.Size(), p.N
	}
	size := p.Size()
	withPath := opts.ID == solver.MLCPDirectEnumPath
	memory := opts.IParam[solver.IParamNonMonotone]
	need := DirectEnumWorkspaceSize(p.N, p.M, d.capacity)
	if withPath {
		need = DirectEnumPathWorkspaceSize(p.N, p.M, d.capacity, memory)
	}
	ws, err := opts.Acquire(need)
	if err != nil {
		return solver.NumericalFailure, mlcpErrorf(tag, err)
	}
	enumWS, err := ws.Split(EnumerateWorkspaceSize(p.N, p.M))
	if err != nil {
		return solver.NumericalFailure, mlcpErrorf(tag, err)
	}
	var pathWS *solver.Workspace
	if withPath {
		if pathWS, err = ws.Split(NewtonFBWorkspaceSize(p.N, p.M, memory)); err != nil {
			return solver.NumericalFailure, mlcpErrorf(tag, err)
		}
	}
	x, _ := ws.Floats(size)
	buf, _ := ws.Floats(size * size)

	tol, tolNeg := opts.Tolerance(), opts.DParam[solver.DParamTolNeg]
	// candidates are unpacked in place into x, slack into the head of buf
	wt := buf[:p.M]
	for e := d.entries.Front(); e != nil; e = e.Next() {
		c := e.Value.(*cached)
		ok, err := solveConfig(p, c.config, c.lu.Solve, x, x, wt, tolNeg)
		if err != nil || !ok {
			continue
		}
		res, err := criteria.MLCPError(p, x, wt)
		if err != nil || res > 10*tol {
			continue
		}
		copy(z, x)
		copy(w, wt)
		d.entries.MoveToFront(e)
		d.stats.Hits++
		opts.SetResult(1, res)
		opts.Trace(1, res, z, w)

		return solver.Success, nil
	}
	d.stats.Misses++

	sub := opts.Clone()
	sub.Workspace = enumWS
	d.stats.EnumInvocations++
	info, _, err := Enumerate(p, z, w, sub)
	if err != nil {
		return solver.NumericalFailure, err
	}
	if info != solver.Success && withPath {
		d.stats.PathInvocations++
		path := opts.Clone()
		path.ID = solver.MLCPNewtonFB
		path.Internal = nil
		path.Workspace = pathWS
		if info, err = NewtonFB(p, z, w, path); err != nil {
			return solver.NumericalFailure, err
		}
		sub.SetResult(path.Iterations(), path.Residual())
	}
	opts.SetResult(sub.Iterations(), sub.Residual())
	if info != solver.Success {
		return info, nil
	}

	// Enumerate reports w with pinned members at exactly zero; recompute
	// it for NewtonFB solutions before deriving the configuration.
	if _, err = criteria.MLCPError(p, z, w); err != nil {
		return solver.NumericalFailure, mlcpErrorf(tag, err)
	}
	d.remember(p, ConfigFromSlack(w, opts.DParam[solver.DParamTolPos]), mat.NewDense(size, size, buf))

	return solver.Success, nil
}

// remember factorizes the system of c and pushes it to the front. A
// configuration already cached is only moved.
func (d *DirectSolver) remember(p *problem.MLCP, c Config, sys *mat.Dense) {
	for e := d.entries.Front(); e != nil; e = e.Next() {
		if e.Value.(*cached).config.Equal(c) {
			d.entries.MoveToFront(e)

			return
		}
	}
	assemble(p, c, sys)
	lu, err := matrix.Factorize(sys)
	if err != nil {
		return
	}
	d.entries.PushFront(&cached{config: c, lu: lu})
	for d.entries.Len() > d.capacity {
		d.entries.Remove(d.entries.Back())
		d.stats.Evictions++
	}
}
