// SPDX-License-Identifier: MIT

package driver

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/nonsmooth/fc"
	"github.com/katalvlaran/nonsmooth/lcp"
	"github.com/katalvlaran/nonsmooth/mlcp"
	"github.com/katalvlaran/nonsmooth/problem"
	"github.com/katalvlaran/nonsmooth/soclcp"
	"github.com/katalvlaran/nonsmooth/solver"
)

// ErrDimension indicates solution buffers that do not match the problem.
var ErrDimension = errors.New("driver: buffer length mismatch")

func driverErrorf(tag string, err error) error {
	return fmt.Errorf("driver.%s: %w", tag, err)
}

// resolve checks opts and that its ID belongs to kind.
func resolve(opts *solver.Options, kind solver.Kind) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	k, err := opts.ID.Kind()
	if err != nil {
		return err
	}
	if k != kind {
		return fmt.Errorf("%v is a %v solver, want %v: %w", opts.ID, k, kind, solver.ErrKindMismatch)
	}

	return nil
}

func checkLen(n int, bufs ...[]float64) error {
	for _, b := range bufs {
		if len(b) != n {
			return fmt.Errorf("have %d, want %d: %w", len(b), n, ErrDimension)
		}
	}

	return nil
}

// withWorkspace attaches a workspace of the given size for the call when
// the caller supplied none, runs solve and logs the summary.
func withWorkspace(opts *solver.Options, size solver.WorkspaceSize, solve func() (solver.Info, error)) (solver.Info, error) {
	if opts.Workspace == nil {
		opts.Workspace = solver.NewWorkspace(size)
		defer func() { opts.Workspace = nil }()
	}
	info, err := solve()
	if err != nil {
		return info, err
	}
	opts.Summary(info)

	return info, nil
}

// LCP solves p with the algorithm of opts.ID; z holds the initial guess
// for the iterative algorithms.
//
// Errors: solver.ErrUnknownSolver, solver.ErrKindMismatch, solver.ErrOptions,
// ErrDimension, problem and algorithm contract errors.
func LCP(p *problem.LCP, z, w []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "LCP"
	if err := resolve(opts, solver.KindLCP); err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}
	if err := p.Validate(); err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}
	if err := checkLen(p.Size(), z, w); err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}
	size, err := WorkspaceSize(opts, p.Size(), 0)
	if err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}

	var algo func(*problem.LCP, []float64, []float64, *solver.Options) (solver.Info, error)
	switch opts.ID {
	case solver.LCPPGS:
		algo = lcp.PGS
	case solver.LCPNewtonFB:
		algo = lcp.NewtonFB
	case solver.LCPEnum:
		algo = lcp.Enum
	}

	return withWorkspace(opts, size, func() (solver.Info, error) { return algo(p, z, w, opts) })
}

// FrictionContact solves a 2D or 3D friction-contact problem. The
// algorithm dimension must match p.Dimension: FC2DNSGS for 2D, FC3DNSGS for
// 3D; FC3DTrescaFixedPoint is 3D only; FC3DDeSaxceFixedPoint handles both.
//
// Errors: as LCP, plus solver.ErrKindMismatch on a dimension mismatch.
func FrictionContact(p *problem.FrictionContact, reaction, velocity []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "FrictionContact"
	if err := resolve(opts, solver.KindFrictionContact); err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}
	if err := p.Validate(); err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}
	if err := checkLen(p.Size(), reaction, velocity); err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}
	if d := dimensionOf(opts.ID); d != 0 && d != p.Dimension {
		return solver.NumericalFailure, driverErrorf(tag,
			fmt.Errorf("%v on a %dD problem: %w", opts.ID, p.Dimension, solver.ErrKindMismatch))
	}
	size, err := WorkspaceSize(opts, p.Size(), p.Dimension)
	if err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}

	algo := fc.NSGS
	switch opts.ID {
	case solver.FC3DDeSaxceFixedPoint:
		algo = fc.DeSaxceFixedPoint
	case solver.FC3DTrescaFixedPoint:
		algo = fc.TrescaFixedPoint
	}

	return withWorkspace(opts, size, func() (solver.Info, error) { return algo(p, reaction, velocity, opts) })
}

// dimensionOf returns the contact dimension an algorithm is bound to, 0
// for dimension-agnostic algorithms.
func dimensionOf(id solver.ID) int {
	switch id {
	case solver.FC3DNSGS, solver.FC3DTrescaFixedPoint:
		return 3
	case solver.FC2DNSGS:
		return 2
	default:
		return 0
	}
}

// MLCP solves p once. Direct identifiers run with a fresh configuration
// cache; use MLCPDriver to keep it between calls.
//
// Errors: as LCP, plus mlcp.ErrTooLarge.
func MLCP(p *problem.MLCP, z, w []float64, opts *solver.Options) (solver.Info, error) {
	return NewMLCPDriver().Solve(p, z, w, opts)
}

// SOCLCP solves a second-order cone LCP.
//
// Errors: as LCP.
func SOCLCP(p *problem.SOCLCP, r, u []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "SOCLCP"
	if err := resolve(opts, solver.KindSOCLCP); err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}
	if err := p.Validate(); err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}
	if err := checkLen(p.Size(), r, u); err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}
	size, err := WorkspaceSize(opts, p.Size(), 0)
	if err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}

	return withWorkspace(opts, size, func() (solver.Info, error) { return soclcp.FixedPointProjection(p, r, u, opts) })
}

// MLCPDriver solves a sequence of MLCPs, typically one per time step of a
// simulation, reusing the direct solver's configuration cache. The cache
// is created on first use with capacity opts.IParam[IParamCacheSize]. It
// is not safe for concurrent use.
type MLCPDriver struct {
	direct *mlcp.DirectSolver
}

// NewMLCPDriver returns a driver with no cache yet.
func NewMLCPDriver() *MLCPDriver {
	return &MLCPDriver{}
}

// Direct returns the configuration cache, nil before the first direct solve.
func (d *MLCPDriver) Direct() *mlcp.DirectSolver { return d.direct }

// Solve dispatches p by opts.ID.
func (d *MLCPDriver) Solve(p *problem.MLCP, z, w []float64, opts *solver.Options) (solver.Info, error) {
	const tag = "MLCP"
	if err := resolve(opts, solver.KindMLCP); err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}
	if err := p.Validate(); err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}
	if err := checkLen(p.Size(), z); err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}
	if err := checkLen(p.M, w); err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}
	size, err := WorkspaceSize(opts, p.N, p.M)
	if err != nil {
		return solver.NumericalFailure, driverErrorf(tag, err)
	}

	var algo func() (solver.Info, error)
	switch opts.ID {
	case solver.MLCPPGS:
		algo = func() (solver.Info, error) { return mlcp.PGS(p, z, w, opts) }
	case solver.MLCPNewtonFB:
		algo = func() (solver.Info, error) { return mlcp.NewtonFB(p, z, w, opts) }
	case solver.MLCPEnum:
		algo = func() (solver.Info, error) {
			info, _, err := mlcp.Enumerate(p, z, w, opts)

			return info, err
		}
	case solver.MLCPDirectEnum, solver.MLCPDirectEnumPath:
		if capacity := opts.IParam[solver.IParamCacheSize]; d.direct == nil || d.direct.Capacity() != capacity {
			if capacity <= 0 {
				return solver.NumericalFailure, driverErrorf(tag, fmt.Errorf("cache size %d: %w", capacity, solver.ErrOptions))
			}
			d.direct = mlcp.NewDirectSolver(capacity)
		}
		algo = func() (solver.Info, error) { return d.direct.Solve(p, z, w, opts) }
	}

	return withWorkspace(opts, size, algo)
}
