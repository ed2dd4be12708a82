// SPDX-License-Identifier: MIT

package driver

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/nonsmooth/fc"
	"github.com/katalvlaran/nonsmooth/lcp"
	"github.com/katalvlaran/nonsmooth/mlcp"
	"github.com/katalvlaran/nonsmooth/soclcp"
	"github.com/katalvlaran/nonsmooth/solver"
)

// WorkspaceSize returns the scratch opts.ID needs. The meaning of n and m
// depends on the family:
//
//	LCP, SOCLCP:       n unknowns, m ignored;
//	friction contact:  n unknowns, m the contact dimension (2 or 3);
//	MLCP:              n equality rows, m complementarity rows.
//
// The direct MLCP solvers are sized for opts.IParam[IParamCacheSize]
// cached configurations, Newton-FB and the path stage of
// MLCPDirectEnumPath for opts.IParam[IParamNonMonotone].
//
// Errors: solver.ErrUnknownSolver, solver.ErrOptions (negative sizes, bad
// contact dimension, missing or non-local internal solver).
func WorkspaceSize(opts *solver.Options, n, m int) (solver.WorkspaceSize, error) {
	if err := opts.Validate(); err != nil {
		return solver.WorkspaceSize{}, err
	}
	if n < 0 || m < 0 {
		return solver.WorkspaceSize{}, fmt.Errorf("sizes %d, %d: %w", n, m, solver.ErrOptions)
	}
	memory := opts.IParam[solver.IParamNonMonotone]

	switch opts.ID {
	case solver.LCPPGS:
		return lcp.PGSWorkspaceSize(n), nil
	case solver.LCPNewtonFB:
		return lcp.NewtonFBWorkspaceSize(n, memory), nil
	case solver.LCPEnum:
		return lcp.EnumWorkspaceSize(n), nil

	case solver.FC3DNSGS, solver.FC2DNSGS, solver.FC3DDeSaxceFixedPoint:
		if m != 2 && m != 3 || n%m != 0 {
			return solver.WorkspaceSize{}, fmt.Errorf("%v: %d unknowns of dimension %d: %w", opts.ID, n, m, solver.ErrOptions)
		}
		if opts.ID == solver.FC3DDeSaxceFixedPoint {
			return fc.DeSaxceFixedPointWorkspaceSize(n/m, m), nil
		}
		if opts.Internal == nil {
			return solver.WorkspaceSize{}, fmt.Errorf("%v: no local solver: %w", opts.ID, solver.ErrOptions)
		}
		if k, _ := opts.Internal.ID.Kind(); k != solver.KindLocal {
			return solver.WorkspaceSize{}, fmt.Errorf("%v: internal %v: %w", opts.ID, opts.Internal.ID, solver.ErrKindMismatch)
		}

		return fc.NSGSWorkspaceSize(n/m, m), nil

	case solver.FC3DTrescaFixedPoint:
		if m != 3 || n%m != 0 {
			return solver.WorkspaceSize{}, fmt.Errorf("%v: %d unknowns of dimension %d: %w", opts.ID, n, m, solver.ErrOptions)
		}
		if opts.Internal == nil || opts.Internal.ID != solver.FC3DNSGS || opts.Internal.Internal == nil {
			return solver.WorkspaceSize{}, fmt.Errorf("%v: needs inner %v with a local solver: %w", opts.ID, solver.FC3DNSGS, solver.ErrOptions)
		}

		return fc.TrescaFixedPointWorkspaceSize(n / m), nil

	case solver.MLCPPGS:
		return mlcp.PGSWorkspaceSize(n, m), nil
	case solver.MLCPNewtonFB:
		return mlcp.NewtonFBWorkspaceSize(n, m, memory), nil
	case solver.MLCPEnum:
		return mlcp.EnumerateWorkspaceSize(n, m), nil
	case solver.MLCPDirectEnum:
		return mlcp.DirectEnumWorkspaceSize(n, m, opts.IParam[solver.IParamCacheSize]), nil
	case solver.MLCPDirectEnumPath:
		return mlcp.DirectEnumPathWorkspaceSize(n, m, opts.IParam[solver.IParamCacheSize], memory), nil

	case solver.SOCLCPFixedPointProjection:
		return soclcp.WorkspaceSize(n), nil
	}

	// local solvers work on stack buffers
	return solver.WorkspaceSize{}, nil
}

// NewWorkspace allocates the workspace of WorkspaceSize, to be installed
// with solver.WithWorkspace and reused across solves of the same shape.
func NewWorkspace(opts *solver.Options, n, m int) (*solver.Workspace, error) {
	size, err := WorkspaceSize(opts, n, m)
	if err != nil {
		return nil, err
	}

	return solver.NewWorkspace(size), nil
}

// Algorithms lists the registered solver names of the global families,
// sorted.
func Algorithms() []string {
	var out []string
	for _, k := range []solver.Kind{solver.KindLCP, solver.KindFrictionContact, solver.KindMLCP, solver.KindSOCLCP} {
		for _, id := range solver.IDs(k) {
			out = append(out, id.String())
		}
	}
	sort.Strings(out)

	return out
}

// ByName builds default options for a registered solver name.
//
// Errors: solver.ErrUnknownSolver.
func ByName(name string, opts ...solver.Option) (*solver.Options, error) {
	id, err := solver.Lookup(name)
	if err != nil {
		return nil, err
	}

	return solver.New(id, opts...)
}
