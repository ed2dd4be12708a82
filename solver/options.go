// SPDX-License-Identifier: MIT

// Package solver: Options record and functional configuration.
//
// This file defines:
//   - the iparam/dparam slot constants (single source of truth),
//   - per-algorithm defaults (New),
//   - WithX constructors with strong validation (panic on nonsensical values).
package solver

import (
	"fmt"
	"log/slog"
	"math"
)

// Integer parameter slots.
const (
	IParamMaxIter       = 0 // in: iteration cap
	IParamVerbose       = 1 // in: 0 silent, >0 per-iteration Debug records
	IParamErrorMode     = 2 // in: NSGS error evaluation (ErrorFull, ErrorLightWithFinal, ErrorLight)
	IParamRelax         = 3 // in: 1 enables relaxation with DParamRelax
	IParamShuffle       = 4 // in: NSGS contact order (ShuffleNone, ShuffleOnce, ShuffleEachSweep)
	IParamSeed          = 5 // in: shuffle seed
	IParamCacheSize     = 6 // in: MLCP direct configuration cache capacity
	IParamIter          = 7 // out: iterations performed
	IParamNonMonotone   = 8 // in: Newton-LSA nonmonotone memory (0 = monotone Armijo)
	IParamLocalFailures = 9 // out: local solves that did not converge

	IParamSize = 10
)

// Float parameter slots.
const (
	DParamTol      = 0 // in: tolerance
	DParamResidual = 1 // out: final error
	DParamRelax    = 2 // in: relaxation factor ω in (0, 2)
	DParamTolNeg   = 3 // in: MLCP tolerance on negative complementary values
	DParamTolPos   = 4 // in: MLCP threshold deciding w_j > 0 when caching
	DParamRho      = 5 // in: step / regularization parameter ρ

	DParamSize = 6
)

// NSGS error modes (IParamErrorMode).
const (
	ErrorFull           = 0 // full error after every sweep
	ErrorLightWithFinal = 1 // incremental ‖Δr‖/‖r‖ each sweep, full error at the end
	ErrorLight          = 2 // incremental only
)

// NSGS contact orderings (IParamShuffle).
const (
	ShuffleNone      = 0
	ShuffleOnce      = 1
	ShuffleEachSweep = 2
)

// Defaults.
const (
	DefaultMaxIter      = 1000
	DefaultTolerance    = 1e-4
	DefaultLocalMaxIter = 10
	DefaultLocalTol     = 1e-14
	DefaultRelaxation   = 1.0
	DefaultCacheSize    = 10
	DefaultTolNeg       = 1e-10
	DefaultTolPos       = 1e-10
	DefaultRho          = 1.0
)

const (
	panicMaxIter    = "solver: WithMaxIter: cap must be >= 0"
	panicTolerance  = "solver: WithTolerance: tolerance must be finite and > 0"
	panicRelaxation = "solver: WithRelaxation: omega must lie in (0, 2)"
	panicShuffle    = "solver: WithShuffle: unknown mode"
	panicErrorMode  = "solver: WithErrorMode: unknown mode"
	panicCacheSize  = "solver: WithCacheSize: capacity must be > 0"
	panicRho        = "solver: WithRho: rho must be finite and > 0"
	panicLocal      = "solver: WithLocalSolver: not a local solver"
	panicNoInternal = "solver: option needs internal solver options"
)

// Options configures one solve.
type Options struct {
	ID     ID
	IParam []int
	DParam []float64

	// Internal configures the nested (local) solver, when the algorithm has one.
	Internal *Options

	// Workspace is the scratch arena handed to the algorithm. When nil the
	// algorithm allocates one of the size reported by the dispatch layer.
	Workspace *Workspace

	// Logger receives iteration traces; nil means discard.
	Logger *slog.Logger

	// Callback is invoked once per outer iteration.
	Callback Callback
}

// Option mutates Options during New.
type Option func(*Options)

// New builds options for id with its defaults, then applies opts.
//
// Errors: ErrUnknownSolver.
func New(id ID, opts ...Option) (*Options, error) {
	kind, err := id.Kind()
	if err != nil {
		return nil, err
	}
	o := defaults(id, kind)
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	return o, nil
}

// MustNew is New for identifiers known at compile time; it panics on error.
func MustNew(id ID, opts ...Option) *Options {
	o, err := New(id, opts...)
	if err != nil {
		panic(err)
	}

	return o
}

func defaults(id ID, kind Kind) *Options {
	o := &Options{
		ID:     id,
		IParam: make([]int, IParamSize),
		DParam: make([]float64, DParamSize),
	}
	o.IParam[IParamMaxIter] = DefaultMaxIter
	o.DParam[DParamTol] = DefaultTolerance
	o.DParam[DParamRelax] = DefaultRelaxation
	o.DParam[DParamTolNeg] = DefaultTolNeg
	o.DParam[DParamTolPos] = DefaultTolPos
	o.DParam[DParamRho] = DefaultRho
	o.IParam[IParamCacheSize] = DefaultCacheSize

	switch {
	case kind == KindLocal:
		o.IParam[IParamMaxIter] = DefaultLocalMaxIter
		o.DParam[DParamTol] = DefaultLocalTol
	case id == FC3DNSGS:
		o.Internal = defaults(FC3DAlartCurnierNewton, KindLocal)
	case id == FC2DNSGS:
		o.Internal = defaults(FC2DProjectionOnCone, KindLocal)
	case id == FC3DTrescaFixedPoint:
		// NSGS on the Tresca cylinders, checked by its own increments
		o.Internal = defaults(FC3DNSGS, KindFrictionContact)
		o.Internal.IParam[IParamErrorMode] = ErrorLight
		o.Internal.Internal = defaults(FC3DProjectionOnCylinder, KindLocal)
	case id == FC3DDeSaxceFixedPoint, id == SOCLCPFixedPointProjection:
		o.IParam[IParamMaxIter] = 20000
	case id == LCPPGS, id == MLCPPGS:
		o.DParam[DParamTol] = 1e-6
	case id == LCPNewtonFB, id == MLCPNewtonFB:
		o.DParam[DParamTol] = 1e-10
		o.IParam[IParamMaxIter] = 100
	case id == LCPEnum, id == MLCPEnum, id == MLCPDirectEnum, id == MLCPDirectEnumPath:
		o.DParam[DParamTol] = 1e-12
	}

	return o
}

// Validate checks the parameter arrays (recursively through Internal).
//
// Errors: ErrOptions, ErrUnknownSolver.
func (o *Options) Validate() error {
	if o == nil {
		return fmt.Errorf("nil options: %w", ErrOptions)
	}
	if !o.ID.Known() {
		return fmt.Errorf("%v: %w", o.ID, ErrUnknownSolver)
	}
	if len(o.IParam) < IParamSize || len(o.DParam) < DParamSize {
		return fmt.Errorf("%v: parameter arrays too short: %w", o.ID, ErrOptions)
	}
	if o.IParam[IParamMaxIter] < 0 || !(o.DParam[DParamTol] > 0) {
		return fmt.Errorf("%v: iteration cap or tolerance: %w", o.ID, ErrOptions)
	}
	if o.Internal != nil {
		return o.Internal.Validate()
	}

	return nil
}

// Clone returns a deep copy. The workspace, logger and callback are shared.
func (o *Options) Clone() *Options {
	c := *o
	c.IParam = append([]int(nil), o.IParam...)
	c.DParam = append([]float64(nil), o.DParam...)
	if o.Internal != nil {
		c.Internal = o.Internal.Clone()
	}

	return &c
}

// MaxIter returns iparam[IParamMaxIter].
func (o *Options) MaxIter() int { return o.IParam[IParamMaxIter] }

// Tolerance returns dparam[DParamTol].
func (o *Options) Tolerance() float64 { return o.DParam[DParamTol] }

// Verbose returns iparam[IParamVerbose].
func (o *Options) Verbose() int { return o.IParam[IParamVerbose] }

// SetResult stores the output slots.
func (o *Options) SetResult(iter int, residual float64) {
	o.IParam[IParamIter] = iter
	o.DParam[DParamResidual] = residual
}

// Iterations returns the output iteration count.
func (o *Options) Iterations() int { return o.IParam[IParamIter] }

// Residual returns the output error.
func (o *Options) Residual() float64 { return o.DParam[DParamResidual] }

// Err converts info into a *SolveError carrying the output slots, or nil.
func (o *Options) Err(info Info) error {
	if info == Success {
		return nil
	}

	return &SolveError{Solver: o.ID, Info: info, Iteration: o.Iterations(), Residual: o.Residual()}
}

// ---------- Constructors (WithX) ----------

// WithMaxIter sets the iteration cap.
func WithMaxIter(n int) Option {
	if n < 0 {
		panic(panicMaxIter)
	}

	return func(o *Options) { o.IParam[IParamMaxIter] = n }
}

// WithTolerance sets the stopping tolerance.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 1) {
		panic(panicTolerance)
	}

	return func(o *Options) { o.DParam[DParamTol] = tol }
}

// WithVerbose sets the verbosity level.
func WithVerbose(level int) Option {
	return func(o *Options) { o.IParam[IParamVerbose] = level }
}

// WithRelaxation enables relaxation r ← ω r_new + (1-ω) r_old.
func WithRelaxation(omega float64) Option {
	if !(omega > 0 && omega < 2) {
		panic(panicRelaxation)
	}

	return func(o *Options) {
		o.IParam[IParamRelax] = 1
		o.DParam[DParamRelax] = omega
	}
}

// WithShuffle selects the NSGS contact ordering and its seed.
func WithShuffle(mode int, seed int) Option {
	if mode < ShuffleNone || mode > ShuffleEachSweep {
		panic(panicShuffle)
	}

	return func(o *Options) {
		o.IParam[IParamShuffle] = mode
		o.IParam[IParamSeed] = seed
	}
}

// WithErrorMode selects how NSGS evaluates its error.
func WithErrorMode(mode int) Option {
	if mode < ErrorFull || mode > ErrorLight {
		panic(panicErrorMode)
	}

	return func(o *Options) { o.IParam[IParamErrorMode] = mode }
}

// WithCacheSize sets the MLCP direct configuration cache capacity.
func WithCacheSize(n int) Option {
	if n <= 0 {
		panic(panicCacheSize)
	}

	return func(o *Options) { o.IParam[IParamCacheSize] = n }
}

// WithNonMonotone sets the Newton-LSA nonmonotone memory length.
func WithNonMonotone(m int) Option {
	return func(o *Options) {
		if m < 0 {
			m = 0
		}
		o.IParam[IParamNonMonotone] = m
	}
}

// WithRho sets the step / regularization parameter.
func WithRho(rho float64) Option {
	if !(rho > 0) || math.IsInf(rho, 1) {
		panic(panicRho)
	}

	return func(o *Options) { o.DParam[DParamRho] = rho }
}

// WithLocalSolver replaces the internal options by the defaults of id.
func WithLocalSolver(id ID) Option {
	if k, err := id.Kind(); err != nil || k != KindLocal {
		panic(panicLocal)
	}

	return func(o *Options) { o.Internal = defaults(id, KindLocal) }
}

// WithLocalTolerance sets the internal solver tolerance.
func WithLocalTolerance(tol float64) Option {
	set := WithTolerance(tol)

	return func(o *Options) {
		if o.Internal == nil {
			panic(panicNoInternal)
		}
		set(o.Internal)
	}
}

// WithLocalMaxIter sets the internal solver iteration cap.
func WithLocalMaxIter(n int) Option {
	set := WithMaxIter(n)

	return func(o *Options) {
		if o.Internal == nil {
			panic(panicNoInternal)
		}
		set(o.Internal)
	}
}

// WithLogger routes traces to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithCallback installs an iteration callback.
func WithCallback(cb Callback) Option {
	return func(o *Options) { o.Callback = cb }
}

// WithWorkspace hands a pre-sized workspace to the solve.
func WithWorkspace(ws *Workspace) Option {
	return func(o *Options) { o.Workspace = ws }
}
