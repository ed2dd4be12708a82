// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for matrix construction and
// factorization. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal).
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultValidateNaNInf toggles strict finite-value validation on Set and ingestion.
	DefaultValidateNaNInf = true

	// DefaultConditionLimit is the largest reciprocal-condition estimate
	// accepted by Factorize before a system is declared singular.
	// gonum's mat.ConditionTolerance is 1e16; a tighter limit keeps
	// near-singular pivots out of enumeration and Newton steps.
	DefaultConditionLimit = 1e14
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicConditionLimitInvalid = "matrix: WithConditionLimit: limit must be finite and > 1"
)

// Option mutates internal options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	validateNaNInf bool    // DefaultValidateNaNInf
	conditionLimit float64 // DefaultConditionLimit
}

// WithValidateNaNInf switches the finite-value guard of Set/NewDenseFrom on or off.
//
// Notes:
//   - Applies to newly created matrices only; existing matrices keep their policy.
func WithValidateNaNInf(on bool) Option {
	return func(o *Options) { o.validateNaNInf = on }
}

// WithConditionLimit sets the condition-number ceiling used by Factorize.
// Panics when limit is NaN, infinite or not greater than 1.
func WithConditionLimit(limit float64) Option {
	if math.IsNaN(limit) || math.IsInf(limit, 0) || limit <= 1 {
		panic(panicConditionLimitInvalid)
	}

	return func(o *Options) { o.conditionLimit = limit }
}

// gatherOptions resolves defaults and then applies opts in order (last wins).
func gatherOptions(opts ...Option) Options {
	o := Options{
		validateNaNInf: DefaultValidateNaNInf,
		conditionLimit: DefaultConditionLimit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
