// SPDX-License-Identifier: MIT

package solver

import (
	"context"
	"log/slog"
)

// Iteration is the snapshot handed to a Callback after each outer iteration.
// Solution and Dual alias the solver's buffers: copy them to keep them.
type Iteration struct {
	Solver   ID
	Iter     int
	Error    float64
	Solution []float64
	Dual     []float64
}

// Callback observes iterations; it must not modify the slices.
type Callback func(Iteration)

var discard = slog.New(slog.DiscardHandler)

// Log returns the configured logger, or a discarding one.
func (o *Options) Log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return discard
	}

	return o.Logger
}

// Trace reports one outer iteration: a Debug record when verbose and the
// callback when installed.
func (o *Options) Trace(iter int, err float64, solution, dual []float64) {
	if o.Verbose() > 0 {
		o.Log().Debug("iteration", "solver", o.ID.String(), "iter", iter, "error", err)
	}
	if o.Callback != nil {
		o.Callback(Iteration{Solver: o.ID, Iter: iter, Error: err, Solution: solution, Dual: dual})
	}
}

// Summary logs the outcome of a solve at Info level (Warn when it failed).
func (o *Options) Summary(info Info) {
	level := slog.LevelInfo
	if info != Success {
		level = slog.LevelWarn
	}
	if o.Verbose() > 0 || info != Success {
		o.Log().Log(context.Background(), level, "solve finished",
			"solver", o.ID.String(),
			"info", info.String(),
			"iter", o.Iterations(),
			"error", o.Residual())
	}
}
