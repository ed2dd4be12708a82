// SPDX-License-Identifier: MIT

// Package driver is the single entry point per problem family.
//
// Every call follows the same sequence:
//
//  1. resolve opts.ID: unknown identifiers fail with solver.ErrUnknownSolver
//     and identifiers of another family with solver.ErrKindMismatch, both
//     before any iteration;
//  2. validate the problem and the caller's buffers;
//  3. when opts.Workspace is nil, allocate one of WorkspaceSize for the
//     duration of the call;
//  4. run the algorithm and log a summary through opts.Logger.
//
// The returned solver.Info is the numerical outcome (Success, NoConvergence,
// NumericalFailure); the error is reserved for contract violations.
//
// MLCPDriver keeps the configuration cache of the direct MLCP solvers
// between calls; the package-level MLCP function starts from an empty cache
// every time.
package driver
