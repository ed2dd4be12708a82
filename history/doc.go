// SPDX-License-Identifier: MIT

// Package history records per-iteration errors of a solve and renders
// convergence charts.
//
// A Recorder plugs into solver.WithCallback; Chart draws one line per
// recorded series on a logarithmic error axis and WritePNG rasterizes it.
package history
