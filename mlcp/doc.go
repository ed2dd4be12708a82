// SPDX-License-Identifier: MIT

// Package mlcp solves mixed linear complementarity problems
//
//	A u + C v + a = 0
//	D u + B v + b = w,   0 ≤ v ⟂ w ≥ 0
//
// with the unknown vector z = [u; v] and the complementary slack w.
//
// Algorithms:
//   - Enumerate: every one of the 2^m sign configurations, one LU solve each.
//   - DirectSolver: a warm-started chain. Cached configurations (with their
//     LU factors) are tried first, most recent first; on a miss it falls back
//     to Enumerate and, for MLCP_DIRECT_ENUM_PATH, to the Fischer-Burmeister
//     Newton method. The winning configuration is cached in a bounded LRU.
//   - PGS: projected Gauss-Seidel.
//   - NewtonFB: Newton-LSA on [A u + C v + a; φ_FB(v, D u + B v + b)].
//
// A configuration marks, per complementarity pair, which member is pinned to
// zero. Consecutive time steps rarely change it, which is what the direct
// cache exploits.
package mlcp
