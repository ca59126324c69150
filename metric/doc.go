// SPDX-License-Identifier: MIT

// Package metric models finite metric spaces over secret indices and the
// Lipschitz (d-privacy) checks built on them.
//
// What & Why:
//
//	A Metric answers Distance(x1,x2) and Chainable(x1,x2). A pair is chainable
//	when its constraint is implied, through the triangle inequality, by
//	strictly shorter non-chainable pairs; such pairs may be skipped by
//	constraint builders and checkers. Pruning is an optimisation only: metrics
//	built from raw functions or matrices prune nothing until WithPruning is
//	applied, so every pair is checked by default.
//
// Constructors:
//
//   - FromFunc, FromMatrix  – arbitrary distances, no pruning.
//   - Discrete              – 0/1 metric (nothing is ever chainable).
//   - Line                  – |x1-x2| on indices; only neighbours are enforced.
//   - Grid                  – Manhattan distance on a width×height grid.
//   - ShortestPath          – Floyd–Warshall closure of a weighted graph.
//   - Scale                 – k·d (pruning preserved).
//
// Checks:
//
//   - IsLipschitz / CheckLipschitz / LipschitzConstant over an output metric
//     (MultReals for |log a - log b|, Euclid for |a-b|).
//   - IsPrivate: every column of a channel is Lipschitz w.r.t. MultReals.
//   - ExactDistance / TightConstraints: the smallest metric a channel satisfies
//     and the constraints that are tight under a given metric.
//
// Complexity:
//
//	Pair loops are O(n²) distance queries; WithPruning and ShortestPath are O(n³).
package metric
