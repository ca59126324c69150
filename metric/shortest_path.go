// SPDX-License-Identifier: MIT
// Package metric: graph (shortest-path) metrics.
//
// Purpose:
//   - Close a weighted adjacency matrix under shortest paths (Floyd–Warshall)
//     and expose the closure as a Metric.
//
// Contract:
//   - Square adjacency; an off-diagonal entry that is zero or Inf means "no edge".
//   - Negative weights are rejected (distances must be non-negative).
//   - Unreachable pairs get Inf, which constraint builders treat as "no constraint".

package metric

import (
	"fmt"

	"github.com/katalvlaran/qifsynth/numeric"
)

const opShortestPath = "ShortestPath"

// ShortestPath returns the shortest-path metric of the weighted graph given
// by adj, with chainability derived exhaustively (see WithPruning): on a
// graph metric only pairs whose direct edge is the unique shortest path
// remain enforced.
//
// Complexity: O(n³) time, O(n²) memory.
func ShortestPath[T any](dom numeric.Domain[T], adj [][]T) (Metric[T], error) {
	n := len(adj)
	if n == 0 {
		return Metric[T]{}, ErrEmpty
	}
	dist := make([]T, n*n)
	if err := initDistances(dom, adj, dist); err != nil {
		return Metric[T]{}, fmt.Errorf("%s: %w", opShortestPath, err)
	}
	floydWarshallInPlace(dom, dist, n)

	m := Metric[T]{
		dist: func(x1, x2 int) T { return dist[x1*n+x2] },
		size: n,
	}

	return WithPruning(dom, m, n), nil
}

// initDistances converts adjacency (0 / Inf / w) into a distance buffer:
// diagonal 0, missing edges Inf, weights unchanged.
// Complexity: O(n²).
func initDistances[T any](dom numeric.Domain[T], adj [][]T, dist []T) error {
	n := len(adj)
	var (
		i, j int
		w    T
	)
	for i = 0; i < n; i++ {
		if len(adj[i]) != n {
			return fmt.Errorf("row %d has %d entries, want %d: %w", i, len(adj[i]), n, ErrNonSquare)
		}
		for j = 0; j < n; j++ {
			if i == j {
				dist[i*n+j] = dom.Zero()

				continue
			}
			w = adj[i][j]
			if numeric.IsNegative(dom, w) {
				return fmt.Errorf("edge (%d,%d) = %s: %w", i, j, dom.String(w), ErrNegativeDistance)
			}
			if numeric.IsZero(dom, w) {
				dist[i*n+j] = dom.Inf()

				continue
			}
			dist[i*n+j] = w
		}
	}

	return nil
}

// floydWarshallInPlace runs the APSP closure on a row-major n×n buffer.
//
// Loop order is fixed (k → i → j) and only strict improvements are written,
// so accumulation is deterministic. Inf entries are skipped, never added.
// Time: O(n³); extra space: O(1).
func floydWarshallInPlace[T any](dom numeric.Domain[T], data []T, n int) {
	var (
		k, i, j      int
		baseK, baseI int
		ik, kj, cand T
	)
	for k = 0; k < n; k++ {
		baseK = k * n
		for i = 0; i < n; i++ {
			ik = data[i*n+k]
			if dom.IsInf(ik) {
				continue
			}
			baseI = i * n
			for j = 0; j < n; j++ {
				kj = data[baseK+j]
				if dom.IsInf(kj) {
					continue
				}
				cand = dom.Add(ik, kj)
				if dom.Less(cand, data[baseI+j]) {
					data[baseI+j] = cand
				}
			}
		}
	}
}
