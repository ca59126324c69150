// SPDX-License-Identifier: MIT
// Package metric: exhaustive chainability derivation.

package metric

import "github.com/katalvlaran/qifsynth/numeric"

// WithPruning derives chainability for points 0..n-1 by exhaustive search:
// (x1,x2) is chainable iff some z ∉ {x1,x2} satisfies
//
//	d(x1,z) > 0, d(z,x2) > 0 and d(x1,z) + d(z,x2) = d(x1,x2)
//
// exactly: no tolerance is applied to the sum, so a pruned pair is implied
// without slack. A float sum that rounds away from d(x1,x2) only costs
// pruning. Requiring both legs to be strictly positive
// makes every leg strictly shorter than the pair it implies, so a chainable
// pair is always implied by non-chainable ones (induction on distance).
// Pairs at infinite distance are never chainable.
//
// Determinism: fixed x1→x2→z loop order; the result is a precomputed table.
// Complexity: O(n³) distance queries, O(n²) memory.
func WithPruning[T any](dom numeric.Domain[T], m Metric[T], n int) Metric[T] {
	if n <= 0 {
		return WithoutPruning(m)
	}
	table := make([]bool, n*n)
	var (
		x1, x2, z     int
		d12, d1z, dz2 T
	)
	for x1 = 0; x1 < n; x1++ {
		for x2 = 0; x2 < n; x2++ {
			if x1 == x2 {
				continue
			}
			d12 = m.dist(x1, x2)
			if dom.IsInf(d12) {
				continue
			}
			for z = 0; z < n; z++ {
				if z == x1 || z == x2 {
					continue
				}
				d1z, dz2 = m.dist(x1, z), m.dist(z, x2)
				if numeric.IsZero(dom, d1z) || numeric.IsZero(dom, dz2) {
					continue
				}
				if sameDistance(dom, dom.Add(d1z, dz2), d12) {
					table[x1*n+x2] = true

					break
				}
			}
		}
	}
	m.chain = func(a, b int) bool {
		if a < 0 || a >= n || b < 0 || b >= n {
			return false
		}

		return table[a*n+b]
	}

	return m
}

// sameDistance compares without tolerance.
func sameDistance[T any](dom numeric.Domain[T], a, b T) bool {
	if dom.Exact() {
		return dom.Equal(a, b)
	}

	return dom.Float(a) == dom.Float(b)
}
