// SPDX-License-Identifier: MIT
// Package metric: the Metric value and its constructors.
//
// Contract:
//   - Distance is non-negative with d(x,x) = 0 (checked by Validate, not enforced).
//   - Symmetry is a convention; checkers query the ordered pair they need.
//   - Chainable never reports a pair whose implying chain is not made of
//     strictly shorter pairs, so pruning is well-founded.

package metric

import (
	"fmt"

	"github.com/katalvlaran/qifsynth/numeric"
)

// Metric is a distance over point indices 0..Size()-1 (or all indices when
// Size() == 0), optionally carrying chainability information.
type Metric[T any] struct {
	dist  func(x1, x2 int) T
	chain func(x1, x2 int) bool // nil: nothing is pruned
	size  int                   // 0: unbounded
}

// FromFunc wraps a distance function. No pair is chainable.
func FromFunc[T any](d func(x1, x2 int) T) Metric[T] {
	return Metric[T]{dist: d}
}

// FromMatrix builds a metric from an explicit n×n distance matrix (copied).
// No pair is chainable; apply WithPruning to derive chainability.
func FromMatrix[T any](rows [][]T) (Metric[T], error) {
	n := len(rows)
	if n == 0 {
		return Metric[T]{}, ErrEmpty
	}
	flat := make([]T, 0, n*n)
	for i, r := range rows {
		if len(r) != n {
			return Metric[T]{}, fmt.Errorf("FromMatrix: row %d has %d entries, want %d: %w", i, len(r), n, ErrNonSquare)
		}
		flat = append(flat, r...)
	}

	return Metric[T]{
		dist: func(x1, x2 int) T { return flat[x1*n+x2] },
		size: n,
	}, nil
}

// Discrete is the 0/1 metric: d(x1,x2) = 1 iff x1 != x2.
// d(x1,z)+d(z,x2) = 2 > 1, so nothing is chainable.
func Discrete[T any](dom numeric.Domain[T]) Metric[T] {
	zero, one := dom.Zero(), dom.One()

	return Metric[T]{dist: func(x1, x2 int) T {
		if x1 == x2 {
			return zero
		}

		return one
	}}
}

// Line is the Euclidean metric on indices placed on a line: d = |x1-x2|.
// Only neighbours (|x1-x2| = 1) are enforced; every farther pair is implied
// by the chain of neighbours between them.
func Line[T any](dom numeric.Domain[T]) Metric[T] {
	return Metric[T]{
		dist:  func(x1, x2 int) T { return dom.FromInt(int64(absInt(x1 - x2))) },
		chain: func(x1, x2 int) bool { return absInt(x1-x2) > 1 },
	}
}

// Grid is the Manhattan metric on a width×height grid; point i is the cell
// (i % width, i / width). Pairs at distance > 1 are chainable through a
// neighbouring cell on a monotone path, which always lies inside the grid.
func Grid[T any](dom numeric.Domain[T], width, height int) (Metric[T], error) {
	if width <= 0 || height <= 0 {
		return Metric[T]{}, fmt.Errorf("Grid(%d,%d): %w", width, height, ErrBadGrid)
	}
	manhattan := func(x1, x2 int) int {
		return absInt(x1%width-x2%width) + absInt(x1/width-x2/width)
	}

	return Metric[T]{
		dist:  func(x1, x2 int) T { return dom.FromInt(int64(manhattan(x1, x2))) },
		chain: func(x1, x2 int) bool { return manhattan(x1, x2) > 1 },
		size:  width * height,
	}, nil
}

// Scale returns k·d. Chainability is preserved: scaling keeps equalities
// d(x1,z)+d(z,x2) = d(x1,x2) intact. k must be non-negative.
func Scale[T any](dom numeric.Domain[T], m Metric[T], k T) Metric[T] {
	inner := m.dist

	return Metric[T]{
		dist: func(x1, x2 int) T {
			d := inner(x1, x2)
			if dom.IsInf(d) {
				return d
			}

			return dom.Mul(k, d)
		},
		chain: m.chain,
		size:  m.size,
	}
}

// WithoutPruning returns m with chainability cleared: every pair is checked.
func WithoutPruning[T any](m Metric[T]) Metric[T] {
	m.chain = nil

	return m
}

// Distance returns d(x1,x2).
func (m Metric[T]) Distance(x1, x2 int) T { return m.dist(x1, x2) }

// Chainable reports whether the (x1,x2) constraint is implied by others.
func (m Metric[T]) Chainable(x1, x2 int) bool {
	if m.chain == nil {
		return false
	}

	return m.chain(x1, x2)
}

// Pruned reports whether the metric carries chainability information.
func (m Metric[T]) Pruned() bool { return m.chain != nil }

// Size returns the number of points, or 0 for metrics defined on all indices.
func (m Metric[T]) Size() int { return m.size }

// Valid reports whether the metric value was built by a constructor.
func (m Metric[T]) Valid() bool { return m.dist != nil }

// Validate checks, over points 0..n-1, that distances are non-negative and
// d(x,x) = 0, and that the metric covers n points.
// Complexity: O(n²) distance queries.
func Validate[T any](dom numeric.Domain[T], m Metric[T], n int) error {
	if !m.Valid() || n <= 0 {
		return ErrEmpty
	}
	if m.size > 0 && m.size < n {
		return fmt.Errorf("Validate: metric has %d points, domain %d: %w", m.size, n, ErrDimensionMismatch)
	}
	var x1, x2 int
	for x1 = 0; x1 < n; x1++ {
		if d := m.dist(x1, x1); !numeric.IsZero(dom, d) {
			return fmt.Errorf("Validate: d(%d,%d) = %s: %w", x1, x1, dom.String(d), ErrNonZeroSelfDistance)
		}
		for x2 = 0; x2 < n; x2++ {
			if d := m.dist(x1, x2); numeric.IsNegative(dom, d) {
				return fmt.Errorf("Validate: d(%d,%d) = %s: %w", x1, x2, dom.String(d), ErrNegativeDistance)
			}
		}
	}

	return nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
