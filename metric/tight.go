// SPDX-License-Identifier: MIT
// Package metric: reverse engineering metrics from channels.

package metric

import (
	"github.com/katalvlaran/qifsynth/numeric"
	"github.com/katalvlaran/qifsynth/prob"
)

// Constraint names one d-privacy inequality C[X1,Y] <= e^{d(X1,X2)}·C[X2,Y].
type Constraint struct {
	X1, X2, Y int
}

// ExactDistance returns the smallest metric under which c is private:
//
//	d(x1,x2) = max_y |log C[x1,y] - log C[x2,y]|
//
// Rows that agree on their zero pattern get a finite distance; a zero
// facing a non-zero entry gives Inf. Under the returned metric every
// non-identical pair has at least one tight constraint.
// The metric is computed in float64 and converted into the domain.
// Complexity: O(n²·m).
func ExactDistance[T any](dom numeric.Domain[T], c prob.Channel[T]) (Metric[T], error) {
	n, m := c.Rows(), c.Cols()
	if n == 0 || m == 0 {
		return Metric[T]{}, ErrEmpty
	}
	out := MultReals[T]{}
	rows := make([][]T, n)
	for x1 := 0; x1 < n; x1++ {
		rows[x1] = make([]T, n)
		for x2 := 0; x2 < n; x2++ {
			best := 0.0
			for y := 0; y < m && x1 != x2; y++ {
				if d := out.Distance(dom, c.At(x1, y), c.At(x2, y)); d > best {
					best = d
				}
			}
			rows[x1][x2] = dom.FromFloat(best)
		}
	}

	return FromMatrix(rows)
}

// TightConstraints lists the non-chainable constraints of d-privacy that c
// meets with equality: C[x1,y] = e^{d(x1,x2)}·C[x2,y] with C[x2,y] > 0.
// Order: x1 ascending, then x2, then y.
// Complexity: O(n²·m).
func TightConstraints[T any](dom numeric.Domain[T], c prob.Channel[T], d Metric[T]) []Constraint {
	var out []Constraint
	n, m := c.Rows(), c.Cols()
	for x1 := 0; x1 < n; x1++ {
		for x2 := 0; x2 < n; x2++ {
			if x1 == x2 || d.Chainable(x1, x2) {
				continue
			}
			dist := d.Distance(x1, x2)
			if dom.IsInf(dist) {
				continue
			}
			r := dom.Exp(dist)
			for y := 0; y < m; y++ {
				c2 := c.At(x2, y)
				if numeric.IsZero(dom, c2) {
					continue
				}
				if dom.Equal(c.At(x1, y), dom.Mul(r, c2)) {
					out = append(out, Constraint{X1: x1, X2: x2, Y: y})
				}
			}
		}
	}

	return out
}
