// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"

	"github.com/katalvlaran/qifsynth/numeric"
)

// reduction is a presolved program together with the map back to the
// original variables.
type reduction[T any] struct {
	prog   *Program[T]
	keep   []int // reduced variable -> original variable
	fixed  []T   // values of every original variable; kept ones are overwritten
	status Status
	reason error
}

// restore expands a reduced solution to the original variables.
func (r reduction[T]) restore(x []T) []T {
	out := make([]T, len(r.fixed))
	copy(out, r.fixed)
	for k, j := range r.keep {
		out[j] = x[k]
	}

	return out
}

// presolve drops rows without nonzero coefficients and fixes variables that
// no remaining row references at their optimal bound. Only exact zeros count
// as missing; tiny coefficients are kept.
//
// An empty row whose relation fails for 0 makes the program infeasible. An
// unreferenced variable with an improving linear coefficient and no
// quadratic penalty makes it unbounded.
//
// Complexity: O(R·K + V) for R rows of K terms and V variables.
func presolve[T any](dom numeric.Domain[T], p *Program[T]) reduction[T] {
	zero := dom.Zero()
	referenced := make([]bool, p.NumVars)
	rows := make([]Row[T], 0, len(p.Rows))
	for i, r := range p.Rows {
		terms := make([]Term[T], 0, len(r.Terms))
		for _, t := range r.Terms {
			if dom.Float(t.Coef) != 0 {
				terms = append(terms, t)
			}
		}
		if len(terms) == 0 {
			if !r.Satisfied(dom, zero) {
				return reduction[T]{
					status: StatusInfeasible,
					reason: fmt.Errorf("row %d reads 0 %v %s: %w", i, r.Op, dom.String(r.RHS), ErrInfeasible),
				}
			}

			continue
		}
		for _, t := range terms {
			referenced[t.Var] = true
		}
		rows = append(rows, Row[T]{Terms: terms, Op: r.Op, RHS: r.RHS})
	}

	red := reduction[T]{fixed: make([]T, p.NumVars)}
	index := make([]int, p.NumVars)
	for j := 0; j < p.NumVars; j++ {
		red.fixed[j] = zero
		if referenced[j] {
			index[j] = len(red.keep)
			red.keep = append(red.keep, j)
			continue
		}
		v, ok := freeOptimum(dom, p, j)
		if !ok {
			red.status = StatusUnbounded
			red.reason = fmt.Errorf("variable %d is unconstrained and improving: %w", j, ErrUnbounded)

			return red
		}
		red.fixed[j] = v
	}

	out := &Program[T]{
		NumVars:   len(red.keep),
		Sense:     p.Sense,
		Objective: make([]T, len(red.keep)),
		Rows:      rows,
	}
	if len(p.Quad) > 0 {
		out.Quad = make([]T, len(red.keep))
	}
	for k, j := range red.keep {
		out.Objective[k] = p.Objective[j]
		if out.Quad != nil {
			out.Quad[k] = p.Quad[j]
		}
	}
	for i := range out.Rows {
		for t := range out.Rows[i].Terms {
			out.Rows[i].Terms[t].Var = index[out.Rows[i].Terms[t].Var]
		}
	}
	red.prog = out

	return red
}

// freeOptimum returns the best value of variable j over [0, +inf) when no
// row constrains it.
func freeOptimum[T any](dom numeric.Domain[T], p *Program[T], j int) (T, bool) {
	c := p.Objective[j]
	if p.Sense == Maximize {
		c = dom.Neg(c)
	}
	if len(p.Quad) > 0 && !numeric.IsZero(dom, p.Quad[j]) {
		// argmin of ½·q·v² + c·v over v ≥ 0
		v := dom.Div(dom.Neg(c), p.Quad[j])
		if numeric.IsNegative(dom, v) {
			return dom.Zero(), true
		}

		return v, true
	}
	if numeric.IsNegative(dom, c) {
		return dom.Zero(), false
	}

	return dom.Zero(), true
}

// identityReduction wraps p without changes.
func identityReduction[T any](dom numeric.Domain[T], p *Program[T]) reduction[T] {
	red := reduction[T]{prog: p, keep: make([]int, p.NumVars), fixed: make([]T, p.NumVars)}
	for j := range red.keep {
		red.keep[j] = j
		red.fixed[j] = dom.Zero()
	}

	return red
}
