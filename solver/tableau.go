// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/qifsynth/numeric"
)

// pivotBudgetFactor bounds the pivots of one phase to factor·(rows+cols).
// Bland's rule cannot cycle in exact arithmetic; the budget only guards
// tolerance-induced stalls in float domains.
const pivotBudgetFactor = 50

// Tableau is a dense two-phase simplex generic over the numeric domain.
//
// Entering columns and leaving rows are chosen by Bland's rule (lowest
// index), so results are deterministic and, with numeric.Rational, exact.
type Tableau[T any] struct {
	Domain numeric.Domain[T]
}

// NewTableau returns a Tableau solver over dom.
func NewTableau[T any](dom numeric.Domain[T]) Tableau[T] {
	return Tableau[T]{Domain: dom}
}

// Solve implements Solver. Quadratic programs are refused.
//
// Complexity: O(R·C) per pivot for R rows and C = V + slacks + artificials columns.
func (t Tableau[T]) Solve(p *Program[T], s Settings) (Result[T], error) {
	dom := t.Domain
	if err := p.Check(dom); err != nil {
		return Result[T]{}, fmt.Errorf("Tableau.Solve: %w", err)
	}
	if p.IsQuadratic(dom) {
		return Result[T]{}, fmt.Errorf("Tableau.Solve: quadratic objective: %w", ErrIllegalSolver)
	}

	red := identityReduction(dom, p)
	if s.Presolve {
		red = presolve(dom, p)
		if red.reason != nil {
			return failed[T](red.status, red.reason, 0), nil
		}
	}

	tab := newTableau(dom, red.prog)
	status, reason := tab.solve(s)
	if status != StatusOptimal {
		return failed[T](status, reason, tab.pivots), nil
	}
	x := red.restore(tab.solution(red.prog.NumVars))

	return Result[T]{Status: StatusOptimal, X: x, Objective: p.Value(dom, x), Iterations: tab.pivots}, nil
}

// tableau holds the dense simplex state. Column cols of every row is the RHS;
// obj holds reduced costs with obj[cols] = −z.
type tableau[T any] struct {
	dom      numeric.Domain[T]
	rows     [][]T
	obj      []T
	basis    []int
	cols     int
	artStart int
	barred   []bool
	cost     []T // phase two costs over all columns
	pivots   int
}

func newTableau[T any](dom numeric.Domain[T], p *Program[T]) *tableau[T] {
	n := p.NumVars
	ops := make([]Op, len(p.Rows))
	slacks, arts := 0, 0
	for i, r := range p.Rows {
		ops[i] = r.Op
		if numeric.IsNegative(dom, r.RHS) {
			ops[i] = flip(r.Op)
		}
		if ops[i] != EQ {
			slacks++
		}
		if ops[i] != LE {
			arts++
		}
	}

	t := &tableau[T]{
		dom:      dom,
		rows:     make([][]T, len(p.Rows)),
		basis:    make([]int, len(p.Rows)),
		cols:     n + slacks + arts,
		artStart: n + slacks,
	}
	t.barred = make([]bool, t.cols)

	slack, art := n, n+slacks
	for i, r := range p.Rows {
		row := make([]T, t.cols+1)
		for j := range row {
			row[j] = dom.Zero()
		}
		for _, term := range r.Terms {
			row[term.Var] = dom.Add(row[term.Var], term.Coef)
		}
		row[t.cols] = r.RHS
		if ops[i] != r.Op {
			for j := range row {
				row[j] = dom.Neg(row[j])
			}
		}
		switch ops[i] {
		case LE:
			row[slack] = dom.One()
			t.basis[i] = slack
			slack++
		case GE:
			row[slack] = dom.Neg(dom.One())
			slack++
			row[art] = dom.One()
			t.basis[i] = art
			art++
		case EQ:
			row[art] = dom.One()
			t.basis[i] = art
			art++
		}
		t.rows[i] = row
	}

	t.cost = make([]T, t.cols)
	for j := range t.cost {
		t.cost[j] = dom.Zero()
	}
	for j, c := range p.Objective {
		if p.Sense == Maximize {
			c = dom.Neg(c)
		}
		t.cost[j] = c
	}

	return t
}

func flip(op Op) Op {
	switch op {
	case LE:
		return GE
	case GE:
		return LE
	}

	return op
}

// solve runs phase one (minimize the artificial sum), evicts artificials from
// the basis, then runs phase two on the real costs.
func (t *tableau[T]) solve(s Settings) (Status, error) {
	dom := t.dom
	phase1 := make([]T, t.cols)
	for j := range phase1 {
		phase1[j] = dom.Zero()
		if j >= t.artStart {
			phase1[j] = dom.One()
		}
	}
	t.price(phase1)
	if st, err := t.iterate(); st != StatusOptimal {
		return StatusError, fmt.Errorf("phase one: %w", err)
	}
	if z := dom.Neg(t.obj[t.cols]); dom.Less(dom.Zero(), z) {
		return StatusInfeasible, fmt.Errorf("artificial sum %s > 0: %w", dom.String(z), ErrInfeasible)
	}
	s.logf(logrus.Fields{"rows": len(t.rows), "cols": t.cols, "pivots": t.pivots}, "tableau: phase one done")

	t.evictArtificials()
	for j := t.artStart; j < t.cols; j++ {
		t.barred[j] = true
	}
	t.price(t.cost)
	st, err := t.iterate()
	s.logf(logrus.Fields{"status": st.String(), "pivots": t.pivots}, "tableau: phase two done")
	if st != StatusOptimal {
		return st, err
	}

	return StatusOptimal, nil
}

// price sets obj to the reduced costs of cost under the current basis.
func (t *tableau[T]) price(cost []T) {
	dom := t.dom
	t.obj = make([]T, t.cols+1)
	for j := 0; j < t.cols; j++ {
		t.obj[j] = cost[j]
	}
	t.obj[t.cols] = dom.Zero()
	for i, b := range t.basis {
		cb := cost[b]
		if numeric.IsZero(dom, cb) {
			continue
		}
		for j := 0; j <= t.cols; j++ {
			t.obj[j] = dom.Sub(t.obj[j], dom.Mul(cb, t.rows[i][j]))
		}
	}
}

// iterate pivots until no reduced cost is negative.
func (t *tableau[T]) iterate() (Status, error) {
	dom := t.dom
	budget := pivotBudgetFactor * (len(t.rows) + t.cols)
	for step := 0; ; step++ {
		if step > budget {
			return StatusError, fmt.Errorf("%d pivots: %w", step, ErrMaxIterations)
		}
		enter := -1
		for j := 0; j < t.cols; j++ {
			if !t.barred[j] && numeric.IsNegative(dom, t.obj[j]) {
				enter = j
				break
			}
		}
		if enter < 0 {
			return StatusOptimal, nil
		}

		leave := -1
		var best T
		for i, row := range t.rows {
			a := row[enter]
			if !dom.Less(dom.Zero(), a) {
				continue
			}
			ratio := dom.Div(row[t.cols], a)
			if leave < 0 || dom.Less(ratio, best) || (dom.Equal(ratio, best) && t.basis[i] < t.basis[leave]) {
				leave, best = i, ratio
			}
		}
		if leave < 0 {
			return StatusUnbounded, fmt.Errorf("column %d: %w", enter, ErrUnbounded)
		}
		t.pivot(leave, enter)
	}
}

// pivot makes column c basic in row r by Gauss–Jordan elimination.
func (t *tableau[T]) pivot(r, c int) {
	dom := t.dom
	pr := t.rows[r]
	piv := pr[c]
	for j := range pr {
		pr[j] = dom.Div(pr[j], piv)
	}
	pr[c] = dom.One()
	eliminate := func(row []T) {
		f := row[c]
		if numeric.IsZero(dom, f) {
			row[c] = dom.Zero()
			return
		}
		for j := range row {
			row[j] = dom.Sub(row[j], dom.Mul(f, pr[j]))
		}
		row[c] = dom.Zero()
	}
	for i, row := range t.rows {
		if i != r {
			eliminate(row)
		}
	}
	eliminate(t.obj)
	t.basis[r] = c
	t.pivots++
}

// evictArtificials pivots zero-valued artificials out of the basis and drops
// the rows where that is impossible (they are linear combinations of others).
func (t *tableau[T]) evictArtificials() {
	dom := t.dom
	for i := 0; i < len(t.rows); {
		if t.basis[i] < t.artStart {
			i++
			continue
		}
		enter := -1
		for j := 0; j < t.artStart; j++ {
			if !numeric.IsZero(dom, t.rows[i][j]) {
				enter = j
				break
			}
		}
		if enter >= 0 {
			t.pivot(i, enter)
			i++
			continue
		}
		t.rows = append(t.rows[:i], t.rows[i+1:]...)
		t.basis = append(t.basis[:i], t.basis[i+1:]...)
	}
}

// solution reads the first n variables off the basis.
func (t *tableau[T]) solution(n int) []T {
	x := make([]T, n)
	for j := range x {
		x[j] = t.dom.Zero()
	}
	for i, b := range t.basis {
		if b < n {
			x[b] = t.rows[i][t.cols]
		}
	}

	return x
}
