// SPDX-License-Identifier: MIT

package synth

import (
	"fmt"

	"github.com/katalvlaran/qifsynth/measure"
	"github.com/katalvlaran/qifsynth/metric"
	"github.com/katalvlaran/qifsynth/numeric"
	"github.com/katalvlaran/qifsynth/prob"
	"github.com/katalvlaran/qifsynth/solver"
)

// Layout maps channel entries and auxiliaries to program variables.
type Layout struct {
	N, M int
	// Aux is the variable of the first auxiliary z_0 (z_y = Aux+y), -1 when
	// the program has none.
	Aux int

	vars []int // x*M+y -> variable, -1 when pinned
}

// Var returns the variable of C[x,y]; ok is false when the entry is pinned to zero.
func (l Layout) Var(x, y int) (int, bool) {
	v := l.vars[x*l.M+y]

	return v, v >= 0
}

// Pinned returns the number of entries removed by the cutoff.
func (l Layout) Pinned() int {
	c := 0
	for _, v := range l.vars {
		if v < 0 {
			c++
		}
	}

	return c
}

// Decode reads the channel off a solution vector. Entries that are negative
// within the domain's tolerance are clamped to zero; anything more negative,
// or rows that do not sum to one, yield ErrInvalidSolution.
func Decode[T any](dom numeric.Domain[T], l Layout, x []T) (prob.Channel[T], error) {
	data := make([]T, l.N*l.M)
	for i, v := range l.vars {
		data[i] = dom.Zero()
		if v < 0 {
			continue
		}
		e := x[v]
		if numeric.IsNegative(dom, e) {
			return prob.Channel[T]{}, fmt.Errorf("C[%d,%d] = %s: %w", i/l.M, i%l.M, dom.String(e), ErrInvalidSolution)
		}
		if dom.Float(e) >= 0 {
			data[i] = e
		}
	}
	c, err := prob.ChannelFromData(l.N, l.M, data)
	if err != nil {
		return c, fmt.Errorf("%w: %w", ErrInvalidSolution, err)
	}
	if err := prob.ValidateChannel(dom, c); err != nil {
		return c, fmt.Errorf("%w: %w", ErrInvalidSolution, err)
	}

	return c, nil
}

// Build validates r and encodes it as a program.
//
// Families, for n secrets, m outputs and k adversary guesses:
//   - n row sums Σ_y C[x,y] = 1;
//   - the loss row Σ_x π(x)·Σ_y loss(x,y)·C[x,y] ≤ bound, when the goal
//     bounds loss and the bound is finite;
//   - m·k guess rows z_y − Σ_x π(x)·adv(x,w)·C[x,y] ≥ 0 (vulnerability) or
//     ≤ 0 (risk), when the adversary appears in the objective or in a
//     finite bound, plus Σ_y z_y ≤ bound (vulnerability) or ≥ bound (risk)
//     for the bounded goals;
//   - privacy rows C[x1,y] − exp(ε·d(x1,x2))·C[x2,y] ≤ 0 for every ordered
//     non-chainable pair at finite distance.
//
// Complexity: O(n·m·k + n²·m) rows and terms.
func Build[T any](dom numeric.Domain[T], r Request[T]) (*solver.Program[T], Layout, error) {
	if err := Validate(dom, r); err != nil {
		return nil, Layout{}, err
	}

	var (
		n, m    = len(r.Prior), r.Outputs
		goal    = r.Goal
		loss    = r.loss(dom)
		adv     = r.adversary(dom)
		k       = measure.GuessCount(adv, n)
		bounded = !dom.IsInf(goal.Bound)
		lay     = Layout{N: n, M: m, Aux: -1, vars: make([]int, n*m)}
		prog    = &solver.Program[T]{}
	)

	nv := 0
	for x := 0; x < n; x++ {
		for y := 0; y < m; y++ {
			if goal.HasCutoff && dom.Less(goal.Cutoff, loss.Value(x, y)) {
				lay.vars[x*m+y] = -1
				continue
			}
			lay.vars[x*m+y] = nv
			nv++
		}
	}
	needAux := goal.Kind.boundsLoss() || bounded
	if needAux {
		lay.Aux = nv
		nv += m
	}
	prog.NumVars = nv
	prog.Objective = make([]T, nv)
	for j := range prog.Objective {
		prog.Objective[j] = dom.Zero()
	}

	// Row sums.
	for x := 0; x < n; x++ {
		terms := make([]solver.Term[T], 0, m)
		for y := 0; y < m; y++ {
			if v, ok := lay.Var(x, y); ok {
				terms = append(terms, solver.Term[T]{Var: v, Coef: dom.One()})
			}
		}
		prog.AddRow(solver.EQ, dom.One(), terms...)
	}

	// Expected loss: objective of MinLoss*, bounded for *GivenLoss.
	lossTerms := make([]solver.Term[T], 0, nv)
	for x := 0; x < n; x++ {
		for y := 0; y < m; y++ {
			v, ok := lay.Var(x, y)
			if !ok {
				continue
			}
			c := dom.Mul(r.Prior[x], loss.Value(x, y))
			lossTerms = append(lossTerms, solver.Term[T]{Var: v, Coef: c})
		}
	}
	if goal.Kind.boundsLoss() {
		if bounded {
			prog.AddRow(solver.LE, goal.Bound, lossTerms...)
		}
	} else {
		for _, t := range lossTerms {
			prog.Objective[t.Var] = t.Coef
		}
	}

	// Adversary: z_y against every guess.
	if needAux {
		op := solver.GE
		if goal.Kind.usesRisk() {
			op = solver.LE
		}
		for y := 0; y < m; y++ {
			for w := 0; w < k; w++ {
				terms := []solver.Term[T]{{Var: lay.Aux + y, Coef: dom.One()}}
				for x := 0; x < n; x++ {
					v, ok := lay.Var(x, y)
					if !ok {
						continue
					}
					c := dom.Mul(r.Prior[x], adv.Value(x, w))
					if numeric.IsZero(dom, c) {
						continue
					}
					terms = append(terms, solver.Term[T]{Var: v, Coef: dom.Neg(c)})
				}
				prog.AddRow(op, dom.Zero(), terms...)
			}
		}
		sum := make([]solver.Term[T], m)
		for y := range sum {
			sum[y] = solver.Term[T]{Var: lay.Aux + y, Coef: dom.One()}
		}
		switch {
		case goal.Kind.boundsLoss():
			for _, t := range sum {
				prog.Objective[t.Var] = dom.One()
			}
		case goal.Kind.usesRisk():
			prog.AddRow(solver.GE, goal.Bound, sum...)
		default:
			prog.AddRow(solver.LE, goal.Bound, sum...)
		}
	}
	if goal.Kind == GoalMaxRiskGivenLoss {
		prog.Sense = solver.Maximize
	}

	if r.Privacy != nil {
		addPrivacy(dom, prog, lay, r.Privacy)
	}

	if goal.Penalty > 0 {
		prog.Quad = make([]T, nv)
		w := dom.FromFloat(2 * goal.Penalty)
		for j := range prog.Quad {
			prog.Quad[j] = dom.Zero()
			if j < lay.Aux || lay.Aux < 0 {
				prog.Quad[j] = w
			}
		}
	}

	return prog, lay, nil
}

// addPrivacy appends C[x1,y] − exp(ε·d(x1,x2))·C[x2,y] ≤ 0 rows. The
// coefficient is computed exactly as metric.IsPrivate recomputes it on the
// scaled metric, so a solution checks out in exact domains.
func addPrivacy[T any](dom numeric.Domain[T], prog *solver.Program[T], lay Layout, p *Privacy[T]) {
	if dom.IsInf(p.Epsilon) {
		return
	}
	scaled := metric.Scale(dom, p.Metric, p.Epsilon)
	for x1 := 0; x1 < lay.N; x1++ {
		for x2 := 0; x2 < lay.N; x2++ {
			if x1 == x2 || p.Metric.Chainable(x1, x2) {
				continue
			}
			d := scaled.Distance(x1, x2)
			if dom.IsInf(d) {
				continue
			}
			bound := dom.Exp(d)
			for y := 0; y < lay.M; y++ {
				v1, ok1 := lay.Var(x1, y)
				if !ok1 {
					continue
				}
				terms := []solver.Term[T]{{Var: v1, Coef: dom.One()}}
				if v2, ok2 := lay.Var(x2, y); ok2 {
					terms = append(terms, solver.Term[T]{Var: v2, Coef: dom.Neg(bound)})
				}
				prog.AddRow(solver.LE, dom.Zero(), terms...)
			}
		}
	}
}
