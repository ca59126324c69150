// SPDX-License-Identifier: MIT

package solver

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/katalvlaran/qifsynth/numeric"
)

// Gonum solves float64 linear programs with gonum's simplex.
//
// The program is presolved unconditionally (lp.Simplex rejects zero rows and
// zero columns), then put in standard form: one slack column per inequality
// row (+1 for ≤, −1 for ≥) and the objective negated when maximizing.
type Gonum struct{}

var _ Solver[float64] = Gonum{}

// Solve implements Solver.
func (Gonum) Solve(p *Program[float64], s Settings) (Result[float64], error) {
	dom := numeric.NewFloat()
	if err := p.Check(dom); err != nil {
		return Result[float64]{}, fmt.Errorf("Gonum.Solve: %w", err)
	}
	if p.IsQuadratic(dom) {
		return Result[float64]{}, fmt.Errorf("Gonum.Solve: quadratic objective: %w", ErrIllegalSolver)
	}

	red := presolve[float64](dom, p)
	if red.reason != nil {
		return failed[float64](red.status, red.reason, 0), nil
	}
	q := red.prog
	if q.NumVars == 0 {
		x := red.restore(nil)

		return Result[float64]{Status: StatusOptimal, X: x, Objective: p.Value(dom, x)}, nil
	}

	c, a, b := standardForm(q)
	rows, cols := a.Dims()
	if rows > cols {
		return failed[float64](StatusError,
			fmt.Errorf("%d equality rows over %d columns: %w", rows, cols, ErrNumerical), 0), nil
	}
	s.logf(logrus.Fields{"rows": rows, "cols": cols}, "gonum simplex: standard form built")

	_, opt, err := lp.Simplex(c, a, b, s.Tolerance, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return failed[float64](StatusInfeasible, fmt.Errorf("%w: %v", ErrInfeasible, err), 0), nil
	case errors.Is(err, lp.ErrUnbounded):
		return failed[float64](StatusUnbounded, fmt.Errorf("%w: %v", ErrUnbounded, err), 0), nil
	case err != nil:
		return failed[float64](StatusError, fmt.Errorf("%w: %v", ErrNumerical, err), 0), nil
	}

	x := red.restore(opt[:q.NumVars])

	return Result[float64]{Status: StatusOptimal, X: x, Objective: p.Value(dom, x)}, nil
}

// standardForm returns c, A, b of min cᵀx s.t. Ax = b, x ≥ 0 for q.
func standardForm(q *Program[float64]) ([]float64, *mat.Dense, []float64) {
	slacks := 0
	for _, r := range q.Rows {
		if r.Op != EQ {
			slacks++
		}
	}
	cols := q.NumVars + slacks
	c := make([]float64, cols)
	for j, v := range q.Objective {
		if q.Sense == Maximize {
			v = -v
		}
		c[j] = v
	}

	a := mat.NewDense(len(q.Rows), cols, nil)
	b := make([]float64, len(q.Rows))
	slack := q.NumVars
	for i, r := range q.Rows {
		for _, t := range r.Terms {
			a.Set(i, t.Var, a.At(i, t.Var)+t.Coef)
		}
		switch r.Op {
		case LE:
			a.Set(i, slack, 1)
			slack++
		case GE:
			a.Set(i, slack, -1)
			slack++
		}
		b[i] = r.RHS
	}

	return c, a, b
}
