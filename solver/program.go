// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"

	"github.com/katalvlaran/qifsynth/numeric"
)

// Sense is the optimization direction.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

func (s Sense) String() string {
	if s == Maximize {
		return "max"
	}

	return "min"
}

// Op is the relation of a row to its right-hand side.
type Op int

const (
	LE Op = iota // Σ terms ≤ RHS
	EQ           // Σ terms = RHS
	GE           // Σ terms ≥ RHS
)

func (o Op) String() string {
	switch o {
	case LE:
		return "<="
	case EQ:
		return "="
	case GE:
		return ">="
	}

	return fmt.Sprintf("Op(%d)", int(o))
}

// Term is one coefficient of a row.
type Term[T any] struct {
	Var  int
	Coef T
}

// Row is a linear constraint Σ Coef·x[Var] Op RHS. Repeated variables add up.
type Row[T any] struct {
	Terms []Term[T]
	Op    Op
	RHS   T
}

// Program is an optimization problem over NumVars variables, all ≥ 0.
//
// The objective is Σ Objective[j]·x[j] plus, when Quad is non-empty, the
// convex penalty ½·Σ Quad[j]·x[j]²: added when minimizing, subtracted when
// maximizing. Quad entries must be non-negative.
type Program[T any] struct {
	NumVars   int
	Sense     Sense
	Objective []T
	Quad      []T
	Rows      []Row[T]
}

// AddRow appends a row and returns its index.
func (p *Program[T]) AddRow(op Op, rhs T, terms ...Term[T]) int {
	p.Rows = append(p.Rows, Row[T]{Terms: terms, Op: op, RHS: rhs})

	return len(p.Rows) - 1
}

// IsQuadratic reports whether any Quad entry is nonzero.
func (p *Program[T]) IsQuadratic(dom numeric.Domain[T]) bool {
	for _, q := range p.Quad {
		if !numeric.IsZero(dom, q) {
			return true
		}
	}

	return false
}

// Check verifies the structural contract: sizes, variable indices, operators
// and the sign of Quad.
func (p *Program[T]) Check(dom numeric.Domain[T]) error {
	if p == nil {
		return fmt.Errorf("nil program: %w", ErrMalformedProgram)
	}
	if p.NumVars < 0 || len(p.Objective) != p.NumVars {
		return fmt.Errorf("%d objective coefficients for %d variables: %w", len(p.Objective), p.NumVars, ErrMalformedProgram)
	}
	if len(p.Quad) != 0 && len(p.Quad) != p.NumVars {
		return fmt.Errorf("%d quadratic coefficients for %d variables: %w", len(p.Quad), p.NumVars, ErrMalformedProgram)
	}
	for j, q := range p.Quad {
		if numeric.IsNegative(dom, q) {
			return fmt.Errorf("quadratic coefficient %d is negative: %w", j, ErrMalformedProgram)
		}
	}
	if p.Sense != Minimize && p.Sense != Maximize {
		return fmt.Errorf("sense %d: %w", int(p.Sense), ErrMalformedProgram)
	}
	for i, r := range p.Rows {
		if r.Op < LE || r.Op > GE {
			return fmt.Errorf("row %d: %v: %w", i, r.Op, ErrMalformedProgram)
		}
		for _, t := range r.Terms {
			if t.Var < 0 || t.Var >= p.NumVars {
				return fmt.Errorf("row %d: variable %d out of [0,%d): %w", i, t.Var, p.NumVars, ErrMalformedProgram)
			}
		}
	}

	return nil
}

// Value evaluates the objective at x.
func (p *Program[T]) Value(dom numeric.Domain[T], x []T) T {
	v := dom.Zero()
	for j, c := range p.Objective {
		v = dom.Add(v, dom.Mul(c, x[j]))
	}
	if len(p.Quad) == 0 {
		return v
	}
	half := dom.Div(dom.One(), dom.FromInt(2))
	pen := dom.Zero()
	for j, q := range p.Quad {
		pen = dom.Add(pen, dom.Mul(q, dom.Mul(x[j], x[j])))
	}
	pen = dom.Mul(half, pen)
	if p.Sense == Maximize {
		return dom.Sub(v, pen)
	}

	return dom.Add(v, pen)
}

// Activity returns Σ Coef·x[Var] of row r.
func (r Row[T]) Activity(dom numeric.Domain[T], x []T) T {
	s := dom.Zero()
	for _, t := range r.Terms {
		s = dom.Add(s, dom.Mul(t.Coef, x[t.Var]))
	}

	return s
}

// Satisfied reports whether value satisfies the row within the domain's
// tolerance.
func (r Row[T]) Satisfied(dom numeric.Domain[T], value T) bool {
	switch r.Op {
	case LE:
		return dom.LessEq(value, r.RHS)
	case GE:
		return dom.LessEq(r.RHS, value)
	default:
		return dom.Equal(value, r.RHS)
	}
}

// Feasible returns the index of the first violated row (or negative
// variable, reported as -1-j), and ok=true when x satisfies the program.
func (p *Program[T]) Feasible(dom numeric.Domain[T], x []T) (int, bool) {
	for j := 0; j < p.NumVars; j++ {
		if numeric.IsNegative(dom, x[j]) {
			return -1 - j, false
		}
	}
	for i, r := range p.Rows {
		if !r.Satisfied(dom, r.Activity(dom, x)) {
			return i, false
		}
	}

	return 0, true
}
