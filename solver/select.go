// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"

	"github.com/katalvlaran/qifsynth/numeric"
)

// Solver is one solving strategy over the numeric type T.
//
// Solve returns an error only for malformed programs, invalid settings or an
// illegal backend; infeasibility, unboundedness and numerical trouble are
// statuses of the Result.
type Solver[T any] interface {
	Solve(p *Program[T], s Settings) (Result[T], error)
}

// Linear returns the LP strategy for dom under s.Method:
//
//   - MethodTableau: Tableau for any domain.
//   - MethodSimplex: Gonum; ErrIllegalSolver unless T is float64 and dom inexact.
//   - MethodAuto:    Gonum for inexact float64 domains, Tableau otherwise.
func Linear[T any](dom numeric.Domain[T], s Settings) (Solver[T], error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("Linear: %w", err)
	}
	switch s.Method {
	case MethodTableau:
		return NewTableau(dom), nil
	case MethodSimplex:
		if sv, ok := floatOnly[T](dom, Gonum{}); ok {
			return sv, nil
		}

		return nil, fmt.Errorf("Linear: gonum simplex over %s domain: %w", dom.Name(), ErrIllegalSolver)
	default:
		if sv, ok := floatOnly[T](dom, Gonum{}); ok {
			return sv, nil
		}

		return NewTableau(dom), nil
	}
}

// Quadratic returns the QP strategy for dom. Only ADMM exists and it needs an
// inexact float64 domain; exact domains get ErrIllegalSolver.
func Quadratic[T any](dom numeric.Domain[T], s Settings) (Solver[T], error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("Quadratic: %w", err)
	}
	if sv, ok := floatOnly[T](dom, ADMM{}); ok {
		return sv, nil
	}

	return nil, fmt.Errorf("Quadratic: admm over %s domain: %w", dom.Name(), ErrIllegalSolver)
}

// Solve picks Linear or Quadratic by the shape of p and runs it.
func Solve[T any](dom numeric.Domain[T], p *Program[T], s Settings) (Result[T], error) {
	pick := Linear[T]
	if p != nil && p.IsQuadratic(dom) {
		pick = Quadratic[T]
	}
	sv, err := pick(dom, s)
	if err != nil {
		return Result[T]{}, err
	}

	return sv.Solve(p, s)
}

// floatOnly returns backend as a Solver[T] when T is float64 and dom is not exact.
func floatOnly[T any](dom numeric.Domain[T], backend Solver[float64]) (Solver[T], bool) {
	if dom.Exact() {
		return nil, false
	}
	sv, ok := any(backend).(Solver[T])

	return sv, ok
}
