// SPDX-License-Identifier: MIT
// Package metric: Lipschitz checks and d-privacy.
//
// A function f over points is L-Lipschitz from (points, dIn) to (values, dOut)
// when dOut(f(x1), f(x2)) <= L·dIn(x1,x2). d-privacy of a channel is the
// special case where every column is 1-Lipschitz from (secrets, ε·d) to
// (probabilities, MultReals).

package metric

import (
	"math"

	"github.com/katalvlaran/qifsynth/numeric"
	"github.com/katalvlaran/qifsynth/prob"
)

// OutMetric measures distances between function values.
type OutMetric[T any] interface {
	// Within reports dOut(a,b) <= bound, evaluated in the domain.
	Within(dom numeric.Domain[T], a, b, bound T) bool
	// Distance returns dOut(a,b) as float64 (+Inf allowed).
	Distance(dom numeric.Domain[T], a, b T) float64
}

// MultReals is dOut(a,b) = |log a - log b| on non-negative reals.
//
// Within is evaluated multiplicatively, a <= e^bound·b and b <= e^bound·a,
// which needs no logarithm, handles zeros (0 vs 0 is distance 0, 0 vs
// positive is +Inf) and stays exact in exact domains.
type MultReals[T any] struct{}

func (MultReals[T]) Within(dom numeric.Domain[T], a, b, bound T) bool {
	if dom.IsInf(bound) {
		return true
	}
	r := dom.Exp(bound)

	return dom.LessEq(a, dom.Mul(r, b)) && dom.LessEq(b, dom.Mul(r, a))
}

func (MultReals[T]) Distance(dom numeric.Domain[T], a, b T) float64 {
	za, zb := numeric.IsZero(dom, a), numeric.IsZero(dom, b)
	switch {
	case za && zb:
		return 0
	case za || zb:
		return math.Inf(1)
	}

	return math.Abs(dom.Log(a) - dom.Log(b))
}

// Euclid is dOut(a,b) = |a-b|.
type Euclid[T any] struct{}

func (Euclid[T]) Within(dom numeric.Domain[T], a, b, bound T) bool {
	return dom.LessEq(dom.Abs(dom.Sub(a, b)), bound)
}

func (Euclid[T]) Distance(dom numeric.Domain[T], a, b T) float64 {
	return math.Abs(dom.Float(a) - dom.Float(b))
}

// Violation identifies the ordered pair at which a Lipschitz check failed.
type Violation struct {
	X1, X2 int
}

// CheckLipschitz scans every ordered non-chainable pair of points 0..n-1 and
// returns the first pair with dOut(f(x1),f(x2)) > dIn(x1,x2).
// The scan order (x1 ascending, then x2) fixes which counter-example is
// reported; whether one exists does not depend on it.
// Complexity: O(n²) checks.
func CheckLipschitz[T any](dom numeric.Domain[T], f func(x int) T, dIn Metric[T], dOut OutMetric[T], n int) (Violation, bool) {
	var x1, x2 int
	for x1 = 0; x1 < n; x1++ {
		for x2 = 0; x2 < n; x2++ {
			if x1 == x2 || dIn.Chainable(x1, x2) {
				continue
			}
			if !dOut.Within(dom, f(x1), f(x2), dIn.Distance(x1, x2)) {
				return Violation{X1: x1, X2: x2}, false
			}
		}
	}

	return Violation{}, true
}

// IsLipschitz reports whether f is 1-Lipschitz from dIn to dOut on 0..n-1.
// Scale dIn to test another multiplier.
func IsLipschitz[T any](dom numeric.Domain[T], f func(x int) T, dIn Metric[T], dOut OutMetric[T], n int) bool {
	_, ok := CheckLipschitz(dom, f, dIn, dOut, n)

	return ok
}

// LipschitzConstant returns the smallest L with f L-Lipschitz on 0..n-1: the
// maximum over non-chainable pairs of dOut(f(x1),f(x2)) / dIn(x1,x2).
// A zero (or infinite-numerator) ratio denominator with a non-zero numerator
// yields Inf. Pairs at infinite input distance impose nothing.
// Computed in float64 and converted into the domain.
func LipschitzConstant[T any](dom numeric.Domain[T], f func(x int) T, dIn Metric[T], dOut OutMetric[T], n int) T {
	var (
		x1, x2   int
		num, den float64
		best     float64
	)
	for x1 = 0; x1 < n; x1++ {
		for x2 = 0; x2 < n; x2++ {
			if x1 == x2 || dIn.Chainable(x1, x2) {
				continue
			}
			num = dOut.Distance(dom, f(x1), f(x2))
			if num == 0 {
				continue
			}
			d := dIn.Distance(x1, x2)
			if dom.IsInf(d) {
				continue
			}
			den = dom.Float(d)
			if den == 0 || math.IsInf(num, 1) {
				return dom.Inf()
			}
			if r := num / den; r > best {
				best = r
			}
		}
	}

	return dom.FromFloat(best)
}

// CheckPrivate returns the first (x1, x2, column) at which c violates
// d-privacy w.r.t. the metric d (already scaled by the budget ε).
func CheckPrivate[T any](dom numeric.Domain[T], c prob.Channel[T], d Metric[T]) (Violation, int, bool) {
	out := MultReals[T]{}
	for y := 0; y < c.Cols(); y++ {
		col := c.Col(y)
		if v, ok := CheckLipschitz(dom, func(x int) T { return col[x] }, d, out, c.Rows()); !ok {
			return v, y, false
		}
	}

	return Violation{}, -1, true
}

// IsPrivate reports whether c satisfies d-privacy: for all secrets x1, x2 and
// outputs y, C[x1,y] <= e^{d(x1,x2)}·C[x2,y].
func IsPrivate[T any](dom numeric.Domain[T], c prob.Channel[T], d Metric[T]) bool {
	_, _, ok := CheckPrivate(dom, c, d)

	return ok
}

// IsPrivateBudget is IsPrivate with the metric scaled by the budget eps.
func IsPrivateBudget[T any](dom numeric.Domain[T], c prob.Channel[T], eps T, d Metric[T]) bool {
	return IsPrivate(dom, c, Scale(dom, d, eps))
}
