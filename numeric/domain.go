// SPDX-License-Identifier: MIT
// Package numeric: the Domain contract and small generic helpers over it.
//
// Purpose:
//   - Provide one arithmetic/comparison surface for float64 and *big.Rat.
//   - Keep the tolerance policy in a single place (Equal/Less/LessEq).
//
// Contract:
//   - Every operation returns a fresh value; operands are never mutated.
//   - Cmp/Equal/Less/LessEq honour the domain's tolerance (exact for Rational).
//   - Inf is the "no bound"/"no path" sentinel; IsInf recognises it.

package numeric

// Domain is the arithmetic a computation runs in.
//
// Implementations: Float (T=float64), Rational (T=*big.Rat).
type Domain[T any] interface {
	// Name returns a short stable identifier ("float", "rational").
	Name() string

	// Exact reports whether comparisons are exact (no tolerance).
	// Exact domains must only be handed to exact solver backends.
	Exact() bool

	// Zero returns the additive neutral element.
	Zero() T
	// One returns the multiplicative neutral element.
	One() T
	// Inf returns the positive infinity sentinel.
	Inf() T
	// IsInf reports whether a is (at least) the positive infinity sentinel.
	IsInf(a T) bool

	// FromFloat converts a float64 constant into the domain.
	FromFloat(f float64) T
	// FromInt converts an integer constant into the domain.
	FromInt(i int64) T
	// Float converts a domain value to the nearest float64.
	Float(a T) float64
	// Parse reads a textual number ("0.25", "1/3", "inf").
	Parse(s string) (T, error)
	// String formats a value for text output.
	String(a T) string

	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	Div(a, b T) T
	Neg(a T) T
	Abs(a T) T
	// Exp returns e^a. Exact domains approximate it through float64 and
	// convert the float result exactly, so inequalities over the returned
	// coefficient are still checked exactly.
	Exp(a T) T
	// Log returns the natural logarithm as float64 (used for ratios only).
	Log(a T) float64

	// Cmp returns -1, 0, +1; 0 means "equal within tolerance".
	Cmp(a, b T) int
	// Equal reports a == b within tolerance.
	Equal(a, b T) bool
	// Less reports a < b beyond tolerance.
	Less(a, b T) bool
	// LessEq reports a <= b within tolerance.
	LessEq(a, b T) bool

	// Epsilon returns the comparison tolerance as float64 (0 for exact domains).
	Epsilon() float64
}

// Sum returns the sum of xs in index order (deterministic accumulation).
// Complexity: O(len(xs)).
func Sum[T any](d Domain[T], xs []T) T {
	s := d.Zero()
	for i := range xs {
		s = d.Add(s, xs[i])
	}

	return s
}

// Max returns the largest element of xs, or Zero for an empty slice.
// Ties keep the first occurrence.
func Max[T any](d Domain[T], xs []T) T {
	if len(xs) == 0 {
		return d.Zero()
	}
	best := xs[0]
	for i := 1; i < len(xs); i++ {
		if d.Less(best, xs[i]) {
			best = xs[i]
		}
	}

	return best
}

// IsZero reports a == 0 within tolerance.
func IsZero[T any](d Domain[T], a T) bool { return d.Equal(a, d.Zero()) }

// IsNegative reports a < 0 beyond tolerance.
func IsNegative[T any](d Domain[T], a T) bool { return d.Less(a, d.Zero()) }

// FromFloats converts a float64 slice into the domain (new slice).
func FromFloats[T any](d Domain[T], fs []float64) []T {
	out := make([]T, len(fs))
	for i, f := range fs {
		out[i] = d.FromFloat(f)
	}

	return out
}

// Floats converts a domain slice to float64 (new slice).
func Floats[T any](d Domain[T], xs []T) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = d.Float(xs[i])
	}

	return out
}
