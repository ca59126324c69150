// SPDX-License-Identifier: MIT

package prob

import (
	"fmt"

	"github.com/katalvlaran/qifsynth/numeric"
)

// Dist is a probability distribution over secrets 0..n-1.
type Dist[T any] []T

// Uniform returns the uniform distribution over n secrets.
func Uniform[T any](dom numeric.Domain[T], n int) Dist[T] {
	d := make(Dist[T], n)
	if n == 0 {
		return d
	}
	p := dom.Div(dom.One(), dom.FromInt(int64(n)))
	for i := range d {
		d[i] = p
	}

	return d
}

// Dirac returns the point distribution on secret x (n secrets in total).
// Panics if x is outside [0,n), like slice indexing.
func Dirac[T any](dom numeric.Domain[T], n, x int) Dist[T] {
	d := make(Dist[T], n)
	for i := range d {
		d[i] = dom.Zero()
	}
	d[x] = dom.One()

	return d
}

// DistFromFloats converts float64 probabilities into the domain.
// The result is not validated; use IsProb/ValidateProb.
func DistFromFloats[T any](dom numeric.Domain[T], ps []float64) Dist[T] {
	return Dist[T](numeric.FromFloats(dom, ps))
}

// Len returns the size of the secret space.
func (d Dist[T]) Len() int { return len(d) }

// Clone returns an independent copy of the slice (values are shared; domain
// values are never mutated in place).
func (d Dist[T]) Clone() Dist[T] {
	out := make(Dist[T], len(d))
	copy(out, d)

	return out
}

// ValidateProb checks that d is non-empty, non-negative and sums to 1
// within the domain tolerance (exactly for exact domains).
// Complexity: O(n).
func ValidateProb[T any](dom numeric.Domain[T], d Dist[T]) error {
	if len(d) == 0 {
		return ErrEmpty
	}
	for i := range d {
		if numeric.IsNegative(dom, d[i]) {
			return fmt.Errorf("ValidateProb: entry %d = %s: %w", i, dom.String(d[i]), ErrNegative)
		}
	}
	if s := numeric.Sum(dom, d); !dom.Equal(s, dom.One()) {
		return fmt.Errorf("ValidateProb: sum = %s: %w", dom.String(s), ErrNotNormalized)
	}

	return nil
}

// IsProb reports whether d is a valid distribution (see ValidateProb).
func IsProb[T any](dom numeric.Domain[T], d Dist[T]) bool { return ValidateProb(dom, d) == nil }
