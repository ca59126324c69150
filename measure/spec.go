// SPDX-License-Identifier: MIT

// Package measure holds gain/loss specifications and the closed-form
// measures used to verify synthesized channels after the fact.
//
// A Spec is indexed (secret, guess): Value(x, w) is the gain (for
// vulnerability) or the loss (for risk and utility) of answering w when the
// secret is x. Variants are an explicit matrix (Matrix) or a metric used
// directly as the loss (FromMetric).
package measure

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/qifsynth/metric"
	"github.com/katalvlaran/qifsynth/numeric"
)

var (
	// ErrEmpty is returned for specifications without secrets or guesses.
	ErrEmpty = errors.New("measure: empty specification")

	// ErrRaggedRows is returned when an explicit matrix is not rectangular.
	ErrRaggedRows = errors.New("measure: rows have different lengths")

	// ErrDimensionMismatch is returned when prior, channel and spec disagree in size.
	ErrDimensionMismatch = errors.New("measure: dimension mismatch")
)

// Spec is a gain or loss function over secrets × guesses.
type Spec[T any] interface {
	// Secrets returns the number of secrets covered, 0 when unbounded.
	Secrets() int
	// Guesses returns the number of guesses covered, 0 when unbounded.
	Guesses() int
	// Value returns the gain/loss of guess w for secret x.
	Value(x, w int) T
}

// Matrix is an explicit secrets×guesses specification.
type Matrix[T any] struct {
	n, k int
	data []T
}

// NewMatrix copies rows (one per secret) into a Matrix spec.
func NewMatrix[T any](rows [][]T) (Matrix[T], error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Matrix[T]{}, ErrEmpty
	}
	n, k := len(rows), len(rows[0])
	data := make([]T, 0, n*k)
	for x, r := range rows {
		if len(r) != k {
			return Matrix[T]{}, fmt.Errorf("NewMatrix: row %d has %d entries, want %d: %w", x, len(r), k, ErrRaggedRows)
		}
		data = append(data, r...)
	}

	return Matrix[T]{n: n, k: k, data: data}, nil
}

func (s Matrix[T]) Secrets() int     { return s.n }
func (s Matrix[T]) Guesses() int     { return s.k }
func (s Matrix[T]) Value(x, w int) T { return s.data[x*s.k+w] }

// FromMetric uses a metric directly as the loss: Value(x, w) = d(x, w).
// Secrets and guesses live in the same space.
type FromMetric[T any] struct {
	D metric.Metric[T]
}

func (s FromMetric[T]) Secrets() int     { return s.D.Size() }
func (s FromMetric[T]) Guesses() int     { return s.D.Size() }
func (s FromMetric[T]) Value(x, w int) T { return s.D.Distance(x, w) }

// Identity is the identity gain: 1 for a correct guess, 0 otherwise.
// Its vulnerability is Bayes vulnerability.
func Identity[T any](dom numeric.Domain[T]) Spec[T] {
	return funcSpec[T](func(x, w int) T {
		if x == w {
			return dom.One()
		}

		return dom.Zero()
	})
}

// ZeroOne is the 0/1 loss: 0 for a correct guess, 1 otherwise.
func ZeroOne[T any](dom numeric.Domain[T]) Spec[T] {
	return funcSpec[T](func(x, w int) T {
		if x == w {
			return dom.Zero()
		}

		return dom.One()
	})
}

// funcSpec adapts an unbounded function.
type funcSpec[T any] func(x, w int) T

func (f funcSpec[T]) Secrets() int     { return 0 }
func (f funcSpec[T]) Guesses() int     { return 0 }
func (f funcSpec[T]) Value(x, w int) T { return f(x, w) }

// Covers reports whether spec is defined on n secrets and k guesses.
func Covers[T any](spec Spec[T], n, k int) bool {
	if s := spec.Secrets(); s > 0 && s < n {
		return false
	}
	if g := spec.Guesses(); g > 0 && g < k {
		return false
	}

	return true
}

// GuessCount returns the number of guesses an adversary chooses from: the
// spec's own guess count when bounded, else the n secrets themselves.
func GuessCount[T any](spec Spec[T], n int) int {
	if g := spec.Guesses(); g > 0 {
		return g
	}

	return n
}
