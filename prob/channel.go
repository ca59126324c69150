// SPDX-License-Identifier: MIT

package prob

import (
	"fmt"

	"github.com/katalvlaran/qifsynth/numeric"
)

// Channel is an n×m matrix, secrets on rows and observables on columns,
// stored row-major (offset = x*m + y).
type Channel[T any] struct {
	n, m int
	data []T
}

// NewChannel returns an n×m channel filled with dom.Zero().
// The result is a buffer for builders; it is not row-stochastic.
func NewChannel[T any](dom numeric.Domain[T], n, m int) (Channel[T], error) {
	if n <= 0 || m <= 0 {
		return Channel[T]{}, fmt.Errorf("NewChannel(%d,%d): %w", n, m, ErrEmpty)
	}
	data := make([]T, n*m)
	for i := range data {
		data[i] = dom.Zero()
	}

	return Channel[T]{n: n, m: m, data: data}, nil
}

// ChannelFromRows copies rows into a new channel. Rows must be non-empty and
// rectangular; stochasticity is not checked (see ValidateChannel).
func ChannelFromRows[T any](rows [][]T) (Channel[T], error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Channel[T]{}, ErrEmpty
	}
	n, m := len(rows), len(rows[0])
	data := make([]T, 0, n*m)
	for x, row := range rows {
		if len(row) != m {
			return Channel[T]{}, fmt.Errorf("ChannelFromRows: row %d has %d columns, want %d: %w", x, len(row), m, ErrRaggedRows)
		}
		data = append(data, row...)
	}

	return Channel[T]{n: n, m: m, data: data}, nil
}

// ChannelFromFloats converts float64 rows into the domain.
func ChannelFromFloats[T any](dom numeric.Domain[T], rows [][]float64) (Channel[T], error) {
	conv := make([][]T, len(rows))
	for i, r := range rows {
		conv[i] = numeric.FromFloats(dom, r)
	}

	return ChannelFromRows(conv)
}

// Identity returns the n×n identity channel (no noise, full leakage).
func Identity[T any](dom numeric.Domain[T], n int) (Channel[T], error) {
	c, err := NewChannel(dom, n, n)
	if err != nil {
		return c, err
	}
	for x := 0; x < n; x++ {
		c.data[x*n+x] = dom.One()
	}

	return c, nil
}

// Deterministic turns a strategy (secret x ↦ output strategy[x]) into the
// deterministic n×m channel with C[x, strategy[x]] = 1.
func Deterministic[T any](dom numeric.Domain[T], strategy []int, m int) (Channel[T], error) {
	c, err := NewChannel(dom, len(strategy), m)
	if err != nil {
		return c, err
	}
	for x, y := range strategy {
		if y < 0 || y >= m {
			return Channel[T]{}, fmt.Errorf("Deterministic: strategy[%d] = %d not in [0,%d): %w", x, y, m, ErrOutOfRange)
		}
		c.data[x*m+y] = dom.One()
	}

	return c, nil
}

// Rows returns the number of secrets n.
func (c Channel[T]) Rows() int { return c.n }

// Cols returns the number of observables m.
func (c Channel[T]) Cols() int { return c.m }

// At returns C[x,y]. Indices outside the shape panic, like slice indexing.
func (c Channel[T]) At(x, y int) T { return c.data[x*c.m+y] }

// Row returns a copy of row x.
func (c Channel[T]) Row(x int) []T {
	out := make([]T, c.m)
	copy(out, c.data[x*c.m:(x+1)*c.m])

	return out
}

// Col returns a copy of column y.
func (c Channel[T]) Col(y int) []T {
	out := make([]T, c.n)
	for x := 0; x < c.n; x++ {
		out[x] = c.data[x*c.m+y]
	}

	return out
}

// Clone returns a channel with its own backing buffer.
func (c Channel[T]) Clone() Channel[T] {
	data := make([]T, len(c.data))
	copy(data, c.data)

	return Channel[T]{n: c.n, m: c.m, data: data}
}

// ValidateChannel checks shape, entries in [0,1] and every row summing to 1
// within the domain tolerance (exactly for exact domains).
// Complexity: O(n·m).
func ValidateChannel[T any](dom numeric.Domain[T], c Channel[T]) error {
	if c.n == 0 || c.m == 0 {
		return ErrEmpty
	}
	one := dom.One()
	for x := 0; x < c.n; x++ {
		row := c.data[x*c.m : (x+1)*c.m]
		for y := range row {
			if numeric.IsNegative(dom, row[y]) {
				return fmt.Errorf("ValidateChannel: C[%d,%d] = %s: %w", x, y, dom.String(row[y]), ErrNegative)
			}
			if dom.Less(one, row[y]) {
				return fmt.Errorf("ValidateChannel: C[%d,%d] = %s: %w", x, y, dom.String(row[y]), ErrOutOfRange)
			}
		}
		if s := numeric.Sum(dom, row); !dom.Equal(s, one) {
			return fmt.Errorf("ValidateChannel: row %d sums to %s: %w", x, dom.String(s), ErrNotNormalized)
		}
	}

	return nil
}

// IsChannel reports whether c is a valid channel (see ValidateChannel).
func IsChannel[T any](dom numeric.Domain[T], c Channel[T]) bool {
	return ValidateChannel(dom, c) == nil
}

// Equal reports whether a and b have the same shape and equal entries within
// the domain tolerance.
func Equal[T any](dom numeric.Domain[T], a, b Channel[T]) bool {
	if a.n != b.n || a.m != b.m {
		return false
	}
	for i := range a.data {
		if !dom.Equal(a.data[i], b.data[i]) {
			return false
		}
	}

	return true
}

// ChannelFromData wraps a row-major buffer of length n*m. The buffer is
// copied; later changes to data do not affect the channel.
func ChannelFromData[T any](n, m int, data []T) (Channel[T], error) {
	if n <= 0 || m <= 0 {
		return Channel[T]{}, ErrEmpty
	}
	if len(data) != n*m {
		return Channel[T]{}, fmt.Errorf("ChannelFromData: len %d, want %d: %w", len(data), n*m, ErrOutOfRange)
	}
	buf := make([]T, len(data))
	copy(buf, data)

	return Channel[T]{n: n, m: m, data: buf}, nil
}
