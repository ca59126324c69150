// SPDX-License-Identifier: MIT

package prob

import "errors"

var (
	// ErrEmpty is returned when a distribution or channel has no entries.
	ErrEmpty = errors.New("prob: empty distribution or channel")

	// ErrNegative is returned when an entry is negative (beyond tolerance).
	ErrNegative = errors.New("prob: negative probability")

	// ErrNotNormalized is returned when entries (or a channel row) do not sum to 1.
	ErrNotNormalized = errors.New("prob: probabilities do not sum to 1")

	// ErrOutOfRange is returned when an entry exceeds 1 or an index is invalid.
	ErrOutOfRange = errors.New("prob: value or index out of range")

	// ErrRaggedRows is returned when matrix rows have different lengths.
	ErrRaggedRows = errors.New("prob: rows have different lengths")
)
