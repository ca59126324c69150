// SPDX-License-Identifier: MIT
// Package metric: sentinel error set. Callers match with errors.Is.

package metric

import "errors"

var (
	// ErrEmpty is returned for metrics or channels with no points.
	ErrEmpty = errors.New("metric: empty domain")

	// ErrNonSquare is returned when a distance or adjacency matrix is not n×n.
	ErrNonSquare = errors.New("metric: matrix is not square")

	// ErrNegativeDistance is returned when d(x1,x2) < 0 for some pair.
	ErrNegativeDistance = errors.New("metric: negative distance")

	// ErrNonZeroSelfDistance is returned when d(x,x) != 0.
	ErrNonZeroSelfDistance = errors.New("metric: non-zero self distance")

	// ErrDimensionMismatch is returned when a metric is smaller than the domain checked.
	ErrDimensionMismatch = errors.New("metric: domain larger than metric")

	// ErrBadGrid is returned when grid dimensions are not positive.
	ErrBadGrid = errors.New("metric: grid dimensions must be > 0")
)
