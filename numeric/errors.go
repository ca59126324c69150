// SPDX-License-Identifier: MIT
// Package numeric: sentinel error set.
// All parsing/validation helpers return these sentinels (optionally wrapped
// with context via %w). Tests match them with errors.Is.

package numeric

import "errors"

var (
	// ErrParse is returned when a textual number cannot be parsed in the domain.
	ErrParse = errors.New("numeric: cannot parse number")

	// ErrNaN is returned when a NaN is offered to a domain that cannot hold it.
	ErrNaN = errors.New("numeric: NaN is not representable")
)
