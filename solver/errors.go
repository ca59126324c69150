// SPDX-License-Identifier: MIT

package solver

import "errors"

var (
	// ErrIllegalSolver is returned when a backend cannot serve the numeric
	// domain or the program shape (e.g. a rational domain routed to ADMM).
	ErrIllegalSolver = errors.New("solver: backend not legal for this domain or program")

	// ErrMalformedProgram is returned for programs with out-of-range variables
	// or mis-sized coefficient vectors.
	ErrMalformedProgram = errors.New("solver: malformed program")

	// ErrInvalidSettings wraps validation failures of Settings.
	ErrInvalidSettings = errors.New("solver: invalid settings")

	// ErrInfeasible is the Reason of a StatusInfeasible result.
	ErrInfeasible = errors.New("solver: program is infeasible")

	// ErrUnbounded is the Reason of a StatusUnbounded result.
	ErrUnbounded = errors.New("solver: program is unbounded")

	// ErrMaxIterations is the Reason when an iterative method runs out of iterations.
	ErrMaxIterations = errors.New("solver: iteration limit reached")

	// ErrNumerical is the Reason for numerical breakdowns (singular bases,
	// failed factorizations).
	ErrNumerical = errors.New("solver: numerical failure")
)
