// SPDX-License-Identifier: MIT

package synth

import "errors"

// Validation errors, reported before any solver runs.
var (
	ErrEmptyDomain       = errors.New("synth: no secrets or no outputs")
	ErrInvalidPrior      = errors.New("synth: prior is not a distribution")
	ErrDimensionMismatch = errors.New("synth: specification does not cover the secrets/outputs")
	ErrNegativeDistance  = errors.New("synth: metric has a negative distance")
	ErrInvalidMetric     = errors.New("synth: metric is not usable")
	ErrInvalidBudget     = errors.New("synth: negative bound, cutoff or privacy budget")
	ErrNegativeGain      = errors.New("synth: adversary specification has negative values")
	ErrNegativeLoss      = errors.New("synth: utility loss has negative values")
	ErrUnknownGoal       = errors.New("synth: unknown goal")
)

// Outcome errors.
var (
	// ErrInfeasible means no channel satisfies the constraints.
	ErrInfeasible = errors.New("synth: no channel satisfies the constraints")

	// ErrSolverFailed means the solver could not decide; it wraps the
	// solver's reason (solver.ErrMaxIterations, solver.ErrNumerical, ...).
	ErrSolverFailed = errors.New("synth: solver failed")

	// ErrInvalidSolution means the decoded optimum is not a channel.
	ErrInvalidSolution = errors.New("synth: solver returned an invalid channel")
)
