// SPDX-License-Identifier: MIT

package solver

// Status is the outcome class of a Solve call.
type Status int

const (
	// StatusOptimal means X is an optimal solution.
	StatusOptimal Status = iota
	// StatusInfeasible means no point satisfies the rows.
	StatusInfeasible
	// StatusUnbounded means the objective improves without limit.
	StatusUnbounded
	// StatusError means the backend stopped without a verdict; see Reason.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	}

	return "error"
}

// Result is the answer of a backend. X and Objective are meaningful only when
// Status is StatusOptimal. Reason carries one of the package sentinels for
// the other statuses.
type Result[T any] struct {
	Status     Status
	X          []T
	Objective  T
	Iterations int
	Reason     error
}

func failed[T any](status Status, reason error, iters int) Result[T] {
	return Result[T]{Status: status, Reason: reason, Iterations: iters}
}
