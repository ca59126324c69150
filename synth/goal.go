// SPDX-License-Identifier: MIT

package synth

import (
	"fmt"
	"math"
)

// Kind tags the goal family.
type Kind int

const (
	// GoalMinLossGivenVulnerability minimizes expected loss with vulnerability at most Bound.
	GoalMinLossGivenVulnerability Kind = iota + 1
	// GoalMinLossGivenRisk minimizes expected loss with adversary risk at least Bound.
	GoalMinLossGivenRisk
	// GoalMinVulnerabilityGivenLoss minimizes vulnerability with expected loss at most Bound.
	GoalMinVulnerabilityGivenLoss
	// GoalMaxRiskGivenLoss maximizes adversary risk with expected loss at most Bound.
	GoalMaxRiskGivenLoss
)

func (k Kind) String() string {
	switch k {
	case GoalMinLossGivenVulnerability:
		return "min-loss-given-vulnerability"
	case GoalMinLossGivenRisk:
		return "min-loss-given-risk"
	case GoalMinVulnerabilityGivenLoss:
		return "min-vulnerability-given-loss"
	case GoalMaxRiskGivenLoss:
		return "max-risk-given-loss"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) valid() bool { return k >= GoalMinLossGivenVulnerability && k <= GoalMaxRiskGivenLoss }

// boundsLoss reports whether the bound applies to the expected loss.
func (k Kind) boundsLoss() bool { return k == GoalMinVulnerabilityGivenLoss || k == GoalMaxRiskGivenLoss }

// usesRisk reports whether the adversary is measured by risk (else vulnerability).
func (k Kind) usesRisk() bool { return k == GoalMinLossGivenRisk || k == GoalMaxRiskGivenLoss }

// Goal is what to optimize and the bound on the other quantity.
// An infinite Bound (dom.Inf()) drops the bound constraints.
type Goal[T any] struct {
	Kind  Kind
	Bound T

	// Cutoff pins C[x,y] to zero whenever loss(x,y) > Cutoff.
	Cutoff    T
	HasCutoff bool

	// Penalty λ > 0 adds λ·Σ C[x,y]² (penalized in the goal's direction)
	// and makes the program a convex QP.
	Penalty float64
}

// GoalOption configures a Goal.
type GoalOption[T any] func(*Goal[T])

// WithCutoff sets the hard cutoff on the utility loss.
func WithCutoff[T any](cutoff T) GoalOption[T] {
	return func(g *Goal[T]) {
		g.Cutoff = cutoff
		g.HasCutoff = true
	}
}

const panicPenaltyInvalid = "synth: WithPenalty: weight must be finite and non-negative"

// WithPenalty sets the quadratic penalty weight. Panics on negative or
// non-finite weights.
func WithPenalty[T any](weight float64) GoalOption[T] {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		panic(panicPenaltyInvalid)
	}

	return func(g *Goal[T]) { g.Penalty = weight }
}

// NewGoal returns a goal of the given kind and bound.
func NewGoal[T any](kind Kind, bound T, opts ...GoalOption[T]) Goal[T] {
	g := Goal[T]{Kind: kind, Bound: bound}
	for _, opt := range opts {
		opt(&g)
	}

	return g
}
