// SPDX-License-Identifier: MIT

package synth

import (
	"github.com/katalvlaran/qifsynth/measure"
	"github.com/katalvlaran/qifsynth/numeric"
	"github.com/katalvlaran/qifsynth/prob"
	"github.com/katalvlaran/qifsynth/solver"
)

// MinLossGivenVulnerability returns the channel of least expected loss
// whose g-vulnerability is at most bound. Nil loss/gain default to the 0/1
// loss and the identity gain; privacy may be nil.
func MinLossGivenVulnerability[T any](
	dom numeric.Domain[T], prior prob.Dist[T], outputs int, bound T,
	loss, gain measure.Spec[T], privacy *Privacy[T], s solver.Settings, opts ...GoalOption[T],
) (Result[T], error) {
	return run(dom, GoalMinLossGivenVulnerability, prior, outputs, bound, loss, gain, privacy, s, opts)
}

// MinLossGivenRisk returns the channel of least expected loss whose
// adversary risk is at least bound.
func MinLossGivenRisk[T any](
	dom numeric.Domain[T], prior prob.Dist[T], outputs int, bound T,
	loss, advLoss measure.Spec[T], privacy *Privacy[T], s solver.Settings, opts ...GoalOption[T],
) (Result[T], error) {
	return run(dom, GoalMinLossGivenRisk, prior, outputs, bound, loss, advLoss, privacy, s, opts)
}

// MinVulnerabilityGivenLoss returns the least vulnerable channel whose
// expected loss is at most bound.
func MinVulnerabilityGivenLoss[T any](
	dom numeric.Domain[T], prior prob.Dist[T], outputs int, bound T,
	loss, gain measure.Spec[T], privacy *Privacy[T], s solver.Settings, opts ...GoalOption[T],
) (Result[T], error) {
	return run(dom, GoalMinVulnerabilityGivenLoss, prior, outputs, bound, loss, gain, privacy, s, opts)
}

// MaxRiskGivenLoss returns the channel of greatest adversary risk
// whose expected loss is at most bound.
func MaxRiskGivenLoss[T any](
	dom numeric.Domain[T], prior prob.Dist[T], outputs int, bound T,
	loss, advLoss measure.Spec[T], privacy *Privacy[T], s solver.Settings, opts ...GoalOption[T],
) (Result[T], error) {
	return run(dom, GoalMaxRiskGivenLoss, prior, outputs, bound, loss, advLoss, privacy, s, opts)
}

func run[T any](
	dom numeric.Domain[T], kind Kind, prior prob.Dist[T], outputs int, bound T,
	loss, adv measure.Spec[T], privacy *Privacy[T], s solver.Settings, opts []GoalOption[T],
) (Result[T], error) {
	return Synthesize(dom, Request[T]{
		Prior:     prior,
		Outputs:   outputs,
		Goal:      NewGoal(kind, bound, opts...),
		Loss:      loss,
		Adversary: adv,
		Privacy:   privacy,
	}, s)
}
