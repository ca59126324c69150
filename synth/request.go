// SPDX-License-Identifier: MIT

package synth

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/qifsynth/measure"
	"github.com/katalvlaran/qifsynth/metric"
	"github.com/katalvlaran/qifsynth/numeric"
	"github.com/katalvlaran/qifsynth/prob"
)

// Privacy asks for ε·d-privacy of the synthesized channel.
type Privacy[T any] struct {
	Metric  metric.Metric[T]
	Epsilon T
}

// Request is one synthesis problem. Inputs are only read.
type Request[T any] struct {
	Prior   prob.Dist[T]
	Outputs int
	Goal    Goal[T]

	// Loss is the utility loss over secrets × outputs; nil means 0/1 loss.
	Loss measure.Spec[T]
	// Adversary is the gain (vulnerability goals) or loss (risk goals) over
	// secrets × guesses; nil means the identity gain or the 0/1 loss.
	Adversary measure.Spec[T]

	// Privacy is optional.
	Privacy *Privacy[T]
}

// loss returns the effective utility loss.
func (r Request[T]) loss(dom numeric.Domain[T]) measure.Spec[T] {
	if r.Loss != nil {
		return r.Loss
	}

	return measure.ZeroOne(dom)
}

// adversary returns the effective adversary specification.
func (r Request[T]) adversary(dom numeric.Domain[T]) measure.Spec[T] {
	switch {
	case r.Adversary != nil:
		return r.Adversary
	case r.Goal.Kind.usesRisk():
		return measure.ZeroOne(dom)
	default:
		return measure.Identity(dom)
	}
}

// Validate checks the request before anything is built. Errors wrap the
// package's validation sentinels.
//
// Complexity: O(n·(m + k) + n²) for k adversary guesses.
func Validate[T any](dom numeric.Domain[T], r Request[T]) error {
	n, m := len(r.Prior), r.Outputs
	if n == 0 || m <= 0 {
		return fmt.Errorf("%d secrets, %d outputs: %w", n, m, ErrEmptyDomain)
	}
	if !r.Goal.Kind.valid() {
		return fmt.Errorf("%v: %w", r.Goal.Kind, ErrUnknownGoal)
	}
	if err := prob.ValidateProb(dom, r.Prior); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPrior, err)
	}
	if numeric.IsNegative(dom, r.Goal.Bound) {
		return fmt.Errorf("bound %s: %w", dom.String(r.Goal.Bound), ErrInvalidBudget)
	}
	if r.Goal.HasCutoff && numeric.IsNegative(dom, r.Goal.Cutoff) {
		return fmt.Errorf("cutoff %s: %w", dom.String(r.Goal.Cutoff), ErrInvalidBudget)
	}

	loss := r.loss(dom)
	if !measure.Covers(loss, n, m) {
		return fmt.Errorf("loss is %dx%d for %d secrets and %d outputs: %w", loss.Secrets(), loss.Guesses(), n, m, ErrDimensionMismatch)
	}
	if err := checkLoss(dom, loss, n, m); err != nil {
		return err
	}
	adv := r.adversary(dom)
	k := measure.GuessCount(adv, n)
	if !measure.Covers(adv, n, k) {
		return fmt.Errorf("adversary covers %d secrets, want %d: %w", adv.Secrets(), n, ErrDimensionMismatch)
	}
	for x := 0; x < n; x++ {
		for w := 0; w < k; w++ {
			if v := adv.Value(x, w); numeric.IsNegative(dom, v) {
				return fmt.Errorf("adversary(%d,%d) = %s: %w", x, w, dom.String(v), ErrNegativeGain)
			}
		}
	}

	if r.Privacy != nil {
		if numeric.IsNegative(dom, r.Privacy.Epsilon) {
			return fmt.Errorf("epsilon %s: %w", dom.String(r.Privacy.Epsilon), ErrInvalidBudget)
		}
		if err := metric.Validate(dom, r.Privacy.Metric, n); err != nil {
			switch {
			case errors.Is(err, metric.ErrNegativeDistance):
				return fmt.Errorf("%w: %w", ErrNegativeDistance, err)
			case errors.Is(err, metric.ErrDimensionMismatch):
				return fmt.Errorf("%w: %w", ErrDimensionMismatch, err)
			default:
				return fmt.Errorf("%w: %w", ErrInvalidMetric, err)
			}
		}
	}

	return nil
}

// checkLoss rejects negative utility losses over n secrets and m outputs.
// A loss derived from a metric reports the offending distance.
func checkLoss[T any](dom numeric.Domain[T], loss measure.Spec[T], n, m int) error {
	_, fromMetric := loss.(measure.FromMetric[T])
	for x := 0; x < n; x++ {
		for y := 0; y < m; y++ {
			v := loss.Value(x, y)
			if !numeric.IsNegative(dom, v) {
				continue
			}
			if fromMetric {
				return fmt.Errorf("loss d(%d,%d) = %s: %w", x, y, dom.String(v), ErrNegativeDistance)
			}

			return fmt.Errorf("loss(%d,%d) = %s: %w", x, y, dom.String(v), ErrNegativeLoss)
		}
	}

	return nil
}
