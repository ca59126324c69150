// SPDX-License-Identifier: MIT

package measure

import (
	"fmt"

	"github.com/katalvlaran/qifsynth/numeric"
	"github.com/katalvlaran/qifsynth/prob"
)

func checkShape[T any](pi prob.Dist[T], c prob.Channel[T]) error {
	if len(pi) == 0 || c.Rows() == 0 {
		return ErrEmpty
	}
	if len(pi) != c.Rows() {
		return fmt.Errorf("prior has %d secrets, channel %d rows: %w", len(pi), c.Rows(), ErrDimensionMismatch)
	}

	return nil
}

// guessGain returns Σ_x π(x)·C[x,y]·spec(x,w): the joint weight of output y
// under guess w.
func guessGain[T any](dom numeric.Domain[T], spec Spec[T], pi prob.Dist[T], c prob.Channel[T], y, w int) T {
	s := dom.Zero()
	for x := range pi {
		s = dom.Add(s, dom.Mul(dom.Mul(pi[x], c.At(x, y)), spec.Value(x, w)))
	}

	return s
}

// Vulnerability is the posterior g-vulnerability
//
//	V_g(π, C) = Σ_y max_w Σ_x π(x)·C[x,y]·g(x,w)
//
// Complexity: O(m·k·n) for k guesses.
func Vulnerability[T any](dom numeric.Domain[T], g Spec[T], pi prob.Dist[T], c prob.Channel[T]) (T, error) {
	if err := checkShape(pi, c); err != nil {
		return dom.Zero(), fmt.Errorf("Vulnerability: %w", err)
	}
	if !Covers(g, len(pi), 0) {
		return dom.Zero(), fmt.Errorf("Vulnerability: gain covers %d secrets: %w", g.Secrets(), ErrDimensionMismatch)
	}
	k := GuessCount(g, len(pi))
	total := dom.Zero()
	for y := 0; y < c.Cols(); y++ {
		best := guessGain(dom, g, pi, c, y, 0)
		for w := 1; w < k; w++ {
			if v := guessGain(dom, g, pi, c, y, w); dom.Less(best, v) {
				best = v
			}
		}
		total = dom.Add(total, best)
	}

	return total, nil
}

// Risk is the posterior l-risk
//
//	R_l(π, C) = Σ_y min_w Σ_x π(x)·C[x,y]·l(x,w)
func Risk[T any](dom numeric.Domain[T], l Spec[T], pi prob.Dist[T], c prob.Channel[T]) (T, error) {
	if err := checkShape(pi, c); err != nil {
		return dom.Zero(), fmt.Errorf("Risk: %w", err)
	}
	if !Covers(l, len(pi), 0) {
		return dom.Zero(), fmt.Errorf("Risk: loss covers %d secrets: %w", l.Secrets(), ErrDimensionMismatch)
	}
	k := GuessCount(l, len(pi))
	total := dom.Zero()
	for y := 0; y < c.Cols(); y++ {
		best := guessGain(dom, l, pi, c, y, 0)
		for w := 1; w < k; w++ {
			if v := guessGain(dom, l, pi, c, y, w); dom.Less(v, best) {
				best = v
			}
		}
		total = dom.Add(total, best)
	}

	return total, nil
}

// PriorVulnerability is max_w Σ_x π(x)·g(x,w) (the point channel).
func PriorVulnerability[T any](dom numeric.Domain[T], g Spec[T], pi prob.Dist[T]) (T, error) {
	point, err := prob.Deterministic(dom, make([]int, len(pi)), 1)
	if err != nil {
		return dom.Zero(), fmt.Errorf("PriorVulnerability: %w", err)
	}

	return Vulnerability(dom, g, pi, point)
}

// PriorRisk is min_w Σ_x π(x)·l(x,w).
func PriorRisk[T any](dom numeric.Domain[T], l Spec[T], pi prob.Dist[T]) (T, error) {
	point, err := prob.Deterministic(dom, make([]int, len(pi)), 1)
	if err != nil {
		return dom.Zero(), fmt.Errorf("PriorRisk: %w", err)
	}

	return Risk(dom, l, pi, point)
}

// BayesVulnerability is the vulnerability of the identity gain: the
// probability that an optimal adversary guesses the secret in one try.
func BayesVulnerability[T any](dom numeric.Domain[T], pi prob.Dist[T], c prob.Channel[T]) (T, error) {
	return Vulnerability(dom, Identity(dom), pi, c)
}

// ExpectedLoss is the utility loss of a mechanism reporting y for secret x:
//
//	L(π, C) = Σ_x π(x)·Σ_y C[x,y]·l(x,y)
func ExpectedLoss[T any](dom numeric.Domain[T], l Spec[T], pi prob.Dist[T], c prob.Channel[T]) (T, error) {
	if err := checkShape(pi, c); err != nil {
		return dom.Zero(), fmt.Errorf("ExpectedLoss: %w", err)
	}
	if !Covers(l, c.Rows(), c.Cols()) {
		return dom.Zero(), fmt.Errorf("ExpectedLoss: loss is %dx%d, channel %dx%d: %w",
			l.Secrets(), l.Guesses(), c.Rows(), c.Cols(), ErrDimensionMismatch)
	}
	total := dom.Zero()
	for x := range pi {
		row := dom.Zero()
		for y := 0; y < c.Cols(); y++ {
			row = dom.Add(row, dom.Mul(c.At(x, y), l.Value(x, y)))
		}
		total = dom.Add(total, dom.Mul(pi[x], row))
	}

	return total, nil
}
