// SPDX-License-Identifier: MIT

// Package qifsynth synthesizes privacy mechanisms by constrained optimization
// and checks the leakage of the channels it produces.
//
// What is qifsynth?
//
//	A library of small flat packages that together:
//		• Model priors and channels over float64 or exact *big.Rat values
//		• Measure leakage: g-vulnerability, risk, expected loss
//		• Check d-privacy and Lipschitz properties against a metric
//		• Encode "best utility under a leakage bound" (and its duals) as an LP or convex QP
//		• Solve it with gonum's simplex, an exact tableau simplex or an ADMM QP solver
//
// Packages:
//
//	numeric/  Domain[T]: Float (tolerance) and Rational (exact) arithmetic
//	prob/     Dist and Channel values, validity queries, text parse/format
//	metric/   distance metrics, chainability pruning, d-privacy checks
//	measure/  gain/loss specifications and leakage measures
//	solver/   Program model, Settings (YAML), Gonum/Tableau/ADMM backends
//	synth/    goal encoding, Synthesize and the four goal facades
//
// Quick example, the truncated geometric mechanism on three points:
//
//	d := metric.Line[float64](fl)
//	res, err := synth.MinLossGivenVulnerability[float64](fl, prob.Uniform[float64](fl, 3), 3,
//		fl.Inf(), nil, nil, &synth.Privacy[float64]{Metric: d, Epsilon: 1}, solver.DefaultSettings())
//
// Everything is synchronous and deterministic; settings travel with every call.
//
//	go get github.com/katalvlaran/qifsynth
package qifsynth
