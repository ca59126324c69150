// SPDX-License-Identifier: MIT

// Package synth builds and solves mechanism-synthesis problems: given a prior
// over n secrets, a number m of outputs, a goal, a utility loss and an
// adversary specification (and optionally a metric with a privacy budget), it
// finds the n×m channel that optimizes the goal.
//
// Goal families (each with a facade of the same name minus the prefix):
//
//	GoalMinLossGivenVulnerability   min expected loss   s.t. V_g(π, C) ≤ bound
//	GoalMinLossGivenRisk            min expected loss   s.t. R_l(π, C) ≥ bound
//	GoalMinVulnerabilityGivenLoss   min V_g(π, C)       s.t. expected loss ≤ bound
//	GoalMaxRiskGivenLoss            max R_l(π, C)       s.t. expected loss ≤ bound
//
// Every channel entry C[x,y] is a program variable unless the goal's cutoff
// pins it to zero. Vulnerability and risk enter through one auxiliary
// variable per output, bounded by every guess. A d-privacy requirement adds
// C[x1,y] ≤ exp(ε·d(x1,x2))·C[x2,y] for every non-chainable ordered pair.
// A positive penalty turns the linear program into a convex QP.
//
// Synthesize validates, builds, dispatches to solver.Linear or
// solver.Quadratic, and decodes the optimum. Infeasibility (ErrInfeasible)
// and solver failure (ErrSolverFailed) are distinct and never retried.
package synth
