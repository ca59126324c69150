// SPDX-License-Identifier: MIT

package synth

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/qifsynth/measure"
	"github.com/katalvlaran/qifsynth/numeric"
	"github.com/katalvlaran/qifsynth/prob"
	"github.com/katalvlaran/qifsynth/solver"
)

// Result is a synthesized channel with its measures.
type Result[T any] struct {
	Channel prob.Channel[T]

	// Objective is the goal's quantity measured on Channel: the expected
	// loss for MinLoss* goals, the vulnerability or risk otherwise.
	Objective T
	// Loss is the expected utility loss of Channel.
	Loss T
	// Leakage is the adversary's vulnerability (or risk, for risk goals).
	Leakage T

	Iterations int
}

// Synthesize validates r, builds the program, solves it with the backend
// matching its shape and decodes the optimum.
//
// Errors: validation sentinels; solver.ErrIllegalSolver (e.g. a penalty in an
// exact domain); ErrInfeasible; ErrSolverFailed wrapping the solver reason;
// ErrInvalidSolution. Nothing is retried.
func Synthesize[T any](dom numeric.Domain[T], r Request[T], s solver.Settings) (Result[T], error) {
	prog, lay, err := Build(dom, r)
	if err != nil {
		return Result[T]{}, fmt.Errorf("Synthesize: %w", err)
	}
	quadratic := prog.IsQuadratic(dom)
	log := s.Log().WithFields(logrus.Fields{
		"goal":      r.Goal.Kind.String(),
		"domain":    dom.Name(),
		"secrets":   lay.N,
		"outputs":   lay.M,
		"vars":      prog.NumVars,
		"rows":      len(prog.Rows),
		"pinned":    lay.Pinned(),
		"quadratic": quadratic,
	})
	log.Debug("synth: program built")

	var sv solver.Solver[T]
	if quadratic {
		sv, err = solver.Quadratic(dom, s)
	} else {
		sv, err = solver.Linear(dom, s)
	}
	if err != nil {
		return Result[T]{}, fmt.Errorf("Synthesize: %w", err)
	}
	res, err := sv.Solve(prog, s)
	if err != nil {
		return Result[T]{}, fmt.Errorf("Synthesize: %w", err)
	}
	log.WithFields(logrus.Fields{"status": res.Status.String(), "iterations": res.Iterations}).Debug("synth: solver returned")

	switch res.Status {
	case solver.StatusOptimal:
	case solver.StatusInfeasible:
		return Result[T]{}, fmt.Errorf("Synthesize: %w: %w", ErrInfeasible, res.Reason)
	default:
		return Result[T]{}, fmt.Errorf("Synthesize: %s: %w: %w", res.Status, ErrSolverFailed, res.Reason)
	}

	ch, err := Decode(checkDomain(dom, quadratic, s), lay, res.X)
	if err != nil {
		return Result[T]{}, fmt.Errorf("Synthesize: %w", err)
	}
	out, err := Measure(dom, r, ch)
	if err != nil {
		return Result[T]{}, fmt.Errorf("Synthesize: %w", err)
	}
	out.Iterations = res.Iterations
	log.WithFields(logrus.Fields{
		"objective": dom.String(out.Objective),
		"loss":      dom.String(out.Loss),
		"leakage":   dom.String(out.Leakage),
	}).Debug("synth: channel decoded")

	return out, nil
}

// Measure evaluates the goal's quantities on channel c for request r.
func Measure[T any](dom numeric.Domain[T], r Request[T], c prob.Channel[T]) (Result[T], error) {
	loss, err := measure.ExpectedLoss(dom, r.loss(dom), r.Prior, c)
	if err != nil {
		return Result[T]{}, err
	}
	var leak T
	if r.Goal.Kind.usesRisk() {
		leak, err = measure.Risk(dom, r.adversary(dom), r.Prior, c)
	} else {
		leak, err = measure.Vulnerability(dom, r.adversary(dom), r.Prior, c)
	}
	if err != nil {
		return Result[T]{}, err
	}
	out := Result[T]{Channel: c, Loss: loss, Leakage: leak, Objective: loss}
	if r.Goal.Kind.boundsLoss() {
		out.Objective = leak
	}

	return out, nil
}

// checkDomain widens the float tolerance to the ADMM accuracy for QP
// solutions; LP solutions are checked in dom itself.
func checkDomain[T any](dom numeric.Domain[T], quadratic bool, s solver.Settings) numeric.Domain[T] {
	if !quadratic || dom.Exact() {
		return dom
	}
	tol := 10 * (s.ADMM.EpsAbs + s.ADMM.EpsRel)
	if tol <= dom.Epsilon() {
		return dom
	}
	if wide, ok := any(numeric.NewFloat(numeric.WithEpsilon(tol))).(numeric.Domain[T]); ok {
		return wide
	}

	return dom
}
