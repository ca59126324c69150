// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/qifsynth/numeric"
)

// eqRhoScale multiplies the step size of equality rows.
const eqRhoScale = 1e3

// rhoRefactor triggers a refactorization when the adaptive step moves by more
// than this factor in either direction.
const rhoRefactor = 5.0

const (
	rhoMin = 1e-6
	rhoMax = 1e6
)

// ADMM solves float64 convex quadratic programs
//
//	min ½·xᵀPx + qᵀx  s.t.  l ≤ Ax ≤ u
//
// by operator splitting in the style of OSQP. P is the diagonal Quad of the
// program; the rows of A are the program rows followed by one identity row per
// variable carrying x ≥ 0.
//
// Each iteration solves (P + σI + Aᵀ·diag(ρ)·A)·x̃ = σx − q + Aᵀ(ρ∘z − y) with
// a Cholesky factorization that is reused until the adaptive step changes,
// relaxes x̃ and Ax̃ by Alpha, projects onto [l, u] and updates the duals.
// Termination is checked every CheckEvery iterations against
//
//	‖Ax − z‖∞ ≤ EpsAbs + EpsRel·max(‖Ax‖∞, ‖z‖∞)
//	‖Px + q + Aᵀy‖∞ ≤ EpsAbs + EpsRel·max(‖Px‖∞, ‖Aᵀy‖∞, ‖q‖∞)
//
// and against the primal infeasibility certificate on δy. A solution is then
// optionally polished (see polish). MaxIter without convergence is reported
// as StatusError with ErrMaxIterations.
type ADMM struct{}

var _ Solver[float64] = ADMM{}

// Solve implements Solver.
func (ADMM) Solve(p *Program[float64], s Settings) (Result[float64], error) {
	dom := numeric.NewFloat()
	if err := p.Check(dom); err != nil {
		return Result[float64]{}, fmt.Errorf("ADMM.Solve: %w", err)
	}

	red := identityReduction[float64](dom, p)
	if s.Presolve {
		red = presolve[float64](dom, p)
		if red.reason != nil {
			return failed[float64](red.status, red.reason, 0), nil
		}
	}
	if red.prog.NumVars == 0 {
		x := red.restore(nil)

		return Result[float64]{Status: StatusOptimal, X: x, Objective: p.Value(dom, x)}, nil
	}

	qp := newQP(red.prog)
	run := qp.admm(s.ADMM, s)
	if run.status != StatusOptimal {
		return failed[float64](run.status, run.reason, run.iters), nil
	}
	x := run.x
	if s.ADMM.Polish {
		if px, ok := qp.polish(run, s.ADMM); ok {
			s.logf(logrus.Fields{"iterations": run.iters}, "admm: polished solution accepted")
			x = px
		}
	}
	x = red.restore(x)

	return Result[float64]{Status: StatusOptimal, X: x, Objective: p.Value(dom, x), Iterations: run.iters}, nil
}

// qp is a program in OSQP form.
type qp struct {
	n, m int
	p    []float64 // diagonal of P
	q    []float64
	a    *mat.Dense
	l, u []float64
}

func newQP(prog *Program[float64]) *qp {
	n, rows := prog.NumVars, len(prog.Rows)
	m := rows + n
	out := &qp{
		n: n,
		m: m,
		p: make([]float64, n),
		q: make([]float64, n),
		a: mat.NewDense(m, n, nil),
		l: make([]float64, m),
		u: make([]float64, m),
	}
	copy(out.p, prog.Quad)
	for j, c := range prog.Objective {
		if prog.Sense == Maximize {
			c = -c
		}
		out.q[j] = c
	}
	for i, r := range prog.Rows {
		for _, t := range r.Terms {
			out.a.Set(i, t.Var, out.a.At(i, t.Var)+t.Coef)
		}
		switch r.Op {
		case LE:
			out.l[i], out.u[i] = math.Inf(-1), r.RHS
		case GE:
			out.l[i], out.u[i] = r.RHS, math.Inf(1)
		default:
			out.l[i], out.u[i] = r.RHS, r.RHS
		}
	}
	for j := 0; j < n; j++ {
		out.a.Set(rows+j, j, 1)
		out.l[rows+j], out.u[rows+j] = 0, math.Inf(1)
	}

	return out
}

// admmRun is the state handed from the iterations to polishing.
type admmRun struct {
	x, z, y        []float64
	rPrim, rDual   float64
	iters          int
	status         Status
	reason         error
	stepsRefreshed int
}

func (k *qp) rhoVector(rho float64) []float64 {
	out := make([]float64, k.m)
	for i := range out {
		out[i] = rho
		if k.l[i] == k.u[i] {
			out[i] = rho * eqRhoScale
		}
	}

	return out
}

// factor builds and factorizes P + σI + Aᵀ·diag(ρ)·A.
func (k *qp) factor(sigma float64, rho []float64) (*mat.Cholesky, error) {
	sym := mat.NewSymDense(k.n, nil)
	for i := 0; i < k.n; i++ {
		for j := 0; j <= i; j++ {
			var v float64
			for r := 0; r < k.m; r++ {
				v += k.a.At(r, i) * rho[r] * k.a.At(r, j)
			}
			if i == j {
				v += k.p[i] + sigma
			}
			sym.SetSym(i, j, v)
		}
	}
	var chol mat.Cholesky
	if !chol.Factorize(sym) {
		return nil, fmt.Errorf("KKT matrix not positive definite: %w", ErrNumerical)
	}

	return &chol, nil
}

func (k *qp) admm(cfg ADMMSettings, s Settings) admmRun {
	n, m := k.n, k.m
	rhoScalar := cfg.Rho
	rho := k.rhoVector(rhoScalar)
	chol, err := k.factor(cfg.Sigma, rho)
	if err != nil {
		return admmRun{status: StatusError, reason: err}
	}

	var (
		x, xt      = make([]float64, n), make([]float64, n)
		z, zt      = make([]float64, m), make([]float64, m)
		y, dy      = make([]float64, m), make([]float64, m)
		w, rhs     = make([]float64, m), make([]float64, n)
		ax, px     = make([]float64, m), make([]float64, n)
		aty        = make([]float64, n)
		xtVec      = mat.NewVecDense(n, xt)
		rhsVec     = mat.NewVecDense(n, rhs)
		alpha, sig = cfg.Alpha, cfg.Sigma
	)
	var run admmRun
	mulA := func(dst, v []float64) { mat.NewVecDense(m, dst).MulVec(k.a, mat.NewVecDense(n, v)) }
	mulAT := func(dst, v []float64) { mat.NewVecDense(n, dst).MulVec(k.a.T(), mat.NewVecDense(m, v)) }

	for it := 1; it <= cfg.MaxIter; it++ {
		run.iters = it
		for i := range w {
			w[i] = rho[i]*z[i] - y[i]
		}
		mulAT(rhs, w)
		for j := range rhs {
			rhs[j] += sig*x[j] - k.q[j]
		}
		if err := chol.SolveVecTo(xtVec, rhsVec); err != nil {
			return admmRun{status: StatusError, reason: fmt.Errorf("%w: %v", ErrNumerical, err), iters: it}
		}
		mulA(zt, xt)
		for j := range x {
			x[j] = alpha*xt[j] + (1-alpha)*x[j]
		}
		for i := range z {
			zh := alpha*zt[i] + (1-alpha)*z[i]
			zn := clamp(zh+y[i]/rho[i], k.l[i], k.u[i])
			dy[i] = rho[i] * (zh - zn)
			y[i] += dy[i]
			z[i] = zn
		}

		if it%cfg.CheckEvery != 0 && it != cfg.MaxIter {
			continue
		}

		mulA(ax, x)
		mulAT(aty, y)
		for j := range px {
			px[j] = k.p[j] * x[j]
		}
		inf := math.Inf(1)
		floats.SubTo(w, ax, z)
		rPrim := floats.Norm(w, inf)
		for j := range rhs {
			rhs[j] = px[j] + k.q[j] + aty[j]
		}
		rDual := floats.Norm(rhs, inf)
		normAx, normZ := floats.Norm(ax, inf), floats.Norm(z, inf)
		normPx, normATy, normQ := floats.Norm(px, inf), floats.Norm(aty, inf), floats.Norm(k.q, inf)
		epsPrim := cfg.EpsAbs + cfg.EpsRel*math.Max(normAx, normZ)
		epsDual := cfg.EpsAbs + cfg.EpsRel*math.Max(normPx, math.Max(normATy, normQ))

		if rPrim <= epsPrim && rDual <= epsDual {
			s.logf(logrus.Fields{"iterations": it, "r_prim": rPrim, "r_dual": rDual, "refactors": run.stepsRefreshed}, "admm: converged")
			run.x, run.z, run.y = x, z, y
			run.rPrim, run.rDual = rPrim, rDual
			run.status = StatusOptimal

			return run
		}
		if k.primalInfeasible(dy, cfg.EpsPrimInf) {
			s.logf(logrus.Fields{"iterations": it}, "admm: primal infeasibility certificate")

			return admmRun{status: StatusInfeasible, reason: ErrInfeasible, iters: it}
		}

		// Adaptive step: balance the scaled residuals.
		primScale := rPrim / math.Max(math.Max(normAx, normZ), 1e-10)
		dualScale := rDual / math.Max(math.Max(normPx, math.Max(normATy, normQ)), 1e-10)
		if primScale > 0 && dualScale > 0 {
			next := clamp(rhoScalar*math.Sqrt(primScale/dualScale), rhoMin, rhoMax)
			if next > rhoScalar*rhoRefactor || next < rhoScalar/rhoRefactor {
				nextRho := k.rhoVector(next)
				if c, err := k.factor(sig, nextRho); err == nil {
					rhoScalar, rho, chol = next, nextRho, c
					run.stepsRefreshed++
				}
			}
		}
		s.logf(logrus.Fields{"iterations": it, "r_prim": rPrim, "r_dual": rDual, "rho": rhoScalar}, "admm: progress")
	}

	return admmRun{
		status: StatusError,
		reason: fmt.Errorf("%d iterations: %w", cfg.MaxIter, ErrMaxIterations),
		iters:  cfg.MaxIter,
	}
}

// primalInfeasible tests the certificate
//
//	‖Aᵀδy‖∞ ≤ ε·‖δy‖∞  and  uᵀ·max(δy,0) + lᵀ·min(δy,0) ≤ −ε·‖δy‖∞
//
// treating components below ε·‖δy‖∞ as zero.
func (k *qp) primalInfeasible(dy []float64, eps float64) bool {
	norm := floats.Norm(dy, math.Inf(1))
	if norm < eps {
		return false
	}
	cut := eps * norm
	d := make([]float64, len(dy))
	support := 0.0
	for i, v := range dy {
		switch {
		case v > cut:
			if math.IsInf(k.u[i], 1) {
				return false
			}
			d[i] = v
			support += k.u[i] * v
		case v < -cut:
			if math.IsInf(k.l[i], -1) {
				return false
			}
			d[i] = v
			support += k.l[i] * v
		}
	}
	atd := make([]float64, k.n)
	mat.NewVecDense(k.n, atd).MulVec(k.a.T(), mat.NewVecDense(k.m, d))

	return floats.Norm(atd, math.Inf(1)) <= cut && support <= -cut
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
