// SPDX-License-Identifier: MIT

package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// polishDelta regularizes the reduced KKT system.
const polishDelta = 1e-6

// polish guesses the active constraints from the ADMM duals and solves the
// equality-constrained problem on them exactly:
//
//	[ P + δI   A_actᵀ ] [x]   [ −q    ]
//	[ A_act    −δI    ] [y] = [ b_act ]
//
// followed by PolishRefine rounds of iterative refinement against the
// unregularized matrix. The result is accepted only when its residuals are no
// worse than the ADMM ones and its duals have the signs the active set implies.
func (k *qp) polish(run admmRun, cfg ADMMSettings) ([]float64, bool) {
	type active struct {
		row   int
		bound float64
		sign  int // -1 lower, +1 upper, 0 equality
	}
	var act []active
	for i := 0; i < k.m; i++ {
		switch {
		case k.l[i] == k.u[i]:
			act = append(act, active{row: i, bound: k.l[i]})
		case !math.IsInf(k.l[i], -1) && run.z[i]-k.l[i] < -run.y[i]:
			act = append(act, active{row: i, bound: k.l[i], sign: -1})
		case !math.IsInf(k.u[i], 1) && k.u[i]-run.z[i] < run.y[i]:
			act = append(act, active{row: i, bound: k.u[i], sign: 1})
		}
	}

	n, na := k.n, len(act)
	dim := n + na
	build := func(delta float64) *mat.Dense {
		kkt := mat.NewDense(dim, dim, nil)
		for j := 0; j < n; j++ {
			kkt.Set(j, j, k.p[j]+delta)
		}
		for r, a := range act {
			for j := 0; j < n; j++ {
				v := k.a.At(a.row, j)
				kkt.Set(n+r, j, v)
				kkt.Set(j, n+r, v)
			}
			kkt.Set(n+r, n+r, -delta)
		}

		return kkt
	}
	reg, exact := build(polishDelta), build(0)

	rhs := make([]float64, dim)
	for j := 0; j < n; j++ {
		rhs[j] = -k.q[j]
	}
	for r, a := range act {
		rhs[n+r] = a.bound
	}

	var lu mat.LU
	lu.Factorize(reg)
	sol := mat.NewVecDense(dim, nil)
	if err := lu.SolveVecTo(sol, false, mat.NewVecDense(dim, rhs)); err != nil {
		return nil, false
	}
	resid := mat.NewVecDense(dim, nil)
	var corr mat.VecDense
	for it := 0; it < cfg.PolishRefine; it++ {
		resid.MulVec(exact, sol)
		resid.SubVec(mat.NewVecDense(dim, rhs), resid)
		if err := lu.SolveVecTo(&corr, false, resid); err != nil {
			return nil, false
		}
		sol.AddVec(sol, &corr)
	}

	x := make([]float64, n)
	y := make([]float64, k.m)
	for j := range x {
		x[j] = sol.AtVec(j)
	}
	tol := math.Max(cfg.EpsAbs, 1e-9)
	for r, a := range act {
		v := sol.AtVec(n + r)
		if float64(a.sign)*v < -tol {
			return nil, false
		}
		y[a.row] = v
	}

	ax := make([]float64, k.m)
	mat.NewVecDense(k.m, ax).MulVec(k.a, mat.NewVecDense(n, x))
	var rPrim float64
	for i, v := range ax {
		rPrim = math.Max(rPrim, math.Max(k.l[i]-v, v-k.u[i]))
	}
	dual := make([]float64, n)
	mat.NewVecDense(n, dual).MulVec(k.a.T(), mat.NewVecDense(k.m, y))
	for j := range dual {
		dual[j] += k.p[j]*x[j] + k.q[j]
	}
	rDual := floats.Norm(dual, math.Inf(1))

	if rPrim > math.Max(run.rPrim, cfg.EpsAbs) || rDual > math.Max(run.rDual, cfg.EpsAbs) {
		return nil, false
	}

	return x, true
}
