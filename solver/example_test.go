package solver_test

import (
	"fmt"
	"math/big"

	"github.com/katalvlaran/qifsynth/numeric"
	"github.com/katalvlaran/qifsynth/solver"
)

// ExampleTableau solves a two-variable covering LP exactly over rationals.
func ExampleTableau() {
	var q numeric.Rational
	one, two, three := big.NewRat(1, 1), big.NewRat(2, 1), big.NewRat(3, 1)

	p := &solver.Program[*big.Rat]{NumVars: 2, Objective: []*big.Rat{one, one}}
	p.AddRow(solver.GE, two, solver.Term[*big.Rat]{Var: 0, Coef: one}, solver.Term[*big.Rat]{Var: 1, Coef: two})
	p.AddRow(solver.GE, three, solver.Term[*big.Rat]{Var: 0, Coef: three}, solver.Term[*big.Rat]{Var: 1, Coef: one})

	lp, err := solver.Linear[*big.Rat](q, solver.DefaultSettings())
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := lp.Solve(p, solver.DefaultSettings())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Status, q.String(res.Objective), q.String(res.X[0]), q.String(res.X[1]))
	// Output: optimal 7/5 4/5 3/5
}
