// SPDX-License-Identifier: MIT
// Package solver is the optimization backend layer: a small program model
// (linear objective, optional diagonal quadratic penalty, linear rows over
// non-negative variables) and interchangeable strategies that solve it.
//
// Strategies:
//   - Gonum: float64 LP through gonum's optimize/convex/lp.Simplex, after
//     conversion to standard form with slack columns.
//   - Tableau: two-phase dense tableau simplex with Bland's rule, generic over
//     numeric.Domain. The only strategy legal for exact (rational) domains.
//   - ADMM: float64 convex QP by operator splitting (OSQP style) with a KKT
//     factorization reused across iterations and optional polishing.
//
// Selection goes through Linear and Quadratic, which refuse a backend that
// cannot honor the domain (ErrIllegalSolver). Numerical outcomes are reported
// as a Status in Result; the error return is reserved for malformed programs
// and illegal combinations.
//
// Settings are a plain value passed to every call. There is no package-level
// mutable default.
package solver
