// SPDX-License-Identifier: MIT

// Package numeric selects the arithmetic every other package computes in.
//
// Two domains are provided:
//
//   - Float    – float64 values compared with a relative+absolute tolerance.
//   - Rational – *big.Rat values compared exactly.
//
// Algorithms in this module are written once against Domain[T] and instantiated
// per domain through type parameters, so the choice is made at compile time and
// hot loops never branch on it.
//
// Besides arithmetic, a Domain tells the solver layer whether it is Exact: an
// exact domain must never be routed through a floating-point-only backend.
//
// Complexity:
//
//	Float operations are O(1). Rational operations cost O(size of the operands)
//	and allocate a fresh *big.Rat per result; inputs are never mutated.
package numeric
