// SPDX-License-Identifier: MIT

package numeric

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// ratInf is the infinity sentinel of the Rational domain (10^308).
// big.Rat has no infinity; any value >= ratInf is treated as infinite.
var ratInf = new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(308), nil))

// Rational is the exact domain over *big.Rat.
//
// Comparisons are exact. Exp is the only approximated operation (see Domain.Exp).
// Division by zero yields Inf for a non-zero dividend and Zero for 0/0; callers in
// this module guard zero denominators explicitly and never rely on it.
type Rational struct{}

var _ Domain[*big.Rat] = Rational{}

func (Rational) Name() string     { return "rational" }
func (Rational) Exact() bool      { return true }
func (Rational) Zero() *big.Rat   { return new(big.Rat) }
func (Rational) One() *big.Rat    { return big.NewRat(1, 1) }
func (Rational) Inf() *big.Rat    { return new(big.Rat).Set(ratInf) }
func (Rational) Epsilon() float64 { return 0 }

func (Rational) IsInf(a *big.Rat) bool { return a.Cmp(ratInf) >= 0 }

// FromFloat converts f exactly (every finite float64 is a rational).
// +Inf maps to the sentinel; -Inf to its negation. Panics on NaN.
func (Rational) FromFloat(f float64) *big.Rat {
	switch {
	case math.IsNaN(f):
		panic("numeric: Rational.FromFloat(NaN)")
	case math.IsInf(f, 1):
		return new(big.Rat).Set(ratInf)
	case math.IsInf(f, -1):
		return new(big.Rat).Neg(ratInf)
	}

	return new(big.Rat).SetFloat64(f)
}

func (Rational) FromInt(i int64) *big.Rat { return new(big.Rat).SetInt64(i) }

func (Rational) Float(a *big.Rat) float64 {
	if a.Cmp(ratInf) >= 0 {
		return math.Inf(1)
	}
	f, _ := a.Float64()

	return f
}

// Parse accepts "3", "0.25", "1/3", "1e-3" and "inf".
func (Rational) Parse(s string) (*big.Rat, error) {
	s = strings.TrimSpace(s)
	if isInfLiteral(s) {
		return new(big.Rat).Set(ratInf), nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("%q: %w", s, ErrParse)
	}

	return r, nil
}

func (Rational) String(a *big.Rat) string {
	if a.Cmp(ratInf) >= 0 {
		return "inf"
	}

	return a.RatString()
}

func (Rational) Add(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func (Rational) Sub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }
func (Rational) Mul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }
func (Rational) Neg(a *big.Rat) *big.Rat    { return new(big.Rat).Neg(a) }
func (Rational) Abs(a *big.Rat) *big.Rat    { return new(big.Rat).Abs(a) }

func (Rational) Div(a, b *big.Rat) *big.Rat {
	if b.Sign() == 0 {
		if a.Sign() == 0 {
			return new(big.Rat)
		}

		return new(big.Rat).Set(ratInf)
	}

	return new(big.Rat).Quo(a, b)
}

func (r Rational) Exp(a *big.Rat) *big.Rat {
	if r.IsInf(a) {
		return new(big.Rat).Set(ratInf)
	}
	if a.Sign() == 0 {
		return big.NewRat(1, 1)
	}

	return r.FromFloat(math.Exp(r.Float(a)))
}

func (r Rational) Log(a *big.Rat) float64 { return math.Log(r.Float(a)) }

func (Rational) Cmp(a, b *big.Rat) int     { return a.Cmp(b) }
func (Rational) Equal(a, b *big.Rat) bool  { return a.Cmp(b) == 0 }
func (Rational) Less(a, b *big.Rat) bool   { return a.Cmp(b) < 0 }
func (Rational) LessEq(a, b *big.Rat) bool { return a.Cmp(b) <= 0 }
