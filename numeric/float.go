// SPDX-License-Identifier: MIT

package numeric

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// DefaultEpsilon is the tolerance used by Float when no option overrides it.
const DefaultEpsilon = 1e-7

const panicEpsilonInvalid = "numeric: WithEpsilon: eps must be finite, non-negative"

// Float is the float64 domain with tolerance-based comparisons.
//
// Two values a, b are equal when |a-b| <= eps*max(1,|a|,|b|), i.e. the
// tolerance is absolute near zero and relative for large magnitudes.
// The zero value is ready to use and compares with DefaultEpsilon.
type Float struct {
	eps    float64
	hasEps bool
}

// Option configures a Float domain.
type Option func(*Float)

// WithEpsilon sets the comparison tolerance. eps == 0 gives bitwise-exact
// comparisons. Panics on negative or non-finite eps (programmer error).
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(f *Float) {
		f.eps = eps
		f.hasEps = true
	}
}

// NewFloat returns a Float domain configured by opts.
func NewFloat(opts ...Option) Float {
	f := Float{eps: DefaultEpsilon, hasEps: true}
	for _, opt := range opts {
		opt(&f)
	}

	return f
}

var _ Domain[float64] = Float{}

func (f Float) tol() float64 {
	if !f.hasEps {
		return DefaultEpsilon
	}

	return f.eps
}

func (Float) Name() string  { return "float" }
func (Float) Exact() bool   { return false }
func (Float) Zero() float64 { return 0 }
func (Float) One() float64  { return 1 }
func (Float) Inf() float64  { return math.Inf(1) }

func (Float) IsInf(a float64) bool { return math.IsInf(a, 1) }

func (Float) FromFloat(v float64) float64 { return v }
func (Float) FromInt(i int64) float64     { return float64(i) }
func (Float) Float(a float64) float64     { return a }

// Parse accepts plain floats, "inf" and fractions such as "1/3".
func (Float) Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if isInfLiteral(s) {
		return math.Inf(1), nil
	}
	if strings.Contains(s, "/") {
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return 0, fmt.Errorf("%q: %w", s, ErrParse)
		}
		v, _ := r.Float64()

		return v, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrParse)
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%q: %w", s, ErrNaN)
	}

	return v, nil
}

func (Float) String(a float64) string { return strconv.FormatFloat(a, 'g', -1, 64) }

func (Float) Add(a, b float64) float64 { return a + b }
func (Float) Sub(a, b float64) float64 { return a - b }
func (Float) Mul(a, b float64) float64 { return a * b }
func (Float) Div(a, b float64) float64 { return a / b }
func (Float) Neg(a float64) float64    { return -a }
func (Float) Abs(a float64) float64    { return math.Abs(a) }
func (Float) Exp(a float64) float64    { return math.Exp(a) }
func (Float) Log(a float64) float64    { return math.Log(a) }

// Equal reports |a-b| <= eps*max(1,|a|,|b|); equal infinities are equal.
func (f Float) Equal(a, b float64) bool {
	if a == b {
		return true
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))

	return math.Abs(a-b) <= f.tol()*scale
}

func (f Float) Cmp(a, b float64) int {
	switch {
	case f.Equal(a, b):
		return 0
	case a < b:
		return -1
	default:
		return 1
	}
}

func (f Float) Less(a, b float64) bool   { return a < b && !f.Equal(a, b) }
func (f Float) LessEq(a, b float64) bool { return a <= b || f.Equal(a, b) }
func (f Float) Epsilon() float64         { return f.tol() }

func isInfLiteral(s string) bool {
	switch strings.ToLower(s) {
	case "inf", "+inf", "infinity", "+infinity":
		return true
	}

	return false
}
