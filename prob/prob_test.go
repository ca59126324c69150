package prob_test

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qifsynth/numeric"
	"github.com/katalvlaran/qifsynth/prob"
)

var fl = numeric.NewFloat()

func TestDist_Validity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		d    []float64
		want error
	}{
		{"uniform", []float64{0.5, 0.5}, nil},
		{"within tolerance", []float64{0.3, 0.3, 0.4 + 1e-9}, nil},
		{"empty", nil, prob.ErrEmpty},
		{"negative", []float64{1.5, -0.5}, prob.ErrNegative},
		{"not normalized", []float64{0.5, 0.4}, prob.ErrNotNormalized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := prob.ValidateProb[float64](fl, prob.DistFromFloats[float64](fl, tc.d))
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestDist_Constructors(t *testing.T) {
	t.Parallel()

	r := numeric.Rational{}
	u := prob.Uniform[*big.Rat](r, 3)
	require.Equal(t, 3, u.Len())
	require.Equal(t, "1/3", u[0].RatString())
	require.True(t, prob.IsProb[*big.Rat](r, u))

	d := prob.Dirac[float64](fl, 4, 2)
	require.Equal(t, prob.Dist[float64]{0, 0, 1, 0}, d)
	require.True(t, prob.IsProb[float64](fl, d))
	require.Empty(t, prob.Uniform[float64](fl, 0))
}

func TestChannel_ValidityAndAccessors(t *testing.T) {
	t.Parallel()

	c, err := prob.ChannelFromFloats[float64](fl, [][]float64{
		{0.5, 0.5, 0},
		{0.1, 0.2, 0.7},
	})
	require.NoError(t, err)
	require.Equal(t, 2, c.Rows())
	require.Equal(t, 3, c.Cols())
	require.Equal(t, 0.7, c.At(1, 2))
	require.Equal(t, []float64{0.5, 0.5, 0}, c.Row(0))
	require.Equal(t, []float64{0.5, 0.2}, c.Col(1))
	require.True(t, prob.IsChannel[float64](fl, c))

	bad, err := prob.ChannelFromFloats[float64](fl, [][]float64{{0.5, 0.6}})
	require.NoError(t, err)
	require.True(t, errors.Is(prob.ValidateChannel[float64](fl, bad), prob.ErrNotNormalized))

	neg, err := prob.ChannelFromFloats[float64](fl, [][]float64{{-0.5, 1.5}})
	require.NoError(t, err)
	require.True(t, errors.Is(prob.ValidateChannel[float64](fl, neg), prob.ErrNegative))

	over, err := prob.ChannelFromFloats[float64](fl, [][]float64{{1.5, -0.5}})
	require.NoError(t, err)
	require.True(t, errors.Is(prob.ValidateChannel[float64](fl, over), prob.ErrOutOfRange))

	_, err = prob.ChannelFromFloats[float64](fl, [][]float64{{1, 0}, {1}})
	require.True(t, errors.Is(err, prob.ErrRaggedRows))

	_, err = prob.NewChannel[float64](fl, 0, 2)
	require.True(t, errors.Is(err, prob.ErrEmpty))
}

func TestChannel_ValuesAreNotShared(t *testing.T) {
	t.Parallel()

	data := []float64{1, 0, 0, 1}
	c, err := prob.ChannelFromData(2, 2, data)
	require.NoError(t, err)
	data[0] = 42
	require.Equal(t, 1.0, c.At(0, 0))

	row := c.Row(0)
	row[0] = 42
	require.Equal(t, 1.0, c.At(0, 0))

	_, err = prob.ChannelFromData(2, 2, []float64{1})
	require.True(t, errors.Is(err, prob.ErrOutOfRange))
}

func TestIdentityAndDeterministic(t *testing.T) {
	t.Parallel()

	id, err := prob.Identity[float64](fl, 3)
	require.NoError(t, err)
	require.True(t, prob.IsChannel[float64](fl, id))

	det, err := prob.Deterministic[float64](fl, []int{0, 1, 2}, 3)
	require.NoError(t, err)
	require.True(t, prob.Equal[float64](fl, id, det))

	collapse, err := prob.Deterministic[float64](fl, []int{1, 1}, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1}, collapse.Row(0))

	_, err = prob.Deterministic[float64](fl, []int{0, 5}, 2)
	require.True(t, errors.Is(err, prob.ErrOutOfRange))
}

func TestParseAndFormat_Rational(t *testing.T) {
	t.Parallel()

	r := numeric.Rational{}
	in := "# comment\n1/3 2/3\n\n1 0\n"
	c, err := prob.ParseChannel[*big.Rat](r, strings.NewReader(in))
	require.NoError(t, err)
	require.True(t, prob.IsChannel[*big.Rat](r, c))

	var buf bytes.Buffer
	require.NoError(t, prob.FormatChannel[*big.Rat](r, &buf, c))
	require.Equal(t, "1/3 2/3\n1 0\n", buf.String())

	back, err := prob.ParseChannel[*big.Rat](r, &buf)
	require.NoError(t, err)
	require.True(t, prob.Equal[*big.Rat](r, c, back))
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, err := prob.ParseChannel[float64](fl, strings.NewReader("1 0\n0.5\n"))
	require.True(t, errors.Is(err, prob.ErrRaggedRows))

	_, err = prob.ParseChannel[float64](fl, strings.NewReader("1 x\n"))
	require.True(t, errors.Is(err, numeric.ErrParse))

	_, err = prob.ParseChannel[float64](fl, strings.NewReader("\n\n"))
	require.True(t, errors.Is(err, prob.ErrEmpty))

	d, err := prob.ParseDist[float64](fl, strings.NewReader("0.25 0.75\n"))
	require.NoError(t, err)
	require.True(t, prob.IsProb[float64](fl, d))

	_, err = prob.ParseDist[float64](fl, strings.NewReader("1\n0\n"))
	require.True(t, errors.Is(err, prob.ErrRaggedRows))
}
