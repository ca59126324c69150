package measure_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qifsynth/measure"
	"github.com/katalvlaran/qifsynth/metric"
	"github.com/katalvlaran/qifsynth/numeric"
	"github.com/katalvlaran/qifsynth/prob"
)

var fl = numeric.NewFloat()

func TestNewMatrix(t *testing.T) {
	t.Parallel()

	s, err := measure.NewMatrix([][]float64{{1, 0, 2}, {0, 1, 3}})
	require.NoError(t, err)
	require.Equal(t, 2, s.Secrets())
	require.Equal(t, 3, s.Guesses())
	require.Equal(t, 3.0, s.Value(1, 2))

	_, err = measure.NewMatrix([][]float64{{1, 0}, {1}})
	require.ErrorIs(t, err, measure.ErrRaggedRows)
	_, err = measure.NewMatrix[float64](nil)
	require.ErrorIs(t, err, measure.ErrEmpty)
}

func TestBayesVulnerability(t *testing.T) {
	t.Parallel()

	pi := prob.Dist[float64]{0.25, 0.75}
	c, err := prob.ChannelFromFloats[float64](fl, [][]float64{{0.5, 0.5}, {0.25, 0.75}})
	require.NoError(t, err)

	// y0: max(.125, .1875), y1: max(.125, .5625)
	v, err := measure.BayesVulnerability[float64](fl, pi, c)
	require.NoError(t, err)
	require.InDelta(t, 0.75, v, 1e-12)

	prior, err := measure.PriorVulnerability[float64](fl, measure.Identity[float64](fl), pi)
	require.NoError(t, err)
	require.InDelta(t, 0.75, prior, 1e-12)

	id, err := prob.Identity[float64](fl, 2)
	require.NoError(t, err)
	v, err = measure.BayesVulnerability[float64](fl, pi, id)
	require.NoError(t, err)
	require.InDelta(t, 1.0, v, 1e-12)
}

func TestRiskAndPriorRisk(t *testing.T) {
	t.Parallel()

	pi := prob.Uniform[float64](fl, 3)
	zo := measure.ZeroOne[float64](fl)

	prior, err := measure.PriorRisk[float64](fl, zo, pi)
	require.NoError(t, err)
	require.InDelta(t, 2.0/3, prior, 1e-12)

	id, err := prob.Identity[float64](fl, 3)
	require.NoError(t, err)
	r, err := measure.Risk[float64](fl, zo, pi, id)
	require.NoError(t, err)
	require.InDelta(t, 0.0, r, 1e-12)
}

func TestExpectedLoss(t *testing.T) {
	t.Parallel()

	pi := prob.Dist[float64]{0.5, 0.5}
	loss := measure.FromMetric[float64]{D: metric.Line[float64](fl)}
	c, err := prob.ChannelFromFloats[float64](fl, [][]float64{{0.5, 0.5}, {0, 1}})
	require.NoError(t, err)

	l, err := measure.ExpectedLoss[float64](fl, loss, pi, c)
	require.NoError(t, err)
	require.InDelta(t, 0.25, l, 1e-12)

	small, err := measure.NewMatrix([][]float64{{0}, {1}})
	require.NoError(t, err)
	_, err = measure.ExpectedLoss[float64](fl, small, pi, c)
	require.ErrorIs(t, err, measure.ErrDimensionMismatch)
}

func TestMeasures_DimensionMismatch(t *testing.T) {
	t.Parallel()

	c, err := prob.Identity[float64](fl, 3)
	require.NoError(t, err)
	_, err = measure.BayesVulnerability[float64](fl, prob.Uniform[float64](fl, 2), c)
	require.ErrorIs(t, err, measure.ErrDimensionMismatch)
	_, err = measure.Risk[float64](fl, measure.ZeroOne[float64](fl), nil, c)
	require.ErrorIs(t, err, measure.ErrEmpty)
}

func TestVulnerability_Exact(t *testing.T) {
	t.Parallel()

	var q numeric.Rational
	pi := prob.Dist[*big.Rat]{big.NewRat(1, 3), big.NewRat(2, 3)}
	c, err := prob.ChannelFromRows([][]*big.Rat{
		{big.NewRat(1, 2), big.NewRat(1, 2)},
		{big.NewRat(1, 4), big.NewRat(3, 4)},
	})
	require.NoError(t, err)

	// y0: max(1/6, 1/6), y1: max(1/6, 1/2)
	v, err := measure.BayesVulnerability[*big.Rat](q, pi, c)
	require.NoError(t, err)
	require.Equal(t, 0, v.Cmp(big.NewRat(2, 3)))
}
