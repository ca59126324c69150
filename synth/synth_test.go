package synth_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/qifsynth/measure"
	"github.com/katalvlaran/qifsynth/metric"
	"github.com/katalvlaran/qifsynth/numeric"
	"github.com/katalvlaran/qifsynth/prob"
	"github.com/katalvlaran/qifsynth/solver"
	"github.com/katalvlaran/qifsynth/synth"
)

// ScenarioSuite runs the reference scenarios against one LP method.
type ScenarioSuite struct {
	suite.Suite
	settings solver.Settings
}

func TestScenarios_Auto(t *testing.T) {
	suite.Run(t, &ScenarioSuite{settings: settingsFor(solver.MethodAuto)})
}

func TestScenarios_Tableau(t *testing.T) {
	suite.Run(t, &ScenarioSuite{settings: settingsFor(solver.MethodTableau)})
}

func (s *ScenarioSuite) TestZeroLossBoundGivesIdentity() {
	loss := measure.FromMetric[float64]{D: metric.Line[float64](fl)}
	res, err := synth.MinVulnerabilityGivenLoss[float64](fl, prob.Dist[float64]{0.5, 0.5}, 2, 0, loss, nil, nil, s.settings)
	require.NoError(s.T(), err)

	id, err := prob.Identity[float64](fl, 2)
	require.NoError(s.T(), err)
	require.True(s.T(), prob.Equal[float64](fl, id, res.Channel))
	require.InDelta(s.T(), 0.0, res.Loss, 1e-9)
	require.InDelta(s.T(), 1.0, res.Objective, 1e-9)
}

func (s *ScenarioSuite) TestGeometricMechanism() {
	d := metric.Line[float64](fl)
	priv := &synth.Privacy[float64]{Metric: d, Epsilon: 1}
	res, err := synth.MinLossGivenVulnerability[float64](fl, prob.Uniform[float64](fl, 3), 3, fl.Inf(), nil, nil, priv, s.settings)
	require.NoError(s.T(), err)

	a := math.Exp(-1)
	want := [][]float64{
		{1 / (1 + a), a * (1 - a) / (1 + a), a * a / (1 + a)},
		{a / (1 + a), (1 - a) / (1 + a), a / (1 + a)},
		{a * a / (1 + a), a * (1 - a) / (1 + a), 1 / (1 + a)},
	}
	for x := range want {
		require.InDeltaSlice(s.T(), want[x], res.Channel.Row(x), 1e-6, "row %d", x)
	}
	require.InDelta(s.T(), 1-(3-a)/(3*(1+a)), res.Loss, 1e-7)
	require.True(s.T(), prob.IsChannel[float64](fl, res.Channel))
	require.True(s.T(), metric.IsPrivateBudget[float64](fl, res.Channel, 1, metric.WithoutPruning(d)))

	// Pruning the chainable pairs changes nothing.
	unpruned := &synth.Privacy[float64]{Metric: metric.WithoutPruning(d), Epsilon: 1}
	again, err := synth.MinLossGivenVulnerability[float64](fl, prob.Uniform[float64](fl, 3), 3, fl.Inf(), nil, nil, unpruned, s.settings)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), res.Objective, again.Objective, 1e-9)
}

func (s *ScenarioSuite) TestZeroBudgetWithZeroLossIsInfeasible() {
	d := metric.Line[float64](fl)
	loss := measure.FromMetric[float64]{D: d}
	priv := &synth.Privacy[float64]{Metric: d, Epsilon: 0}
	_, err := synth.MinVulnerabilityGivenLoss[float64](fl, prob.Dist[float64]{0.5, 0.5}, 2, 0, loss, nil, priv, s.settings)
	require.ErrorIs(s.T(), err, synth.ErrInfeasible)
	require.ErrorIs(s.T(), err, solver.ErrInfeasible)
	require.False(s.T(), errors.Is(err, synth.ErrSolverFailed))
}

func (s *ScenarioSuite) TestIdempotent() {
	priv := &synth.Privacy[float64]{Metric: metric.Line[float64](fl), Epsilon: 0.5}
	req := synth.Request[float64]{
		Prior:   prob.Dist[float64]{0.2, 0.5, 0.3},
		Outputs: 3,
		Goal:    synth.NewGoal[float64](synth.GoalMinLossGivenVulnerability, 0.6),
		Privacy: priv,
	}
	first, err := synth.Synthesize[float64](fl, req, s.settings)
	require.NoError(s.T(), err)
	second, err := synth.Synthesize[float64](fl, req, s.settings)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), first.Objective, second.Objective, 1e-12)
	require.LessOrEqual(s.T(), first.Leakage, 0.6+1e-9)
}

// gridCase is an instance small enough for exhaustive search; its optimum
// lies on the 1/6 grid.
type gridCase struct {
	name string
	req  synth.Request[float64]
	want float64
}

func gridCases() []gridCase {
	zo, id := measure.ZeroOne[float64](fl), measure.Identity[float64](fl)
	line := measure.FromMetric[float64]{D: metric.Line[float64](fl)}
	req := func(prior []float64, m int, kind synth.Kind, bound float64, loss, adv measure.Spec[float64]) synth.Request[float64] {
		return synth.Request[float64]{Prior: prior, Outputs: m, Goal: synth.NewGoal[float64](kind, bound), Loss: loss, Adversary: adv}
	}

	return []gridCase{
		{"min vulnerability, 0/1 loss", req([]float64{0.5, 0.5}, 2, synth.GoalMinVulnerabilityGivenLoss, 0.25, zo, id), 0.75},
		{"min loss, bayes bound", req([]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, 3, synth.GoalMinLossGivenVulnerability, 0.5, zo, id), 0.5},
		{"min vulnerability, line loss", req([]float64{0.5, 1.0 / 3, 1.0 / 6}, 3, synth.GoalMinVulnerabilityGivenLoss, 1.0 / 3, line, id), 2.0 / 3},
		{"max risk, two outputs", req([]float64{0.5, 1.0 / 3, 1.0 / 6}, 2, synth.GoalMaxRiskGivenLoss, 1.0 / 3, line, zo), 1.0 / 3},
		{"min loss, risk bound", req([]float64{0.5, 0.5}, 2, synth.GoalMinLossGivenRisk, 0.25, line, zo), 0.25},
		{"min loss, skewed prior", req([]float64{0.5, 0.25, 0.25}, 3, synth.GoalMinLossGivenVulnerability, 2.0 / 3, line, id), 1.0 / 3},
	}
}

func (s *ScenarioSuite) TestGridSearchOptimality() {
	for _, tc := range gridCases() {
		s.Run(tc.name, func() {
			res, err := synth.Synthesize[float64](fl, tc.req, s.settings)
			require.NoError(s.T(), err)
			require.True(s.T(), prob.IsChannel[float64](fl, res.Channel))
			require.InDelta(s.T(), tc.want, res.Objective, 1e-7)

			best, ok := gridBest(tc.req, 6)
			require.True(s.T(), ok)
			require.InDelta(s.T(), best, res.Objective, 1e-7)

			// The synthesized channel meets its own bound.
			_, feasible := feasibleObjective(tc.req, res.Channel)
			require.True(s.T(), feasible)
		})
	}
}

func TestSynthesize_RationalIsExact(t *testing.T) {
	t.Parallel()

	var q numeric.Rational
	d := metric.WithoutPruning(metric.Line[*big.Rat](q))
	eps := big.NewRat(1, 1)
	priv := &synth.Privacy[*big.Rat]{Metric: d, Epsilon: eps}
	res, err := synth.MinLossGivenVulnerability[*big.Rat](q, prob.Uniform[*big.Rat](q, 3), 3, q.Inf(), nil, nil, priv, solver.DefaultSettings())
	require.NoError(t, err)

	for x := 0; x < 3; x++ {
		sum := numeric.Sum[*big.Rat](q, res.Channel.Row(x))
		require.Equal(t, 0, sum.Cmp(big.NewRat(1, 1)), "row %d sums to %s", x, sum.RatString())
	}
	require.True(t, metric.IsPrivateBudget[*big.Rat](q, res.Channel, eps, d))
	require.InDelta(t, 1-(3-math.Exp(-1))/(3*(1+math.Exp(-1))), q.Float(res.Loss), 1e-9)

	// Identity scenario, exactly.
	loss := measure.FromMetric[*big.Rat]{D: metric.Line[*big.Rat](q)}
	half := big.NewRat(1, 2)
	res, err = synth.MinVulnerabilityGivenLoss[*big.Rat](q, prob.Dist[*big.Rat]{half, half}, 2, q.Zero(), loss, nil, nil, solver.DefaultSettings())
	require.NoError(t, err)
	id, err := prob.Identity[*big.Rat](q, 2)
	require.NoError(t, err)
	require.True(t, prob.Equal[*big.Rat](q, id, res.Channel))
	require.Equal(t, "0", res.Loss.RatString())
}

func TestSynthesize_IllegalSolver(t *testing.T) {
	t.Parallel()

	var q numeric.Rational
	prior := prob.Uniform[*big.Rat](q, 2)

	_, err := synth.MinLossGivenVulnerability[*big.Rat](q, prior, 2, q.Inf(), nil, nil, nil,
		solver.DefaultSettings(), synth.WithPenalty[*big.Rat](0.5))
	require.ErrorIs(t, err, solver.ErrIllegalSolver)

	_, err = synth.MinLossGivenVulnerability[*big.Rat](q, prior, 2, q.Inf(), nil, nil, nil, settingsFor(solver.MethodSimplex))
	require.ErrorIs(t, err, solver.ErrIllegalSolver)
}

func TestSynthesize_QuadraticPenalty(t *testing.T) {
	t.Parallel()

	// Per row: min ½(1−c) + λ(c² + (1−c)²) with λ = 1 gives c = 5/8.
	res, err := synth.MinLossGivenVulnerability[float64](fl, prob.Dist[float64]{0.5, 0.5}, 2, fl.Inf(), nil, nil, nil,
		solver.DefaultSettings(), synth.WithPenalty[float64](1))
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0.625, 0.375}, res.Channel.Row(0), 1e-4)
	require.InDeltaSlice(t, []float64{0.375, 0.625}, res.Channel.Row(1), 1e-4)
	require.InDelta(t, 0.375, res.Loss, 1e-4)

	// A tiny penalty keeps the LP optimum.
	res, err = synth.MinLossGivenVulnerability[float64](fl, prob.Dist[float64]{0.5, 0.5}, 2, fl.Inf(), nil, nil, nil,
		solver.DefaultSettings(), synth.WithPenalty[float64](0.01))
	require.NoError(t, err)
	require.InDelta(t, 0.0, res.Loss, 1e-4)

	require.Panics(t, func() { synth.WithPenalty[float64](-1) })
}

func TestSynthesize_SolverFailure(t *testing.T) {
	t.Parallel()

	s := solver.DefaultSettings()
	s.ADMM.MaxIter = 1
	s.ADMM.CheckEvery = 1
	s.ADMM.EpsAbs, s.ADMM.EpsRel = 0, 0
	s.ADMM.EpsPrimInf = 1e-12
	_, err := synth.MinLossGivenVulnerability[float64](fl, prob.Dist[float64]{0.5, 0.5}, 2, fl.Inf(), nil, nil, nil,
		s, synth.WithPenalty[float64](1))
	require.ErrorIs(t, err, synth.ErrSolverFailed)
	require.ErrorIs(t, err, solver.ErrMaxIterations)
	require.False(t, errors.Is(err, synth.ErrInfeasible))
}

func TestSynthesize_Cutoff(t *testing.T) {
	t.Parallel()

	line := measure.FromMetric[float64]{D: metric.Line[float64](fl)}
	req := synth.Request[float64]{
		Prior:   prob.Uniform[float64](fl, 3),
		Outputs: 3,
		Goal:    synth.NewGoal(synth.GoalMinVulnerabilityGivenLoss, 0.5, synth.WithCutoff[float64](1)),
		Loss:    line,
	}
	prog, lay, err := synth.Build[float64](fl, req)
	require.NoError(t, err)
	require.Equal(t, 2, lay.Pinned())
	_, ok := lay.Var(0, 2)
	require.False(t, ok)
	require.Equal(t, 7+3, prog.NumVars)

	res, err := synth.Synthesize[float64](fl, req, solver.DefaultSettings())
	require.NoError(t, err)
	require.Equal(t, 0.0, res.Channel.At(0, 2))
	require.Equal(t, 0.0, res.Channel.At(2, 0))
	require.LessOrEqual(t, res.Loss, 0.5+1e-9)
}

func TestBuild_Shape(t *testing.T) {
	t.Parallel()

	prior := prob.Uniform[float64](fl, 3)
	unbounded := synth.Request[float64]{Prior: prior, Outputs: 2, Goal: synth.NewGoal[float64](synth.GoalMinLossGivenVulnerability, fl.Inf())}
	prog, lay, err := synth.Build[float64](fl, unbounded)
	require.NoError(t, err)
	require.Equal(t, 6, prog.NumVars)
	require.Len(t, prog.Rows, 3)
	require.Equal(t, -1, lay.Aux)
	require.Equal(t, solver.Minimize, prog.Sense)

	bounded := unbounded
	bounded.Goal = synth.NewGoal[float64](synth.GoalMinLossGivenVulnerability, 0.5)
	prog, lay, err = synth.Build[float64](fl, bounded)
	require.NoError(t, err)
	require.Equal(t, 6+2, prog.NumVars)
	require.Equal(t, 6, lay.Aux)
	require.Len(t, prog.Rows, 3+2*3+1)

	risk := unbounded
	risk.Goal = synth.NewGoal[float64](synth.GoalMaxRiskGivenLoss, fl.Inf())
	prog, _, err = synth.Build[float64](fl, risk)
	require.NoError(t, err)
	require.Equal(t, solver.Maximize, prog.Sense)
	require.Len(t, prog.Rows, 3+2*3)

	private := unbounded
	private.Privacy = &synth.Privacy[float64]{Metric: metric.Discrete[float64](fl), Epsilon: 1}
	prog, _, err = synth.Build[float64](fl, private)
	require.NoError(t, err)
	require.Len(t, prog.Rows, 3+3*2*2)
	require.False(t, prog.IsQuadratic(fl))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	neg, err := metric.FromMatrix([][]float64{{0, -1}, {-1, 0}})
	require.NoError(t, err)
	small, err := metric.FromMatrix([][]float64{{0}})
	require.NoError(t, err)
	narrow, err := measure.NewMatrix([][]float64{{0}, {1}})
	require.NoError(t, err)
	negGain, err := measure.NewMatrix([][]float64{{1, -1}, {0, 1}})
	require.NoError(t, err)
	negLoss, err := measure.NewMatrix([][]float64{{0, 1}, {-1, 0}})
	require.NoError(t, err)

	base := func() synth.Request[float64] {
		return synth.Request[float64]{
			Prior:   prob.Dist[float64]{0.5, 0.5},
			Outputs: 2,
			Goal:    synth.NewGoal[float64](synth.GoalMinLossGivenVulnerability, 1),
		}
	}
	cases := []struct {
		name   string
		mutate func(*synth.Request[float64])
		want   error
	}{
		{"no secrets", func(r *synth.Request[float64]) { r.Prior = nil }, synth.ErrEmptyDomain},
		{"no outputs", func(r *synth.Request[float64]) { r.Outputs = 0 }, synth.ErrEmptyDomain},
		{"bad prior", func(r *synth.Request[float64]) { r.Prior = prob.Dist[float64]{0.5, 0.6} }, synth.ErrInvalidPrior},
		{"unknown goal", func(r *synth.Request[float64]) { r.Goal.Kind = 0 }, synth.ErrUnknownGoal},
		{"negative bound", func(r *synth.Request[float64]) { r.Goal.Bound = -1 }, synth.ErrInvalidBudget},
		{"negative cutoff", func(r *synth.Request[float64]) { r.Goal.Cutoff, r.Goal.HasCutoff = -1, true }, synth.ErrInvalidBudget},
		{"narrow loss", func(r *synth.Request[float64]) { r.Loss = narrow }, synth.ErrDimensionMismatch},
		{"negative gain", func(r *synth.Request[float64]) { r.Adversary = negGain }, synth.ErrNegativeGain},
		{"negative loss", func(r *synth.Request[float64]) { r.Loss = negLoss }, synth.ErrNegativeLoss},
		{"negative loss distance", func(r *synth.Request[float64]) {
			r.Goal = synth.NewGoal[float64](synth.GoalMinLossGivenVulnerability, fl.Inf())
			r.Loss = measure.FromMetric[float64]{D: neg}
		}, synth.ErrNegativeDistance},
		{"negative epsilon", func(r *synth.Request[float64]) {
			r.Privacy = &synth.Privacy[float64]{Metric: metric.Discrete[float64](fl), Epsilon: -1}
		}, synth.ErrInvalidBudget},
		{"negative distance", func(r *synth.Request[float64]) {
			r.Privacy = &synth.Privacy[float64]{Metric: neg, Epsilon: 1}
		}, synth.ErrNegativeDistance},
		{"small metric", func(r *synth.Request[float64]) {
			r.Privacy = &synth.Privacy[float64]{Metric: small, Epsilon: 1}
		}, synth.ErrDimensionMismatch},
		{"zero metric", func(r *synth.Request[float64]) {
			r.Privacy = &synth.Privacy[float64]{Epsilon: 1}
		}, synth.ErrInvalidMetric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := base()
			tc.mutate(&r)
			require.ErrorIs(t, synth.Validate[float64](fl, r), tc.want)
			_, err := synth.Synthesize[float64](fl, r, solver.DefaultSettings())
			require.ErrorIs(t, err, tc.want)
		})
	}
	require.NoError(t, synth.Validate[float64](fl, base()))
}

func TestSynthesize_LogsAtDebug(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := solver.DefaultSettings()
	s.Logger = logger

	_, err := synth.MinLossGivenVulnerability[float64](fl, prob.Uniform[float64](fl, 2), 2, fl.Inf(), nil, nil, nil, s)
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.NotEmpty(t, entries)
	require.Equal(t, "synth: program built", entries[0].Message)
	require.Equal(t, logrus.DebugLevel, entries[0].Level)
	require.Equal(t, 4, entries[0].Data["vars"])
	require.Equal(t, "synth: channel decoded", hook.LastEntry().Message)
}

func TestDecode_RejectsNegative(t *testing.T) {
	t.Parallel()

	_, lay, err := synth.Build[float64](fl, synth.Request[float64]{
		Prior:   prob.Dist[float64]{1},
		Outputs: 2,
		Goal:    synth.NewGoal[float64](synth.GoalMinLossGivenVulnerability, fl.Inf()),
	})
	require.NoError(t, err)

	c, err := synth.Decode[float64](fl, lay, []float64{1 + 1e-12, -1e-12})
	require.NoError(t, err)
	require.Equal(t, 0.0, c.At(0, 1))

	_, err = synth.Decode[float64](fl, lay, []float64{1.5, -0.5})
	require.ErrorIs(t, err, synth.ErrInvalidSolution)
	_, err = synth.Decode[float64](fl, lay, []float64{0.5, 0.25})
	require.ErrorIs(t, err, synth.ErrInvalidSolution)
}
