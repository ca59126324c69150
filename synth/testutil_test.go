package synth_test

import (
	"github.com/katalvlaran/qifsynth/measure"
	"github.com/katalvlaran/qifsynth/numeric"
	"github.com/katalvlaran/qifsynth/prob"
	"github.com/katalvlaran/qifsynth/solver"
	"github.com/katalvlaran/qifsynth/synth"
)

var fl = numeric.NewFloat()

// settingsFor returns default settings with the given LP method.
func settingsFor(method solver.Method) solver.Settings {
	s := solver.DefaultSettings()
	s.Method = method
	return s
}

// compositions returns every way to split steps units over m cells.
func compositions(steps, m int) [][]int {
	if m == 1 {
		return [][]int{{steps}}
	}
	var out [][]int
	for i := 0; i <= steps; i++ {
		for _, rest := range compositions(steps-i, m-1) {
			out = append(out, append([]int{i}, rest...))
		}
	}
	return out
}

// gridBest enumerates every channel whose entries are multiples of 1/steps
// and returns the best objective among those meeting the goal's bound.
func gridBest(req synth.Request[float64], steps int) (float64, bool) {
	n, m := len(req.Prior), req.Outputs
	rows := compositions(steps, m)
	idx := make([]int, n)
	best, found := 0.0, false
	for {
		data := make([]float64, 0, n*m)
		for x := 0; x < n; x++ {
			for _, c := range rows[idx[x]] {
				data = append(data, float64(c)/float64(steps))
			}
		}
		ch, err := prob.ChannelFromData(n, m, data)
		if err != nil {
			panic(err)
		}
		if val, ok := feasibleObjective(req, ch); ok {
			better := !found || val < best
			if req.Goal.Kind == synth.GoalMaxRiskGivenLoss {
				better = !found || val > best
			}
			if better {
				best, found = val, true
			}
		}

		// next index tuple
		x := 0
		for ; x < n; x++ {
			idx[x]++
			if idx[x] < len(rows) {
				break
			}
			idx[x] = 0
		}
		if x == n {
			return best, found
		}
	}
}

func feasibleObjective(req synth.Request[float64], ch prob.Channel[float64]) (float64, bool) {
	loss := req.Loss
	if loss == nil {
		loss = measure.ZeroOne[float64](fl)
	}
	adv := req.Adversary
	l, err := measure.ExpectedLoss[float64](fl, loss, req.Prior, ch)
	if err != nil {
		panic(err)
	}
	var leak float64
	switch req.Goal.Kind {
	case synth.GoalMinLossGivenRisk, synth.GoalMaxRiskGivenLoss:
		leak, err = measure.Risk[float64](fl, adv, req.Prior, ch)
	default:
		leak, err = measure.Vulnerability[float64](fl, adv, req.Prior, ch)
	}
	if err != nil {
		panic(err)
	}
	b := req.Goal.Bound
	switch req.Goal.Kind {
	case synth.GoalMinLossGivenVulnerability:
		return l, fl.LessEq(leak, b)
	case synth.GoalMinLossGivenRisk:
		return l, fl.LessEq(b, leak)
	default:
		return leak, fl.LessEq(l, b)
	}
}
