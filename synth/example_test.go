package synth_test

import (
	"fmt"
	"math/big"
	"os"

	"github.com/katalvlaran/qifsynth/measure"
	"github.com/katalvlaran/qifsynth/metric"
	"github.com/katalvlaran/qifsynth/numeric"
	"github.com/katalvlaran/qifsynth/prob"
	"github.com/katalvlaran/qifsynth/solver"
	"github.com/katalvlaran/qifsynth/synth"
)

// A zero loss budget on the line metric leaves the identity channel as the
// only option, so the adversary guesses the secret every time.
func ExampleMinVulnerabilityGivenLoss() {
	var q numeric.Rational
	half := big.NewRat(1, 2)
	loss := measure.FromMetric[*big.Rat]{D: metric.Line[*big.Rat](q)}

	res, err := synth.MinVulnerabilityGivenLoss[*big.Rat](q, prob.Dist[*big.Rat]{half, half}, 2, q.Zero(),
		loss, nil, nil, solver.DefaultSettings())
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := prob.FormatChannel[*big.Rat](q, os.Stdout, res.Channel); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("vulnerability", q.String(res.Leakage), "loss", q.String(res.Loss))
	// Output:
	// 1 0
	// 0 1
	// vulnerability 1 loss 0
}
