// Package evaluator scores a dopant network against a battery of
// voltage/expected-current tests, and implements the four-tier
// accuracy/cost ladder that searches climb as they converge.
package evaluator

import (
	"context"
	"math"

	"github.com/dopantnet/kmcdn/pkg/config"
	"github.com/dopantnet/kmcdn/pkg/kmc"
	"github.com/dopantnet/kmcdn/pkg/network"
	"github.com/dopantnet/kmcdn/pkg/ratemodel"
)

// ExpectedCurrent is one (electrode, expected current) assertion within a
// Test.
type ExpectedCurrent struct {
	ElectrodeIndex int
	Value          float64
}

// Test is one voltage configuration and the currents it is expected to
// produce.
type Test struct {
	Voltages []float64
	Expected []ExpectedCurrent
}

// Tier is one rung of the strategy ladder: how many hops to run, which
// kmc.Kernel to use, and the noise/promotion thresholds that apply at
// this accuracy level.
type Tier struct {
	Hops         int
	Kernel       kmc.Kernel
	ExpectedErr  float64
	ThresholdErr float64
}

// Tiers is the four-rung ladder from the specification, ordered from
// cheapest/least-accurate to most expensive/most-accurate.
var Tiers = []Tier{
	{Hops: 1000, Kernel: kmc.Probability, ExpectedErr: 0.040, ThresholdErr: 0.005},
	{Hops: 5000, Kernel: kmc.Record, ExpectedErr: 0.025, ThresholdErr: 0.005},
	{Hops: 50000, Kernel: kmc.Record, ExpectedErr: 0.010, ThresholdErr: 0.002},
	{Hops: 250000, Kernel: kmc.Record, ExpectedErr: 0.002, ThresholdErr: 0.000},
}

// ErrorFunc aggregates per-test absolute differences into a single error
// score, penalizing only the excess over a tier's expected noise floor.
type ErrorFunc func(diffs []float64, expectedErr float64) float64

// AverageCumulativeError is the reference implementation's original
// aggregation: mean of max(0, diff-expectedErr).
func AverageCumulativeError(diffs []float64, expectedErr float64) float64 {
	if len(diffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, d := range diffs {
		if excess := d - expectedErr; excess > 0 {
			sum += excess
		}
	}
	return sum / float64(len(diffs))
}

// RMSExcessError is sqrt(mean(excess^2)): a harsher aggregation that
// penalizes a single badly-off test more than several mildly-off ones.
func RMSExcessError(diffs []float64, expectedErr float64) float64 {
	if len(diffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, d := range diffs {
		if excess := d - expectedErr; excess > 0 {
			sum += excess * excess
		}
	}
	return math.Sqrt(sum / float64(len(diffs)))
}

// Evaluator scores a network against its test battery using a configured
// backend, rate-model policy, and error aggregation function.
type Evaluator struct {
	Tests      []Test
	ErrorFn    ErrorFunc
	Backend    kmc.Backend
	Physics    config.Physics
	Branch     ratemodel.BranchPolicy
	TimePolicy kmc.TimePolicy
	Prehops    int
	Seed       uint64
}

// New returns an Evaluator using AverageCumulativeError and a
// kmc.NativeBackend, matching the reference implementation's defaults.
func New(tests []Test, physics config.Physics, seed uint64) *Evaluator {
	return &Evaluator{
		Tests:   tests,
		ErrorFn: AverageCumulativeError,
		Backend: kmc.NativeBackend{},
		Physics: physics,
		Seed:    seed,
	}
}

// Evaluate scores net against every test in the battery at the given
// tier, returning the aggregated error.
func (e *Evaluator) Evaluate(ctx context.Context, net *network.DopantNetwork, tier Tier) (float64, error) {
	var diffs []float64

	for _, test := range e.Tests {
		for i, v := range test.Voltages {
			if err := net.SetVoltage(i, v); err != nil {
				return 0, err
			}
		}
		if err := net.UpdateV(); err != nil {
			return 0, err
		}

		req := kmc.BackendRequest{
			Sites:      net.Acceptors,
			Donors:     net.Donors,
			Electrodes: net.Electrodes,
			EConstant:  net.EConstant,
			Physics:    e.Physics,
			Branch:     e.Branch,
			TimePolicy: e.TimePolicy,
			Hops:       tier.Hops,
			Prehops:    e.Prehops,
			Mode:       tier.Kernel,
			Seed:       e.Seed,
		}
		res, err := e.Backend.Run(ctx, req)
		if err != nil {
			return 0, err
		}

		for _, exp := range test.Expected {
			if exp.ElectrodeIndex >= len(res.Current) {
				continue
			}
			diffs = append(diffs, math.Abs(res.Current[exp.ElectrodeIndex]-exp.Value))
		}
	}

	return e.ErrorFn(diffs, tier.ExpectedErr), nil
}

// Validate always scores at the final (most accurate) tier, regardless of
// the search's current strategy tier.
func (e *Evaluator) Validate(ctx context.Context, net *network.DopantNetwork) (float64, error) {
	return e.Evaluate(ctx, net, Tiers[len(Tiers)-1])
}

// NTests is the number of tests in the battery, used to scale a tier's
// ThresholdErr into an absolute promotion threshold.
func (e *Evaluator) NTests() int { return len(e.Tests) }
