package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dopantnet/kmcdn/pkg/evaluator"
)

func TestAverageCumulativeErrorOnlyPenalizesExcess(t *testing.T) {
	diffs := []float64{0.01, 0.02, 0.1}
	err := evaluator.AverageCumulativeError(diffs, 0.05)
	// excess: max(0,-.04)=0, max(0,-.03)=0, max(0,.05)=.05 -> mean = .05/3
	assert.InDelta(t, 0.05/3, err, 1e-9)
}

func TestRMSExcessErrorPenalizesOutliersMoreThanAverage(t *testing.T) {
	diffs := []float64{0.1, 0.5}
	expected := 0.0
	avg := evaluator.AverageCumulativeError(diffs, expected)
	rms := evaluator.RMSExcessError(diffs, expected)
	assert.Greater(t, rms, avg, "RMS aggregation should weight the larger outlier more heavily than the mean")
}

func TestZeroDiffsGiveZeroError(t *testing.T) {
	assert.Equal(t, 0.0, evaluator.AverageCumulativeError(nil, 0.01))
	assert.Equal(t, 0.0, evaluator.RMSExcessError(nil, 0.01))
}

func TestHigherTierNotWorse(t *testing.T) {
	// M1: tiers are ordered so that later tiers are at least as strict as
	// earlier ones (ExpectedErr and ThresholdErr are non-increasing).
	for i := 1; i < len(evaluator.Tiers); i++ {
		prev, cur := evaluator.Tiers[i-1], evaluator.Tiers[i]
		assert.LessOrEqual(t, cur.ExpectedErr, prev.ExpectedErr)
		assert.LessOrEqual(t, cur.ThresholdErr, prev.ThresholdErr)
		assert.GreaterOrEqual(t, cur.Hops, prev.Hops)
	}
}

func TestStrategyPromotion(t *testing.T) {
	s := evaluator.NewStrategy()
	assert.Equal(t, 0, s.TierIndex())

	promoted := s.MaybePromote(1.0, 10) // error way above threshold
	assert.False(t, promoted)
	assert.Equal(t, 0, s.TierIndex())

	promoted = s.MaybePromote(0.0, 10) // error below any positive threshold
	assert.True(t, promoted)
	assert.Equal(t, 1, s.TierIndex())
}

func TestStrategyStopsAtFinalTier(t *testing.T) {
	s := evaluator.NewStrategy()
	for i := 0; i < len(evaluator.Tiers)+2; i++ {
		s.MaybePromote(0.0, 10)
	}
	assert.True(t, s.AtFinalTier())
	assert.Equal(t, len(evaluator.Tiers)-1, s.TierIndex())
}
