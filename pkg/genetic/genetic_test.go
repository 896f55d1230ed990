package genetic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dopantnet/kmcdn/internal/rng"
	"github.com/dopantnet/kmcdn/pkg/genetic"
)

func TestElitismFormula(t *testing.T) {
	assert.Equal(t, 4, genetic.Elitism(20)) // 20 mod 2 == 0 -> 4
	assert.Equal(t, 3, genetic.Elitism(21)) // 21 mod 2 == 1 -> 3
}

func TestDisparityOneGivesUniformWeights(t *testing.T) {
	weights := genetic.ParentWeights(6, 1.0)
	for i := 1; i < len(weights); i++ {
		assert.InDelta(t, weights[0], weights[i], 1e-9)
	}
}

func TestHighDisparityConcentratesOnBestParent(t *testing.T) {
	weights := genetic.ParentWeights(6, 50.0)
	for i := 1; i < len(weights); i++ {
		assert.Greater(t, weights[0], weights[i])
	}
}

func TestUniquenessScheduleClampsPastLastWaypoint(t *testing.T) {
	schedule := genetic.UniquenessSchedule{
		{Generation: 0, Uniqueness: 2},
		{Generation: 10, Uniqueness: 20},
	}
	assert.Equal(t, 20.0, schedule.At(10))
	assert.Equal(t, 20.0, schedule.At(1000)) // clamped, not an out-of-range index
	assert.Equal(t, 2.0, schedule.At(0))
	assert.InDelta(t, 11.0, schedule.At(5), 1e-9)
}

func TestSinglePointCrossoverRespectsParents(t *testing.T) {
	rnd := rng.New(7)
	p1 := []uint16{1, 1, 1, 1}
	p2 := []uint16{2, 2, 2, 2}
	child := genetic.SinglePoint(p1, p2, 1, 1, rnd)
	for _, g := range child {
		assert.True(t, g == 1 || g == 2)
	}
}

func TestAcceptorDonorTwoPointRespectsBoundary(t *testing.T) {
	rnd := rng.New(8)
	n, m := 2, 1
	p1 := make([]uint16, 2*(n+m))
	p2 := make([]uint16, 2*(n+m))
	for i := range p1 {
		p1[i] = 1
		p2[i] = 2
	}
	child := genetic.AcceptorDonorTwoPoint(p1, p2, n, m, rnd)
	assert.Len(t, child, 2*(n+m))
}
