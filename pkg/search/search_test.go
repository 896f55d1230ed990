package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dopantnet/kmcdn/internal/rng"
	"github.com/dopantnet/kmcdn/pkg/config"
	"github.com/dopantnet/kmcdn/pkg/evaluator"
	"github.com/dopantnet/kmcdn/pkg/geometry"
	"github.com/dopantnet/kmcdn/pkg/network"
	"github.com/dopantnet/kmcdn/pkg/search"
)

func testNetwork(t *testing.T, seed uint64) *network.DopantNetwork {
	t.Helper()
	electrodes := []network.Electrode{
		{Pos: geometry.Point{X: 0}, Voltage: 1.0},
		{Pos: geometry.Point{X: 10}, Voltage: 0.0},
	}
	net, err := network.New(4, 1, geometry.Extents{X: 10, Y: 10}, electrodes, 1.0, seed)
	require.NoError(t, err)
	return net
}

func testEvaluator(seed uint64) *evaluator.Evaluator {
	tests := []evaluator.Test{
		{
			Voltages: []float64{1.0, 0.0},
			Expected: []evaluator.ExpectedCurrent{{ElectrodeIndex: 0, Value: 0.1}},
		},
	}
	return evaluator.New(tests, config.DefaultPhysics(), seed)
}

func TestNeighborhoodSize(t *testing.T) {
	net := testNetwork(t, 1)
	neighbors := search.Neighborhood(net, 1.0)
	assert.Len(t, neighbors, (net.N+net.M)*len(search.Directions))
}

func TestNeighborhoodClampsToDomain(t *testing.T) {
	net := testNetwork(t, 2)
	net.Acceptors[0].Pos.X = 0
	net.Acceptors[0].Pos.Y = 0

	neighbors := search.Neighborhood(net, 5.0)
	for _, n := range neighbors {
		assert.GreaterOrEqual(t, n.Acceptors[0].Pos.X, 0.0)
		assert.LessOrEqual(t, n.Acceptors[0].Pos.X, net.Dims.X)
		assert.GreaterOrEqual(t, n.Acceptors[0].Pos.Y, 0.0)
		assert.LessOrEqual(t, n.Acceptors[0].Pos.Y, net.Dims.Y)
	}
}

func TestGreedyStopsAtMinResolution(t *testing.T) {
	net := testNetwork(t, 3)
	ev := testEvaluator(10)
	strat := evaluator.NewStrategy()

	best, bestErr, err := search.Greedy(context.Background(), net, ev, strat, 1.0, 0.9)
	require.NoError(t, err)
	assert.NotNil(t, best)
	assert.GreaterOrEqual(t, bestErr, 0.0)
}

func TestZeroTemperatureReducesToGreedy(t *testing.T) {
	net := testNetwork(t, 4)
	ev := testEvaluator(11)
	strat := evaluator.NewStrategy()
	rnd := rng.New(99)

	schedule := search.Schedule{
		{Time: 0, Temperature: 0, MinTier: 0},
		{Time: 3, Temperature: 0, MinTier: 0},
	}
	annealer := search.NewAnnealer(schedule, rnd)
	annealer.ValidationTimestep = 0

	initialErr, err := ev.Evaluate(context.Background(), net, strat.Tier())
	require.NoError(t, err)

	start := time.Now()
	tick := 0
	annealer.Now = func() time.Time {
		tick++
		return start.Add(time.Duration(tick) * time.Second)
	}

	best, log, err := annealer.Run(context.Background(), net, ev, strat)
	require.NoError(t, err)
	assert.NotNil(t, best)
	assert.Empty(t, log)

	// At T=0 only strict improvements are accepted, as in greedy descent,
	// so the returned network is never worse than the starting one.
	finalErr, err := ev.Evaluate(context.Background(), best, strat.Tier())
	require.NoError(t, err)
	assert.LessOrEqual(t, finalErr, initialErr)
}

func TestScheduleTemperatureInterpolation(t *testing.T) {
	schedule := search.Schedule{
		{Time: 0, Temperature: 10},
		{Time: 10, Temperature: 0},
	}
	assert.InDelta(t, 5.0, schedule.TemperatureAt(5), 1e-9)
	assert.Equal(t, 10.0, schedule.TemperatureAt(0))
	assert.Equal(t, 0.0, schedule.TemperatureAt(20))
}
