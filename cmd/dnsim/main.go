// Command dnsim builds a dopant network from flags and runs the greedy or
// the annealing placement search against it, printing the best error and
// final strategy tier found.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/dopantnet/kmcdn/internal/rng"
	"github.com/dopantnet/kmcdn/pkg/config"
	"github.com/dopantnet/kmcdn/pkg/evaluator"
	"github.com/dopantnet/kmcdn/pkg/geometry"
	"github.com/dopantnet/kmcdn/pkg/network"
	"github.com/dopantnet/kmcdn/pkg/search"
)

func main() {
	n := flag.Int("n", 30, "number of acceptors")
	m := flag.Int("m", 3, "number of donors")
	xdim := flag.Float64("xdim", 1.0, "domain x extent")
	ydim := flag.Float64("ydim", 1.0, "domain y extent")
	strategy := flag.String("strategy", "greedy", "search strategy: greedy | annealing")
	budget := flag.Duration("budget", 30*time.Second, "wall-clock search budget")
	seed := flag.Uint64("seed", 1, "RNG seed")
	flag.Parse()

	electrodes := []network.Electrode{
		{Pos: geometry.Point{X: 0, Y: *ydim / 2}, Voltage: 1.0},
		{Pos: geometry.Point{X: *xdim, Y: *ydim / 2}, Voltage: 0.0},
	}

	net, err := network.New(*n, *m, geometry.Extents{X: *xdim, Y: *ydim}, electrodes, 0, *seed)
	if err != nil {
		log.Fatalf("building network: %v", err)
	}

	tests := []evaluator.Test{
		{
			Voltages: []float64{1.0, 0.0},
			Expected: []evaluator.ExpectedCurrent{{ElectrodeIndex: 0, Value: 0.1}},
		},
	}
	ev := evaluator.New(tests, config.DefaultPhysics(), *seed)
	strat := evaluator.NewStrategy()

	ctx, cancel := context.WithTimeout(context.Background(), *budget)
	defer cancel()

	var bestErr float64
	switch *strategy {
	case "annealing":
		schedule := search.Schedule{
			{Time: 0, Temperature: 1.0, MinTier: 0},
			{Time: budget.Seconds(), Temperature: 0, MinTier: 1},
		}
		annealer := search.NewAnnealer(schedule, rng.New(*seed))
		_, validationLog, runErr := annealer.Run(ctx, net, ev, strat)
		if runErr != nil && ctx.Err() == nil {
			log.Fatalf("annealing search failed: %v", runErr)
		}
		if len(validationLog) > 0 {
			bestErr = validationLog[len(validationLog)-1].Training
		}
	default:
		_, bestErr, err = search.Greedy(ctx, net, ev, strat, 0.1, search.DefaultMinResolution)
		if err != nil && ctx.Err() == nil {
			log.Fatalf("greedy search failed: %v", err)
		}
	}

	log.Printf("search=%s best_error=%.6f final_tier=%d\n", *strategy, bestErr, strat.TierIndex())
}
