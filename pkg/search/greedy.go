package search

import (
	"context"

	"github.com/dopantnet/kmcdn/pkg/evaluator"
	"github.com/dopantnet/kmcdn/pkg/network"
)

// DefaultMinResolution is the default stopping resolution for greedy
// descent.
const DefaultMinResolution = 0.01

// Greedy repeatedly accepts the first neighbor (in Neighborhood order)
// with strictly lower error than the current best. When no neighbor
// improves, it promotes the strategy if the current error clears the
// promotion threshold; otherwise it halves the grid resolution. The
// search stops once resolution falls to or below minResolution.
func Greedy(ctx context.Context, net *network.DopantNetwork, ev *evaluator.Evaluator, strat *evaluator.Strategy, resolution, minResolution float64) (*network.DopantNetwork, float64, error) {
	if minResolution <= 0 {
		minResolution = DefaultMinResolution
	}

	best := net
	bestErr, err := ev.Evaluate(ctx, best, strat.Tier())
	if err != nil {
		return nil, 0, err
	}

	for resolution > minResolution {
		select {
		case <-ctx.Done():
			return best, bestErr, ctx.Err()
		default:
		}

		improved := false
		for _, cand := range Neighborhood(best, resolution) {
			if err := cand.Reinitialize(); err != nil {
				return nil, 0, err
			}
			candErr, err := ev.Evaluate(ctx, cand, strat.Tier())
			if err != nil {
				return nil, 0, err
			}
			if candErr < bestErr {
				best = cand
				bestErr = candErr
				improved = true
				break
			}
		}

		if improved {
			continue
		}

		if strat.MaybePromote(bestErr, ev.NTests()) {
			continue
		}
		resolution /= 2
	}

	return best, bestErr, nil
}
