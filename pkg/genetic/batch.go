package genetic

import (
	"context"
	"math"
	"runtime"
	"sync"

	"github.com/dopantnet/kmcdn/pkg/evaluator"
	"github.com/dopantnet/kmcdn/pkg/network"
)

// BatchEvaluator scores a list of independent, read-only-between-each-
//-other networks and returns one error score per network in the same
// order. A worker failure marks that individual's error as +Inf rather
// than failing the whole batch; only context cancellation fails the call.
type BatchEvaluator interface {
	Evaluate(ctx context.Context, nets []*network.DopantNetwork, ev *evaluator.Evaluator, tier evaluator.Tier) ([]float64, error)
}

// GoroutineBatchEvaluator fans a generation's evaluations out across a
// bounded pool of goroutines, preserving list order in its result.
type GoroutineBatchEvaluator struct {
	// Workers bounds concurrency; 0 uses runtime.GOMAXPROCS(0).
	Workers int
}

func (b GoroutineBatchEvaluator) Evaluate(ctx context.Context, nets []*network.DopantNetwork, ev *evaluator.Evaluator, tier evaluator.Tier) ([]float64, error) {
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	errs := make([]float64, len(nets))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, net := range nets {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, net *network.DopantNetwork) {
			defer wg.Done()
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				errs[i] = math.Inf(1)
				return
			default:
			}

			score, err := ev.Evaluate(ctx, net, tier)
			if err != nil {
				errs[i] = math.Inf(1)
				return
			}
			errs[i] = score
		}(i, net)
	}

	wg.Wait()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return errs, nil
}
