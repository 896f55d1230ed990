package search

import (
	"context"
	"math"
	"time"

	"github.com/dopantnet/kmcdn/internal/rng"
	"github.com/dopantnet/kmcdn/pkg/evaluator"
	"github.com/dopantnet/kmcdn/pkg/network"
)

// Waypoint is one point on an annealing schedule: at wall-clock time
// Time, temperature is Temperature and the strategy tier should be at
// least MinTier.
type Waypoint struct {
	Time        float64
	Temperature float64
	MinTier     int
}

// Schedule is an ordered sequence of waypoints. Temperature is linearly
// interpolated between consecutive waypoints in wall-clock time.
type Schedule []Waypoint

// TemperatureAt returns the interpolated temperature at elapsed seconds.
func (s Schedule) TemperatureAt(elapsed float64) float64 {
	if len(s) == 0 {
		return 0
	}
	if elapsed <= s[0].Time {
		return s[0].Temperature
	}
	for i := 1; i < len(s); i++ {
		if elapsed <= s[i].Time {
			t0, t1 := s[i-1].Time, s[i].Time
			if t1 == t0 {
				return s[i].Temperature
			}
			frac := (elapsed - t0) / (t1 - t0)
			return s[i-1].Temperature + frac*(s[i].Temperature-s[i-1].Temperature)
		}
	}
	return s[len(s)-1].Temperature
}

// MinTierAt returns the highest MinTier among waypoints already reached.
func (s Schedule) MinTierAt(elapsed float64) int {
	tier := 0
	for _, wp := range s {
		if elapsed >= wp.Time && wp.MinTier > tier {
			tier = wp.MinTier
		}
	}
	return tier
}

// Done reports whether elapsed has passed the schedule's final waypoint.
func (s Schedule) Done(elapsed float64) bool {
	return len(s) > 0 && elapsed >= s[len(s)-1].Time
}

// ValidationEntry is one row of the validation log: a periodic
// high-tier re-score of the current best network alongside the training
// (current-tier) error and the wall-clock time it was taken at.
type ValidationEntry struct {
	Validation float64
	Training   float64
	Elapsed    float64
}

// Annealer runs Metropolis-Hastings search over the same 8-direction
// neighborhood Greedy uses, driven by an annealing Schedule.
type Annealer struct {
	Schedule           Schedule
	Resolution         float64
	ValidationTimestep float64
	Rand               *rng.Source
	Now                func() time.Time
}

// NewAnnealer returns an Annealer with a 60-second validation cadence
// and grid resolution 1.0.
func NewAnnealer(schedule Schedule, rnd *rng.Source) *Annealer {
	return &Annealer{
		Schedule:           schedule,
		Resolution:         1.0,
		ValidationTimestep: 60,
		Rand:               rnd,
		Now:                time.Now,
	}
}

// Run executes the annealing search until the schedule is exhausted or
// the context is cancelled, returning the best network found and its
// validation log.
func (a *Annealer) Run(ctx context.Context, net *network.DopantNetwork, ev *evaluator.Evaluator, strat *evaluator.Strategy) (*network.DopantNetwork, []ValidationEntry, error) {
	now := a.Now
	if now == nil {
		now = time.Now
	}
	start := now()

	best := net
	bestErr, err := ev.Evaluate(ctx, best, strat.Tier())
	if err != nil {
		return nil, nil, err
	}

	var log []ValidationEntry
	lastValidation := 0.0

	for {
		select {
		case <-ctx.Done():
			return best, log, ctx.Err()
		default:
		}

		elapsed := now().Sub(start).Seconds()
		if a.Schedule.Done(elapsed) {
			return best, log, nil
		}

		strat.SetTierAtLeast(a.Schedule.MinTierAt(elapsed))
		temperature := a.Schedule.TemperatureAt(elapsed)

		candidates := Neighborhood(best, a.Resolution)
		cand := candidates[a.Rand.Intn(len(candidates))]
		if err := cand.Reinitialize(); err != nil {
			return nil, nil, err
		}
		candErr, err := ev.Evaluate(ctx, cand, strat.Tier())
		if err != nil {
			return nil, nil, err
		}

		accept := candErr < bestErr
		if !accept && temperature > 1e-3 {
			p := math.Exp(-(candErr - bestErr) / temperature)
			accept = a.Rand.Float64() < p
		}
		if accept {
			best = cand
			bestErr = candErr
		}

		if a.ValidationTimestep > 0 && elapsed-lastValidation >= a.ValidationTimestep {
			validationErr, err := ev.Validate(ctx, best)
			if err != nil {
				return nil, nil, err
			}
			log = append(log, ValidationEntry{Validation: validationErr, Training: bestErr, Elapsed: elapsed})
			lastValidation = elapsed
		}
	}
}
