// Package kmc implements the rejection-free kinetic Monte Carlo engine
// that advances a dopant network's occupancy and per-electrode current
// under a RateModel, plus the native-acceleration backend contract.
package kmc

import (
	"context"
	"errors"
	"math"

	"github.com/dopantnet/kmcdn/internal/rng"
	"github.com/dopantnet/kmcdn/pkg/network"
	"github.com/dopantnet/kmcdn/pkg/ratemodel"
	"github.com/dopantnet/kmcdn/pkg/simerr"
)

var errNoFeasibleTransition = errors.New("no feasible transition: all rates are zero")

// TimePolicy selects how simulation time advances after a hop is chosen.
type TimePolicy int

const (
	// InverseRate advances time by 1/r_chosen, the exponential-waiting-time
	// approximation used by the reference implementation.
	InverseRate TimePolicy = iota
	// ExponentialSample draws the waiting time from Exp(S), the physically
	// faithful variant.
	ExponentialSample
)

const (
	defaultInterval = 500
	defaultTol      = 1e-3
)

// Engine owns a network, a rate model, and the running simulation clock.
// It does not own the network's lifecycle: callers construct and
// reinitialize the network independently.
type Engine struct {
	Net        *network.DopantNetwork
	Rates      *ratemodel.RateModel
	Time       float64
	TimePolicy TimePolicy
	Interval   int
	Tol        float64

	rand *rng.Source
}

// New returns an Engine with the default continuous-mode convergence
// parameters (interval=500, tol=1e-3) and the InverseRate time policy.
func New(net *network.DopantNetwork, rates *ratemodel.RateModel, seed uint64) *Engine {
	return &Engine{
		Net:        net,
		Rates:      rates,
		TimePolicy: InverseRate,
		Interval:   defaultInterval,
		Tol:        defaultTol,
		rand:       rng.New(seed),
	}
}

// Step performs one rejection-free (BKL/Gillespie) hop: it sums every
// feasible transition rate, draws u ~ U(0,1), walks the cumulative
// normalized rate in row-major (i, j) order to find the first transition
// at or past u, applies the hop, and advances time.
func (e *Engine) Step() error {
	n := e.Net.SiteCount()

	type edge struct {
		i, j int
		rate float64
	}
	var edges []edge
	total := 0.0

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			r := e.Rates.Rate(e.Net, i, j)
			if r <= 0 {
				continue
			}
			edges = append(edges, edge{i, j, r})
			total += r
		}
	}

	if total <= 0 {
		return simerr.New(simerr.Numerical, "Step", errNoFeasibleTransition)
	}

	u := e.rand.Float64() * total
	var chosen edge
	cum := 0.0
	for _, ed := range edges {
		cum += ed.rate
		if cum >= u {
			chosen = ed
			break
		}
	}
	if chosen.rate == 0 {
		chosen = edges[len(edges)-1]
	}

	e.applyHop(chosen.i, chosen.j)

	switch e.TimePolicy {
	case ExponentialSample:
		e.Time += e.rand.Exponential(total)
	default:
		e.Time += 1.0 / chosen.rate
	}
	return nil
}

func (e *Engine) applyHop(i, j int) {
	net := e.Net
	n := net.N

	if i < n {
		net.Acceptors[i].Occupied--
	} else {
		net.Electrodes[i-n].Carriers--
	}
	if j < n {
		net.Acceptors[j].Occupied++
	} else {
		net.Electrodes[j-n].Carriers++
	}
}

// currents returns count/time for every electrode; time==0 yields zero
// currents (no hops taken yet).
func (e *Engine) currents() []float64 {
	out := make([]float64, len(e.Net.Electrodes))
	if e.Time == 0 {
		return out
	}
	for i, el := range e.Net.Electrodes {
		out[i] = float64(el.Carriers) / e.Time
	}
	return out
}

func norm2(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// RunDiscrete runs exactly hops steps and returns the final per-electrode
// current vector, used by probability-only or quick evaluation modes.
func (e *Engine) RunDiscrete(ctx context.Context, hops int) ([]float64, error) {
	for h := 0; h < hops; h++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if err := e.Step(); err != nil {
			return nil, err
		}
	}
	return e.currents(), nil
}

// Run drives the engine in continuous mode: every Interval hops it
// compares the new current vector with the previous one and stops once
// ||I_new - I_old||_2 / ||I_new||_2 <= Tol, or maxHops is reached.
func (e *Engine) Run(ctx context.Context, maxHops int) ([]float64, error) {
	prev := e.currents()
	hops := 0
	for hops < maxHops {
		for i := 0; i < e.Interval; i++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			if err := e.Step(); err != nil {
				return nil, err
			}
			hops++
			if hops >= maxHops {
				break
			}
		}

		cur := e.currents()
		diff := make([]float64, len(cur))
		for i := range cur {
			diff[i] = cur[i] - prev[i]
		}
		denom := norm2(cur)
		if denom > 0 && norm2(diff)/denom <= e.Tol {
			return cur, nil
		}
		prev = cur
	}
	return e.currents(), nil
}
