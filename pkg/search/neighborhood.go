// Package search implements the greedy-descent and simulated-annealing
// dopant placement searches, both operating over the same 8-direction
// grid-shift neighborhood.
package search

import (
	"github.com/dopantnet/kmcdn/pkg/network"
)

// Direction is one of the 8 grid-shift directions a single dopant may be
// moved in.
type Direction struct{ DX, DY int }

// Directions is the 8-neighbor grid shift set (N, S, E, W and the four
// diagonals).
var Directions = []Direction{
	{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// Neighborhood returns one candidate network per (dopant, direction)
// pair: a clone of net with that single dopant shifted by resolution in
// that direction, clamped to the domain. Candidates are NOT
// reinitialized; callers must call Reinitialize before evaluating them.
func Neighborhood(net *network.DopantNetwork, resolution float64) []*network.DopantNetwork {
	total := net.N + net.M
	out := make([]*network.DopantNetwork, 0, total*len(Directions))

	for idx := 0; idx < total; idx++ {
		for _, d := range Directions {
			cand := net.Clone()
			shiftSite(cand, idx, d, resolution)
			out = append(out, cand)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}

func shiftSite(net *network.DopantNetwork, idx int, d Direction, resolution float64) {
	var site *network.Site
	if idx < net.N {
		site = &net.Acceptors[idx]
	} else {
		site = &net.Donors[idx-net.N]
	}
	site.Pos.X = clamp(site.Pos.X+float64(d.DX)*resolution, 0, net.Dims.X)
	if net.Dims.Y > 0 {
		site.Pos.Y = clamp(site.Pos.Y+float64(d.DY)*resolution, 0, net.Dims.Y)
	}
}
