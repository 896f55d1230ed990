// Package ratemodel computes hop feasibility, site energies, and
// Miller-Abrahams hopping rates over a DopantNetwork's sites. Sites are
// addressed as a flat index space: [0, N) are acceptors, [N, N+P) are
// electrodes, matching the transition graph's site numbering.
package ratemodel

import (
	"math"

	"github.com/dopantnet/kmcdn/pkg/config"
	"github.com/dopantnet/kmcdn/pkg/geometry"
	"github.com/dopantnet/kmcdn/pkg/network"
)

// BranchPolicy resolves which side of the Miller-Abrahams rate formula
// gets the energy penalty term. PenalizeUphill is the physically standard
// convention; PenalizeDownhill is the reference implementation's literal
// (swapped) branch, kept so both can be run and compared.
type BranchPolicy int

const (
	PenalizeUphill BranchPolicy = iota
	PenalizeDownhill
)

// RateModel is a pure function of network state: no field here is ever
// mutated by Rate/SiteEnergy/EnergyDifference.
type RateModel struct {
	Physics config.Physics
	Branch  BranchPolicy
}

// New returns a RateModel using the given physical constants and the
// physically standard branch policy.
func New(physics config.Physics) *RateModel {
	return &RateModel{Physics: physics, Branch: PenalizeUphill}
}

func isElectrode(net *network.DopantNetwork, site int) bool { return site >= net.N }

func sitePos(net *network.DopantNetwork, site int) geometry.Point {
	if isElectrode(net, site) {
		return net.Electrodes[site-net.N].Pos
	}
	return net.Acceptors[site].Pos
}

// TransitionPossible implements the five feasibility rules of §4.3: both
// endpoints electrodes, a full acceptor receiving from an electrode, an
// empty acceptor donating to an electrode, a self-loop, or an
// acceptor-acceptor hop where the source is empty or the destination is
// full are all disallowed.
func TransitionPossible(net *network.DopantNetwork, i, j int) bool {
	if i == j {
		return false
	}
	iElec := isElectrode(net, i)
	jElec := isElectrode(net, j)
	if iElec && jElec {
		return false
	}
	if iElec {
		return net.Acceptors[j].Occupied < 2
	}
	if jElec {
		return net.Acceptors[i].Occupied > 0
	}
	return net.Acceptors[i].Occupied > 0 && net.Acceptors[j].Occupied < 2
}

// SiteEnergy returns E_k for an acceptor site (0 for electrodes), per
// §4.3: the Coulomb sum over every other acceptor's unoccupied-hole
// charge, plus the constant energy cache. The on-site repulsion U is not
// included here: it applies asymmetrically to a hop's two endpoints
// (see EnergyDifference), not to a site's energy in isolation.
func (m *RateModel) SiteEnergy(net *network.DopantNetwork, k int) float64 {
	if isElectrode(net, k) {
		return 0
	}
	coulomb := m.Physics.CoulombConstant()
	site := net.Acceptors[k]

	e := net.EConstant[k]
	for l, other := range net.Acceptors {
		if l == k {
			continue
		}
		d := geometry.Distance(site.Pos, other.Pos)
		e += coulomb * float64(1-other.Occupied) / d
	}
	return e
}

// EnergyDifference returns ΔE(i→j) = E_j - E_i, with the additional
// Coulomb repulsion term when both endpoints are acceptors (the
// source-destination charge interaction created by the move). The
// on-site repulsion U is added to the source's energy when it is
// currently doubly occupied (the hop releases that repulsion) and to
// the destination's energy when it is currently singly occupied (the
// hop will double it) — an asymmetric test, not occ==2 on both sides,
// since a feasible destination is never already full.
func (m *RateModel) EnergyDifference(net *network.DopantNetwork, i, j int) float64 {
	ei := m.SiteEnergy(net, i)
	if !isElectrode(net, i) && net.Acceptors[i].Occupied == 2 {
		ei += m.Physics.OnSiteU
	}
	ej := m.SiteEnergy(net, j)
	if !isElectrode(net, j) && net.Acceptors[j].Occupied == 1 {
		ej += m.Physics.OnSiteU
	}

	dE := ej - ei
	if !isElectrode(net, i) && !isElectrode(net, j) {
		coulomb := m.Physics.CoulombConstant()
		d := geometry.Distance(sitePos(net, i), sitePos(net, j))
		dE += coulomb / d
	}
	return dE
}

// Rate returns the Miller-Abrahams hop rate r(i→j), 0 if the hop is
// infeasible.
func (m *RateModel) Rate(net *network.DopantNetwork, i, j int) float64 {
	if !TransitionPossible(net, i, j) {
		return 0
	}

	dE := m.EnergyDifference(net, i, j)
	rho := geometry.Distance(sitePos(net, i), sitePos(net, j))
	base := m.Physics.AttemptFreq * math.Exp(-2*rho/m.Physics.BohrRadius)

	penalized := dE > 0
	if m.Branch == PenalizeDownhill {
		penalized = dE <= 0
	}
	if !penalized {
		return base
	}
	kT := m.Physics.Boltzmann * m.Physics.Temperature
	return base * math.Exp(-dE/kT)
}
