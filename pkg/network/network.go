// Package network implements the DopantNetwork: dopant sites, electrodes,
// the electrostatic landscape cache, and the constant-energy cache,
// expressed with explicit dirty bits so derived state is never silently
// stale (see design note on mutable graphs with derived caches).
package network

import (
	"errors"
	"fmt"

	"github.com/dopantnet/kmcdn/internal/rng"
	"github.com/dopantnet/kmcdn/pkg/config"
	"github.com/dopantnet/kmcdn/pkg/geometry"
	"github.com/dopantnet/kmcdn/pkg/simerr"
	"github.com/dopantnet/kmcdn/pkg/solver"
)

// SiteKind distinguishes acceptors (dynamic, 0/1/2 occupancy) from donors
// (fixed compensators, no dynamics).
type SiteKind int

const (
	Acceptor SiteKind = iota
	Donor
)

// Site is a dopant location. Donors never change Occupied (it stays at 1,
// a single fixed compensating charge).
type Site struct {
	Pos      geometry.Point
	Kind     SiteKind
	Occupied int
}

// Electrode is a contact: a fixed position and applied voltage, with a
// running signed carrier count (sink positive, source negative).
type Electrode struct {
	Pos      geometry.Point
	Voltage  float64
	Carriers int
}

type dirtyBits uint8

const (
	dirtyPosition dirtyBits = 1 << iota
	dirtyVoltage
)

// DopantNetwork is the central simulation state: N acceptors, M donors,
// P electrodes, the electrostatic grid, and the per-acceptor constant
// energy cache.
type DopantNetwork struct {
	N, M       int
	Dims       geometry.Extents
	Resolution float64
	Physics    config.Physics

	Acceptors  []Site
	Donors     []Site
	Electrodes []Electrode

	Grid      *solver.Grid
	EConstant []float64

	Time    float64
	Current []float64

	Solver *solver.Solver
	Rand   *rng.Source

	dirty dirtyBits
}

// New constructs a network with N acceptors and M donors (M <= N), the
// given domain extents, and electrode list. Positions are drawn at random
// (see RandomPlace), the solver runs once, and constant energies are
// computed, matching kmc_dn.__init__'s initialization order.
func New(n, m int, dims geometry.Extents, electrodes []Electrode, res float64, seed uint64) (*DopantNetwork, error) {
	if n <= 0 || m < 0 || m > n {
		return nil, simerr.New(simerr.Configuration, "New", fmt.Errorf("invalid N=%d, M=%d", n, m))
	}
	if dims.X <= 0 {
		return nil, simerr.New(simerr.Configuration, "New", errors.New("xdim must be positive"))
	}
	if res <= 0 {
		dim := dims.Dimension()
		switch dim {
		case 1:
			res = dims.X / 100
		case 2:
			res = minPositive(dims.X, dims.Y) / 100
		default:
			res = minPositive(minPositive(dims.X, dims.Y), dims.Z) / 100
		}
	}

	net := &DopantNetwork{
		N:          n,
		M:          m,
		Dims:       dims,
		Resolution: res,
		Physics:    config.DefaultPhysics(),
		Electrodes: append([]Electrode(nil), electrodes...),
		Current:    make([]float64, len(electrodes)),
		Solver:     solver.New(),
		Rand:       rng.New(seed),
	}

	net.RandomPlace()
	if err := net.Reinitialize(); err != nil {
		return nil, err
	}
	return net, nil
}

func minPositive(a, b float64) float64 {
	if a <= 0 {
		return b
	}
	if b <= 0 {
		return a
	}
	if a < b {
		return a
	}
	return b
}

// RandomPlace places N acceptors and M donors uniformly in the domain and
// assigns N-M charges, matching place_dopants_charges. Each coordinate is
// a continuous uniform draw over its axis extent (y from the y extent);
// positions are not snapped to the Resolution grid, and placement
// coincidence is not checked here or by the greedy/annealing moves.
func (net *DopantNetwork) RandomPlace() {
	net.Acceptors = make([]Site, net.N)
	net.Donors = make([]Site, net.M)

	for i := range net.Acceptors {
		net.Acceptors[i] = Site{
			Pos:  net.randomPoint(),
			Kind: Acceptor,
		}
	}
	for i := range net.Donors {
		net.Donors[i] = Site{
			Pos:      net.randomPoint(),
			Kind:     Donor,
			Occupied: 1,
		}
	}

	placed := 0
	for placed < net.N-net.M {
		trial := net.Rand.Intn(net.N)
		if net.Acceptors[trial].Occupied < 2 {
			net.Acceptors[trial].Occupied++
			placed++
		}
	}

	net.dirty |= dirtyPosition
}

func (net *DopantNetwork) randomPoint() geometry.Point {
	p := geometry.Point{X: net.Rand.Float64() * net.Dims.X}
	if net.Dims.Y > 0 {
		p.Y = net.Rand.Float64() * net.Dims.Y
	}
	if net.Dims.Z > 0 {
		p.Z = net.Rand.Float64() * net.Dims.Z
	}
	return p
}

// SetVoltage updates electrode i's applied voltage. Cheap: marks the
// voltage cache dirty but does not itself recompute anything, per the
// specification's lifecycle rules.
func (net *DopantNetwork) SetVoltage(i int, v float64) error {
	if i < 0 || i >= len(net.Electrodes) {
		return simerr.New(simerr.Configuration, "SetVoltage", errors.New("electrode index out of range"))
	}
	net.Electrodes[i].Voltage = v
	net.dirty |= dirtyVoltage
	return nil
}

// UpdateV recomputes the electrostatic landscape and constant energies if
// the voltage cache is dirty. Idempotent for unchanged voltages (testable
// property #4): calling it twice in a row without an intervening mutation
// is a no-op the second time.
func (net *DopantNetwork) UpdateV() error {
	if net.dirty&dirtyVoltage == 0 && net.Grid != nil {
		return nil
	}
	if err := net.refreshElectrostatics(); err != nil {
		return err
	}
	net.refreshConstantEnergy()
	net.dirty &^= dirtyVoltage
	return nil
}

// Reinitialize recomputes the electrostatic landscape and constant
// energies unconditionally, as required after a position mutation
// (dopant placement search moving a site).
func (net *DopantNetwork) Reinitialize() error {
	if err := net.refreshElectrostatics(); err != nil {
		return err
	}
	net.refreshConstantEnergy()
	net.dirty = 0
	return nil
}

func (net *DopantNetwork) refreshElectrostatics() error {
	electrodes := make([]solver.Electrode, len(net.Electrodes))
	for i, e := range net.Electrodes {
		electrodes[i] = solver.Electrode{Pos: e.Pos, Voltage: e.Voltage}
	}
	grid, err := net.Solver.Solve(net.Dims, electrodes, net.Resolution)
	if err != nil {
		return err
	}
	net.Grid = grid
	return nil
}

func (net *DopantNetwork) refreshConstantEnergy() {
	net.EConstant = make([]float64, net.N)
	coulomb := net.Physics.CoulombConstant()

	for i, acc := range net.Acceptors {
		idx := solver.AcceptorGridIndex(acc.Pos, net.Dims, net.Grid.NX, net.Grid.NY, net.Grid.NZ)
		e := net.Physics.Charge * net.Grid.At(idx[0], idx[1], idx[2])

		for _, donor := range net.Donors {
			e -= coulomb / geometry.Distance(acc.Pos, donor.Pos)
		}
		net.EConstant[i] = e
	}
}

// TotalOccupancy sums acceptor occupancies. RandomPlace sets it to N-M;
// afterwards hops between an acceptor and an electrode change it by one,
// and only TotalOccupancy plus the electrodes' carrier counts is conserved.
func (net *DopantNetwork) TotalOccupancy() int {
	total := 0
	for _, a := range net.Acceptors {
		total += a.Occupied
	}
	return total
}

// SiteCount returns N + P, the size of the transition graph.
func (net *DopantNetwork) SiteCount() int { return net.N + len(net.Electrodes) }

// Clone returns a value-semantics deep copy, used by searches to hold
// candidate/best-so-far networks without aliasing shared state (design
// note on cyclic references between search and network).
func (net *DopantNetwork) Clone() *DopantNetwork {
	out := *net
	out.Acceptors = append([]Site(nil), net.Acceptors...)
	out.Donors = append([]Site(nil), net.Donors...)
	out.Electrodes = append([]Electrode(nil), net.Electrodes...)
	out.EConstant = append([]float64(nil), net.EConstant...)
	out.Current = append([]float64(nil), net.Current...)
	if net.Grid != nil {
		out.Grid = net.Grid.Clone()
	}
	return &out
}
