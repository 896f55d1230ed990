// Package persist saves and restores a DopantNetwork's observable state:
// its dimensions, electrodes, and dopant positions/occupancies, using
// encoding/gob — the one concern in this module with no precedent
// serialization library anywhere in the example corpus (see the design
// notes for why this is the stdlib-justified exception).
package persist

import (
	"encoding/gob"
	"io"

	"github.com/dopantnet/kmcdn/pkg/geometry"
	"github.com/dopantnet/kmcdn/pkg/network"
)

// snapshot is the on-disk shape: the fields spec'd as needing to
// round-trip to double precision (N, M, dims, electrodes, acceptor and
// donor positions/occupancies) plus the placement Resolution,
// deliberately excluding derived state
// (the electrostatic grid, constant energies) which Reinitialize
// recomputes on load.
type snapshot struct {
	N          int
	M          int
	Dims       geometry.Extents
	Resolution float64
	Electrodes []network.Electrode
	Acceptors  []network.Site
	Donors     []network.Site
}

// Save writes net's observable state to w.
func Save(w io.Writer, net *network.DopantNetwork) error {
	snap := snapshot{
		N:          net.N,
		M:          net.M,
		Dims:       net.Dims,
		Resolution: net.Resolution,
		Electrodes: net.Electrodes,
		Acceptors:  net.Acceptors,
		Donors:     net.Donors,
	}
	return gob.NewEncoder(w).Encode(snap)
}

// Load reconstructs a network from a snapshot written by Save, rerunning
// the solver and constant-energy refresh so all derived caches are valid.
// seed supplies the loaded network's RNG stream (a snapshot carries no
// RNG state of its own).
func Load(r io.Reader, seed uint64) (*network.DopantNetwork, error) {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, err
	}

	net, err := network.New(snap.N, snap.M, snap.Dims, snap.Electrodes, snap.Resolution, seed)
	if err != nil {
		return nil, err
	}

	net.Acceptors = snap.Acceptors
	net.Donors = snap.Donors
	if err := net.Reinitialize(); err != nil {
		return nil, err
	}
	return net, nil
}
