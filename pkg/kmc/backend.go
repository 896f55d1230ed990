package kmc

import (
	"context"

	"github.com/dopantnet/kmcdn/pkg/config"
	"github.com/dopantnet/kmcdn/pkg/network"
	"github.com/dopantnet/kmcdn/pkg/ratemodel"
)

// Kernel names the backend mode an evaluator tier requests: Probability
// for the cheap low-accuracy tier, Record for the others. NativeBackend
// runs both modes the same way and always returns the measured current.
type Kernel int

const (
	Probability Kernel = iota
	Record
)

// BackendRequest is the native-acceleration contract: everything an
// out-of-process or cgo backend would need to reproduce a KMC run without
// holding a reference to the live network.
type BackendRequest struct {
	Sites      []network.Site
	Donors     []network.Site
	Electrodes []network.Electrode
	EConstant  []float64
	Physics    config.Physics
	Branch     ratemodel.BranchPolicy
	TimePolicy TimePolicy
	Hops       int
	Prehops    int
	Mode       Kernel
	Seed       uint64
}

// BackendResult is what a backend hands back: final acceptor occupancy
// and the per-electrode current measured over the recorded hops.
type BackendResult struct {
	Occupancy []int
	Current   []float64
}

// Backend is the native-acceleration contract of the specification: a
// run of prehops (discarded, to reach steady state) followed by hops
// (recorded), returning final occupancy and current.
type Backend interface {
	Run(ctx context.Context, req BackendRequest) (BackendResult, error)
}

// NativeBackend is the pure-Go reference implementation of Backend. It
// rebuilds a network and engine from the request and drives them with
// Engine.RunDiscrete, so a cgo or out-of-process backend can be swapped
// in later without changing this interface.
type NativeBackend struct{}

func (NativeBackend) Run(ctx context.Context, req BackendRequest) (BackendResult, error) {
	net := &network.DopantNetwork{
		N:          len(req.Sites),
		M:          len(req.Donors),
		Acceptors:  append([]network.Site(nil), req.Sites...),
		Donors:     append([]network.Site(nil), req.Donors...),
		Electrodes: append([]network.Electrode(nil), req.Electrodes...),
		EConstant:  append([]float64(nil), req.EConstant...),
		Physics:    req.Physics,
	}

	rates := ratemodel.New(req.Physics)
	rates.Branch = req.Branch

	engine := New(net, rates, req.Seed)
	engine.TimePolicy = req.TimePolicy

	if req.Prehops > 0 {
		if _, err := engine.RunDiscrete(ctx, req.Prehops); err != nil {
			return BackendResult{}, err
		}
	}

	// Reset the carrier counters and clock so the recorded window starts
	// clean after the prehop warmup, matching the reference
	// implementation's "prehops are thrown away" semantics.
	for i := range net.Electrodes {
		net.Electrodes[i].Carriers = 0
	}
	engine.Time = 0

	current, err := engine.RunDiscrete(ctx, req.Hops)
	if err != nil {
		return BackendResult{}, err
	}

	occupancy := make([]int, net.N)
	for i, a := range net.Acceptors {
		occupancy[i] = a.Occupied
	}

	return BackendResult{Occupancy: occupancy, Current: current}, nil
}
