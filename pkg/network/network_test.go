package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dopantnet/kmcdn/pkg/geometry"
	"github.com/dopantnet/kmcdn/pkg/network"
)

func testElectrodes() []network.Electrode {
	return []network.Electrode{
		{Pos: geometry.Point{X: 0}, Voltage: 1.0},
		{Pos: geometry.Point{X: 10}, Voltage: 0.0},
	}
}

func TestNewProducesValidOccupancy(t *testing.T) {
	net, err := network.New(6, 2, geometry.Extents{X: 10}, testElectrodes(), 1.0, 1)
	require.NoError(t, err)
	assert.Equal(t, net.N-net.M, net.TotalOccupancy())
}

func TestUpdateVIdempotent(t *testing.T) {
	net, err := network.New(4, 1, geometry.Extents{X: 10}, testElectrodes(), 1.0, 2)
	require.NoError(t, err)

	before := append([]float64(nil), net.EConstant...)
	require.NoError(t, net.UpdateV())
	after := append([]float64(nil), net.EConstant...)

	assert.Equal(t, before, after, "UpdateV with no intervening mutation must be a no-op")
}

func TestSetVoltageForcesRecompute(t *testing.T) {
	net, err := network.New(4, 1, geometry.Extents{X: 10}, testElectrodes(), 1.0, 3)
	require.NoError(t, err)

	before := append([]float64(nil), net.EConstant...)
	require.NoError(t, net.SetVoltage(0, 5.0))
	require.NoError(t, net.UpdateV())
	after := net.EConstant

	assert.NotEqual(t, before, after, "raising electrode 0's voltage should change the constant energy cache")
}

func TestRejectsInvalidCounts(t *testing.T) {
	_, err := network.New(0, 0, geometry.Extents{X: 10}, testElectrodes(), 1.0, 4)
	assert.Error(t, err)

	_, err = network.New(3, 5, geometry.Extents{X: 10}, testElectrodes(), 1.0, 4)
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	net, err := network.New(4, 1, geometry.Extents{X: 10}, testElectrodes(), 1.0, 5)
	require.NoError(t, err)

	clone := net.Clone()
	original := net.Acceptors[0].Occupied
	clone.Acceptors[0].Occupied = original + 1

	assert.Equal(t, original, net.Acceptors[0].Occupied, "mutating the clone must not affect the source")
}
