package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dopantnet/kmcdn/pkg/geometry"
	"github.com/dopantnet/kmcdn/pkg/network"
)

func TestGeneLength(t *testing.T) {
	net, err := network.New(5, 2, geometry.Extents{X: 10, Y: 10}, testElectrodes(), 1.0, 10)
	require.NoError(t, err)

	genes := net.Genes()
	assert.Len(t, genes, (net.N+net.M)*2)
}

func TestGeneRoundTrip(t *testing.T) {
	net, err := network.New(5, 2, geometry.Extents{X: 10, Y: 10}, testElectrodes(), 1.0, 11)
	require.NoError(t, err)

	genes := net.Genes()
	require.NoError(t, net.FromGenes(genes))
	roundTripped := net.Genes()

	assert.Equal(t, genes, roundTripped, "encoding then decoding then re-encoding must be stable")
}

func TestFromGenesRejectsWrongLength(t *testing.T) {
	net, err := network.New(5, 2, geometry.Extents{X: 10, Y: 10}, testElectrodes(), 1.0, 12)
	require.NoError(t, err)

	err = net.FromGenes([]uint16{1, 2, 3})
	assert.Error(t, err)
}

func TestFromGenesPlacesWithinDomain(t *testing.T) {
	net, err := network.New(3, 1, geometry.Extents{X: 10, Y: 10}, testElectrodes(), 1.0, 13)
	require.NoError(t, err)

	genes := make([]uint16, (net.N+net.M)*2)
	for i := range genes {
		genes[i] = 65535
	}
	require.NoError(t, net.FromGenes(genes))

	for _, a := range net.Acceptors {
		assert.InDelta(t, 10.0, a.Pos.X, 1e-6)
		assert.InDelta(t, 10.0, a.Pos.Y, 1e-6)
	}
}
