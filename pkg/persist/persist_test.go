package persist_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dopantnet/kmcdn/pkg/geometry"
	"github.com/dopantnet/kmcdn/pkg/network"
	"github.com/dopantnet/kmcdn/pkg/persist"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	electrodes := []network.Electrode{
		{Pos: geometry.Point{X: 0}, Voltage: 1.0},
		{Pos: geometry.Point{X: 10}, Voltage: 0.0},
	}
	net, err := network.New(5, 2, geometry.Extents{X: 10}, electrodes, 1.0, 42)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, persist.Save(&buf, net))

	loaded, err := persist.Load(&buf, 42)
	require.NoError(t, err)

	assert.Equal(t, net.N, loaded.N)
	assert.Equal(t, net.M, loaded.M)
	assert.Equal(t, net.Acceptors, loaded.Acceptors)
	assert.Equal(t, net.Donors, loaded.Donors)
	assert.Equal(t, net.Electrodes, loaded.Electrodes)
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := persist.Load(bytes.NewReader([]byte("not a gob stream")), 1)
	assert.Error(t, err)
}
