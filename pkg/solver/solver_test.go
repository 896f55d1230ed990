package solver_test

import (
	"testing"

	"github.com/dopantnet/kmcdn/pkg/geometry"
	"github.com/dopantnet/kmcdn/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedPointsHeld1D(t *testing.T) {
	s := solver.New()
	dims := geometry.Extents{X: 10}
	electrodes := []solver.Electrode{
		{Pos: geometry.Point{X: 0}, Voltage: 1.0},
		{Pos: geometry.Point{X: 10}, Voltage: -1.0},
	}
	grid, err := s.Solve(dims, electrodes, 1.0)
	require.NoError(t, err)

	idx0 := solver.ElectrodeGridIndex(geometry.Point{X: 0}, dims, grid.NX, grid.NY, grid.NZ)
	idx1 := solver.ElectrodeGridIndex(geometry.Point{X: 10}, dims, grid.NX, grid.NY, grid.NZ)
	assert.InDelta(t, 1.0, grid.At(idx0[0], idx0[1], idx0[2]), 1e-9)
	assert.InDelta(t, -1.0, grid.At(idx1[0], idx1[1], idx1[2]), 1e-9)
}

func TestMonotoneBetweenElectrodes1D(t *testing.T) {
	s := solver.New()
	dims := geometry.Extents{X: 10}
	electrodes := []solver.Electrode{
		{Pos: geometry.Point{X: 0}, Voltage: -1.0},
		{Pos: geometry.Point{X: 10}, Voltage: 1.0},
	}
	grid, err := s.Solve(dims, electrodes, 1.0)
	require.NoError(t, err)

	midX := grid.NX / 2
	mid := grid.At(midX, 0, 0)
	assert.Greater(t, mid, -1.0)
	assert.Less(t, mid, 1.0)
}

func TestAlphaOutOfRangeIsFatal(t *testing.T) {
	s := solver.New()
	s.Alpha = 2.5
	_, err := s.Solve(geometry.Extents{X: 10}, []solver.Electrode{{Pos: geometry.Point{X: 0}, Voltage: 1}}, 1.0)
	assert.Error(t, err)
}

func TestSolve2DZeroElectrodesIsZero(t *testing.T) {
	s := solver.New()
	dims := geometry.Extents{X: 10, Y: 10}
	electrodes := []solver.Electrode{
		{Pos: geometry.Point{X: 0, Y: 0}, Voltage: 0},
		{Pos: geometry.Point{X: 10, Y: 10}, Voltage: 0},
	}
	grid, err := s.Solve(dims, electrodes, 2.0)
	require.NoError(t, err)
	for k := 0; k < grid.NZ; k++ {
		for j := 0; j < grid.NY; j++ {
			for i := 0; i < grid.NX; i++ {
				assert.InDelta(t, 0.0, grid.At(i, j, k), 1e-6)
			}
		}
	}
}

func TestSparseKernelAgreesWithJacobi1D(t *testing.T) {
	dims := geometry.Extents{X: 10}
	electrodes := []solver.Electrode{
		{Pos: geometry.Point{X: 0}, Voltage: 2.0},
		{Pos: geometry.Point{X: 10}, Voltage: -2.0},
	}

	jacobi := solver.New()
	jGrid, err := jacobi.Solve(dims, electrodes, 1.0)
	require.NoError(t, err)

	sparseS := solver.New()
	sparseS.Kernel = solver.SparseKernel
	sGrid, err := sparseS.Solve(dims, electrodes, 1.0)
	require.NoError(t, err)

	for i := 0; i < jGrid.NX; i++ {
		assert.InDelta(t, jGrid.At(i, 0, 0), sGrid.At(i, 0, 0), 1e-2)
	}
}
