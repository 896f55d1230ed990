// Package solver implements the SOR/Gauss-Seidel Laplace relaxation used to
// compute the electrostatic landscape, including the recursive
// lower-to-higher-dimensional boundary propagation described for 2D and 3D
// domains.
package solver

import (
	"errors"
	"math"

	"github.com/dopantnet/kmcdn/pkg/geometry"
	"github.com/dopantnet/kmcdn/pkg/simerr"
)

var errNonConvergent = errors.New("relaxation did not converge within iteration budget")

// Kernel selects which relaxation strategy is used for the expensive
// full-volume interior pass. Sub-manifold passes (edges, faces) always use
// JacobiKernel since those systems are tiny.
type Kernel int

const (
	JacobiKernel Kernel = iota
	SparseKernel
)

// Electrode is the minimal shape the solver needs: a position and a fixed
// voltage.
type Electrode struct {
	Pos     geometry.Point
	Voltage float64
}

type electrodePoint struct {
	idx [3]int
	v   float64
}

// Solver owns the relaxation parameters and kernel choice; Solve is
// otherwise stateless.
type Solver struct {
	Alpha  float64 // over-relaxation factor, default 1.0
	Tol    float64 // convergence tolerance, default 1e-3
	Kernel Kernel
}

// New returns a Solver with the recommended defaults (alpha=1.0, tol=1e-3,
// plain Jacobi kernel).
func New() *Solver {
	return &Solver{Alpha: 1.0, Tol: 1e-3, Kernel: JacobiKernel}
}

// ElectrodeGridIndex quantizes an electrode's domain position to a grid
// index: round(coord / extent * (gridExtent-1)), per-axis, zero on axes the
// domain does not use.
func ElectrodeGridIndex(pos geometry.Point, dims geometry.Extents, nx, ny, nz int) [3]int {
	idx := [3]int{}
	idx[0] = int(math.Round(pos.X / dims.X * float64(nx-1)))
	if dims.Y > 0 {
		idx[1] = int(math.Round(pos.Y / dims.Y * float64(ny-1)))
	}
	if dims.Z > 0 {
		idx[2] = int(math.Round(pos.Z / dims.Z * float64(nz-1)))
	}
	return idx
}

// AcceptorGridIndex maps a dopant position into the relaxed grid's
// interior, per axis: round(coord/extent*(gridExtent-3)) + 1, zero on axes
// the domain does not use. This differs from ElectrodeGridIndex: an
// electrode position is meant to land exactly on a boundary cell
// (including the padding ring), while an acceptor's potential must be read
// from the relaxed interior, one cell in from the padding.
func AcceptorGridIndex(pos geometry.Point, dims geometry.Extents, nx, ny, nz int) [3]int {
	idx := [3]int{}
	idx[0] = int(math.Round(pos.X/dims.X*float64(nx-3))) + 1
	if dims.Y > 0 {
		idx[1] = int(math.Round(pos.Y/dims.Y*float64(ny-3))) + 1
	}
	if dims.Z > 0 {
		idx[2] = int(math.Round(pos.Z/dims.Z*float64(nz-3))) + 1
	}
	return idx
}

// Solve builds a new padded grid and relaxes it to satisfy Laplace's equation subject to the
// electrode Dirichlet conditions, recursively propagating lower-dimensional
// boundary solves into higher ones as described by the specification.
func (s *Solver) Solve(dims geometry.Extents, electrodes []Electrode, res float64) (*Grid, error) {
	if s.Alpha <= 0 || s.Alpha > 2 {
		return nil, simerr.New(simerr.Solver, "Solve", errors.New("alpha out of range (0, 2]"))
	}

	dim := dims.Dimension()
	nx := int(dims.X/res) + 2
	ny := 1
	nz := 1
	if dim >= 2 {
		ny = int(dims.Y/res) + 2
	}
	if dim == 3 {
		nz = int(dims.Z/res) + 2
	}

	grid := NewGrid(nx, ny, nz)

	pts := make([]electrodePoint, len(electrodes))
	for i, e := range electrodes {
		idx := ElectrodeGridIndex(e.Pos, dims, nx, ny, nz)
		for axis, n := range [3]int{nx, ny, nz} {
			if idx[axis] < 0 || idx[axis] >= n {
				return nil, simerr.New(simerr.Solver, "Solve",
					errors.New("electrode grid index out of range"))
			}
		}
		pts[i] = electrodePoint{idx: idx, v: e.Voltage}
		grid.Set(idx[0], idx[1], idx[2], e.Voltage)
	}

	fixedAll := map[[3]int]float64{}
	for _, p := range pts {
		fixedAll[p.idx] = p.v
	}

	switch dim {
	case 1:
		if err := s.relaxVolume(grid, 1, fixedAll); err != nil {
			return nil, simerr.New(simerr.Solver, "Solve", err)
		}
		return grid, nil

	case 2:
		for _, edge := range []map[int]int{
			{1: 0}, {1: ny - 1}, {0: 0}, {0: nx - 1},
		} {
			freeAxis := 0
			if _, ok := edge[0]; ok {
				freeAxis = 1
			}
			if err := relaxSubLine(grid, freeAxis, edge, pts, s.Alpha, s.Tol); err != nil {
				return nil, simerr.New(simerr.Solver, "Solve", err)
			}
		}

		if err := s.relaxVolume(grid, 2, fixedAll); err != nil {
			return nil, simerr.New(simerr.Solver, "Solve", err)
		}
		return grid, nil

	default: // dim == 3
		// Twelve edges: four on the z=0 plane, four on the z=nz-1 plane,
		// four z-parallel corner edges.
		edges := []struct {
			fixed    map[int]int
			freeAxis int
		}{
			{map[int]int{1: 0, 2: 0}, 0}, {map[int]int{1: ny - 1, 2: 0}, 0},
			{map[int]int{0: 0, 2: 0}, 1}, {map[int]int{0: nx - 1, 2: 0}, 1},
			{map[int]int{1: 0, 2: nz - 1}, 0}, {map[int]int{1: ny - 1, 2: nz - 1}, 0},
			{map[int]int{0: 0, 2: nz - 1}, 1}, {map[int]int{0: nx - 1, 2: nz - 1}, 1},
			{map[int]int{0: 0, 1: 0}, 2}, {map[int]int{0: 0, 1: ny - 1}, 2},
			{map[int]int{0: nx - 1, 1: 0}, 2}, {map[int]int{0: nx - 1, 1: ny - 1}, 2},
		}
		for _, e := range edges {
			if err := relaxSubLine(grid, e.freeAxis, e.fixed, pts, s.Alpha, s.Tol); err != nil {
				return nil, simerr.New(simerr.Solver, "Solve", err)
			}
		}

		faces := []struct {
			axis, val int
			freeA, freeB int
		}{
			{2, 0, 0, 1}, {2, nz - 1, 0, 1},
			{0, 0, 1, 2}, {0, nx - 1, 1, 2},
			{1, 0, 0, 2}, {1, ny - 1, 0, 2},
		}
		for _, f := range faces {
			if err := relaxSubPlane(grid, f.axis, f.val, f.freeA, f.freeB, pts, s.Alpha, s.Tol); err != nil {
				return nil, simerr.New(simerr.Solver, "Solve", err)
			}
		}

		if err := s.relaxVolume(grid, 3, fixedAll); err != nil {
			return nil, simerr.New(simerr.Solver, "Solve", err)
		}
		return grid, nil
	}
}

func (s *Solver) relaxVolume(grid *Grid, dims int, fixed map[[3]int]float64) error {
	if s.Kernel == SparseKernel {
		return solveSparse(grid, dims, fixed)
	}
	return relaxJacobi(grid, dims, fixed, s.Alpha, s.Tol)
}
