package solver

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// solveSparse assembles the full-volume Laplace stencil as a sparse linear
// system and solves it directly, the way the circuit simulator assembles
// and factors its MNA system in pkg/matrix/circuit.go. Boundary cells
// (the padding ring) and electrode cells are Dirichlet rows (identity,
// rhs = pinned value); every other cell gets the averaging stencil row.
// This kernel ignores alpha: a direct solve targets the exact harmonic
// solution, and alpha only exists to accelerate iterative convergence.
func solveSparse(grid *Grid, dims int, fixed map[[3]int]float64) error {
	nx, ny, nz := grid.NX, grid.NY, grid.NZ
	size := nx * ny * nz

	id := func(i, j, k int) int64 { return int64(1 + i + j*nx + k*nx*ny) }

	config := &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		ModifiedNodal:  false,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}
	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return fmt.Errorf("creating sparse relaxation matrix: %w", err)
	}

	rhs := make([]float64, size+1)

	type nbr struct{ di, dj, dk int }
	var neighbors []nbr
	switch dims {
	case 1:
		neighbors = []nbr{{-1, 0, 0}, {1, 0, 0}}
	case 2:
		neighbors = []nbr{{-1, 0, 0}, {1, 0, 0}, {0, -1, 0}, {0, 1, 0}}
	default:
		neighbors = []nbr{{-1, 0, 0}, {1, 0, 0}, {0, -1, 0}, {0, 1, 0}, {0, 0, -1}, {0, 0, 1}}
	}

	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				row := id(i, j, k)
				onBoundary := i == 0 || i == nx-1 ||
					(ny > 1 && (j == 0 || j == ny-1)) ||
					(nz > 1 && (k == 0 || k == nz-1))
				fv, isFixed := fixed[[3]int{i, j, k}]

				if onBoundary || isFixed {
					value := grid.At(i, j, k)
					if isFixed {
						value = fv
					}
					mat.GetElement(row, row).Real += 1
					rhs[row] = value
					continue
				}

				mat.GetElement(row, row).Real += 1
				coeff := -1.0 / float64(len(neighbors))
				for _, n := range neighbors {
					mat.GetElement(row, id(i+n.di, j+n.dj, k+n.dk)).Real += coeff
				}
				rhs[row] = 0
			}
		}
	}

	if err := mat.Factor(); err != nil {
		return fmt.Errorf("factoring relaxation matrix: %w", err)
	}
	solution, err := mat.Solve(rhs)
	if err != nil {
		return fmt.Errorf("solving relaxation system: %w", err)
	}

	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				grid.Set(i, j, k, solution[id(i, j, k)])
			}
		}
	}
	return nil
}
