package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Grid is a 1/2/3D potential array with one-cell padding on every used
// axis, matching kmc_dn's self.V initialization
// (np.zeros((xdim/res+2, ydim/res+2, zdim/res+2))). It is stored as a
// stack of dense z-layers so every layer can be handed to gonum/mat
// routines directly.
type Grid struct {
	NX, NY, NZ int
	layers     []*mat.Dense // len == NZ, each NX x NY
}

// NewGrid allocates a zeroed grid of the given shape. ny/nz may be 1 for
// lower-dimensional domains (the padding convention still applies: callers
// pass already-padded sizes).
func NewGrid(nx, ny, nz int) *Grid {
	if ny < 1 {
		ny = 1
	}
	if nz < 1 {
		nz = 1
	}
	layers := make([]*mat.Dense, nz)
	for k := range layers {
		layers[k] = mat.NewDense(nx, ny, nil)
	}
	return &Grid{NX: nx, NY: ny, NZ: nz, layers: layers}
}

func (g *Grid) At(i, j, k int) float64 {
	return g.layers[k].At(i, j)
}

func (g *Grid) Set(i, j, k int, v float64) {
	g.layers[k].Set(i, j, v)
}

// Clone returns a deep copy, used by the relaxation kernels to keep a
// "previous iterate" without aliasing the live grid.
func (g *Grid) Clone() *Grid {
	out := NewGrid(g.NX, g.NY, g.NZ)
	for k := range g.layers {
		out.layers[k].Copy(g.layers[k])
	}
	return out
}

// Norm2 returns the Frobenius norm across every layer, used by the
// convergence test ||A - A_prev||_2 / ||A||_2 <= tau.
func (g *Grid) Norm2() float64 {
	sum := 0.0
	for _, layer := range g.layers {
		n := mat.Norm(layer, 2)
		sum += n * n
	}
	return math.Sqrt(sum)
}

// Sub returns a new Grid holding g - other, same shape.
func (g *Grid) Sub(other *Grid) *Grid {
	out := NewGrid(g.NX, g.NY, g.NZ)
	for k := range g.layers {
		out.layers[k].Sub(g.layers[k], other.layers[k])
	}
	return out
}
