// Package geometry provides the uniform 3D point/extent API shared by every
// higher-level component regardless of the domain's actual dimensionality.
package geometry

import "math"

// Point is a position in domain coordinates. Unused coordinates (in a 1D or
// 2D domain) are held at zero, so every component above this package can
// treat positions uniformly as 3-vectors.
type Point struct {
	X, Y, Z float64
}

// Extents describes the size of a rectangular domain along each axis. An
// extent of zero means that axis is absent (see Dimension).
type Extents struct {
	X, Y, Z float64
}

// Dimension returns 1, 2 or 3 depending on which extents are greater than
// zero. Mirrors kmc_dn's ydim==0 && zdim==0 => 1D, zdim==0 => 2D, else 3D
// check.
func (e Extents) Dimension() int {
	switch {
	case e.Y == 0 && e.Z == 0:
		return 1
	case e.Z == 0:
		return 2
	default:
		return 3
	}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
