package solver

// FixedPoint pins a grid cell to a known value (a Dirichlet boundary
// condition, i.e. an electrode).
type FixedPoint struct {
	I, J, K int
	Value   float64
}

const maxRelaxIterations = 200000

// relaxJacobi performs plain Gauss-Seidel/SOR relaxation on g, touching
// only the dims active axes (1 = x only, 2 = x,y, 3 = x,y,z), leaving a
// one-cell padding untouched on every active axis and holding fixed at
// their pinned value. Mirrors kmc_dopant_networks.py's relaxation().
func relaxJacobi(g *Grid, dims int, fixed map[[3]int]float64, alpha, tol float64) error {
	for iter := 0; iter < maxRelaxIterations; iter++ {
		prev := g.Clone()

		switch dims {
		case 1:
			for i := 1; i < g.NX-1; i++ {
				if v, ok := fixed[[3]int{i, 0, 0}]; ok {
					g.Set(i, 0, 0, v)
					continue
				}
				g.Set(i, 0, 0, alpha*0.5*(g.At(i-1, 0, 0)+g.At(i+1, 0, 0)))
			}
		case 2:
			for i := 1; i < g.NX-1; i++ {
				for j := 1; j < g.NY-1; j++ {
					if v, ok := fixed[[3]int{i, j, 0}]; ok {
						g.Set(i, j, 0, v)
						continue
					}
					g.Set(i, j, 0, alpha*0.25*(g.At(i-1, j, 0)+g.At(i+1, j, 0)+g.At(i, j-1, 0)+g.At(i, j+1, 0)))
				}
			}
		case 3:
			for i := 1; i < g.NX-1; i++ {
				for j := 1; j < g.NY-1; j++ {
					for k := 1; k < g.NZ-1; k++ {
						if v, ok := fixed[[3]int{i, j, k}]; ok {
							g.Set(i, j, k, v)
							continue
						}
						g.Set(i, j, k, alpha/6*(g.At(i-1, j, k)+g.At(i+1, j, k)+
							g.At(i, j-1, k)+g.At(i, j+1, k)+
							g.At(i, j, k-1)+g.At(i, j, k+1)))
					}
				}
			}
		}

		denom := g.Norm2()
		if denom == 0 {
			return nil
		}
		if g.Sub(prev).Norm2()/denom <= tol {
			return nil
		}
	}
	return errNonConvergent
}
