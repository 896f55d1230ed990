package solver

func axisSize(g *Grid, axis int) int {
	switch axis {
	case 0:
		return g.NX
	case 1:
		return g.NY
	default:
		return g.NZ
	}
}

// relaxSubLine extracts the 1D line of g along freeAxis at the position
// pinned by fixed (axis -> index), relaxes it in isolation, and writes the
// result back. Used for the edge-propagation passes in 2D and 3D solves.
func relaxSubLine(g *Grid, freeAxis int, fixed map[int]int, pts []electrodePoint, alpha, tol float64) error {
	size := axisSize(g, freeAxis)
	sub := NewGrid(size, 1, 1)

	coord := [3]int{}
	for axis, val := range fixed {
		coord[axis] = val
	}
	for idx := 0; idx < size; idx++ {
		coord[freeAxis] = idx
		sub.Set(idx, 0, 0, g.At(coord[0], coord[1], coord[2]))
	}

	fixedSub := map[[3]int]float64{}
	for _, p := range pts {
		matches := true
		for axis, val := range fixed {
			if p.idx[axis] != val {
				matches = false
				break
			}
		}
		if matches {
			fixedSub[[3]int{p.idx[freeAxis], 0, 0}] = p.v
		}
	}

	if err := relaxJacobi(sub, 1, fixedSub, alpha, tol); err != nil {
		return err
	}

	for idx := 0; idx < size; idx++ {
		coord[freeAxis] = idx
		g.Set(coord[0], coord[1], coord[2], sub.At(idx, 0, 0))
	}
	return nil
}

// relaxSubPlane extracts the 2D plane of g pinned at fixedAxis=fixedVal,
// varying over freeA and freeB, relaxes it in isolation, and writes the
// result back. Used for the face-propagation pass in 3D solves.
func relaxSubPlane(g *Grid, fixedAxis, fixedVal, freeA, freeB int, pts []electrodePoint, alpha, tol float64) error {
	sizeA := axisSize(g, freeA)
	sizeB := axisSize(g, freeB)
	sub := NewGrid(sizeA, sizeB, 1)

	coord := [3]int{}
	coord[fixedAxis] = fixedVal
	for i := 0; i < sizeA; i++ {
		for j := 0; j < sizeB; j++ {
			coord[freeA] = i
			coord[freeB] = j
			sub.Set(i, j, 0, g.At(coord[0], coord[1], coord[2]))
		}
	}

	fixedSub := map[[3]int]float64{}
	for _, p := range pts {
		if p.idx[fixedAxis] != fixedVal {
			continue
		}
		fixedSub[[3]int{p.idx[freeA], p.idx[freeB], 0}] = p.v
	}

	if err := relaxJacobi(sub, 2, fixedSub, alpha, tol); err != nil {
		return err
	}

	for i := 0; i < sizeA; i++ {
		for j := 0; j < sizeB; j++ {
			coord[freeA] = i
			coord[freeB] = j
			g.Set(coord[0], coord[1], coord[2], sub.At(i, j, 0))
		}
	}
	return nil
}
