package genetic

import "github.com/dopantnet/kmcdn/internal/rng"

// CrossoverFunc produces one offspring gene vector from two parents. n and
// m are the acceptor/donor counts, needed by operators that respect the
// acceptor/donor gene boundary.
type CrossoverFunc func(p1, p2 []uint16, n, m int, rnd *rng.Source) []uint16

// SinglePoint picks k in [0, L] and returns p1[:k] ++ p2[k:].
func SinglePoint(p1, p2 []uint16, _, _ int, rnd *rng.Source) []uint16 {
	l := len(p1)
	k := rnd.Intn(l + 1)
	child := make([]uint16, l)
	copy(child[:k], p1[:k])
	copy(child[k:], p2[k:])
	return child
}

// AcceptorDonorTwoPoint picks k1 in [0, 2N] and k2 in [2N, 2N+2M], and
// returns p1[:k1] ++ p2[k1:k2] ++ p1[k2:], respecting the boundary
// between acceptor genes and donor genes.
func AcceptorDonorTwoPoint(p1, p2 []uint16, n, m int, rnd *rng.Source) []uint16 {
	l := len(p1)
	k1 := rnd.Intn(2*n + 1)
	k2 := 2*n + rnd.Intn(2*m+1)
	if k2 > l {
		k2 = l
	}
	if k1 > k2 {
		k1, k2 = k2, k1
	}

	child := make([]uint16, l)
	copy(child[:k1], p1[:k1])
	copy(child[k1:k2], p2[k1:k2])
	copy(child[k2:], p1[k2:])
	return child
}
