package genetic

import "github.com/dopantnet/kmcdn/internal/rng"

// DefaultCollisionBound is the default "too close to be distinct
// dopants" gap, in u16 gene units.
const DefaultCollisionBound uint16 = 65

// maxRepairAttempts bounds how many times enforceUniqueness will mutate
// an offending gene before giving up and accepting the individual as-is.
const maxRepairAttempts = 100

func absDiff(a, b uint16) uint16 {
	if a > b {
		return a - b
	}
	return b - a
}

// collidingSites reports the first pair of gene-pairs (dopant positions)
// within an individual that lie strictly closer than bound on both axes,
// i.e. two dopants placed on top of one another.
func collidingSites(genes []uint16, bound uint16) (k, l int, collides bool) {
	total := len(genes) / 2
	for k := 0; k < total; k++ {
		xk, yk := genes[2*k], genes[2*k+1]
		for l := k + 1; l < total; l++ {
			xl, yl := genes[2*l], genes[2*l+1]
			if absDiff(xk, xl) < bound && absDiff(yk, yl) < bound {
				return k, l, true
			}
		}
	}
	return 0, 0, false
}

// l1Distance is the L1 (Manhattan) distance between two equal-length gene
// vectors.
func l1Distance(a, b []uint16) int {
	sum := 0
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}

// enforceUniqueness repairs genes in place (on a copy) until it has no
// same-individual dopant collision and its L1 distance from every already
// accepted individual is >= uniqueness, or until maxRepairAttempts is
// exhausted, in which case the last candidate is accepted anyway.
func enforceUniqueness(genes []uint16, accepted [][]uint16, uniqueness float64, collisionBound uint16, rnd *rng.Source) []uint16 {
	candidate := cloneGenes(genes)

	for attempt := 0; attempt < maxRepairAttempts; attempt++ {
		k, _, collides := collidingSites(candidate, collisionBound)
		if !collides && farEnoughFromAll(candidate, accepted, uniqueness) {
			return candidate
		}

		if collides {
			idx := 2*k + rnd.Intn(2)
			candidate[idx] = flipRandomBit(candidate[idx], 2.0, rnd)
		} else {
			idx := rnd.Intn(len(candidate))
			candidate[idx] = flipRandomBit(candidate[idx], 2.0, rnd)
		}
	}
	return candidate
}

func farEnoughFromAll(genes []uint16, accepted [][]uint16, uniqueness float64) bool {
	for _, other := range accepted {
		if float64(l1Distance(genes, other)) < uniqueness {
			return false
		}
	}
	return true
}
