package genetic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dopantnet/kmcdn/internal/rng"
)

func TestUniquenessZeroAllowsIdenticalOffspring(t *testing.T) {
	rnd := rng.New(1)
	genes := []uint16{10, 10, 20, 20, 30, 30}
	accepted := [][]uint16{{10, 10, 20, 20, 30, 30}}

	result := enforceUniqueness(genes, accepted, 0, 1000, rnd)
	assert.Equal(t, genes, result, "uniqueness=0 must accept an exact duplicate without mutating it")
}

func TestHighUniquenessForcesRepair(t *testing.T) {
	rnd := rng.New(2)
	genes := []uint16{10, 10, 20, 20, 30, 30}
	accepted := [][]uint16{{10, 10, 20, 20, 30, 30}}

	// uniqueness >= 2*L guarantees no duplicate can satisfy the L1 bound,
	// so the repair loop exhausts its attempts and returns a mutated
	// candidate instead of the original.
	result := enforceUniqueness(genes, accepted, float64(2*len(genes)*65536), 1000, rnd)
	assert.NotEqual(t, genes, result)
}

func TestTighteningUniquenessNeverIncreasesMaxSimilarity(t *testing.T) {
	rnd := rng.New(3)
	base := []uint16{100, 100, 200, 200}
	accepted := [][]uint16{{100, 100, 200, 200}}

	loose := enforceUniqueness(base, accepted, 0, 0, rnd)
	rnd2 := rng.New(3)
	tight := enforceUniqueness(base, accepted, 500, 0, rnd2)

	looseDist := l1Distance(loose, accepted[0])
	tightDist := l1Distance(tight, accepted[0])
	assert.GreaterOrEqual(t, tightDist, looseDist, "a stricter uniqueness bound should never end up more similar to an accepted individual than a looser one")
}

func TestCollidingSitesDetectsOverlap(t *testing.T) {
	genes := []uint16{10, 10, 11, 11}
	k, l, collides := collidingSites(genes, 5)
	assert.True(t, collides)
	assert.Equal(t, 0, k)
	assert.Equal(t, 1, l)
}

func TestCollidingSitesNoOverlap(t *testing.T) {
	genes := []uint16{10, 10, 1000, 1000}
	_, _, collides := collidingSites(genes, 5)
	assert.False(t, collides)
}
