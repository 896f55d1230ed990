package genetic

import (
	"math"

	"github.com/dopantnet/kmcdn/internal/rng"
)

// Mutate flips one bit of one randomly chosen gene with probability
// mutRate. The bit index is floor(r^(1/mutPower) * 16) for r ~ U[0,1),
// and the flipped bit is 1<<index; since r^(1/mutPower) grows with
// mutPower, higher mutPower biases toward high-order (large-magnitude)
// flips.
func Mutate(genes []uint16, mutRate, mutPower float64, rnd *rng.Source) {
	if rnd.Float64() >= mutRate {
		return
	}
	idx := rnd.Intn(len(genes))
	genes[idx] = flipRandomBit(genes[idx], mutPower, rnd)
}

func flipRandomBit(g uint16, mutPower float64, rnd *rng.Source) uint16 {
	r := rnd.Float64()
	bit := int(math.Pow(r, 1/mutPower) * 16)
	if bit > 15 {
		bit = 15
	}
	return g ^ (1 << uint(bit))
}
