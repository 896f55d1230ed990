package genetic

import (
	"math"

	"github.com/dopantnet/kmcdn/internal/rng"
)

// Elitism returns e = 4 - (G mod 2), the number of top-scoring individuals
// preserved untouched into the next generation, clamped to G for tiny
// populations.
func Elitism(g int) int {
	e := 4 - (g % 2)
	if e > g {
		e = g
	}
	if e < 0 {
		e = 0
	}
	return e
}

// ParentWeights returns the disparity-weighted selection weights
// w_i = |d*(1-(i+0.5)/C)^(d-1)| for i=0..C-1, normalized so they sum to C.
func ParentWeights(c int, disparity float64) []float64 {
	if c <= 0 {
		return nil
	}
	w := make([]float64, c)
	sum := 0.0
	for i := 0; i < c; i++ {
		frac := (float64(i) + 0.5) / float64(c)
		w[i] = math.Abs(disparity * math.Pow(1-frac, disparity-1))
		sum += w[i]
	}
	if sum == 0 {
		for i := range w {
			w[i] = 1
		}
		sum = float64(c)
	}
	scale := float64(c) / sum
	for i := range w {
		w[i] *= scale
	}
	return w
}

// BuildParentPool expands weighted parents into an intermediate pool:
// floor(w_i) guaranteed copies of parent i, plus one more with
// probability frac(w_i), then shuffles the resulting pool.
func BuildParentPool(parents []Individual, weights []float64, rnd *rng.Source) []Individual {
	var pool []Individual
	for i, w := range weights {
		n := int(math.Floor(w))
		for k := 0; k < n; k++ {
			pool = append(pool, parents[i])
		}
		if frac := w - float64(n); rnd.Float64() < frac {
			pool = append(pool, parents[i])
		}
	}
	rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}
