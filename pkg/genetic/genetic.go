package genetic

import (
	"context"
	"time"

	"github.com/dopantnet/kmcdn/internal/rng"
	"github.com/dopantnet/kmcdn/pkg/evaluator"
	"github.com/dopantnet/kmcdn/pkg/network"
)

// Config bundles every tunable of a genetic search run.
type Config struct {
	PopulationSize     int
	Disparity          float64
	Uniqueness         float64
	UniquenessSchedule UniquenessSchedule
	Crossover          CrossoverFunc
	MutationRate       float64
	MutationPower      float64
	CollisionBound     uint16
	MaxGenerations     int
	Budget             time.Duration
}

// DefaultConfig returns reasonable defaults: population 20, disparity 2,
// single-point crossover, a 10% mutation rate, and a 200-generation cap.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 20,
		Disparity:      2.0,
		Uniqueness:     10,
		Crossover:      SinglePoint,
		MutationRate:   0.1,
		MutationPower:  2.0,
		CollisionBound: DefaultCollisionBound,
		MaxGenerations: 200,
	}
}

// ValidationEntry mirrors the search package's validation log row,
// defined locally so this package does not need to import search.
type ValidationEntry struct {
	Validation float64
	Training   float64
	Generation int
}

// Result is the outcome of a genetic search run.
type Result struct {
	BestError     float64
	FinalTier     int
	Generations   int
	ValidationLog []ValidationEntry
}

// Run drives the genetic search: it seeds a population around base,
// scores it each generation (via batch if provided, otherwise
// sequentially), selects, crosses over, mutates, and enforces uniqueness
// to build the next generation, until the wall-clock budget or
// max-generation cap is hit or the final tier's error threshold is met.
func Run(ctx context.Context, base *network.DopantNetwork, ev *evaluator.Evaluator, strat *evaluator.Strategy, cfg Config, batch BatchEvaluator, rnd *rng.Source) (*network.DopantNetwork, Result, error) {
	if cfg.Crossover == nil {
		cfg.Crossover = SinglePoint
	}
	if cfg.PopulationSize <= 0 {
		cfg.PopulationSize = DefaultConfig().PopulationSize
	}

	population := make([]Individual, cfg.PopulationSize)
	for i := range population {
		seed := base.Clone()
		seed.RandomPlace()
		population[i] = Individual{Genes: seed.Genes()}
	}

	start := time.Now()
	var best Individual
	var validationLog []ValidationEntry
	generation := 0

	for {
		select {
		case <-ctx.Done():
			return decodeNetwork(base, best.Genes), Result{BestError: best.Error, FinalTier: strat.TierIndex(), Generations: generation, ValidationLog: validationLog}, ctx.Err()
		default:
		}

		nets := make([]*network.DopantNetwork, len(population))
		for i, ind := range population {
			nets[i] = decodeNetwork(base, ind.Genes)
		}

		var scores []float64
		var err error
		if batch != nil {
			scores, err = batch.Evaluate(ctx, nets, ev, strat.Tier())
		} else {
			scores = make([]float64, len(nets))
			for i, net := range nets {
				scores[i], err = ev.Evaluate(ctx, net, strat.Tier())
				if err != nil {
					break
				}
			}
		}
		if err != nil {
			return decodeNetwork(base, best.Genes), Result{BestError: best.Error, FinalTier: strat.TierIndex(), Generations: generation}, err
		}
		for i := range population {
			population[i].Error = scores[i]
		}

		sortByError(population)
		if generation == 0 || population[0].Error < best.Error {
			best = Individual{Genes: cloneGenes(population[0].Genes), Error: population[0].Error}
		}

		if strat.AtFinalTier() && best.Error < evaluator.Tiers[strat.TierIndex()].ThresholdErr*float64(ev.NTests()) {
			break
		}
		if cfg.MaxGenerations > 0 && generation >= cfg.MaxGenerations {
			break
		}
		if cfg.Budget > 0 && time.Since(start) >= cfg.Budget {
			break
		}

		uniqueness := cfg.Uniqueness
		if cfg.UniquenessSchedule != nil {
			uniqueness = cfg.UniquenessSchedule.At(generation)
		}

		population = nextGeneration(population, cfg, uniqueness, base.N, base.M, rnd)
		strat.MaybePromote(best.Error, ev.NTests())
		generation++
	}

	return decodeNetwork(base, best.Genes), Result{
		BestError:     best.Error,
		FinalTier:     strat.TierIndex(),
		Generations:   generation,
		ValidationLog: validationLog,
	}, nil
}

func decodeNetwork(base *network.DopantNetwork, genes []uint16) *network.DopantNetwork {
	net := base.Clone()
	if genes == nil {
		return net
	}
	_ = net.FromGenes(genes)
	_ = net.Reinitialize()
	return net
}

func sortByError(pop []Individual) {
	// insertion sort: population sizes are small (tens of individuals),
	// and this keeps ties in their original relative order.
	for i := 1; i < len(pop); i++ {
		for j := i; j > 0 && pop[j].Error < pop[j-1].Error; j-- {
			pop[j], pop[j-1] = pop[j-1], pop[j]
		}
	}
}

func nextGeneration(population []Individual, cfg Config, uniqueness float64, n, m int, rnd *rng.Source) []Individual {
	g := len(population)
	e := Elitism(g)

	next := make([]Individual, 0, g)
	var acceptedGenes [][]uint16
	for i := 0; i < e; i++ {
		next = append(next, population[i])
		acceptedGenes = append(acceptedGenes, population[i].Genes)
	}

	// Weight the top C = G-e individuals (by rank, best first) as parents,
	// not the bottom G-e: the original iterates results from rank 0 and
	// stops at cross_over_gen_size, so the elites feed crossover too
	// alongside carrying over unchanged.
	c := g - e
	if c <= 0 {
		return next
	}
	parents := population[:c]
	weights := ParentWeights(c, cfg.Disparity)
	pool := BuildParentPool(parents, weights, rnd)

	for i := 0; i+1 < len(pool) && len(next) < g; i += 2 {
		child := cfg.Crossover(pool[i].Genes, pool[i+1].Genes, n, m, rnd)
		Mutate(child, cfg.MutationRate, cfg.MutationPower, rnd)
		child = enforceUniqueness(child, acceptedGenes, uniqueness, cfg.CollisionBound, rnd)

		next = append(next, Individual{Genes: child})
		acceptedGenes = append(acceptedGenes, child)
	}

	// If the pool had an odd leftover or produced too few children to
	// refill the population, pad with fresh copies of the best parent.
	for len(next) < g {
		next = append(next, Individual{Genes: cloneGenes(parents[0].Genes)})
	}

	return next
}
