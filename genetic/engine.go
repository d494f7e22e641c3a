package genetic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"slices"

	"github.com/alitto/pond"
	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/stat"

	"github.com/lixenwraith/vi-composer/parameter"
)

var ErrInvalidEngineConfig = errors.New("invalid engine config")

// --- Algorithm Engine ---

// Engine is the main genetic algorithm execution engine
// It coordinates all operators and manages the generational replacement
type Engine[S ~[]T, T any, F Numeric] struct {
	// Core operators
	evaluator   EvaluatorFunc[S, F]
	initializer InitializerFunc[S]
	selector    Selector[S, F]
	combiner    Combiner[S, F]
	perturbator Perturbator[S]
	terminator  TerminationFunc[S, F]
	observer    ObserverFunc[S, F]

	// Configuration
	config EngineConfig
	logger *slog.Logger

	// State
	rng         *rand.Rand
	currentPool *Pool[S, F]
	history     []PoolStats[F]
}

// EngineConfig holds configuration parameters for the algorithm
type EngineConfig struct {
	// PoolSize is the number of candidates maintained in each generation
	PoolSize int
	// Generations is the number of full replacements to run
	Generations int
	// CrossoverRate is the probability a selected parent pair is recombined (0-1)
	CrossoverRate float64
	// PerturbationRate is handed to the perturbator for every offspring (0-1)
	PerturbationRate float64
	// Parallelism bounds evaluation and breeding workers (0 = GOMAXPROCS)
	Parallelism int
	// Seed for random number generation (0 for random seed)
	Seed uint64
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() EngineConfig {
	return EngineConfig{
		PoolSize:         parameter.GAPopulationSize,
		Generations:      parameter.GAGenerations,
		CrossoverRate:    parameter.GACrossoverRate,
		PerturbationRate: parameter.GAMutationRate,
		Parallelism:      parameter.GAParallelism,
		Seed:             0,
	}
}

// Validate rejects configurations the loop cannot run
func (c EngineConfig) Validate() error {
	switch {
	case c.PoolSize < 1:
		return fmt.Errorf("%w: pool size %d", ErrInvalidEngineConfig, c.PoolSize)
	case c.Generations < 0:
		return fmt.Errorf("%w: generations %d", ErrInvalidEngineConfig, c.Generations)
	case c.CrossoverRate < 0 || c.CrossoverRate > 1:
		return fmt.Errorf("%w: crossover rate %v", ErrInvalidEngineConfig, c.CrossoverRate)
	case c.PerturbationRate < 0 || c.PerturbationRate > 1:
		return fmt.Errorf("%w: perturbation rate %v", ErrInvalidEngineConfig, c.PerturbationRate)
	case c.Parallelism < 0:
		return fmt.Errorf("%w: parallelism %d", ErrInvalidEngineConfig, c.Parallelism)
	}
	return nil
}

func (c EngineConfig) workers() int {
	if c.Parallelism > 0 {
		return c.Parallelism
	}
	return runtime.GOMAXPROCS(0)
}

// NewEngine creates a new genetic algorithm engine with the specified operators
func NewEngine[S ~[]T, T any, F Numeric](
	evaluator EvaluatorFunc[S, F],
	initializer InitializerFunc[S],
	selector Selector[S, F],
	combiner Combiner[S, F],
	perturbator Perturbator[S],
	config EngineConfig,
) (*Engine[S, T, F], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if evaluator == nil || initializer == nil || selector == nil || combiner == nil || perturbator == nil {
		return nil, fmt.Errorf("%w: missing operator", ErrInvalidEngineConfig)
	}

	// Initialize random number generator
	var rng *rand.Rand
	if config.Seed == 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		rng = rand.New(rand.NewPCG(config.Seed, config.Seed))
	}

	return &Engine[S, T, F]{
		evaluator:   evaluator,
		initializer: initializer,
		selector:    selector,
		combiner:    combiner,
		perturbator: perturbator,
		config:      config,
		logger:      slog.Default(),
		rng:         rng,
		history:     make([]PoolStats[F], 0, config.Generations+1),
	}, nil
}

// SetTerminator sets a custom termination condition
func (e *Engine[S, T, F]) SetTerminator(terminator TerminationFunc[S, F]) {
	e.terminator = terminator
}

// SetObserver registers a callback invoked after every completed pool
func (e *Engine[S, T, F]) SetObserver(observer ObserverFunc[S, F]) {
	e.observer = observer
}

func (e *Engine[S, T, F]) SetLogger(logger *slog.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// Run executes the genetic algorithm for the configured number of generations.
// Cancellation is checked between generations; the last complete pool is returned with ctx.Err().
func (e *Engine[S, T, F]) Run(ctx context.Context) (*Pool[S, F], error) {
	evalPool := pond.New(e.config.workers(), e.config.PoolSize)
	defer evalPool.StopAndWait()

	e.history = e.history[:0]

	// Initialize population
	e.currentPool = e.initializePool(evalPool)
	e.record(e.currentPool)

	// Main evolution loop
	for iteration := 0; iteration < e.config.Generations; iteration++ {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return e.currentPool, ctx.Err()
		default:
		}

		// Check termination condition
		if e.terminator != nil && e.terminator(e.currentPool, iteration) {
			break
		}

		e.currentPool = e.evolveGeneration(evalPool)
		e.record(e.currentPool)
	}

	return e.currentPool, nil
}

// initializePool creates the initial population of candidates
// Solutions are drawn sequentially from the master generator so the pool depends only on the seed
func (e *Engine[S, T, F]) initializePool(evalPool *pond.WorkerPool) *Pool[S, F] {
	candidates := make([]Candidate[S, F], e.config.PoolSize)
	for i := range candidates {
		candidates[i] = Candidate[S, F]{Data: e.initializer(e.rng), Index: i}
	}

	e.evaluate(evalPool, candidates)

	return &Pool[S, F]{
		Members:    candidates,
		Generation: 0,
		Stats:      calculateStats(candidates, 0),
	}
}

// evaluate scores every candidate on the worker pool and waits for all of them
func (e *Engine[S, T, F]) evaluate(evalPool *pond.WorkerPool, candidates []Candidate[S, F]) {
	group := evalPool.Group()
	for i := range candidates {
		group.Submit(func() {
			candidates[i].Score = e.evaluator(candidates[i].Data)
		})
	}
	group.Wait()
}

// evolveGeneration builds the next pool from an immutable snapshot of the current one.
// Each offspring pair gets its own generator, seeded before dispatch.
func (e *Engine[S, T, F]) evolveGeneration(evalPool *pond.WorkerPool) *Pool[S, F] {
	source := e.currentPool
	pairs := (e.config.PoolSize + 1) / 2

	seeds := make([][2]uint64, pairs)
	for i := range seeds {
		seeds[i] = [2]uint64{e.rng.Uint64(), e.rng.Uint64()}
	}

	offspring := make([]S, 2*pairs)
	breeders := pool.New().WithMaxGoroutines(e.config.workers())
	for i := range pairs {
		breeders.Go(func() {
			rng := rand.New(rand.NewPCG(seeds[i][0], seeds[i][1]))
			offspring[2*i], offspring[2*i+1] = e.breed(source, rng)
		})
	}
	breeders.Wait()

	// Odd pool sizes drop the last child
	nextGen := make([]Candidate[S, F], e.config.PoolSize)
	for i := range nextGen {
		nextGen[i] = Candidate[S, F]{Data: offspring[i], Index: i}
	}
	e.evaluate(evalPool, nextGen)

	generation := source.Generation + 1
	return &Pool[S, F]{
		Members:    nextGen,
		Generation: generation,
		Stats:      calculateStats(nextGen, generation),
	}
}

// breed selects two parents, recombines them with CrossoverRate and perturbs both children
func (e *Engine[S, T, F]) breed(source *Pool[S, F], rng *rand.Rand) (S, S) {
	parents := e.selector.Select(source, 2, rng)

	var children []S
	if rng.Float64() < e.config.CrossoverRate {
		children = e.combiner.Combine(parents, rng)
	}
	for len(children) < 2 {
		children = append(children, clone(parents[len(children)%len(parents)].Data))
	}

	for i := range children[:2] {
		e.perturbator.Perturb(&children[i], e.config.PerturbationRate, rng)
	}
	return children[0], children[1]
}

func (e *Engine[S, T, F]) record(p *Pool[S, F]) {
	e.history = append(e.history, p.Stats)
	e.logger.Debug("generation complete",
		"generation", p.Generation,
		"best", p.Stats.BestScore,
		"average", p.Stats.AverageScore,
		"worst", p.Stats.WorstScore,
	)
	if e.observer != nil {
		e.observer(p)
	}
}

// calculateStats computes statistical measures for a candidate pool
func calculateStats[S Solution, F Numeric](candidates []Candidate[S, F], generation int) PoolStats[F] {
	if len(candidates) == 0 {
		return PoolStats[F]{Generation: generation}
	}

	stats := PoolStats[F]{
		Generation: generation,
		BestScore:  candidates[0].Score,
		WorstScore: candidates[0].Score,
	}

	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		if c.Score > stats.BestScore {
			stats.BestScore = c.Score
		}
		if c.Score < stats.WorstScore {
			stats.WorstScore = c.Score
		}
		scores[i] = float64(c.Score)
	}

	stats.AverageScore, stats.StdDev = stat.PopMeanStdDev(scores, nil)
	return stats
}

// GetHistory returns the statistics of every pool, initial pool first
func (e *Engine[S, T, F]) GetHistory() []PoolStats[F] {
	return slices.Clone(e.history)
}

// GetBest returns the best candidate of the current pool, ties to the lowest index
func (e *Engine[S, T, F]) GetBest() (Candidate[S, F], error) {
	if e.currentPool == nil {
		return Candidate[S, F]{}, ErrNoCandidates
	}
	return e.currentPool.Best()
}

// Best returns the maximum-score member, ties to the lowest index
func (p *Pool[S, F]) Best() (Candidate[S, F], error) {
	if p == nil || len(p.Members) == 0 {
		return Candidate[S, F]{}, ErrNoCandidates
	}

	best := p.Members[0]
	for _, c := range p.Members[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best, nil
}

// TopK returns up to k members ordered by descending score, ties by ascending index
func (p *Pool[S, F]) TopK(k int) []Candidate[S, F] {
	if p == nil || k <= 0 {
		return nil
	}
	ranked := slices.Clone(p.Members)
	slices.SortStableFunc(ranked, func(a, b Candidate[S, F]) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return a.Index - b.Index
		}
	})
	return ranked[:min(k, len(ranked))]
}
