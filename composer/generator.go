package composer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/vi-composer/genetic"
	"github.com/lixenwraith/vi-composer/genetic/tracking"
	"github.com/lixenwraith/vi-composer/melody"
	"github.com/lixenwraith/vi-composer/parameter"
	"github.com/lixenwraith/vi-composer/scale"
)

var ErrInvalidConfig = errors.New("invalid composer config")

// Config is the construction configuration of a generator
type Config struct {
	Key            string
	LowPitch       scale.Bound
	HighPitch      scale.Bound
	Meter          melody.Meter
	BaseDuration   float64 // fraction of a whole note per token
	PopulationSize int
	Generations    int
	MutationRate   float64
	CrossoverRate  float64
	TournamentSize int
	Seed           uint64 // 0 draws a random seed
	Workers        int    // 0 uses GOMAXPROCS
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		Key:            parameter.DefaultKey,
		LowPitch:       scale.Pitch(parameter.DefaultLowPitch),
		HighPitch:      scale.Pitch(parameter.DefaultHighPitch),
		Meter:          melody.Meter{Num: parameter.DefaultMeterNumerator, Den: parameter.DefaultMeterDenom},
		BaseDuration:   parameter.DefaultBaseDuration,
		PopulationSize: parameter.GAPopulationSize,
		Generations:    parameter.GAGenerations,
		MutationRate:   parameter.GAMutationRate,
		CrossoverRate:  parameter.GACrossoverRate,
		TournamentSize: parameter.GATournamentSize,
		Seed:           0,
		Workers:        parameter.GAParallelism,
	}
}

func (c Config) validate() error {
	switch {
	case c.PopulationSize < 1:
		return fmt.Errorf("%w: population size %d", ErrInvalidConfig, c.PopulationSize)
	case c.Generations < 0:
		return fmt.Errorf("%w: generations %d", ErrInvalidConfig, c.Generations)
	case c.MutationRate < 0 || c.MutationRate > 1:
		return fmt.Errorf("%w: mutation rate %v", ErrInvalidConfig, c.MutationRate)
	case c.CrossoverRate < 0 || c.CrossoverRate > 1:
		return fmt.Errorf("%w: crossover rate %v", ErrInvalidConfig, c.CrossoverRate)
	case c.TournamentSize < 1:
		return fmt.Errorf("%w: tournament size %d", ErrInvalidConfig, c.TournamentSize)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Scored is a ranked result melody with its breakdown
type Scored struct {
	Rank    int
	Melody  melody.Melody
	Fitness float64
	Scores  tracking.MetricBundle
}

// Result is everything a run produced
type Result struct {
	Length     int
	BeatLength int
	Seed       uint64
	Ranked     []Scored
	Population tracking.MetricBundle // avg_/min_/max_ of every metric over the final pool
	History    []tracking.GenerationStats
	Elapsed    time.Duration
}

// Best is the top ranked melody
func (r *Result) Best() Scored {
	if r == nil || len(r.Ranked) == 0 {
		return Scored{}
	}
	return r.Ranked[0]
}

// Generator runs one bounded search per call
type Generator struct {
	cfg      Config
	sets     scale.Sets
	beatLen  int
	expected int
	coeffs   *Coefficients
	logger   *slog.Logger
	observer func(tracking.GenerationStats)
	history  *tracking.History
}

// NewGenerator validates the configuration and resolves the pitch sets
func NewGenerator(cfg Config, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	beatLen, err := melody.BeatLength(cfg.Meter, cfg.BaseDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	sets, err := scale.Resolve(cfg.Key, cfg.LowPitch, cfg.HighPitch, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Generator{
		cfg:      cfg,
		sets:     sets,
		beatLen:  beatLen,
		expected: melody.ExpectedLength(cfg.BaseDuration),
		coeffs:   DefaultCoefficients(),
		logger:   logger,
		history:  tracking.NewHistory(cfg.Generations),
	}, nil
}

// Coefficients is the live table; changes apply to the next run
func (g *Generator) Coefficients() *Coefficients { return g.coeffs }

// SetCoefficients replaces the table used by later runs
func (g *Generator) SetCoefficients(c *Coefficients) {
	if c != nil {
		g.coeffs = c
	}
}

// SetObserver receives generation statistics while a run progresses
func (g *Generator) SetObserver(fn func(tracking.GenerationStats)) { g.observer = fn }

// History is the fitness history of the current or last run
func (g *Generator) History() *tracking.History { return g.history }

func (g *Generator) Sets() scale.Sets { return g.sets }
func (g *Generator) BeatLength() int  { return g.beatLen }
func (g *Generator) Config() Config   { return g.cfg }

func (g *Generator) Mutator() *Mutator {
	return NewMutator(g.sets.Allowed, g.cfg.Meter, g.beatLen, g.expected)
}

func (g *Generator) Analyzer() *Analyzer {
	return NewAnalyzer(g.sets.Allowed, g.sets.Scale, g.beatLen, g.expected)
}

// Evaluator snapshots the current coefficients
func (g *Generator) Evaluator() *Evaluator {
	return NewEvaluator(g.Analyzer(), g.coeffs)
}

// Run returns the fittest melody of the final population
func (g *Generator) Run(ctx context.Context, measures int) (melody.Melody, error) {
	res, err := g.Compose(ctx, measures, 1)
	if err != nil {
		return nil, err
	}
	return res.Best().Melody, nil
}

// RunTopK returns the k fittest melodies of the final population
func (g *Generator) RunTopK(ctx context.Context, measures, k int) ([]Scored, error) {
	res, err := g.Compose(ctx, measures, k)
	if err != nil {
		return nil, err
	}
	return res.Ranked, nil
}

// Compose runs the search and keeps the full result
func (g *Generator) Compose(ctx context.Context, measures, k int) (*Result, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: top-k %d", ErrInvalidConfig, k)
	}
	n, err := melody.Length(g.cfg.Meter, g.cfg.BaseDuration, measures)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: melody length %d, need at least 2 tokens", ErrInvalidConfig, n)
	}

	seed := g.cfg.Seed
	if seed == 0 {
		seed = newSeed()
	}

	evaluator := g.Evaluator()
	mutator := g.Mutator()
	walk := PitchWalk{Allowed: g.sets.Allowed, Length: n}

	engine, err := genetic.NewEngine[melody.Melody, melody.Token, float64](
		evaluator.Fitness,
		walk.Generate,
		&genetic.TournamentSelector[melody.Melody, float64]{TournamentSize: g.cfg.TournamentSize},
		genetic.SinglePointCombiner[melody.Melody, melody.Token, float64]{},
		mutator,
		genetic.EngineConfig{
			PoolSize:         g.cfg.PopulationSize,
			Generations:      g.cfg.Generations,
			CrossoverRate:    g.cfg.CrossoverRate,
			PerturbationRate: g.cfg.MutationRate,
			Parallelism:      g.cfg.Workers,
			Seed:             seed,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	engine.SetLogger(g.logger)

	history := g.history
	history.Reset()
	engine.SetObserver(func(p *genetic.Pool[melody.Melody, float64]) {
		stats := tracking.GenerationStats{
			Generation: p.Stats.Generation,
			Best:       p.Stats.BestScore,
			Average:    p.Stats.AverageScore,
			Worst:      p.Stats.WorstScore,
			StdDev:     p.Stats.StdDev,
		}
		history.Record(stats)
		if g.observer != nil {
			g.observer(stats)
		}
	})

	g.logger.Info("composition started",
		"key", g.sets.Key.String(),
		"length", n,
		"beat_length", g.beatLen,
		"population", g.cfg.PopulationSize,
		"generations", g.cfg.Generations,
		"seed", seed,
	)
	started := time.Now()

	final, err := engine.Run(ctx)
	if err != nil {
		return nil, err
	}

	collector := tracking.NewStandardCollector()
	ranked := make([]Scored, 0, k)
	for i, c := range final.TopK(k) {
		ranked = append(ranked, Scored{
			Rank:    i + 1,
			Melody:  c.Data,
			Fitness: c.Score,
			Scores:  evaluator.Scores(c.Data),
		})
	}
	for _, c := range final.Members {
		collector.Collect(evaluator.Scores(c.Data))
	}

	res := &Result{
		Length:     n,
		BeatLength: g.beatLen,
		Seed:       seed,
		Ranked:     ranked,
		Population: collector.Finalize(),
		History:    history.Points(),
		Elapsed:    time.Since(started),
	}

	g.logger.Info("composition finished",
		"best", res.Best().Fitness,
		"elapsed", res.Elapsed,
	)
	return res, nil
}

func newSeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}
