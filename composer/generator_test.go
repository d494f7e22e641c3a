package composer

import (
	"bytes"
	"context"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-composer/genetic/tracking"
	"github.com/lixenwraith/vi-composer/melody"
	"github.com/lixenwraith/vi-composer/scale"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.PopulationSize = 16
	cfg.Generations = 5
	cfg.Seed = 7
	cfg.Workers = 4
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newTestGenerator(t *testing.T, cfg Config) *Generator {
	t.Helper()
	g, err := NewGenerator(cfg, quietLogger())
	require.NoError(t, err)
	return g
}

func TestRunProducesValidMelody(t *testing.T) {
	g := newTestGenerator(t, smallConfig())

	m, err := g.Run(context.Background(), 2)
	require.NoError(t, err)

	// 4/4 with base duration 0.5 fills 8 tokens per measure
	assert.Len(t, m, 16)
	assert.Equal(t, 8, g.BeatLength())
	require.NoError(t, m.Validate(16, g.Sets().Allowed))
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	a, err := newTestGenerator(t, smallConfig()).Compose(context.Background(), 2, 3)
	require.NoError(t, err)
	b, err := newTestGenerator(t, smallConfig()).Compose(context.Background(), 2, 3)
	require.NoError(t, err)

	require.Len(t, a.Ranked, 3)
	for i := range a.Ranked {
		assert.Equal(t, a.Ranked[i].Melody, b.Ranked[i].Melody)
		assert.Equal(t, a.Ranked[i].Fitness, b.Ranked[i].Fitness)
	}
	assert.Equal(t, a.History, b.History)
	assert.Equal(t, uint64(7), a.Seed)
}

func TestZeroGenerationsReturnsBestInitialMember(t *testing.T) {
	cfg := smallConfig()
	cfg.Generations = 0
	g := newTestGenerator(t, cfg)

	got, err := g.Run(context.Background(), 2)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	walk := PitchWalk{Allowed: g.Sets().Allowed, Length: 16}
	eval := g.Evaluator()

	var best melody.Melody
	bestScore := -1.0
	for range cfg.PopulationSize {
		m := walk.Generate(rng)
		if f := eval.Fitness(m); f > bestScore {
			best, bestScore = m, f
		}
	}
	assert.Equal(t, best, got)
}

func TestRunTopKOrdering(t *testing.T) {
	g := newTestGenerator(t, smallConfig())

	ranked, err := g.RunTopK(context.Background(), 2, 5)
	require.NoError(t, err)
	require.Len(t, ranked, 5)

	for i, s := range ranked {
		assert.Equal(t, i+1, s.Rank)
		assert.Len(t, s.Scores, len(MetricNames))
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].Fitness, s.Fitness)
		}
	}

	// k beyond the population is capped
	ranked, err = g.RunTopK(context.Background(), 2, 100)
	require.NoError(t, err)
	assert.Len(t, ranked, 16)
}

func TestGeneratorRejectsBadInput(t *testing.T) {
	cfg := smallConfig()
	cfg.LowPitch = scale.Named("A-3")
	_, err := NewGenerator(cfg, quietLogger())
	assert.ErrorIs(t, err, scale.ErrRangeMismatch)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = smallConfig()
	cfg.PopulationSize = 0
	_, err = NewGenerator(cfg, quietLogger())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = smallConfig()
	cfg.Key = "H Major"
	_, err = NewGenerator(cfg, quietLogger())
	assert.ErrorIs(t, err, scale.ErrInvalidKey)

	g := newTestGenerator(t, smallConfig())
	_, err = g.Run(context.Background(), 0)
	assert.ErrorIs(t, err, melody.ErrInvalidMelody)

	_, err = g.RunTopK(context.Background(), 2, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunHonoursCancellation(t *testing.T) {
	g := newTestGenerator(t, smallConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Run(ctx, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestObserverAndHistory(t *testing.T) {
	cfg := smallConfig()
	g := newTestGenerator(t, cfg)

	var seen []tracking.GenerationStats
	g.SetObserver(func(s tracking.GenerationStats) { seen = append(seen, s) })

	res, err := g.Compose(context.Background(), 2, 1)
	require.NoError(t, err)

	require.Len(t, seen, cfg.Generations+1)
	for i, s := range seen {
		assert.Equal(t, i, s.Generation)
		assert.GreaterOrEqual(t, s.Best+1e-9, s.Average)
		assert.GreaterOrEqual(t, s.Average+1e-9, s.Worst)
	}
	assert.Equal(t, seen, res.History)
	assert.Equal(t, 1.0, g.History().Progress())
	assert.Equal(t, res.Best().Fitness, seen[len(seen)-1].Best)

	for _, name := range MetricNames {
		assert.Contains(t, res.Population, "avg_"+name)
	}
}

func TestNamedRangeAndFallbackKey(t *testing.T) {
	var logs bytes.Buffer
	cfg := smallConfig()
	cfg.Key = "D Bebop"
	cfg.LowPitch = scale.Named("A-3")
	cfg.HighPitch = scale.Named("A-5")

	g, err := NewGenerator(cfg, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "unknown scale")

	sets := g.Sets()
	assert.True(t, sets.Key.Fallback)
	assert.Equal(t, 45, sets.Allowed.Min())
	assert.Equal(t, 69, sets.Allowed.Max())
	assert.Len(t, sets.Allowed, 25)

	m, err := g.Run(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, m.Validate(8, sets.Allowed))
}

func TestCoefficientChangesApplyToNextRun(t *testing.T) {
	g := newTestGenerator(t, smallConfig())
	before, err := g.Compose(context.Background(), 2, 1)
	require.NoError(t, err)

	for _, name := range MetricNames {
		require.NoError(t, g.Coefficients().SetWeight(name, 0))
	}
	after, err := g.Compose(context.Background(), 2, 1)
	require.NoError(t, err)

	assert.Greater(t, before.Best().Fitness, 0.0)
	assert.Equal(t, 0.0, after.Best().Fitness)
}
