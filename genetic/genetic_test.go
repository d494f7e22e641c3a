package genetic

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bits []int

func ones(s bits) float64 {
	total := 0.0
	for _, v := range s {
		total += float64(v)
	}
	return total
}

func randomBits(rng *rand.Rand) bits {
	s := make(bits, 16)
	for i := range s {
		s[i] = rng.IntN(2)
	}
	return s
}

type flipper struct{}

func (flipper) Perturb(s *bits, rate float64, rng *rand.Rand) {
	for i := range *s {
		if rng.Float64() < rate {
			(*s)[i] ^= 1
		}
	}
}

func poolOf(scores ...float64) *Pool[bits, float64] {
	p := &Pool[bits, float64]{}
	for i, s := range scores {
		p.Members = append(p.Members, Candidate[bits, float64]{Data: bits{i}, Score: s, Index: i})
	}
	return p
}

func newTestEngine(t *testing.T, cfg EngineConfig) *Engine[bits, int, float64] {
	t.Helper()
	e, err := NewEngine[bits, int, float64](
		ones,
		randomBits,
		&TournamentSelector[bits, float64]{TournamentSize: 3},
		SinglePointCombiner[bits, int, float64]{},
		flipper{},
		cfg,
	)
	require.NoError(t, err)
	return e
}

func TestTournamentFullSizeReturnsGlobalMax(t *testing.T) {
	p := poolOf(0.3, 0.9, 0.1, 0.7, 0.5)
	ts := &TournamentSelector[bits, float64]{TournamentSize: 5}
	rng := rand.New(rand.NewPCG(7, 7))

	for range 50 {
		winner, err := ts.Pick(p, rng)
		require.NoError(t, err)
		assert.Equal(t, 1, winner.Index)
	}
}

func TestTournamentTiesResolveToLowestIndex(t *testing.T) {
	p := poolOf(0.2, 0.8, 0.8, 0.8)
	ts := &TournamentSelector[bits, float64]{TournamentSize: 10}
	rng := rand.New(rand.NewPCG(1, 2))

	for range 20 {
		winner, err := ts.Pick(p, rng)
		require.NoError(t, err)
		assert.Equal(t, 1, winner.Index)
	}
}

func TestTournamentSelectCount(t *testing.T) {
	p := poolOf(1, 2, 3, 4, 5, 6)
	ts := &TournamentSelector[bits, float64]{TournamentSize: 2}
	rng := rand.New(rand.NewPCG(3, 4))

	selected := ts.Select(p, 2, rng)
	assert.Len(t, selected, 2)

	// A size-2 tournament never returns the minimum
	for range 200 {
		winner, _ := ts.Pick(p, rng)
		assert.NotEqual(t, 0, winner.Index)
	}

	_, err := ts.Pick(&Pool[bits, float64]{}, rng)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestSinglePointCutLaw(t *testing.T) {
	var sc SinglePointCombiner[bits, int, float64]
	a := bits{1, 2, 3, 4, 5, 6}
	b := bits{7, 8, 9, 10, 11, 12}

	for k := 1; k < len(a); k++ {
		childA, childB := sc.Cut(a, b, k)
		require.Len(t, childA, len(a))
		require.Len(t, childB, len(a))
		assert.Equal(t, append(bits{}, append(a[:k:k], b[k:]...)...), childA)
		assert.Equal(t, append(bits{}, append(b[:k:k], a[k:]...)...), childB)

		backA, backB := sc.Cut(childA, childB, k)
		assert.Equal(t, a, backA)
		assert.Equal(t, b, backB)
	}

	childA, _ := sc.Cut(a, b, 2)
	childA[0] = 99
	assert.Equal(t, 1, a[0])
}

func TestSinglePointCombineDrawsInteriorCut(t *testing.T) {
	var sc SinglePointCombiner[bits, int, float64]
	a := Candidate[bits, float64]{Data: bits{0, 0, 0, 0}}
	b := Candidate[bits, float64]{Data: bits{1, 1, 1, 1}}
	rng := rand.New(rand.NewPCG(5, 6))

	for range 100 {
		children := sc.Combine([]Candidate[bits, float64]{a, b}, rng)
		require.Len(t, children, 2)
		// Cut in [1, N-1]: first gene from own parent, last gene from the other
		assert.Equal(t, 0, children[0][0])
		assert.Equal(t, 1, children[0][3])
		assert.Equal(t, 1, children[1][0])
		assert.Equal(t, 0, children[1][3])
	}
}

func TestEngineZeroGenerationsReturnsInitialBest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PoolSize = 10
	cfg.Generations = 0
	cfg.Seed = 42
	e := newTestEngine(t, cfg)

	final, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, final.Generation)
	require.Len(t, final.Members, 10)

	best, err := e.GetBest()
	require.NoError(t, err)
	for _, c := range final.Members {
		assert.LessOrEqual(t, c.Score, best.Score)
		assert.Equal(t, ones(c.Data), c.Score)
	}
	assert.Len(t, e.GetHistory(), 1)
}

func TestEngineDeterministicForSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PoolSize = 9
	cfg.Generations = 5
	cfg.Seed = 99
	cfg.Parallelism = 4

	run := func() *Pool[bits, float64] {
		p, err := newTestEngine(t, cfg).Run(context.Background())
		require.NoError(t, err)
		return p
	}

	first, second := run(), run()
	require.Len(t, first.Members, 9)
	assert.Equal(t, 5, first.Generation)
	for i := range first.Members {
		assert.Equal(t, first.Members[i].Data, second.Members[i].Data)
		assert.Equal(t, i, first.Members[i].Index)
	}
}

func TestEngineImprovesOneMax(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PoolSize = 40
	cfg.Generations = 30
	cfg.PerturbationRate = 0.02
	cfg.Seed = 11
	e := newTestEngine(t, cfg)

	_, err := e.Run(context.Background())
	require.NoError(t, err)

	history := e.GetHistory()
	require.Len(t, history, 31)
	assert.Greater(t, history[30].AverageScore, history[0].AverageScore)
}

func TestEngineStopsOnCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PoolSize = 6
	cfg.Generations = 100
	cfg.Seed = 1
	e := newTestEngine(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	e.SetObserver(func(p *Pool[bits, float64]) {
		if p.Generation == 2 {
			cancel()
		}
	})

	final, err := e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, final.Generation)
}

func TestEngineTerminatorEndsEarly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PoolSize = 8
	cfg.Generations = 20
	cfg.Seed = 5
	e := newTestEngine(t, cfg)
	e.SetTerminator(func(_ *Pool[bits, float64], iteration int) bool { return iteration == 3 })

	final, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, final.Generation)
	assert.Len(t, e.GetHistory(), 4)
}

func TestEngineConfigValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PoolSize = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidEngineConfig)

	cfg = DefaultConfig()
	cfg.CrossoverRate = 1.5
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidEngineConfig)

	_, err := NewEngine[bits, int, float64](nil, randomBits, nil, nil, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidEngineConfig)
}

func TestPoolTopK(t *testing.T) {
	p := poolOf(0.5, 0.9, 0.5, 0.1)
	top := p.TopK(3)
	require.Len(t, top, 3)
	assert.Equal(t, []int{1, 0, 2}, []int{top[0].Index, top[1].Index, top[2].Index})
	assert.Len(t, p.TopK(10), 4)
	assert.Nil(t, p.TopK(0))

	stats := calculateStats(p.Members, 3)
	assert.Equal(t, 0.9, stats.BestScore)
	assert.Equal(t, 0.1, stats.WorstScore)
	assert.InDelta(t, 0.5, stats.AverageScore, 1e-12)
}
