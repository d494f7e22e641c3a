package genetic

// Package genetic provides a generic genetic algorithm framework
// 1. Has zero knowledge of melody types; solutions are opaque slices
// 2. Every random draw goes through an explicitly passed *rand.Rand
// 3. Pools are immutable snapshots; a generation only becomes visible once fully built

import (
	"errors"
	"math/rand/v2"
)

var ErrNoCandidates = errors.New("no candidates available")

// --- Concrete Operator Implementations ---

// TournamentSelector implements tournament selection without replacement
// Each tournament samples TournamentSize distinct members and keeps the best
type TournamentSelector[S Solution, F Numeric] struct {
	// TournamentSize is the number of candidates to compete in each tournament
	TournamentSize int
}

// Select runs size independent tournaments over the same pool
func (ts *TournamentSelector[S, F]) Select(pool *Pool[S, F], size int, rng *rand.Rand) []Candidate[S, F] {
	selected := make([]Candidate[S, F], 0, size)
	if pool == nil || len(pool.Members) == 0 {
		return selected
	}

	indices := make([]int, len(pool.Members))
	for len(selected) < size {
		selected = append(selected, ts.pick(pool.Members, indices, rng))
	}
	return selected
}

// Pick runs a single tournament
func (ts *TournamentSelector[S, F]) Pick(pool *Pool[S, F], rng *rand.Rand) (Candidate[S, F], error) {
	if pool == nil || len(pool.Members) == 0 {
		return Candidate[S, F]{}, ErrNoCandidates
	}
	return ts.pick(pool.Members, make([]int, len(pool.Members)), rng), nil
}

// pick draws distinct indices with a partial Fisher-Yates shuffle over scratch.
// Ties resolve to the lowest pool position, so the winner only depends on the drawn set.
func (ts *TournamentSelector[S, F]) pick(members []Candidate[S, F], scratch []int, rng *rand.Rand) Candidate[S, F] {
	n := len(members)
	size := ts.TournamentSize
	if size > n {
		size = n
	}
	if size < 1 {
		size = 1
	}

	for i := range scratch {
		scratch[i] = i
	}

	best := -1
	for i := 0; i < size; i++ {
		j := i + rng.IntN(n-i)
		scratch[i], scratch[j] = scratch[j], scratch[i]

		idx := scratch[i]
		if best < 0 || members[idx].Score > members[best].Score ||
			(members[idx].Score == members[best].Score && idx < best) {
			best = idx
		}
	}
	return members[best]
}

// SinglePointCombiner performs classic one-cut crossover between two equal-length parents
type SinglePointCombiner[S ~[]T, T any, F Numeric] struct{}

// Cut splits both parents at k and swaps the suffixes.
// k is clamped to [0, len]; the children never alias the parents.
func (SinglePointCombiner[S, T, F]) Cut(a, b S, k int) (S, S) {
	n := min(len(a), len(b))
	k = max(0, min(k, n))

	childA := make(S, n)
	childB := make(S, n)
	copy(childA, a[:k])
	copy(childA[k:], b[k:n])
	copy(childB, b[:k])
	copy(childB[k:], a[k:n])
	return childA, childB
}

// Combine draws the cut uniformly in [1, N-1]
func (sc SinglePointCombiner[S, T, F]) Combine(parents []Candidate[S, F], rng *rand.Rand) []S {
	switch len(parents) {
	case 0:
		return []S{}
	case 1:
		return []S{clone(parents[0].Data)}
	}

	a, b := parents[0].Data, parents[1].Data
	n := min(len(a), len(b))
	if n < 2 {
		return []S{clone(a), clone(b)}
	}

	k := 1 + rng.IntN(n-1)
	childA, childB := sc.Cut(a, b, k)
	return []S{childA, childB}
}

func clone[S ~[]T, T any](s S) S {
	if s == nil {
		return nil
	}
	out := make(S, len(s))
	copy(out, s)
	return out
}
