package melody

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// PitchSet is an ascending, duplicate-free set of pitches
type PitchSet []int

// NewPitchSet sorts and deduplicates the given pitches
func NewPitchSet(pitches []int) (PitchSet, error) {
	if len(pitches) == 0 {
		return nil, ErrEmptyPitchSet
	}
	set := slices.Clone(pitches)
	slices.Sort(set)
	set = slices.Compact(set)
	if set[0] < 0 {
		return nil, fmt.Errorf("%w: negative pitch %d", ErrInvalidToken, set[0])
	}
	return PitchSet(set), nil
}

// Chromatic returns every pitch from low to high inclusive
func Chromatic(low, high int) (PitchSet, error) {
	if low < 0 || high < low {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrEmptyPitchSet, low, high)
	}
	set := make(PitchSet, 0, high-low+1)
	for p := low; p <= high; p++ {
		set = append(set, p)
	}
	return set, nil
}

func (s PitchSet) Min() int { return s[0] }
func (s PitchSet) Max() int { return s[len(s)-1] }

// Span is max - min, used to normalize several metrics
func (s PitchSet) Span() int { return s.Max() - s.Min() }

func (s PitchSet) Contains(p int) bool {
	_, found := slices.BinarySearch(s, p)
	return found
}

// Clamp maps p onto the nearest member, preferring the lower one on ties
func (s PitchSet) Clamp(p int) int {
	if p <= s.Min() {
		return s.Min()
	}
	if p >= s.Max() {
		return s.Max()
	}
	i, found := slices.BinarySearch(s, p)
	if found {
		return p
	}
	lo, hi := s[i-1], s[i]
	if p-lo <= hi-p {
		return lo
	}
	return hi
}

// Random picks a member uniformly
func (s PitchSet) Random(rng *rand.Rand) int {
	return s[rng.IntN(len(s))]
}
