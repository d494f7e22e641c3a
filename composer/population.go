package composer

import (
	"math/rand/v2"

	"github.com/lixenwraith/vi-composer/melody"
)

// PitchWalk seeds melodies as bounded random walks over the allowed set.
// A step leaving the range is reflected back as prev - 2*step, then clamped.
type PitchWalk struct {
	Allowed melody.PitchSet
	Length  int
}

// Generate satisfies genetic.InitializerFunc through a method value
func (w PitchWalk) Generate(rng *rand.Rand) melody.Melody {
	m := make(melody.Melody, w.Length)
	if w.Length == 0 {
		return m
	}

	lo, hi := w.Allowed.Min(), w.Allowed.Max()
	prev := w.Allowed.Random(rng)
	m[0] = melody.Note(prev)

	for i := 1; i < w.Length; i++ {
		step := signedStep(rng)
		next := prev + step
		if next < lo || next > hi {
			next = prev - 2*step
		}
		next = w.Allowed.Clamp(next)
		m[i] = melody.Note(next)
		prev = next
	}
	return m
}
