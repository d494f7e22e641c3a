package composer

import (
	"math/rand/v2"
	"slices"

	"github.com/lixenwraith/vi-composer/melody"
	"github.com/lixenwraith/vi-composer/parameter"
)

// Operator names, in application order
const (
	OpIntervalJump     = "interval_jump"
	OpSegmentTranspose = "segment_transpose"
	OpSustainShift     = "sustain_shift"
	OpRestToggle       = "rest_toggle"
	OpSustainFill      = "sustain_fill"
	OpSustainLength    = "sustain_length"
	OpFragmentReorder  = "fragment_reorder"
	OpBeatCopy         = "beat_copy"
	OpBeatDuplicate    = "beat_duplicate"
)

type operator struct {
	name  string
	apply func(m melody.Melody, rate float64, rng *rand.Rand)
}

// Mutator applies the operator suite in place on a copy of the melody.
// Every operator keeps the melody length and only writes pitches from the allowed set.
type Mutator struct {
	allowed  melody.PitchSet
	beatLen  int
	expected int
	window   int // exclusive upper bound of random window lengths
	ops      []operator
}

// NewMutator binds the operators to a pitch range and rhythmic grid
func NewMutator(allowed melody.PitchSet, meter melody.Meter, beatLen, expected int) *Mutator {
	mu := &Mutator{
		allowed:  allowed,
		beatLen:  beatLen,
		expected: max(expected, 1),
		window:   parameter.GAWindowBeatFactor * meter.Num / meter.Den,
	}
	mu.ops = []operator{
		{OpIntervalJump, mu.intervalJump},
		{OpSegmentTranspose, mu.segmentTranspose},
		{OpSustainShift, mu.sustainShift},
		{OpRestToggle, mu.restToggle},
		{OpSustainFill, mu.sustainFill},
		{OpSustainLength, mu.sustainLength},
		{OpFragmentReorder, mu.fragmentReorder},
		{OpBeatCopy, mu.beatCopy},
		{OpBeatDuplicate, mu.beatDuplicate},
	}
	return mu
}

// Operators returns the operator names in application order
func (mu *Mutator) Operators() []string {
	names := make([]string, len(mu.ops))
	for i, op := range mu.ops {
		names[i] = op.name
	}
	return names
}

// Mutate returns a mutated copy; each operator fires on its own Bernoulli(rate) trial
func (mu *Mutator) Mutate(m melody.Melody, rate float64, rng *rand.Rand) melody.Melody {
	out := m.Clone()
	if len(out) == 0 {
		return out
	}
	for _, op := range mu.ops {
		if rng.Float64() < rate {
			op.apply(out, rate, rng)
		}
	}
	return out
}

// Apply runs a single named operator unconditionally on a copy
func (mu *Mutator) Apply(name string, m melody.Melody, rate float64, rng *rand.Rand) (melody.Melody, bool) {
	for _, op := range mu.ops {
		if op.name == name {
			out := m.Clone()
			if len(out) > 0 {
				op.apply(out, rate, rng)
			}
			return out, true
		}
	}
	return nil, false
}

// Perturb adapts Mutate to the genetic engine
func (mu *Mutator) Perturb(m *melody.Melody, rate float64, rng *rand.Rand) {
	*m = mu.Mutate(*m, rate, rng)
}

// signedStep draws uniformly from [-GAMaxIntervalJump, GAMaxIntervalJump]
func signedStep(rng *rand.Rand) int {
	return rng.IntN(2*parameter.GAMaxIntervalJump+1) - parameter.GAMaxIntervalJump
}

// segment draws [start, end) with start in [0, startBound) and end kept below the last token
func (mu *Mutator) segment(n, startBound int, rng *rand.Rand) (int, int) {
	start := rng.IntN(startBound)
	upper := max(2, min(mu.window, n))
	length := 1 + rng.IntN(upper-1)
	end := min(start+length, n-1)
	return start, max(start, end)
}

func (mu *Mutator) transpose(t melody.Token, shift int) melody.Token {
	if p, ok := t.Pitch(); ok {
		return melody.Note(mu.allowed.Clamp(p + shift))
	}
	return t
}

// intervalJump re-pitches one note relative to another
func (mu *Mutator) intervalJump(m melody.Melody, _ float64, rng *rand.Rand) {
	positions := m.PitchIndices()
	if len(positions) < 2 {
		return
	}
	i := rng.IntN(len(positions))
	j := rng.IntN(len(positions) - 1)
	if j >= i {
		j++
	}
	first, _ := m[positions[i]].Pitch()
	m[positions[j]] = melody.Note(mu.allowed.Clamp(first + signedStep(rng)))
}

func (mu *Mutator) segmentTranspose(m melody.Melody, _ float64, rng *rand.Rand) {
	start, end := mu.segment(len(m), len(m), rng)
	shift := signedStep(rng)
	for i := start; i < end; i++ {
		m[i] = mu.transpose(m[i], shift)
	}
}

// sustainShift delays an onset by one step, or lengthens the first event
func (mu *Mutator) sustainShift(m melody.Melody, _ float64, rng *rand.Rand) {
	onsets := m.OnsetIndices()
	if len(onsets) == 0 {
		return
	}
	pos := onsets[rng.IntN(len(onsets))]
	if pos == 0 {
		if len(m) < 2 {
			return
		}
		copy(m[2:], m[1:len(m)-1])
		m[1] = melody.Sustain
		return
	}
	m[pos] = m[pos-1]
	m[pos-1] = melody.Sustain
}

func (mu *Mutator) restToggle(m melody.Melody, _ float64, rng *rand.Rand) {
	pos := rng.IntN(len(m))
	if m[pos].IsRest() {
		m[pos] = melody.Note(mu.allowed.Random(rng))
		return
	}
	m[pos] = melody.Rest
}

func (mu *Mutator) sustainFill(m melody.Melody, _ float64, rng *rand.Rand) {
	start, end := mu.segment(len(m), len(m), rng)
	for i := start; i < end; i++ {
		m[i] = melody.Sustain
	}
}

// sustainLength pulls one event toward the expected length
func (mu *Mutator) sustainLength(m melody.Melody, _ float64, rng *rand.Rand) {
	onsets := m.OnsetIndices()
	if len(onsets) == 0 {
		return
	}
	pos := onsets[rng.IntN(len(onsets))]
	head := m[pos]

	extension := 0
	for i := pos + 1; i < len(m) && m[i].IsSustain(); i++ {
		extension++
	}

	switch {
	case extension+1 > mu.expected:
		m[pos+1+rng.IntN(extension)] = head
	case extension+1 < mu.expected:
		additional := 1 + rng.IntN(mu.expected-extension)
		end := min(pos+1+additional, len(m))
		for i := pos + 1; i < end; i++ {
			m[i] = melody.Sustain
		}
	}
}

// fragmentReorder sorts the pitches of a window in place, leaving rests and sustains where they are
func (mu *Mutator) fragmentReorder(m melody.Melody, _ float64, rng *rand.Rand) {
	if len(m) < 2 {
		return
	}
	start, end := mu.segment(len(m), len(m)-1, rng)

	positions := make([]int, 0, end-start)
	pitches := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		if p, ok := m[i].Pitch(); ok {
			positions = append(positions, i)
			pitches = append(pitches, p)
		}
	}
	if len(pitches) < 2 {
		return
	}

	slices.Sort(pitches)
	if rng.IntN(2) == 0 {
		slices.Reverse(pitches)
	}
	for k, pos := range positions {
		m[pos] = melody.Note(pitches[k])
	}
}

// beatCopy copies a prefix of one beat onto another, optionally transposed by a consonant interval
func (mu *Mutator) beatCopy(m melody.Melody, rate float64, rng *rand.Rand) {
	beats := mu.beatCount(len(m))
	if beats < 2 {
		return
	}
	src := rng.IntN(beats)
	dst := rng.IntN(beats - 1)
	if dst >= src {
		dst++
	}

	count := rng.IntN(mu.beatLen)
	srcStart, dstStart := src*mu.beatLen, dst*mu.beatLen
	n := min(count, len(m)-srcStart, len(m)-dstStart)
	copy(m[dstStart:dstStart+n], m[srcStart:srcStart+n])

	if rng.Float64() < rate {
		shift := parameter.GAConsonantTransposes[rng.IntN(len(parameter.GAConsonantTransposes))]
		for i := dstStart; i < dstStart+n; i++ {
			m[i] = mu.transpose(m[i], shift)
		}
	}
}

// beatDuplicate echoes the start of a beat right after itself
func (mu *Mutator) beatDuplicate(m melody.Melody, _ float64, rng *rand.Rand) {
	beats := mu.beatCount(len(m))
	if beats < 2 {
		return
	}
	start := rng.IntN(beats) * mu.beatLen
	count := 1 + rng.IntN(max(1, mu.beatLen/2))

	replace := min(start+count, len(m))
	n := min(count, len(m)-replace)
	copy(m[replace:replace+n], m[start:start+n])
}

func (mu *Mutator) beatCount(n int) int {
	if mu.beatLen <= 0 {
		return 0
	}
	return n / mu.beatLen
}
