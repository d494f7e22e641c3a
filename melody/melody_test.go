package melody

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is the 14-token regression melody shared with the fitness tests
var fixture = []int{60, -1, 60, -2, 60, -2, 60, -2, 60, -2, -2, 60, 60, -2}

func TestTokenKinds(t *testing.T) {
	assert.Equal(t, KindRest, Rest.Kind())
	assert.Equal(t, KindSustain, Sustain.Kind())
	assert.Equal(t, KindPitch, Note(0).Kind())

	p, ok := Note(64).Pitch()
	assert.True(t, ok)
	assert.Equal(t, 64, p)

	_, ok = Rest.Pitch()
	assert.False(t, ok)

	_, err := Decode(-3)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFromIntsRoundTrip(t *testing.T) {
	m, err := FromInts(fixture)
	require.NoError(t, err)
	assert.Equal(t, fixture, m.Ints())
	assert.Equal(t, "60 . 60 - 60 - 60 - 60 - - 60 60 -", m.String())
}

func TestEventsRegressionFixture(t *testing.T) {
	m, err := FromInts(fixture)
	require.NoError(t, err)

	events := m.Events()
	lengths := make([]int, len(events))
	for i, e := range events {
		lengths[i] = e.Length
	}
	assert.Equal(t, []int{1, 1, 2, 2, 2, 3, 1, 2}, lengths)
	assert.Equal(t, Rest, events[1].Head)

	total := 0
	for _, l := range lengths {
		total += l
	}
	assert.Equal(t, len(fixture), total)
}

func TestEventsOrphanSustain(t *testing.T) {
	m := Melody{Sustain, Sustain, Note(60), Sustain}
	events := m.Events()
	require.Len(t, events, 2)
	assert.Equal(t, Event{Start: 0, Length: 2, Head: Sustain}, events[0])
	assert.Equal(t, Event{Start: 2, Length: 2, Head: Note(60)}, events[1])
}

func TestBeatsDropsPartialTail(t *testing.T) {
	m := make(Melody, 10)
	beats := m.Beats(4)
	require.Len(t, beats, 2)
	assert.Len(t, beats[1], 4)
	assert.Nil(t, m.Beats(0))
}

func TestPitchViews(t *testing.T) {
	m, err := FromInts(fixture)
	require.NoError(t, err)
	assert.Equal(t, []int{60, 60, 60, 60, 60, 60, 60}, m.Pitches())
	assert.Equal(t, []int{0, 2, 4, 6, 8, 11, 12}, m.PitchIndices())
	assert.Equal(t, []int{0, 1, 2, 4, 6, 8, 11, 12}, m.OnsetIndices())
}

func TestValidate(t *testing.T) {
	allowed, err := Chromatic(50, 70)
	require.NoError(t, err)

	m, err := FromInts(fixture)
	require.NoError(t, err)
	assert.NoError(t, m.Validate(14, allowed))
	assert.ErrorIs(t, m.Validate(13, allowed), ErrInvalidMelody)

	m[0] = Note(80)
	assert.ErrorIs(t, m.Validate(14, allowed), ErrInvalidMelody)

	m[0] = Token(-5)
	assert.ErrorIs(t, m.Validate(14, allowed), ErrInvalidMelody)
}

func TestPitchSetClampAndRandom(t *testing.T) {
	set, err := NewPitchSet([]int{67, 60, 64, 60, 72})
	require.NoError(t, err)
	assert.Equal(t, PitchSet{60, 64, 67, 72}, set)
	assert.Equal(t, 12, set.Span())

	assert.Equal(t, 60, set.Clamp(10))
	assert.Equal(t, 72, set.Clamp(99))
	assert.Equal(t, 64, set.Clamp(65))
	assert.Equal(t, 67, set.Clamp(66))
	assert.Equal(t, 60, set.Clamp(62))

	rng := rand.New(rand.NewPCG(1, 2))
	for range 100 {
		assert.True(t, set.Contains(set.Random(rng)))
	}

	_, err = NewPitchSet(nil)
	assert.ErrorIs(t, err, ErrEmptyPitchSet)
	_, err = Chromatic(10, 5)
	assert.ErrorIs(t, err, ErrEmptyPitchSet)
}

func TestMeterLengths(t *testing.T) {
	beat, err := BeatLength(Meter{4, 4}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 8, beat)

	n, err := Length(Meter{4, 4}, 0.125, 2)
	require.NoError(t, err)
	assert.Equal(t, 64, n)

	beat, err = BeatLength(Meter{3, 4}, 0.125)
	require.NoError(t, err)
	assert.Equal(t, 24, beat)

	_, err = BeatLength(Meter{0, 4}, 0.5)
	assert.ErrorIs(t, err, ErrInvalidMeter)
	_, err = Length(Meter{4, 4}, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	_, err = Length(Meter{4, 4}, 0.5, 0)
	assert.ErrorIs(t, err, ErrInvalidMelody)

	assert.Equal(t, 2, ExpectedLength(0.5))
	assert.Equal(t, 8, ExpectedLength(0.125))
	assert.Equal(t, 1, ExpectedLength(1))
}
