package melody

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidMelody   = errors.New("invalid melody")
	ErrEmptyPitchSet   = errors.New("empty pitch set")
	ErrInvalidMeter    = errors.New("invalid meter")
	ErrInvalidDuration = errors.New("invalid base duration")
)

// Melody is a fixed-length token sequence; its length never changes during a run
type Melody []Token

// FromInts decodes a dense integer sequence
func FromInts(values []int) (Melody, error) {
	m := make(Melody, len(values))
	for i, v := range values {
		t, err := Decode(v)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		m[i] = t
	}
	return m, nil
}

// Ints returns the dense integer encoding
func (m Melody) Ints() []int {
	out := make([]int, len(m))
	for i, t := range m {
		out[i] = int(t)
	}
	return out
}

func (m Melody) Clone() Melody {
	if m == nil {
		return nil
	}
	out := make(Melody, len(m))
	copy(out, m)
	return out
}

// Pitches returns the pitch-only view, rests and sustains removed
func (m Melody) Pitches() []int {
	out := make([]int, 0, len(m))
	for _, t := range m {
		if p, ok := t.Pitch(); ok {
			out = append(out, p)
		}
	}
	return out
}

// PitchIndices returns the positions holding a pitch
func (m Melody) PitchIndices() []int {
	out := make([]int, 0, len(m))
	for i, t := range m {
		if t.IsPitch() {
			out = append(out, i)
		}
	}
	return out
}

// OnsetIndices returns every position that is not a sustain
func (m Melody) OnsetIndices() []int {
	out := make([]int, 0, len(m))
	for i, t := range m {
		if !t.IsSustain() {
			out = append(out, i)
		}
	}
	return out
}

// Event is a leading token together with its trailing sustain run
type Event struct {
	Start  int
	Length int   // base time units, head included
	Head   Token // pitch or Rest; Sustain only for an orphan run at position 0
}

// Events reconstructs the run length of every note and rest.
// Sustains at the very start have no head and form one event of their own.
func (m Melody) Events() []Event {
	events := make([]Event, 0, len(m))
	for i, t := range m {
		if t.IsSustain() && len(events) > 0 {
			events[len(events)-1].Length++
			continue
		}
		events = append(events, Event{Start: i, Length: 1, Head: t})
	}
	return events
}

// Beats slices the melody into consecutive windows of beatLen tokens.
// A trailing partial window is dropped.
func (m Melody) Beats(beatLen int) []Melody {
	if beatLen <= 0 {
		return nil
	}
	count := len(m) / beatLen
	beats := make([]Melody, count)
	for i := range beats {
		beats[i] = m[i*beatLen : (i+1)*beatLen]
	}
	return beats
}

// Validate checks the length and that every pitch belongs to the allowed set
func (m Melody) Validate(length int, allowed PitchSet) error {
	if len(m) != length {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidMelody, len(m), length)
	}
	for i, t := range m {
		switch {
		case t.IsRest(), t.IsSustain():
		case t.IsPitch():
			if !allowed.Contains(int(t)) {
				return fmt.Errorf("%w: pitch %d at %d outside allowed set", ErrInvalidMelody, t, i)
			}
		default:
			return fmt.Errorf("%w: token %d at %d", ErrInvalidMelody, t, i)
		}
	}
	return nil
}

// String renders the melody as space separated tokens, "." for rests and "-" for sustains
func (m Melody) String() string {
	var sb strings.Builder
	for i, t := range m {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}
