package audio

import (
	"time"

	"github.com/lixenwraith/vi-composer/melody"
)

// NoteEvent is one timed note or rest of a rendered melody
type NoteEvent struct {
	Pitch    int // -1 for a rest
	Start    time.Duration
	Duration time.Duration
}

func (e NoteEvent) IsRest() bool { return e.Pitch < 0 }

// UnitDuration is the wall-clock length of one token: a quarter note lasts 60/bpm seconds
func UnitDuration(bpm, baseDuration float64) time.Duration {
	if bpm <= 0 || baseDuration <= 0 {
		return 0
	}
	return time.Duration(baseDuration * 4 * 60 / bpm * float64(time.Second))
}

// Events turns a melody into timed events.
// A leading sustain run with no head is played as a rest.
func Events(m melody.Melody, bpm, baseDuration float64) []NoteEvent {
	unit := UnitDuration(bpm, baseDuration)
	runs := m.Events()
	out := make([]NoteEvent, 0, len(runs))
	for _, ev := range runs {
		pitch := -1
		if p, ok := ev.Head.Pitch(); ok {
			pitch = p
		}
		out = append(out, NoteEvent{
			Pitch:    pitch,
			Start:    time.Duration(ev.Start) * unit,
			Duration: time.Duration(ev.Length) * unit,
		})
	}
	return out
}

// Total is the end time of the last event
func Total(events []NoteEvent) time.Duration {
	if len(events) == 0 {
		return 0
	}
	last := events[len(events)-1]
	return last.Start + last.Duration
}
