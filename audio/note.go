package audio

import (
	"math"

	"github.com/lixenwraith/vi-composer/parameter"
)

// Frequency returns the equal-tempered frequency in Hz of a melody pitch.
// Pitch numbering is octave*12 + class, so A-4 (57) is 440 Hz.
func Frequency(pitch int) float64 {
	if pitch < 0 {
		return 0
	}
	return parameter.ReferenceFrequency * math.Pow(2, float64(pitch-parameter.ReferencePitch)/parameter.PitchClasses)
}
