package composer

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/vi-composer/genetic/tracking"
)

var ErrInvalidMood = errors.New("mood controls must lie in [0, 1]")

// Mood is a set of high-level controls mapped onto metric targets
type Mood struct {
	Diversity float64 `toml:"diversity"`
	Dynamics  float64 `toml:"dynamics"`
	Arousal   float64 `toml:"arousal"`
	Valence   float64 `toml:"valence"`
	Jazziness float64 `toml:"jazziness"`
	Weirdness float64 `toml:"weirdness"`
}

func (m Mood) Validate() error {
	controls := map[string]float64{
		"diversity": m.Diversity,
		"dynamics":  m.Dynamics,
		"arousal":   m.Arousal,
		"valence":   m.Valence,
		"jazziness": m.Jazziness,
		"weirdness": m.Weirdness,
	}
	for name, v := range controls {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidMood, name, v)
		}
	}
	return nil
}

// Targets returns the mu values implied by the mood.
// Chord conformance and the unscored metrics keep their current targets.
func (m Mood) Targets() map[string]float64 {
	return map[string]float64{
		tracking.MetricDiversity:              m.Diversity,
		tracking.MetricDiversityInterval:      m.Diversity,
		tracking.MetricDissonance:             (1-m.Valence)*0.4 + m.Jazziness*0.2,
		tracking.MetricRhythmicDiversity:      m.Diversity*0.2 + m.Dynamics*0.5 + m.Arousal*0.2,
		tracking.MetricRhythmicAverageValue:   1 - m.Arousal,
		tracking.MetricVeryLongNotes:          0.05,
		tracking.MetricDeviationRhythmicValue: m.Dynamics,
		tracking.MetricScaleConformance:       (1-m.Jazziness)*0.5 + 0.5,
		tracking.MetricMelodicContour:         m.Valence,
		tracking.MetricPitchRange:             m.Dynamics*0.5 + m.Arousal*0.5,
		tracking.MetricPauseProportion:        m.Dynamics*0.2 - m.Arousal*0.1,
		tracking.MetricLargeIntervals:         m.Weirdness,
		tracking.MetricAveragePitch:           m.Arousal*0.2 + m.Valence*0.3,
		tracking.MetricPitchVariation:         m.Dynamics * 0.5,
		tracking.MetricOddIndexNotes:          m.Weirdness,
		tracking.MetricAverageInterval:        (1-m.Dynamics)*0.5 + (1-m.Valence)*0.5,
		tracking.MetricScalePlaying:           m.Jazziness*0.3 + m.Dynamics*0.5,
		tracking.MetricShortConsecutiveNotes:  0.5*m.Arousal + m.Jazziness*0.2,
	}
}

// ApplyMood reconfigures mu from a validated mood
func (c *Coefficients) ApplyMood(m Mood) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return c.Reconfigure(m.Targets())
}
