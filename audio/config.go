package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/vi-composer/parameter"
)

// Config controls how a melody is rendered to sound
type Config struct {
	SampleRate   int
	BPM          float64
	BaseDuration float64 // fraction of a whole note per token
	Wave         WaveType
	Volume       float64 // linear gain 0.0-1.0
	Attack       time.Duration
	Release      time.Duration
}

// DefaultConfig returns the rendering defaults
func DefaultConfig() Config {
	return Config{
		SampleRate:   parameter.AudioSampleRate,
		BPM:          parameter.DefaultBPM,
		BaseDuration: parameter.DefaultBaseDuration,
		Wave:         WaveSine,
		Volume:       parameter.NoteVolume,
		Attack:       parameter.NoteAttack,
		Release:      parameter.NoteRelease,
	}
}

func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidAudioConfig, c.SampleRate)
	case c.BPM < parameter.MinBPM || c.BPM > parameter.MaxBPM:
		return fmt.Errorf("%w: bpm %v outside [%d, %d]", ErrInvalidAudioConfig, c.BPM, parameter.MinBPM, parameter.MaxBPM)
	case !(c.BaseDuration > 0) || c.BaseDuration > 1:
		return fmt.Errorf("%w: base duration %v", ErrInvalidAudioConfig, c.BaseDuration)
	case c.Volume < 0 || c.Volume > 1:
		return fmt.Errorf("%w: volume %v", ErrInvalidAudioConfig, c.Volume)
	case c.Attack < 0 || c.Release < 0:
		return fmt.Errorf("%w: negative envelope", ErrInvalidAudioConfig)
	}
	return nil
}

// Format is the beep format used for rendering and encoding
func (c Config) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(c.SampleRate),
		NumChannels: parameter.AudioChannels,
		Precision:   parameter.AudioPrecision,
	}
}
