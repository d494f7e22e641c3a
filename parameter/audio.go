package parameter

import "time"

// Audio Render Settings
const (
	AudioSampleRate = 44100
	AudioChannels   = 2
	AudioPrecision  = 2 // bytes per sample in WAV output
)

// Note envelope
const (
	NoteAttack  = 8 * time.Millisecond
	NoteRelease = 40 * time.Millisecond

	// NoteVolume is the linear gain applied to every rendered note (0.0-1.0)
	NoteVolume = 0.6
)
