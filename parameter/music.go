package parameter

// Tempo and Timing
const (
	DefaultBPM            = 120
	MinBPM                = 20
	MaxBPM                = 300
	DefaultMeterNumerator = 4
	DefaultMeterDenom     = 4

	// DefaultBaseDuration is the base token duration as a fraction of a whole note
	DefaultBaseDuration = 0.5

	// DefaultMeasures is the melody length requested when none is given
	DefaultMeasures = 1
)

// Pitch space
const (
	// DefaultKey is the scale used when none is configured
	DefaultKey = "C Major"

	// DefaultLowPitch and DefaultHighPitch bound the allowed chromatic range (A-3 .. A-8)
	DefaultLowPitch  = 45
	DefaultHighPitch = 105

	// ScaleOctaves and ScaleStartOctave define the Scale Set generated for conformance scoring
	ScaleOctaves     = 8
	ScaleStartOctave = 1

	// PitchClasses is the number of semitones in an octave
	PitchClasses = 12

	// ReferencePitch is A4 in the pitch numbering used by melodies (octave*12 + class)
	ReferencePitch     = 57
	ReferenceFrequency = 440.0
)
