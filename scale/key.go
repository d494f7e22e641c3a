package scale

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lixenwraith/vi-composer/melody"
	"github.com/lixenwraith/vi-composer/parameter"
)

// Sentinel errors
var (
	ErrInvalidKey    = errors.New("invalid key name")
	ErrUnknownPitch  = errors.New("unknown pitch name")
	ErrRangeMismatch = errors.New("pitch range bounds must both be numbers or both be names")
	ErrEmptyRange    = errors.New("empty pitch range")
)

// Kind is a scale type identified by its interval pattern above the tonic
type Kind struct {
	Name      string
	Intervals []int
}

// Kinds is ordered: partial name matches resolve to the first entry that contains the word
var Kinds = []Kind{
	{"Harmonic Minor", []int{0, 2, 3, 5, 7, 8, 11}},
	{"Natural Minor", []int{0, 2, 3, 5, 7, 8, 10}},
	{"Melodic Minor", []int{0, 2, 3, 5, 7, 9, 11}},
	{"Major", []int{0, 2, 4, 5, 7, 9, 11}},
	{"Ionian", []int{0, 2, 4, 5, 7, 9, 11}},
	{"Dorian", []int{0, 2, 3, 5, 7, 9, 10}},
	{"Phrygian", []int{0, 1, 3, 5, 7, 8, 10}},
	{"Lydian", []int{0, 2, 4, 6, 7, 9, 11}},
	{"Mixolydian", []int{0, 2, 4, 5, 7, 9, 10}},
	{"Aeolian", []int{0, 2, 3, 5, 7, 8, 10}},
	{"Locrian", []int{0, 1, 3, 5, 6, 8, 10}},
	{"Chromatic", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
	{"Whole Tone", []int{0, 2, 4, 6, 8, 10}},
	{"Octatonic", []int{0, 2, 3, 5, 6, 8, 9, 11}},
}

var chromatic = Kinds[11]

var keyPattern = regexp.MustCompile(`^\s*([A-Ga-g])([#b]?)\s*(.*?)\s*$`)

// Key is a tonic pitch class with a scale kind
type Key struct {
	Tonic    int // pitch class 0-11, C = 0
	Kind     Kind
	Fallback bool // true when the requested kind was unknown and Chromatic was used
}

func (k Key) String() string {
	return fmt.Sprintf("%s %s", className(k.Tonic), k.Kind.Name)
}

// ParseKey resolves names like "A Minor" or "F# Dorian".
// An unrecognised scale kind falls back to Chromatic with a warning.
func ParseKey(name string, logger *slog.Logger) (Key, error) {
	if logger == nil {
		logger = slog.Default()
	}

	match := keyPattern.FindStringSubmatch(name)
	if match == nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, name)
	}
	tonic, err := pitchClass(match[1], match[2])
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, name)
	}

	if kind, ok := lookupKind(match[3]); ok {
		return Key{Tonic: tonic, Kind: kind}, nil
	}

	logger.Warn("unknown scale, choosing chromatic", "key", name, "scale", match[3])
	return Key{Tonic: tonic, Kind: chromatic, Fallback: true}, nil
}

func lookupKind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if strings.EqualFold(k.Name, name) {
			return k, true
		}
	}
	for _, word := range strings.Fields(name) {
		for _, k := range Kinds {
			if strings.Contains(strings.ToLower(k.Name), strings.ToLower(word)) {
				return k, true
			}
		}
	}
	return Kind{}, false
}

// Notes builds the ascending Scale Set over the given number of octaves
func (k Key) Notes(octaves, startOctave int) melody.PitchSet {
	notes := make(melody.PitchSet, 0, octaves*len(k.Kind.Intervals))
	for octave := startOctave; octave < startOctave+octaves; octave++ {
		root := octave*parameter.PitchClasses + k.Tonic
		for _, iv := range k.Kind.Intervals {
			notes = append(notes, root+iv)
		}
	}
	return notes
}

// Sets is what the fitness evaluator and mutation operators consume
type Sets struct {
	Key     Key
	Allowed melody.PitchSet
	Scale   melody.PitchSet
}

// Resolve derives the allowed chromatic range and the Scale Set for a key
func Resolve(key string, low, high Bound, logger *slog.Logger) (Sets, error) {
	k, err := ParseKey(key, logger)
	if err != nil {
		return Sets{}, err
	}
	lo, hi, err := ResolveRange(low, high)
	if err != nil {
		return Sets{}, err
	}
	allowed, err := melody.Chromatic(lo, hi)
	if err != nil {
		return Sets{}, fmt.Errorf("%w: %v", ErrEmptyRange, err)
	}
	if allowed.Span() == 0 {
		return Sets{}, fmt.Errorf("%w: a single pitch has no span", ErrEmptyRange)
	}
	return Sets{
		Key:     k,
		Allowed: allowed,
		Scale:   k.Notes(parameter.ScaleOctaves, parameter.ScaleStartOctave),
	}, nil
}
