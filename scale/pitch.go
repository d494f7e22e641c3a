package scale

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lixenwraith/vi-composer/parameter"
)

var classNames = [parameter.PitchClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var naturals = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

var pitchPattern = regexp.MustCompile(`^\s*([A-Ga-g])([#b]?)-?(\d+)\s*$`)

func className(pc int) string {
	return classNames[((pc%parameter.PitchClasses)+parameter.PitchClasses)%parameter.PitchClasses]
}

func pitchClass(letter, accidental string) (int, error) {
	base, ok := naturals[strings.ToUpper(letter)[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %s%s", ErrUnknownPitch, letter, accidental)
	}
	switch accidental {
	case "#":
		base++
	case "b":
		base--
	}
	return (base + parameter.PitchClasses) % parameter.PitchClasses, nil
}

// ParsePitch converts "A-3" style names to pitch numbers: octave*12 + pitch class, so A-3 is 45.
// Accidentals wrap within the octave, Cb-4 is B-4.
func ParsePitch(name string) (int, error) {
	match := pitchPattern.FindStringSubmatch(name)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPitch, name)
	}
	pc, err := pitchClass(match[1], match[2])
	if err != nil {
		return 0, err
	}
	octave, err := strconv.Atoi(match[3])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPitch, name)
	}
	return octave*parameter.PitchClasses + pc, nil
}

// PitchName is the inverse of ParsePitch using sharps
func PitchName(p int) string {
	return fmt.Sprintf("%s-%d", className(p), p/parameter.PitchClasses)
}

// Bound is one end of the allowed pitch range, either a number or a note name
type Bound struct {
	Name  string
	Value int
	named bool
}

func Pitch(v int) Bound       { return Bound{Value: v} }
func Named(name string) Bound { return Bound{Name: name, named: true} }

// IsNamed reports whether the bound was given as a note name
func (b Bound) IsNamed() bool { return b.named }

func (b Bound) String() string {
	if b.named {
		return b.Name
	}
	return strconv.Itoa(b.Value)
}

// BoundFrom accepts the loosely typed values a config decoder produces
func BoundFrom(v any) (Bound, error) {
	switch x := v.(type) {
	case Bound:
		return x, nil
	case int:
		return Pitch(x), nil
	case int64:
		return Pitch(int(x)), nil
	case float64:
		if x != float64(int(x)) {
			return Bound{}, fmt.Errorf("%w: fractional pitch %v", ErrUnknownPitch, x)
		}
		return Pitch(int(x)), nil
	case string:
		return Named(x), nil
	default:
		return Bound{}, fmt.Errorf("%w: unsupported bound type %T", ErrRangeMismatch, v)
	}
}

// ResolveRange converts both bounds to pitch numbers; they must share a form
func ResolveRange(low, high Bound) (int, int, error) {
	if low.named != high.named {
		return 0, 0, fmt.Errorf("%w: low=%s high=%s", ErrRangeMismatch, low, high)
	}
	if !low.named {
		return checkRange(low.Value, high.Value)
	}
	lo, err := ParsePitch(low.Name)
	if err != nil {
		return 0, 0, err
	}
	hi, err := ParsePitch(high.Name)
	if err != nil {
		return 0, 0, err
	}
	return checkRange(lo, hi)
}

func checkRange(lo, hi int) (int, int, error) {
	if lo < 0 || hi < lo {
		return 0, 0, fmt.Errorf("%w: [%d, %d]", ErrEmptyRange, lo, hi)
	}
	return lo, hi, nil
}
