package melody

import (
	"fmt"
	"math"
)

// Meter is a time signature
type Meter struct {
	Num int
	Den int
}

func (m Meter) Validate() error {
	if m.Num <= 0 || m.Den <= 0 {
		return fmt.Errorf("%w: %d/%d", ErrInvalidMeter, m.Num, m.Den)
	}
	return nil
}

func (m Meter) String() string { return fmt.Sprintf("%d/%d", m.Num, m.Den) }

// unitsPerMeasure is how many base tokens fill one measure
func unitsPerMeasure(m Meter, baseDuration float64) float64 {
	return float64(m.Num) / baseDuration * 4 / float64(m.Den)
}

func validDuration(baseDuration float64) error {
	if !(baseDuration > 0) || baseDuration > 1 || math.IsInf(baseDuration, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, baseDuration)
	}
	return nil
}

// BeatLength is the slicing window used by per-beat metrics and beat mutations
func BeatLength(m Meter, baseDuration float64) (int, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if err := validDuration(baseDuration); err != nil {
		return 0, err
	}
	return int(math.Ceil(unitsPerMeasure(m, baseDuration))), nil
}

// Length is the token count N of a melody spanning the given number of measures
func Length(m Meter, baseDuration float64, measures int) (int, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if err := validDuration(baseDuration); err != nil {
		return 0, err
	}
	if measures <= 0 {
		return 0, fmt.Errorf("%w: %d measures", ErrInvalidMelody, measures)
	}
	return int(unitsPerMeasure(m, baseDuration) * float64(measures)), nil
}

// ExpectedLength is the number of base units per whole note, never below one
func ExpectedLength(baseDuration float64) int {
	if baseDuration <= 0 {
		return 1
	}
	return max(1, int(1/baseDuration))
}
