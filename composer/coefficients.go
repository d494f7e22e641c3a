package composer

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/lixenwraith/vi-composer/genetic/fitness"
	"github.com/lixenwraith/vi-composer/genetic/tracking"
)

var (
	ErrUnknownMetric      = errors.New("unknown metric")
	ErrInvalidCoefficient = errors.New("invalid coefficient")
)

// MetricNames lists every metric the evaluator reports, in aggregation order
var MetricNames = []string{
	tracking.MetricDiversity,
	tracking.MetricDiversityInterval,
	tracking.MetricDissonance,
	tracking.MetricRhythmicDiversity,
	tracking.MetricRhythmicAverageValue,
	tracking.MetricDeviationRhythmicValue,
	tracking.MetricScaleConformance,
	tracking.MetricChordConformance,
	tracking.MetricMelodicContour,
	tracking.MetricPitchRange,
	tracking.MetricPauseProportion,
	tracking.MetricLargeIntervals,
	tracking.MetricAveragePitch,
	tracking.MetricPitchVariation,
	tracking.MetricOddIndexNotes,
	tracking.MetricAverageInterval,
	tracking.MetricScalePlaying,
	tracking.MetricShortConsecutiveNotes,
	tracking.MetricDirectionalChanges,
	tracking.MetricRepetition,
	tracking.MetricVeryLongNotes,
}

const defaultSigma = 0.1

// defaultCoefficients: metrics with weight 0 are reported but do not score
var defaultCoefficients = map[string]fitness.Coefficient{
	tracking.MetricDiversity:              {Mu: 0.8, Sigma: defaultSigma, Weight: 2},
	tracking.MetricDiversityInterval:      {Mu: 0.8, Sigma: defaultSigma, Weight: 2},
	tracking.MetricDissonance:             {Mu: 0.25, Sigma: defaultSigma, Weight: 3},
	tracking.MetricRhythmicDiversity:      {Mu: 0.7, Sigma: defaultSigma, Weight: 1},
	tracking.MetricRhythmicAverageValue:   {Mu: 0.5, Sigma: defaultSigma, Weight: 3},
	tracking.MetricDeviationRhythmicValue: {Mu: 0.5, Sigma: defaultSigma, Weight: 2},
	tracking.MetricScaleConformance:       {Mu: 0.9, Sigma: defaultSigma, Weight: 3},
	tracking.MetricChordConformance:       {Mu: 0.5, Sigma: defaultSigma, Weight: 3},
	tracking.MetricMelodicContour:         {Mu: 0.1, Sigma: defaultSigma, Weight: 1},
	tracking.MetricPitchRange:             {Mu: 0.3, Sigma: defaultSigma, Weight: 1},
	tracking.MetricPauseProportion:        {Mu: 0.3, Sigma: defaultSigma, Weight: 1},
	tracking.MetricLargeIntervals:         {Mu: 0.0, Sigma: defaultSigma, Weight: 5},
	tracking.MetricAveragePitch:           {Mu: 0.6, Sigma: defaultSigma, Weight: 1},
	tracking.MetricPitchVariation:         {Mu: 0.4, Sigma: defaultSigma, Weight: 1},
	tracking.MetricOddIndexNotes:          {Mu: 0.1, Sigma: defaultSigma, Weight: 3},
	tracking.MetricAverageInterval:        {Mu: 0.3, Sigma: defaultSigma, Weight: 1},
	tracking.MetricScalePlaying:           {Mu: 0.8, Sigma: defaultSigma, Weight: 2},
	tracking.MetricShortConsecutiveNotes:  {Mu: 0.75, Sigma: defaultSigma, Weight: 2},
	tracking.MetricDirectionalChanges:     {Mu: 0.5, Sigma: defaultSigma, Weight: 0},
	tracking.MetricRepetition:             {Mu: 0.5, Sigma: defaultSigma, Weight: 0},
	tracking.MetricVeryLongNotes:          {Mu: 0.0, Sigma: defaultSigma, Weight: 0},
}

// Coefficients is the (mu, sigma, weight) table of every metric.
// Not safe for concurrent mutation; a running generator works on its own snapshot.
type Coefficients struct {
	table map[string]fitness.Coefficient
}

// DefaultCoefficients returns the built-in table
func DefaultCoefficients() *Coefficients {
	return &Coefficients{table: maps.Clone(defaultCoefficients)}
}

// IsMetric reports whether name is a recognised metric
func IsMetric(name string) bool {
	_, ok := defaultCoefficients[name]
	return ok
}

func (c *Coefficients) Get(name string) (fitness.Coefficient, bool) {
	coef, ok := c.table[name]
	return coef, ok
}

// Reconfigure replaces mu for the given subset only.
// Nothing is applied when any name is unknown or any value is not finite.
func (c *Coefficients) Reconfigure(mu map[string]float64) error {
	for _, name := range slices.Sorted(maps.Keys(mu)) {
		if !IsMetric(name) {
			return fmt.Errorf("%w: %q", ErrUnknownMetric, name)
		}
		if v := mu[name]; math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: mu %v for %s", ErrInvalidCoefficient, v, name)
		}
	}
	for name, v := range mu {
		coef := c.table[name]
		coef.Mu = v
		c.table[name] = coef
	}
	return nil
}

// SetTolerance replaces sigma for one metric; sigma must be positive
func (c *Coefficients) SetTolerance(name string, sigma float64) error {
	if !IsMetric(name) {
		return fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return fmt.Errorf("%w: sigma %v for %s", ErrInvalidCoefficient, sigma, name)
	}
	coef := c.table[name]
	coef.Sigma = sigma
	c.table[name] = coef
	return nil
}

// SetWeight replaces the weight for one metric; zero disables scoring
func (c *Coefficients) SetWeight(name string, weight float64) error {
	if !IsMetric(name) {
		return fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: weight %v for %s", ErrInvalidCoefficient, weight, name)
	}
	coef := c.table[name]
	coef.Weight = weight
	c.table[name] = coef
	return nil
}

func (c *Coefficients) Clone() *Coefficients {
	return &Coefficients{table: maps.Clone(c.table)}
}

// Aggregator builds a Gaussian aggregator from the current table.
// Chord conformance is unsupported and never enters the sum.
func (c *Coefficients) Aggregator() *fitness.GaussianAggregator {
	terms := make([]fitness.Term, 0, len(MetricNames))
	for _, name := range MetricNames {
		if name == tracking.MetricChordConformance {
			continue
		}
		coef := c.table[name]
		if coef.Weight == 0 {
			continue
		}
		terms = append(terms, fitness.Term{Name: name, Coefficient: coef})
	}
	return &fitness.GaussianAggregator{Terms: terms}
}
