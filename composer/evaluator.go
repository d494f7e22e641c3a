package composer

import (
	"github.com/lixenwraith/vi-composer/genetic/fitness"
	"github.com/lixenwraith/vi-composer/genetic/tracking"
	"github.com/lixenwraith/vi-composer/melody"
)

// Evaluator scores melodies against a coefficient snapshot.
// Fitness is pure and safe to call from many goroutines.
type Evaluator struct {
	analyzer   *Analyzer
	aggregator fitness.Aggregator
}

// NewEvaluator snapshots coeffs; later changes to coeffs do not affect it
func NewEvaluator(analyzer *Analyzer, coeffs *Coefficients) *Evaluator {
	return &Evaluator{
		analyzer:   analyzer,
		aggregator: coeffs.Clone().Aggregator(),
	}
}

// Fitness is the Gaussian proximity sum, never negative
func (e *Evaluator) Fitness(m melody.Melody) float64 {
	return e.aggregator.Calculate(e.analyzer.Scores(m))
}

// Scores returns the full named breakdown of raw metric values
func (e *Evaluator) Scores(m melody.Melody) tracking.MetricBundle {
	return e.analyzer.Scores(m)
}
