package fitness

import (
	"math"

	"github.com/lixenwraith/vi-composer/genetic/tracking"
)

// Coefficient is the target profile of one metric
type Coefficient struct {
	Mu     float64 // target value
	Sigma  float64 // tolerance, width of the Gaussian
	Weight float64 // contribution when the metric sits exactly on target
}

// Proximity is weight * exp(-0.5 * ((score - mu) / sigma)^2)
func (c Coefficient) Proximity(score float64) float64 {
	if c.Weight == 0 {
		return 0
	}
	if c.Sigma <= 0 {
		if score == c.Mu {
			return c.Weight
		}
		return 0
	}
	z := (score - c.Mu) / c.Sigma
	return c.Weight * math.Exp(-0.5*z*z)
}

// Term binds a metric name to its coefficient
type Term struct {
	Name string
	Coefficient
}

// GaussianAggregator sums the Gaussian proximity of each metric to its target.
// Terms are summed in slice order so the result is bit-for-bit reproducible.
type GaussianAggregator struct {
	Terms []Term
}

func (a *GaussianAggregator) Calculate(metrics tracking.MetricBundle) float64 {
	var fitness float64
	for _, term := range a.Terms {
		score, ok := metrics[term.Name]
		if !ok {
			continue
		}
		fitness += term.Proximity(score)
	}
	return fitness
}

// Contributions reports each term's share of the total
func (a *GaussianAggregator) Contributions(metrics tracking.MetricBundle) tracking.MetricBundle {
	out := make(tracking.MetricBundle, len(a.Terms))
	for _, term := range a.Terms {
		if score, ok := metrics[term.Name]; ok {
			out[term.Name] = term.Proximity(score)
		}
	}
	return out
}
