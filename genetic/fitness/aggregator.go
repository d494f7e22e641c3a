package fitness

import "github.com/lixenwraith/vi-composer/genetic/tracking"

// Aggregator calculates fitness score from collected metrics
type Aggregator interface {
	Calculate(metrics tracking.MetricBundle) float64
}

// NormalizeFunc converts a raw metric to a 0-1 score
type NormalizeFunc func(raw float64) float64

// NormalizeCap creates a capped normalizer: min(raw/max, 1.0), never below 0
func NormalizeCap(max float64) NormalizeFunc {
	if max <= 0 {
		return func(raw float64) float64 { return 0 }
	}
	return func(raw float64) float64 {
		return Clamp01(raw / max)
	}
}

// Clamp01 bounds v to [0, 1]; NaN maps to 0
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Ratio divides with a zero-denominator guard
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
