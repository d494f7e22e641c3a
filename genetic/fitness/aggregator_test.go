package fitness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/vi-composer/genetic/tracking"
)

func TestGaussianAggregator_OnTarget(t *testing.T) {
	agg := &GaussianAggregator{Terms: []Term{
		{Name: tracking.MetricDissonance, Coefficient: Coefficient{Mu: 0.25, Sigma: 0.1, Weight: 3}},
		{Name: tracking.MetricDiversity, Coefficient: Coefficient{Mu: 0.8, Sigma: 0.1, Weight: 2}},
	}}

	metrics := tracking.MetricBundle{
		tracking.MetricDissonance: 0.25,
		tracking.MetricDiversity:  0.8,
	}
	assert.InDelta(t, 5.0, agg.Calculate(metrics), 1e-12)
}

func TestGaussianAggregator_Decay(t *testing.T) {
	c := Coefficient{Mu: 0.5, Sigma: 0.1, Weight: 2}

	// One sigma away keeps exp(-0.5) of the weight
	assert.InDelta(t, 2*math.Exp(-0.5), c.Proximity(0.6), 1e-12)
	assert.InDelta(t, c.Proximity(0.4), c.Proximity(0.6), 1e-12)
	assert.Less(t, c.Proximity(0.9), c.Proximity(0.6))
	assert.Greater(t, c.Proximity(0.9), 0.0)

	assert.Equal(t, 0.0, Coefficient{Mu: 0.5, Sigma: 0.1}.Proximity(0.5))
	assert.Equal(t, 1.0, Coefficient{Mu: 0.5, Sigma: 0, Weight: 1}.Proximity(0.5))
	assert.Equal(t, 0.0, Coefficient{Mu: 0.5, Sigma: 0, Weight: 1}.Proximity(0.4))
}

func TestGaussianAggregator_MissingMetricIgnored(t *testing.T) {
	agg := &GaussianAggregator{Terms: []Term{
		{Name: "present", Coefficient: Coefficient{Mu: 0, Sigma: 1, Weight: 1}},
		{Name: "absent", Coefficient: Coefficient{Mu: 0, Sigma: 1, Weight: 10}},
	}}
	metrics := tracking.MetricBundle{"present": 0}
	assert.Equal(t, 1.0, agg.Calculate(metrics))

	contrib := agg.Contributions(metrics)
	assert.Len(t, contrib, 1)
	assert.Equal(t, 1.0, contrib["present"])
}

func TestNormalizers(t *testing.T) {
	norm := NormalizeCap(100)
	assert.Equal(t, 0.5, norm(50))
	assert.Equal(t, 1.0, norm(150))
	assert.Equal(t, 0.0, norm(-3))
	assert.Equal(t, 0.0, NormalizeCap(0)(5))

	assert.Equal(t, 0.0, Clamp01(math.NaN()))
	assert.Equal(t, 0.0, Ratio(1, 0))
	assert.Equal(t, 0.25, Ratio(1, 4))
}
