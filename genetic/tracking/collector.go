package tracking

// StandardCollector summarises metric bundles across a population
type StandardCollector struct {
	total  int
	sums   map[string]float64
	counts map[string]int
	mins   map[string]float64
	maxs   map[string]float64
	minSet map[string]bool
	maxSet map[string]bool
}

// NewStandardCollector creates a reusable collector
func NewStandardCollector() *StandardCollector {
	return &StandardCollector{
		sums:   make(map[string]float64),
		counts: make(map[string]int),
		mins:   make(map[string]float64),
		maxs:   make(map[string]float64),
		minSet: make(map[string]bool),
		maxSet: make(map[string]bool),
	}
}

func (c *StandardCollector) Collect(metrics MetricBundle) {
	c.total++

	for key, value := range metrics {
		c.sums[key] += value
		c.counts[key]++

		if !c.minSet[key] || value < c.mins[key] {
			c.mins[key] = value
			c.minSet[key] = true
		}
		if !c.maxSet[key] || value > c.maxs[key] {
			c.maxs[key] = value
			c.maxSet[key] = true
		}
	}
}

// Finalize emits avg_, min_ and max_ prefixed keys plus the solution count
func (c *StandardCollector) Finalize() MetricBundle {
	result := make(MetricBundle, 3*len(c.sums)+1)

	result["count"] = float64(c.total)

	for key, sum := range c.sums {
		if count := c.counts[key]; count > 0 {
			result["avg_"+key] = sum / float64(count)
		}
	}
	for key, val := range c.mins {
		result["min_"+key] = val
	}
	for key, val := range c.maxs {
		result["max_"+key] = val
	}

	return result
}

func (c *StandardCollector) Reset() {
	c.total = 0
	clear(c.sums)
	clear(c.counts)
	clear(c.mins)
	clear(c.maxs)
	clear(c.minSet)
	clear(c.maxSet)
}
