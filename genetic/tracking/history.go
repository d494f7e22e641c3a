package tracking

import "sync"

// GenerationStats is one point of a fitness history
type GenerationStats struct {
	Generation int     `toml:"generation"`
	Best       float64 `toml:"best"`
	Average    float64 `toml:"average"`
	Worst      float64 `toml:"worst"`
	StdDev     float64 `toml:"std_dev"`
}

// History records per-generation fitness statistics.
// Safe for one writer and concurrent readers.
type History struct {
	mu     sync.RWMutex
	points []GenerationStats
	total  int
}

// NewHistory preallocates for the expected number of generations, initial pool included
func NewHistory(generations int) *History {
	return &History{
		points: make([]GenerationStats, 0, max(generations+1, 1)),
		total:  generations,
	}
}

func (h *History) Record(s GenerationStats) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.points = append(h.points, s)
}

// Points returns a copy of everything recorded so far
func (h *History) Points() []GenerationStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]GenerationStats, len(h.points))
	copy(out, h.points)
	return out
}

// Latest returns the most recent point
func (h *History) Latest() (GenerationStats, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.points) == 0 {
		return GenerationStats{}, false
	}
	return h.points[len(h.points)-1], true
}

// Progress is the completed fraction of the planned generations (0-1)
func (h *History) Progress() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.total <= 0 {
		if len(h.points) > 0 {
			return 1
		}
		return 0
	}
	done := len(h.points) - 1
	if done < 0 {
		return 0
	}
	return min(float64(done)/float64(h.total), 1)
}

// Generations is the planned generation count
func (h *History) Generations() int { return h.total }

// Reset drops every recorded point
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.points = h.points[:0]
}
