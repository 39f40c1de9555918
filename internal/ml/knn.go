package ml

import (
	"fmt"
	"sort"
)

// Sample is one labeled training vector.
type Sample struct {
	X     []float64 `json:"x"`
	Label int       `json:"label"`
}

// KNN is a k-nearest-neighbors classifier over stored samples.
type KNN struct {
	k       int
	dim     int
	samples []Sample
}

// NewKNN builds a classifier from labeled samples. All samples must
// share the same dimension.
func NewKNN(k int, samples []Sample) (*KNN, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no training samples")
	}
	dim := len(samples[0].X)
	for i, s := range samples {
		if len(s.X) != dim {
			return nil, fmt.Errorf("sample %d has dimension %d, want %d", i, len(s.X), dim)
		}
	}
	if k > len(samples) {
		k = len(samples)
	}
	return &KNN{k: k, dim: dim, samples: samples}, nil
}

// Predict returns the majority label among the k nearest samples. Ties
// break toward the nearer neighbor set.
func (c *KNN) Predict(x []float64) (int, error) {
	if len(x) != c.dim {
		return 0, fmt.Errorf("query has dimension %d, want %d", len(x), c.dim)
	}

	type hit struct {
		d     float64
		label int
	}
	hits := make([]hit, len(c.samples))
	for i, s := range c.samples {
		hits[i] = hit{d: sqDist(x, s.X), label: s.Label}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].d < hits[j].d })

	votes := map[int]int{}
	for _, h := range hits[:c.k] {
		votes[h.label]++
	}
	best, bestVotes := 0, -1
	for _, h := range hits[:c.k] {
		// Iterate in distance order so ties go to the closer label.
		if v := votes[h.label]; v > bestVotes {
			best, bestVotes = h.label, v
		}
	}
	return best, nil
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
