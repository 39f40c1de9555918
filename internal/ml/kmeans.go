package ml

import (
	"fmt"
	"math"
	"math/rand"
)

// KMeansResult holds the clustering output.
type KMeansResult struct {
	// Centers are the final cluster centroids.
	Centers [][]float64 `json:"centers"`
	// Labels assigns each input point its cluster index.
	Labels []int `json:"labels"`
	// Compactness is the sum of squared distances of points to their
	// assigned centers.
	Compactness float64 `json:"compactness"`
}

// KMeans clusters points into k groups with k-means++ seeding followed
// by Lloyd iteration until assignments stop changing or maxIter is
// reached.
func KMeans(points [][]float64, k, maxIter int, rng *rand.Rand) (*KMeansResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if len(points) < k {
		return nil, fmt.Errorf("%d points cannot form %d clusters", len(points), k)
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("point %d has dimension %d, want %d", i, len(p), dim)
		}
	}
	if maxIter < 1 {
		maxIter = 100
	}

	centers := seedPlusPlus(points, k, rng)
	labels := make([]int, len(points))

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			best, bestD := 0, math.Inf(1)
			for c := range centers {
				if d := sqDist(p, centers[c]); d < bestD {
					best, bestD = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids; empty clusters keep their position.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for d := range p {
				sums[c][d] += p[d]
			}
		}
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < dim; d++ {
				centers[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	var compactness float64
	for i, p := range points {
		compactness += sqDist(p, centers[labels[i]])
	}
	return &KMeansResult{Centers: centers, Labels: labels, Compactness: compactness}, nil
}

// seedPlusPlus picks initial centers with probability proportional to
// squared distance from the centers already chosen.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	first := points[rng.Intn(len(points))]
	centers = append(centers, append([]float64(nil), first...))

	dists := make([]float64, len(points))
	for len(centers) < k {
		var total float64
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centers {
				if dd := sqDist(p, c); dd < d {
					d = dd
				}
			}
			dists[i] = d
			total += d
		}
		if total == 0 {
			// All remaining points coincide with a center.
			centers = append(centers, append([]float64(nil), points[rng.Intn(len(points))]...))
			continue
		}
		target := rng.Float64() * total
		idx := 0
		for i, d := range dists {
			target -= d
			if target <= 0 {
				idx = i
				break
			}
		}
		centers = append(centers, append([]float64(nil), points[idx]...))
	}
	return centers
}
