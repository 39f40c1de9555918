package cloud

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
)

// Plane is a 3D plane in Hessian normal form: Normal·p + D = 0, with a
// unit normal.
type Plane struct {
	Normal r3.Vector
	D      float64
}

// Distance returns the absolute distance from the point to the plane.
func (pl Plane) Distance(p r3.Vector) float64 {
	return math.Abs(pl.Normal.Dot(p) + pl.D)
}

// PlaneSegment fits the dominant plane by RANSAC: random point triples
// propose planes, scored by how many points lie within threshold. The
// winning plane and the indices of its inliers are returned.
func (pc *PointCloud) PlaneSegment(threshold float64, iterations int, rng *rand.Rand) (Plane, []int, error) {
	if len(pc.Points) < 3 {
		return Plane{}, nil, fmt.Errorf("plane segmentation needs at least 3 points, got %d", len(pc.Points))
	}
	if threshold <= 0 {
		return Plane{}, nil, fmt.Errorf("distance threshold must be positive, got %v", threshold)
	}
	if iterations <= 0 {
		iterations = 200
	}

	var (
		best        Plane
		bestInliers []int
	)
	for it := 0; it < iterations; it++ {
		i := rng.Intn(len(pc.Points))
		j := rng.Intn(len(pc.Points))
		k := rng.Intn(len(pc.Points))
		if i == j || j == k || i == k {
			continue
		}
		a, b, c := pc.Points[i], pc.Points[j], pc.Points[k]
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Norm() < 1e-12 {
			continue // collinear sample
		}
		n = n.Normalize()
		pl := Plane{Normal: n, D: -n.Dot(a)}

		var inliers []int
		for idx, p := range pc.Points {
			if pl.Distance(p) <= threshold {
				inliers = append(inliers, idx)
			}
		}
		if len(inliers) > len(bestInliers) {
			best, bestInliers = pl, inliers
			if len(inliers) == len(pc.Points) {
				break
			}
		}
	}
	if len(bestInliers) < 3 {
		return Plane{}, nil, fmt.Errorf("no plane consensus found")
	}
	return best, bestInliers, nil
}

// Without returns the cloud with the points at the given indices
// removed.
func (pc *PointCloud) Without(indices []int) *PointCloud {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	var out []r3.Vector
	for i, p := range pc.Points {
		if !drop[i] {
			out = append(out, p)
		}
	}
	return &PointCloud{Points: out}
}
