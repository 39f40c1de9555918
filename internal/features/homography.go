package features

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/pixelmill/govision/internal/geometry"
)

// Match pairs a point in the source image with its position in the
// destination image.
type Match struct {
	SrcX, SrcY float64
	DstX, DstY float64
}

// EstimateHomography fits a projective transform to at least four point
// matches using the normalized direct linear transform.
func EstimateHomography(matches []Match) (geometry.Homography, error) {
	var H geometry.Homography
	if len(matches) < 4 {
		return H, fmt.Errorf("homography needs at least 4 matches, got %d", len(matches))
	}

	srcT, src := normalizePoints(matches, true)
	dstT, dst := normalizePoints(matches, false)

	// Each match contributes two rows of the 2n x 9 design matrix.
	n := len(matches)
	a := mat.NewDense(2*n, 9, nil)
	for i := 0; i < n; i++ {
		x, y := src[i][0], src[i][1]
		u, v := dst[i][0], dst[i][1]
		a.SetRow(2*i, []float64{-x, -y, -1, 0, 0, 0, u * x, u * y, u})
		a.SetRow(2*i+1, []float64{0, 0, 0, -x, -y, -1, v * x, v * y, v})
	}

	// Full SVD: with exactly four matches the design matrix is 8x9 and
	// the null-space vector lives in the column a thin factorization
	// would drop.
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return H, fmt.Errorf("homography SVD failed to converge")
	}
	var vt mat.Dense
	svd.VTo(&vt)

	// The solution is the right singular vector of the smallest singular
	// value.
	var hn geometry.Homography
	for i := 0; i < 9; i++ {
		hn[i] = vt.At(i, 8)
	}

	// Undo the normalization: H = inv(Tdst) * Hn * Tsrc.
	dstInv, err := dstT.Invert()
	if err != nil {
		return H, fmt.Errorf("homography denormalization: %w", err)
	}
	H = composeH(composeH(dstInv, hn), srcT)

	// Fix scale so H[8] is one when possible.
	if math.Abs(H[8]) > 1e-12 {
		for i := range H {
			H[i] /= H[8]
		}
	}
	return H, nil
}

// normalizePoints translates the selected side of the matches to its
// centroid and scales to mean distance sqrt(2), returning the applied
// transform and the transformed points.
func normalizePoints(matches []Match, src bool) (geometry.Homography, [][2]float64) {
	var cx, cy float64
	for _, m := range matches {
		if src {
			cx += m.SrcX
			cy += m.SrcY
		} else {
			cx += m.DstX
			cy += m.DstY
		}
	}
	n := float64(len(matches))
	cx /= n
	cy /= n

	var meanDist float64
	for _, m := range matches {
		x, y := m.DstX, m.DstY
		if src {
			x, y = m.SrcX, m.SrcY
		}
		meanDist += math.Hypot(x-cx, y-cy)
	}
	meanDist /= n
	s := 1.0
	if meanDist > 1e-12 {
		s = math.Sqrt2 / meanDist
	}

	t := geometry.Homography{s, 0, -s * cx, 0, s, -s * cy, 0, 0, 1}
	pts := make([][2]float64, len(matches))
	for i, m := range matches {
		x, y := m.DstX, m.DstY
		if src {
			x, y = m.SrcX, m.SrcY
		}
		pts[i] = [2]float64{s * (x - cx), s * (y - cy)}
	}
	return t, pts
}

func composeH(a, b geometry.Homography) geometry.Homography {
	var c geometry.Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[i*3+k] * b[k*3+j]
			}
			c[i*3+j] = sum
		}
	}
	return c
}

// RANSACResult reports a robust homography fit.
type RANSACResult struct {
	H       geometry.Homography
	Inliers []int // indices into the input matches
}

// EstimateHomographyRANSAC fits a homography while tolerating bad
// matches: random minimal samples are fit and scored by reprojection
// error, and the largest consensus set is refit with all its inliers.
// threshold is the inlier reprojection distance in pixels.
func EstimateHomographyRANSAC(matches []Match, threshold float64, iterations int, rng *rand.Rand) (*RANSACResult, error) {
	if len(matches) < 4 {
		return nil, fmt.Errorf("homography needs at least 4 matches, got %d", len(matches))
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("inlier threshold must be positive, got %v", threshold)
	}
	if iterations <= 0 {
		iterations = 500
	}

	var bestInliers []int
	for it := 0; it < iterations; it++ {
		sample := sampleIndices(len(matches), 4, rng)
		minimal := make([]Match, 4)
		for i, idx := range sample {
			minimal[i] = matches[idx]
		}
		h, err := EstimateHomography(minimal)
		if err != nil {
			continue
		}

		var inliers []int
		for i, m := range matches {
			px, py, err := h.Apply(m.SrcX, m.SrcY)
			if err != nil {
				continue
			}
			if math.Hypot(px-m.DstX, py-m.DstY) <= threshold {
				inliers = append(inliers, i)
			}
		}
		if len(inliers) > len(bestInliers) {
			bestInliers = inliers
			// All matches agreeing means no better model exists.
			if len(inliers) == len(matches) {
				break
			}
		}
	}

	if len(bestInliers) < 4 {
		return nil, fmt.Errorf("no consensus: best model had %d inliers", len(bestInliers))
	}

	refit := make([]Match, len(bestInliers))
	for i, idx := range bestInliers {
		refit[i] = matches[idx]
	}
	h, err := EstimateHomography(refit)
	if err != nil {
		return nil, fmt.Errorf("refit on %d inliers: %w", len(bestInliers), err)
	}
	return &RANSACResult{H: h, Inliers: bestInliers}, nil
}

func sampleIndices(n, k int, rng *rand.Rand) []int {
	idx := make([]int, 0, k)
	seen := make(map[int]bool, k)
	for len(idx) < k {
		i := rng.Intn(n)
		if !seen[i] {
			seen[i] = true
			idx = append(idx, i)
		}
	}
	return idx
}
