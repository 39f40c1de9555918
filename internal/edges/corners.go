package edges

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/pixelmill/govision/internal/filter"
	"github.com/pixelmill/govision/internal/imgio"
)

// Corner is a detected interest point with its detector response.
type Corner struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Response float64 `json:"response"`
}

// HarrisResponse computes the Harris corner response R = det(M) - k*tr(M)²
// over a square window of the given block size, where M is the structure
// tensor accumulated from Sobel derivatives.
//
// Typical k is 0.04. Block size must be odd.
func HarrisResponse(p *imgio.Plane, blockSize int, k float64) (*imgio.Plane, error) {
	if blockSize%2 == 0 || blockSize <= 0 {
		return nil, fmt.Errorf("block size must be odd and positive, got %d", blockSize)
	}

	gx := filter.Convolve(p, filter.SobelX())
	gy := filter.Convolve(p, filter.SobelY())

	ixx, iyy, ixy := tensorProducts(gx, gy)
	out := imgio.NewPlane(p.W, p.H)
	half := blockSize / 2
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var sxx, syy, sxy float64
			for dy := -half; dy <= half; dy++ {
				for dx := -half; dx <= half; dx++ {
					sxx += ixx.AtClamped(x+dx, y+dy)
					syy += iyy.AtClamped(x+dx, y+dy)
					sxy += ixy.AtClamped(x+dx, y+dy)
				}
			}
			det := sxx*syy - sxy*sxy
			trace := sxx + syy
			out.Set(x, y, det-k*trace*trace)
		}
	}
	return out, nil
}

// HarrisCorners thresholds a Harris response plane at quality times its
// maximum and returns the passing pixels, strongest first.
func HarrisCorners(response *imgio.Plane, quality float64) ([]Corner, error) {
	if quality <= 0 || quality >= 1 {
		return nil, fmt.Errorf("quality must be in (0, 1), got %g", quality)
	}
	_, max := response.MinMax()
	if max <= 0 {
		return nil, nil
	}
	threshold := quality * max

	var corners []Corner
	for y := 0; y < response.H; y++ {
		for x := 0; x < response.W; x++ {
			if r := response.At(x, y); r >= threshold {
				corners = append(corners, Corner{X: x, Y: y, Response: r})
			}
		}
	}
	sort.Slice(corners, func(i, j int) bool { return corners[i].Response > corners[j].Response })
	return corners, nil
}

// GoodFeatures selects up to maxCorners Shi-Tomasi features: pixels whose
// smaller structure-tensor eigenvalue exceeds qualityLevel times the global
// maximum, greedily keeping the strongest while enforcing minDistance
// pixels between accepted corners.
func GoodFeatures(p *imgio.Plane, maxCorners int, qualityLevel, minDistance float64) ([]Corner, error) {
	if maxCorners <= 0 {
		return nil, fmt.Errorf("maxCorners must be positive, got %d", maxCorners)
	}
	if qualityLevel <= 0 || qualityLevel >= 1 {
		return nil, fmt.Errorf("qualityLevel must be in (0, 1), got %g", qualityLevel)
	}

	gx := filter.Convolve(p, filter.SobelX())
	gy := filter.Convolve(p, filter.SobelY())
	ixx, iyy, ixy := tensorProducts(gx, gy)

	// Minimum eigenvalue of the 3x3-window structure tensor.
	minEig := imgio.NewPlane(p.W, p.H)
	globalMax := 0.0
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var sxx, syy, sxy float64
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					sxx += ixx.AtClamped(x+dx, y+dy)
					syy += iyy.AtClamped(x+dx, y+dy)
					sxy += ixy.AtClamped(x+dx, y+dy)
				}
			}
			// Smaller root of lambda² - (sxx+syy)lambda + (sxx*syy - sxy²).
			half := (sxx + syy) / 2
			d := math.Sqrt(half*half - (sxx*syy - sxy*sxy))
			eig := half - d
			minEig.Set(x, y, eig)
			if eig > globalMax {
				globalMax = eig
			}
		}
	}
	if globalMax == 0 {
		return nil, nil
	}

	threshold := qualityLevel * globalMax
	var candidates []Corner
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			if v := minEig.At(x, y); v >= threshold {
				candidates = append(candidates, Corner{X: x, Y: y, Response: v})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Response > candidates[j].Response
	})

	minDistSq := minDistance * minDistance
	var selected []Corner
	for _, c := range candidates {
		ok := true
		for _, s := range selected {
			dx := float64(c.X - s.X)
			dy := float64(c.Y - s.Y)
			if dx*dx+dy*dy < minDistSq {
				ok = false
				break
			}
		}
		if ok {
			selected = append(selected, c)
			if len(selected) == maxCorners {
				break
			}
		}
	}
	return selected, nil
}

// Points converts corners to image points, a convenience for the optical
// flow tracker.
func Points(corners []Corner) []image.Point {
	pts := make([]image.Point, len(corners))
	for i, c := range corners {
		pts[i] = image.Point{X: c.X, Y: c.Y}
	}
	return pts
}

func tensorProducts(gx, gy *imgio.Plane) (ixx, iyy, ixy *imgio.Plane) {
	ixx = imgio.NewPlane(gx.W, gx.H)
	iyy = imgio.NewPlane(gx.W, gx.H)
	ixy = imgio.NewPlane(gx.W, gx.H)
	for i := range gx.Pix {
		ixx.Pix[i] = gx.Pix[i] * gx.Pix[i]
		iyy.Pix[i] = gy.Pix[i] * gy.Pix[i]
		ixy.Pix[i] = gx.Pix[i] * gy.Pix[i]
	}
	return ixx, iyy, ixy
}
