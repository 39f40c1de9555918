package filter

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"github.com/pixelmill/govision/internal/imgio"
)

// Box applies a homogeneous (box) blur with the given radius in pixels.
func Box(img image.Image, radius float64) (*image.RGBA, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("blur radius must be positive, got %g", radius)
	}
	return blur.Box(img, radius), nil
}

// Gaussian applies a Gaussian blur with the given radius in pixels.
func Gaussian(img image.Image, radius float64) (*image.RGBA, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("blur radius must be positive, got %g", radius)
	}
	return blur.Gaussian(img, radius), nil
}

// Median replaces each pixel with the median of its neighborhood.
func Median(img image.Image, radius float64) (*image.RGBA, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("blur radius must be positive, got %g", radius)
	}
	return effect.Median(img, radius), nil
}

// Bilateral smooths a grayscale plane while preserving edges.
//
// Each output sample is a weighted average of its neighborhood where the
// weight combines spatial distance (sigmaSpace) and intensity difference
// (sigmaColor). Pixels across a strong edge contribute little, so edges
// survive smoothing that would wash them out under a plain Gaussian.
//
// The neighborhood diameter is derived from sigmaSpace (2*ceil(2*sigma)+1),
// mirroring the common practice of truncating the spatial Gaussian at two
// standard deviations.
func Bilateral(p *imgio.Plane, sigmaColor, sigmaSpace float64) (*imgio.Plane, error) {
	if sigmaColor <= 0 || sigmaSpace <= 0 {
		return nil, fmt.Errorf("sigmas must be positive, got color=%g space=%g", sigmaColor, sigmaSpace)
	}

	radius := int(math.Ceil(2 * sigmaSpace))
	if radius < 1 {
		radius = 1
	}

	// Precompute the spatial weights once; they depend only on offsets.
	size := 2*radius + 1
	spatial := make([]float64, size*size)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			spatial[(dy+radius)*size+(dx+radius)] = gauss2(float64(dx), float64(dy), sigmaSpace)
		}
	}

	out := imgio.NewPlane(p.W, p.H)
	twoColorSq := 2 * sigmaColor * sigmaColor
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			center := p.At(x, y)
			var sum, norm float64
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					v := p.AtClamped(x+dx, y+dy)
					diff := v - center
					w := spatial[(dy+radius)*size+(dx+radius)] *
						math.Exp(-(diff*diff)/twoColorSq)
					sum += v * w
					norm += w
				}
			}
			out.Set(x, y, sum/norm)
		}
	}
	return out, nil
}

func gauss2(x, y, sigma float64) float64 {
	return math.Exp(-(x*x + y*y) / (2 * sigma * sigma))
}
