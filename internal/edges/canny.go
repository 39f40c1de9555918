package edges

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/pixelmill/govision/internal/filter"
	"github.com/pixelmill/govision/internal/imgio"
)

// Canny performs Canny edge detection on a grayscale plane with values in
// [0, 255], producing a binary image where edges are white (255).
//
// The pipeline:
//
//  1. Gaussian blur (5x5, sigma 1.4) to reduce noise
//  2. Sobel gradients: magnitude and direction
//  3. Non-maximum suppression: thin ridges to 1-pixel width by keeping
//     only local maxima along the gradient direction
//  4. Hysteresis: samples above thresholdHigh are strong edges, samples
//     between the thresholds are kept only when 8-connected to a strong
//     edge, the rest are discarded
//
// Lower thresholds detect more edges but admit more noise. The usual
// starting point is thresholdLow=50, thresholdHigh=150 for clean images.
func Canny(p *imgio.Plane, thresholdLow, thresholdHigh float64) (*image.Gray, error) {
	if thresholdLow < 0 || thresholdHigh <= thresholdLow {
		return nil, fmt.Errorf("thresholds must satisfy 0 <= low < high, got low=%g high=%g",
			thresholdLow, thresholdHigh)
	}

	gaussian, err := filter.GaussianKernel(5, 1.4)
	if err != nil {
		return nil, err
	}
	blurred := filter.Convolve(p, gaussian)
	grad := Sobel(blurred)

	suppressed := nonMaxSuppress(grad)

	out := image.NewGray(image.Rect(0, 0, p.W, p.H))
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			v := suppressed.At(x, y)
			if v >= thresholdHigh {
				out.SetGray(x, y, color.Gray{Y: 255})
				continue
			}
			if v < thresholdLow {
				continue
			}
			// Weak edge: keep only when touching a strong edge.
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					if suppressed.AtClamped(x+kx, y+ky) >= thresholdHigh {
						out.SetGray(x, y, color.Gray{Y: 255})
					}
				}
			}
		}
	}
	return out, nil
}

// nonMaxSuppress keeps magnitude samples that are local maxima along the
// quantized gradient direction, zeroing everything else. Border pixels are
// left at zero.
func nonMaxSuppress(g *Gradients) *imgio.Plane {
	out := imgio.NewPlane(g.Magnitude.W, g.Magnitude.H)
	for y := 1; y < out.H-1; y++ {
		for x := 1; x < out.W-1; x++ {
			angle := g.Direction.At(x, y)
			mag := g.Magnitude.At(x, y)

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) ||
				angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1 = g.Magnitude.At(x-1, y)
				n2 = g.Magnitude.At(x+1, y)
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) ||
				(angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1 = g.Magnitude.At(x+1, y-1)
				n2 = g.Magnitude.At(x-1, y+1)
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) ||
				(angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1 = g.Magnitude.At(x, y-1)
				n2 = g.Magnitude.At(x, y+1)
			default:
				n1 = g.Magnitude.At(x-1, y-1)
				n2 = g.Magnitude.At(x+1, y+1)
			}

			if mag >= n1 && mag >= n2 {
				out.Set(x, y, mag)
			}
		}
	}
	return out
}
