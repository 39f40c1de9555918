package geometry

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Homography is a 3x3 projective transform in row-major order. Points map
// through it in homogeneous coordinates:
//
//	w * (x', y', 1) = H * (x, y, 1)
type Homography [9]float64

// Apply maps a point through the homography. A point at infinity
// (vanishing denominator) is an error.
func (h Homography) Apply(x, y float64) (float64, float64, error) {
	w := h[6]*x + h[7]*y + h[8]
	if math.Abs(w) < 1e-12 {
		return 0, 0, fmt.Errorf("point (%g,%g) maps to infinity", x, y)
	}
	return (h[0]*x + h[1]*y + h[2]) / w, (h[3]*x + h[4]*y + h[5]) / w, nil
}

// Invert returns the inverse homography.
func (h Homography) Invert() (Homography, error) {
	m := mat.NewDense(3, 3, h[:])
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return Homography{}, fmt.Errorf("homography is singular: %w", err)
	}
	var out Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i*3+j] = inv.At(i, j)
		}
	}
	return out, nil
}

// WarpAffine applies an affine transform to an image, producing a w x h
// output. Destination pixels are inverse-mapped into the source and
// bilinearly interpolated; pixels falling outside the source are black.
func WarpAffine(img image.Image, a Affine, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("output size must be positive, got %dx%d", w, h)
	}
	inv, err := a.Invert()
	if err != nil {
		return nil, err
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := inv.Apply(float64(x), float64(y))
			out.SetRGBA(x, y, bilinear(img, sx, sy))
		}
	}
	return out, nil
}

// WarpPerspective applies a homography to an image, producing a w x h
// output by inverse mapping with bilinear interpolation.
func WarpPerspective(img image.Image, hom Homography, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("output size must be positive, got %dx%d", w, h)
	}
	inv, err := hom.Invert()
	if err != nil {
		return nil, err
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy, err := inv.Apply(float64(x), float64(y))
			if err != nil {
				continue // leave the pixel black
			}
			out.SetRGBA(x, y, bilinear(img, sx, sy))
		}
	}
	return out, nil
}

// SampleBilinear samples the source at a fractional position. Samples
// outside the image are transparent black.
func SampleBilinear(img image.Image, x, y float64) color.RGBA {
	return bilinear(img, x, y)
}

func bilinear(img image.Image, x, y float64) color.RGBA {
	bounds := img.Bounds()
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	if x0 < bounds.Min.X-1 || x0 > bounds.Max.X-1 || y0 < bounds.Min.Y-1 || y0 > bounds.Max.Y-1 {
		return color.RGBA{}
	}
	fx := x - float64(x0)
	fy := y - float64(y0)

	sample := func(px, py int) (float64, float64, float64, float64) {
		if px < bounds.Min.X || px >= bounds.Max.X || py < bounds.Min.Y || py >= bounds.Max.Y {
			return 0, 0, 0, 0
		}
		r, g, b, a := img.At(px, py).RGBA()
		return float64(r >> 8), float64(g >> 8), float64(b >> 8), float64(a >> 8)
	}

	r00, g00, b00, a00 := sample(x0, y0)
	r10, g10, b10, a10 := sample(x0+1, y0)
	r01, g01, b01, a01 := sample(x0, y0+1)
	r11, g11, b11, a11 := sample(x0+1, y0+1)

	lerp2 := func(v00, v10, v01, v11 float64) uint8 {
		top := v00*(1-fx) + v10*fx
		bot := v01*(1-fx) + v11*fx
		v := top*(1-fy) + bot*fy
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		return uint8(math.Round(v))
	}

	return color.RGBA{
		R: lerp2(r00, r10, r01, r11),
		G: lerp2(g00, g10, g01, g11),
		B: lerp2(b00, b10, b01, b11),
		A: lerp2(a00, a10, a01, a11),
	}
}
