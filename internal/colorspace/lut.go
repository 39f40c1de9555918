package colorspace

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// LUT is a 256-entry lookup table mapping one 8-bit intensity to another.
type LUT [256]uint8

// NegativeLUT builds the table v -> 255-v.
func NegativeLUT() LUT {
	var lut LUT
	for i := range lut {
		lut[i] = uint8(255 - i)
	}
	return lut
}

// GammaLUT builds the table v -> 255*(v/255)^gamma. Gamma must be positive.
func GammaLUT(gamma float64) (LUT, error) {
	var lut LUT
	if gamma <= 0 {
		return lut, fmt.Errorf("gamma must be positive, got %g", gamma)
	}
	for i := range lut {
		v := 255 * math.Pow(float64(i)/255, gamma)
		lut[i] = clampByte(v)
	}
	return lut, nil
}

// LinearLUT builds the table v -> alpha*v + beta, clipped to [0, 255].
// Alpha controls contrast, beta brightness.
func LinearLUT(alpha, beta float64) LUT {
	var lut LUT
	for i := range lut {
		lut[i] = clampByte(alpha*float64(i) + beta)
	}
	return lut
}

// Apply maps every channel of the image through the lookup table,
// producing a new RGBA image. Alpha is preserved.
func (lut LUT) Apply(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			out.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{
				R: lut[r>>8],
				G: lut[g>>8],
				B: lut[b>>8],
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

// ApplyGray maps a grayscale image through the lookup table.
func (lut LUT) ApplyGray(img *image.Gray) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: lut[img.GrayAt(x, y).Y]})
		}
	}
	return out
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
