package imgio

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Plane is a single-channel image stored as a dense row-major float64 matrix.
//
// A Plane holds raw sample values without any fixed range: loaders fill it
// with 0-255 luminance values, frequency transforms fill it with
// coefficients, and normalization maps it back to a displayable range.
type Plane struct {
	W   int       // Width in pixels
	H   int       // Height in pixels
	Pix []float64 // Samples in row-major order, len == W*H
}

// NewPlane allocates a zero-filled plane of the given dimensions.
func NewPlane(w, h int) *Plane {
	return &Plane{W: w, H: h, Pix: make([]float64, w*h)}
}

// At returns the sample at (x, y). No bounds checking is performed.
func (p *Plane) At(x, y int) float64 { return p.Pix[y*p.W+x] }

// Set stores v at (x, y). No bounds checking is performed.
func (p *Plane) Set(x, y int, v float64) { p.Pix[y*p.W+x] = v }

// AtClamped returns the sample at (x, y) with replicated borders: coordinates
// outside the plane are clamped to the nearest edge pixel. This matches the
// replicate border mode used throughout the convolution and transform code.
func (p *Plane) AtClamped(x, y int) float64 {
	if x < 0 {
		x = 0
	} else if x >= p.W {
		x = p.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= p.H {
		y = p.H - 1
	}
	return p.Pix[y*p.W+x]
}

// Clone returns a deep copy of the plane.
func (p *Plane) Clone() *Plane {
	out := NewPlane(p.W, p.H)
	copy(out.Pix, p.Pix)
	return out
}

// MinMax returns the smallest and largest sample values in the plane.
// An empty plane returns (0, 0).
func (p *Plane) MinMax() (min, max float64) {
	if len(p.Pix) == 0 {
		return 0, 0
	}
	min, max = p.Pix[0], p.Pix[0]
	for _, v := range p.Pix[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Normalize rescales all samples to the range [lo, hi] in place.
//
// A constant plane (max == min) is filled with lo. This mirrors the
// min-max normalization the frequency and wavelet demos apply before
// writing coefficient images.
func (p *Plane) Normalize(lo, hi float64) {
	min, max := p.MinMax()
	if max == min {
		for i := range p.Pix {
			p.Pix[i] = lo
		}
		return
	}
	scale := (hi - lo) / (max - min)
	for i, v := range p.Pix {
		p.Pix[i] = lo + (v-min)*scale
	}
}

// PadReplicate grows the plane to newW x newH by replicating the rightmost
// column and bottom row. It returns the plane unchanged when it already has
// the requested size, and an error when asked to shrink.
//
// The wavelet transform uses this to make dimensions divisible by
// 2^levels before decomposition.
func (p *Plane) PadReplicate(newW, newH int) (*Plane, error) {
	if newW < p.W || newH < p.H {
		return nil, fmt.Errorf("pad target %dx%d smaller than plane %dx%d", newW, newH, p.W, p.H)
	}
	if newW == p.W && newH == p.H {
		return p, nil
	}
	out := NewPlane(newW, newH)
	for y := 0; y < newH; y++ {
		for x := 0; x < newW; x++ {
			out.Set(x, y, p.AtClamped(x, y))
		}
	}
	return out, nil
}

// Crop returns a copy of the w x h region of the plane anchored at the
// top-left corner. Used to strip wavelet padding after reconstruction.
func (p *Plane) Crop(w, h int) (*Plane, error) {
	if w > p.W || h > p.H || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("crop %dx%d outside plane %dx%d", w, h, p.W, p.H)
	}
	out := NewPlane(w, h)
	for y := 0; y < h; y++ {
		copy(out.Pix[y*w:(y+1)*w], p.Pix[y*p.W:y*p.W+w])
	}
	return out, nil
}

// Luminance converts an image to a grayscale plane with values in [0, 255]
// using ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B).
func Luminance(img image.Image) *Plane {
	bounds := img.Bounds()
	out := NewPlane(bounds.Dx(), bounds.Dy())
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			out.Set(x, y, lum)
		}
	}
	return out
}

// Channels splits an image into three planes (R, G, B) with values in
// [0, 255].
func Channels(img image.Image) (r, g, b *Plane) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	r, g, b = NewPlane(w, h), NewPlane(w, h), NewPlane(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cr, cg, cb, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			r.Set(x, y, float64(cr>>8))
			g.Set(x, y, float64(cg>>8))
			b.Set(x, y, float64(cb>>8))
		}
	}
	return r, g, b
}

// GrayImage renders the plane as an 8-bit grayscale image, clipping samples
// to [0, 255]. Callers displaying coefficient planes should Normalize first.
func (p *Plane) GrayImage() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, p.W, p.H))
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			out.SetGray(x, y, color.Gray{Y: clip8(p.At(x, y))})
		}
	}
	return out
}

// MergeRGB composes three planes into an RGBA image, clipping each channel
// to [0, 255]. All planes must share dimensions.
func MergeRGB(r, g, b *Plane) (*image.RGBA, error) {
	if r.W != g.W || r.W != b.W || r.H != g.H || r.H != b.H {
		return nil, fmt.Errorf("channel dimensions differ: %dx%d, %dx%d, %dx%d",
			r.W, r.H, g.W, g.H, b.W, b.H)
	}
	out := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			out.SetRGBA(x, y, color.RGBA{
				R: clip8(r.At(x, y)),
				G: clip8(g.At(x, y)),
				B: clip8(b.At(x, y)),
				A: 255,
			})
		}
	}
	return out, nil
}

func clip8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
