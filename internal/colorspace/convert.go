package colorspace

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pixelmill/govision/internal/imgio"
)

// Sample reports the color at one pixel in several color spaces.
//
// RGB components are 8-bit. Hue is in degrees [0, 360), saturation and
// value in [0, 1]. Lab and XYZ follow the go-colorful conventions (D65
// reference white).
type Sample struct {
	Hex   string  `json:"hex"` // "#RRGGBB"
	R     uint8   `json:"r"`
	G     uint8   `json:"g"`
	B     uint8   `json:"b"`
	H     float64 `json:"h"`
	S     float64 `json:"s"`
	V     float64 `json:"v"`
	L     float64 `json:"l"`
	LabA  float64 `json:"lab_a"`
	LabB  float64 `json:"lab_b"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	GrayY float64 `json:"gray"` // BT.601 luminance, 0-255
}

// SampleAt reads the pixel at (x, y) and converts it to HSV, Lab, and XYZ.
// Coordinates outside the image bounds are an error.
func SampleAt(img image.Image, x, y int) (*Sample, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	r, g, b, _ := img.At(x, y).RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)

	c := colorful.Color{R: float64(r8) / 255, G: float64(g8) / 255, B: float64(b8) / 255}
	h, s, v := c.Hsv()
	l, la, lb := c.Lab()
	cx, cy, cz := c.Xyz()

	return &Sample{
		Hex:   fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		R:     r8,
		G:     g8,
		B:     b8,
		H:     h,
		S:     s,
		V:     v,
		L:     l,
		LabA:  la,
		LabB:  lb,
		X:     cx,
		Y:     cy,
		Z:     cz,
		GrayY: 0.299*float64(r8) + 0.587*float64(g8) + 0.114*float64(b8),
	}, nil
}

// HSVPlanes decomposes an image into hue, saturation, and value planes.
// Hue is in degrees [0, 360), saturation and value in [0, 1].
func HSVPlanes(img image.Image) (h, s, v *imgio.Plane) {
	bounds := img.Bounds()
	w, ht := bounds.Dx(), bounds.Dy()
	h, s, v = imgio.NewPlane(w, ht), imgio.NewPlane(w, ht), imgio.NewPlane(w, ht)
	for y := 0; y < ht; y++ {
		for x := 0; x < w; x++ {
			cr, cg, cb, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			c := colorful.Color{
				R: float64(cr>>8) / 255,
				G: float64(cg>>8) / 255,
				B: float64(cb>>8) / 255,
			}
			ch, cs, cv := c.Hsv()
			h.Set(x, y, ch)
			s.Set(x, y, cs)
			v.Set(x, y, cv)
		}
	}
	return h, s, v
}

// LabPlanes decomposes an image into CIE Lab planes (D65 reference white).
func LabPlanes(img image.Image) (l, a, b *imgio.Plane) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	l, a, b = imgio.NewPlane(w, h), imgio.NewPlane(w, h), imgio.NewPlane(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cr, cg, cb, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			c := colorful.Color{
				R: float64(cr>>8) / 255,
				G: float64(cg>>8) / 255,
				B: float64(cb>>8) / 255,
			}
			cl, ca, cbb := c.Lab()
			l.Set(x, y, cl)
			a.Set(x, y, ca)
			b.Set(x, y, cbb)
		}
	}
	return l, a, b
}

// HSVImage rebuilds an RGBA image from hue, saturation, and value planes.
// All planes must share dimensions.
func HSVImage(h, s, v *imgio.Plane) (*image.RGBA, error) {
	if h.W != s.W || h.W != v.W || h.H != s.H || h.H != v.H {
		return nil, fmt.Errorf("plane dimensions differ: %dx%d, %dx%d, %dx%d",
			h.W, h.H, s.W, s.H, v.W, v.H)
	}
	out := image.NewRGBA(image.Rect(0, 0, h.W, h.H))
	for y := 0; y < h.H; y++ {
		for x := 0; x < h.W; x++ {
			c := colorful.Hsv(h.At(x, y), s.At(x, y), v.At(x, y))
			r8, g8, b8 := c.Clamped().RGB255()
			out.SetRGBA(x, y, color.RGBA{R: r8, G: g8, B: b8, A: 255})
		}
	}
	return out, nil
}

// Grayscale converts an image to an 8-bit grayscale image using BT.601
// luminance weights.
func Grayscale(img image.Image) *image.Gray {
	return imgio.Luminance(img).GrayImage()
}
