package edges

import (
	"math"

	"github.com/pixelmill/govision/internal/filter"
	"github.com/pixelmill/govision/internal/imgio"
)

// Gradients holds the Sobel derivative planes of an image.
type Gradients struct {
	X         *imgio.Plane // Horizontal derivative
	Y         *imgio.Plane // Vertical derivative
	Magnitude *imgio.Plane // sqrt(X² + Y²)
	Direction *imgio.Plane // atan2(Y, X) in radians
}

// Sobel computes the horizontal and vertical Sobel derivatives of a
// grayscale plane along with gradient magnitude and direction.
func Sobel(p *imgio.Plane) *Gradients {
	gx := filter.Convolve(p, filter.SobelX())
	gy := filter.Convolve(p, filter.SobelY())

	mag := imgio.NewPlane(p.W, p.H)
	dir := imgio.NewPlane(p.W, p.H)
	for i := range mag.Pix {
		x, y := gx.Pix[i], gy.Pix[i]
		mag.Pix[i] = math.Sqrt(x*x + y*y)
		dir.Pix[i] = math.Atan2(y, x)
	}

	return &Gradients{X: gx, Y: gy, Magnitude: mag, Direction: dir}
}

// Laplacian computes the 4-connected Laplacian of a grayscale plane.
func Laplacian(p *imgio.Plane) *imgio.Plane {
	return filter.Convolve(p, filter.Laplacian())
}

// ScaleAbs maps a derivative plane to displayable [0, 255] values by
// taking absolute values scaled by alpha and clipping, mirroring the
// convertScaleAbs step of the Sobel demo.
func ScaleAbs(p *imgio.Plane, alpha float64) *imgio.Plane {
	out := imgio.NewPlane(p.W, p.H)
	for i, v := range p.Pix {
		a := math.Abs(v) * alpha
		if a > 255 {
			a = 255
		}
		out.Pix[i] = a
	}
	return out
}
