package filter

import (
	"fmt"

	"github.com/pixelmill/govision/internal/imgio"
)

// Kernel is a convolution kernel with odd dimensions.
type Kernel struct {
	W, H int
	Data []float64 // Row-major weights, len == W*H
}

// NewKernel validates and wraps kernel weights. Both dimensions must be
// odd and the weight count must match.
func NewKernel(w, h int, data []float64) (*Kernel, error) {
	if w%2 == 0 || h%2 == 0 || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("kernel size must be odd and positive, got %dx%d", w, h)
	}
	if len(data) != w*h {
		return nil, fmt.Errorf("kernel needs %d weights, got %d", w*h, len(data))
	}
	return &Kernel{W: w, H: h, Data: data}, nil
}

// At returns the weight at kernel position (kx, ky).
func (k *Kernel) At(kx, ky int) float64 { return k.Data[ky*k.W+kx] }

// SobelX returns the 3x3 horizontal-gradient Sobel kernel.
func SobelX() *Kernel {
	return &Kernel{W: 3, H: 3, Data: []float64{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	}}
}

// SobelY returns the 3x3 vertical-gradient Sobel kernel.
func SobelY() *Kernel {
	return &Kernel{W: 3, H: 3, Data: []float64{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	}}
}

// Laplacian returns the 3x3 4-connected Laplacian kernel.
func Laplacian() *Kernel {
	return &Kernel{W: 3, H: 3, Data: []float64{
		0, 1, 0,
		1, -4, 1,
		0, 1, 0,
	}}
}

// Sharpen returns the 3x3 sharpening kernel from the neighborhood demo.
func Sharpen() *Kernel {
	return &Kernel{W: 3, H: 3, Data: []float64{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	}}
}

// GaussianKernel builds a normalized size x size Gaussian kernel. Size must
// be odd; sigma must be positive.
func GaussianKernel(size int, sigma float64) (*Kernel, error) {
	if size%2 == 0 || size <= 0 {
		return nil, fmt.Errorf("kernel size must be odd and positive, got %d", size)
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("sigma must be positive, got %g", sigma)
	}
	data := make([]float64, size*size)
	half := size / 2
	sum := 0.0
	for y := -half; y <= half; y++ {
		for x := -half; x <= half; x++ {
			v := gauss2(float64(x), float64(y), sigma)
			data[(y+half)*size+(x+half)] = v
			sum += v
		}
	}
	for i := range data {
		data[i] /= sum
	}
	return &Kernel{W: size, H: size, Data: data}, nil
}

// Convolve applies the kernel to a plane with replicated borders,
// returning a new plane of the same size. This is the filter2D equivalent
// used by the neighborhood and Sobel demos.
func Convolve(p *imgio.Plane, k *Kernel) *imgio.Plane {
	out := imgio.NewPlane(p.W, p.H)
	halfW, halfH := k.W/2, k.H/2
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var sum float64
			for ky := -halfH; ky <= halfH; ky++ {
				for kx := -halfW; kx <= halfW; kx++ {
					sum += p.AtClamped(x+kx, y+ky) * k.At(kx+halfW, ky+halfH)
				}
			}
			out.Set(x, y, sum)
		}
	}
	return out
}
