package freq

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/pixelmill/govision/internal/imgio"
)

// Spectrum is a 2D complex frequency representation of an image plane.
//
// OrigW and OrigH remember the pre-padding plane size so the inverse
// transform can crop the reconstruction back to it.
type Spectrum struct {
	W, H         int
	OrigW, OrigH int
	Data         []complex128 // Row-major, len == W*H
}

// At returns the coefficient at (x, y).
func (s *Spectrum) At(x, y int) complex128 { return s.Data[y*s.W+x] }

// Set stores a coefficient at (x, y).
func (s *Spectrum) Set(x, y int, v complex128) { s.Data[y*s.W+x] = v }

// Clone returns a deep copy of the spectrum.
func (s *Spectrum) Clone() *Spectrum {
	out := &Spectrum{W: s.W, H: s.H, OrigW: s.OrigW, OrigH: s.OrigH,
		Data: make([]complex128, len(s.Data))}
	copy(out.Data, s.Data)
	return out
}

// OptimalSize returns the smallest power of two >= n, the transform sizes
// the FFT backend accepts.
func OptimalSize(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// DFT computes the 2D discrete Fourier transform of a plane. The plane is
// zero-padded to optimal (power-of-two) dimensions first.
func DFT(p *imgio.Plane) (*Spectrum, error) {
	if p.W == 0 || p.H == 0 {
		return nil, fmt.Errorf("empty plane")
	}
	w := OptimalSize(p.W)
	h := OptimalSize(p.H)

	s := &Spectrum{W: w, H: h, OrigW: p.W, OrigH: p.H, Data: make([]complex128, w*h)}
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			s.Set(x, y, complex(p.At(x, y), 0))
		}
	}

	if err := transform2D(s, false); err != nil {
		return nil, err
	}
	return s, nil
}

// IDFT computes the inverse transform and returns the real part cropped to
// the original plane size. The backend's inverse is normalized, so
// DFT followed by IDFT reproduces the input.
func IDFT(s *Spectrum) (*imgio.Plane, error) {
	work := s.Clone()
	if err := transform2D(work, true); err != nil {
		return nil, err
	}

	out := imgio.NewPlane(s.OrigW, s.OrigH)
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			out.Set(x, y, real(work.At(x, y)))
		}
	}
	return out, nil
}

// transform2D runs 1D FFTs over every row, then every column, in place.
func transform2D(s *Spectrum, inverse bool) error {
	rowPlan, err := algofft.NewPlan64(s.W)
	if err != nil {
		return fmt.Errorf("failed to create row FFT plan: %w", err)
	}
	rowOut := make([]complex128, s.W)
	for y := 0; y < s.H; y++ {
		row := s.Data[y*s.W : (y+1)*s.W]
		if inverse {
			err = rowPlan.Inverse(rowOut, row)
		} else {
			err = rowPlan.Forward(rowOut, row)
		}
		if err != nil {
			return err
		}
		copy(row, rowOut)
	}

	colPlan, err := algofft.NewPlan64(s.H)
	if err != nil {
		return fmt.Errorf("failed to create column FFT plan: %w", err)
	}
	colIn := make([]complex128, s.H)
	colOut := make([]complex128, s.H)
	for x := 0; x < s.W; x++ {
		for y := 0; y < s.H; y++ {
			colIn[y] = s.At(x, y)
		}
		if inverse {
			err = colPlan.Inverse(colOut, colIn)
		} else {
			err = colPlan.Forward(colOut, colIn)
		}
		if err != nil {
			return err
		}
		for y := 0; y < s.H; y++ {
			s.Set(x, y, colOut[y])
		}
	}
	return nil
}

// Shift swaps the spectrum quadrants so the zero frequency sits at the
// center, the conventional layout for spectrum display.
func Shift(s *Spectrum) {
	halfW, halfH := s.W/2, s.H/2
	for y := 0; y < halfH; y++ {
		for x := 0; x < halfW; x++ {
			// Top-left <-> bottom-right, top-right <-> bottom-left.
			s.Data[y*s.W+x], s.Data[(y+halfH)*s.W+x+halfW] =
				s.Data[(y+halfH)*s.W+x+halfW], s.Data[y*s.W+x]
			s.Data[y*s.W+x+halfW], s.Data[(y+halfH)*s.W+x] =
				s.Data[(y+halfH)*s.W+x], s.Data[y*s.W+x+halfW]
		}
	}
}

// LogMagnitude renders log(1 + |F|) normalized to [0, 255], the standard
// spectrum visualization.
func LogMagnitude(s *Spectrum) *imgio.Plane {
	out := imgio.NewPlane(s.W, s.H)
	for i, c := range s.Data {
		re, im := real(c), imag(c)
		out.Pix[i] = math.Log1p(math.Sqrt(re*re + im*im))
	}
	out.Normalize(0, 255)
	return out
}

// FilterIdeal zeroes coefficients outside (low-pass) or inside (high-pass)
// a circle of the given radius around the zero frequency. The spectrum must
// be in natural (unshifted) layout; the distance accounts for wrap-around.
func FilterIdeal(s *Spectrum, radius float64, highPass bool) error {
	if radius <= 0 {
		return fmt.Errorf("radius must be positive, got %g", radius)
	}
	for y := 0; y < s.H; y++ {
		for x := 0; x < s.W; x++ {
			// Wrapped distance from DC.
			dx := x
			if dx > s.W/2 {
				dx = s.W - x
			}
			dy := y
			if dy > s.H/2 {
				dy = s.H - y
			}
			d := math.Sqrt(float64(dx*dx + dy*dy))
			if (highPass && d <= radius) || (!highPass && d > radius) {
				s.Set(x, y, 0)
			}
		}
	}
	return nil
}
