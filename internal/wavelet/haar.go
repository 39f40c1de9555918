package wavelet

import (
	"fmt"

	"github.com/pixelmill/govision/internal/imgio"
)

// Forward computes the 2D Haar wavelet transform of a plane over the given
// number of decomposition levels.
//
// For each 2x2 block (a b / c d), the level writes:
//
//	LL = (a + b + c + d) * 0.5
//	LH = (a + c - b - d) * 0.5
//	HL = (a + b - c - d) * 0.5
//	HH = (a - b - c + d) * 0.5
//
// Subsequent levels recurse into the LL quadrant. Plane dimensions must be
// divisible by 2^levels; see Pad.
func Forward(p *imgio.Plane, levels int) (*imgio.Plane, error) {
	if err := checkDims(p, levels); err != nil {
		return nil, err
	}

	src := p.Clone()
	dst := p.Clone()
	for k := 0; k < levels; k++ {
		halfW := p.W >> (k + 1)
		halfH := p.H >> (k + 1)
		for y := 0; y < halfH; y++ {
			for x := 0; x < halfW; x++ {
				p00 := src.At(2*x, 2*y)
				p01 := src.At(2*x+1, 2*y)
				p10 := src.At(2*x, 2*y+1)
				p11 := src.At(2*x+1, 2*y+1)

				dst.Set(x, y, (p00+p01+p10+p11)*0.5)
				dst.Set(x+halfW, y, (p00+p10-p01-p11)*0.5)
				dst.Set(x, y+halfH, (p00+p01-p10-p11)*0.5)
				dst.Set(x+halfW, y+halfH, (p00-p01-p10+p11)*0.5)
			}
		}
		// The next level reads the LL quadrant just written.
		copy(src.Pix, dst.Pix)
	}
	return dst, nil
}

// Inverse reconstructs a plane from Haar coefficients, optionally shrinking
// detail coefficients with the given rule before each level's
// reconstruction. The approximation band is never shrunk.
func Inverse(coeffs *imgio.Plane, levels int, shrink Shrinkage, threshold float64) (*imgio.Plane, error) {
	if err := checkDims(coeffs, levels); err != nil {
		return nil, err
	}
	if threshold < 0 {
		return nil, fmt.Errorf("threshold must be non-negative, got %g", threshold)
	}
	fn, err := shrink.fn()
	if err != nil {
		return nil, err
	}

	src := coeffs.Clone()
	dst := imgio.NewPlane(coeffs.W, coeffs.H)
	for k := levels; k > 0; k-- {
		halfW := coeffs.W >> k
		halfH := coeffs.H >> k
		for y := 0; y < halfH; y++ {
			for x := 0; x < halfW; x++ {
				c := src.At(x, y)
				dh := src.At(x+halfW, y)
				dv := src.At(x, y+halfH)
				dd := src.At(x+halfW, y+halfH)

				if fn != nil {
					dh = fn(dh, threshold)
					dv = fn(dv, threshold)
					dd = fn(dd, threshold)
				}

				dst.Set(2*x, 2*y, 0.5*(c+dh+dv+dd))
				dst.Set(2*x+1, 2*y, 0.5*(c-dh+dv-dd))
				dst.Set(2*x, 2*y+1, 0.5*(c+dh-dv-dd))
				dst.Set(2*x+1, 2*y+1, 0.5*(c-dh-dv+dd))
			}
		}
		// Promote the reconstructed region so the next (finer) level reads it
		// as its approximation band.
		recW := coeffs.W >> (k - 1)
		recH := coeffs.H >> (k - 1)
		for y := 0; y < recH; y++ {
			copy(src.Pix[y*src.W:y*src.W+recW], dst.Pix[y*dst.W:y*dst.W+recW])
		}
	}
	return dst, nil
}

// Pad grows a plane with replicated borders so both dimensions are
// divisible by 2^levels, returning the plane unchanged when they already
// are.
func Pad(p *imgio.Plane, levels int) (*imgio.Plane, error) {
	if levels <= 0 {
		return nil, fmt.Errorf("levels must be positive, got %d", levels)
	}
	divisor := 1 << levels
	newW := (p.W + divisor - 1) / divisor * divisor
	newH := (p.H + divisor - 1) / divisor * divisor
	return p.PadReplicate(newW, newH)
}

// Denoise runs the full pipeline of the wavelet demo: pad, forward
// transform, inverse transform with shrinkage, then crop back to the input
// size. It also returns the (padded) coefficient plane for inspection.
func Denoise(p *imgio.Plane, levels int, shrink Shrinkage, threshold float64) (denoised, coeffs *imgio.Plane, err error) {
	padded, err := Pad(p, levels)
	if err != nil {
		return nil, nil, err
	}
	coeffs, err = Forward(padded, levels)
	if err != nil {
		return nil, nil, err
	}
	rec, err := Inverse(coeffs, levels, shrink, threshold)
	if err != nil {
		return nil, nil, err
	}
	denoised, err = rec.Crop(p.W, p.H)
	if err != nil {
		return nil, nil, err
	}
	return denoised, coeffs, nil
}

func checkDims(p *imgio.Plane, levels int) error {
	if levels <= 0 {
		return fmt.Errorf("levels must be positive, got %d", levels)
	}
	divisor := 1 << levels
	if p.W%divisor != 0 || p.H%divisor != 0 {
		return fmt.Errorf("plane %dx%d not divisible by 2^%d; pad it first", p.W, p.H, levels)
	}
	if p.W < divisor || p.H < divisor {
		return fmt.Errorf("plane %dx%d too small for %d levels", p.W, p.H, levels)
	}
	return nil
}
