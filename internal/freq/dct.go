package freq

import (
	"fmt"
	"math"

	"github.com/pixelmill/govision/internal/imgio"
)

// dctBasis precomputes the orthonormal DCT-II basis for length n:
// basis[k][i] = s(k) * cos(pi*(2i+1)*k / (2n)), with s(0)=sqrt(1/n) and
// s(k)=sqrt(2/n) otherwise. The matrix is orthogonal, so its transpose is
// the inverse (DCT-III).
func dctBasis(n int) [][]float64 {
	basis := make([][]float64, n)
	for k := 0; k < n; k++ {
		basis[k] = make([]float64, n)
		scale := math.Sqrt(2 / float64(n))
		if k == 0 {
			scale = math.Sqrt(1 / float64(n))
		}
		for i := 0; i < n; i++ {
			basis[k][i] = scale * math.Cos(math.Pi*float64(2*i+1)*float64(k)/float64(2*n))
		}
	}
	return basis
}

// DCT computes the orthonormal 2D DCT-II of a plane, applied separably to
// rows then columns.
func DCT(p *imgio.Plane) (*imgio.Plane, error) {
	if p.W == 0 || p.H == 0 {
		return nil, fmt.Errorf("empty plane")
	}
	rowBasis := dctBasis(p.W)
	colBasis := dctBasis(p.H)

	// Rows.
	tmp := imgio.NewPlane(p.W, p.H)
	for y := 0; y < p.H; y++ {
		for k := 0; k < p.W; k++ {
			var sum float64
			for i := 0; i < p.W; i++ {
				sum += p.At(i, y) * rowBasis[k][i]
			}
			tmp.Set(k, y, sum)
		}
	}
	// Columns.
	out := imgio.NewPlane(p.W, p.H)
	for x := 0; x < p.W; x++ {
		for k := 0; k < p.H; k++ {
			var sum float64
			for i := 0; i < p.H; i++ {
				sum += tmp.At(x, i) * colBasis[k][i]
			}
			out.Set(x, k, sum)
		}
	}
	return out, nil
}

// IDCT inverts DCT. Because the basis is orthonormal, this is the
// transposed multiply.
func IDCT(coeffs *imgio.Plane) (*imgio.Plane, error) {
	if coeffs.W == 0 || coeffs.H == 0 {
		return nil, fmt.Errorf("empty plane")
	}
	rowBasis := dctBasis(coeffs.W)
	colBasis := dctBasis(coeffs.H)

	// Columns first (inverse of the forward order; either order works for
	// a separable transform).
	tmp := imgio.NewPlane(coeffs.W, coeffs.H)
	for x := 0; x < coeffs.W; x++ {
		for i := 0; i < coeffs.H; i++ {
			var sum float64
			for k := 0; k < coeffs.H; k++ {
				sum += coeffs.At(x, k) * colBasis[k][i]
			}
			tmp.Set(x, i, sum)
		}
	}
	out := imgio.NewPlane(coeffs.W, coeffs.H)
	for y := 0; y < coeffs.H; y++ {
		for i := 0; i < coeffs.W; i++ {
			var sum float64
			for k := 0; k < coeffs.W; k++ {
				sum += tmp.At(k, y) * rowBasis[k][i]
			}
			out.Set(i, y, sum)
		}
	}
	return out, nil
}

// Compress zeroes all DCT coefficients outside the top-left keepFraction
// of each dimension and reconstructs the image, the compression experiment
// of the cosine demo. keepFraction must be in (0, 1].
//
// Returns the reconstruction and the fraction of coefficients kept.
func Compress(p *imgio.Plane, keepFraction float64) (*imgio.Plane, float64, error) {
	if keepFraction <= 0 || keepFraction > 1 {
		return nil, 0, fmt.Errorf("keepFraction must be in (0, 1], got %g", keepFraction)
	}
	coeffs, err := DCT(p)
	if err != nil {
		return nil, 0, err
	}

	keepW := int(math.Ceil(float64(p.W) * keepFraction))
	keepH := int(math.Ceil(float64(p.H) * keepFraction))
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			if x >= keepW || y >= keepH {
				coeffs.Set(x, y, 0)
			}
		}
	}

	rec, err := IDCT(coeffs)
	if err != nil {
		return nil, 0, err
	}
	kept := float64(keepW*keepH) / float64(p.W*p.H)
	return rec, kept, nil
}
