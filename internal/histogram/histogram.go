package histogram

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/pixelmill/govision/internal/colorspace"
)

// Bins is the number of intensity levels in an 8-bit histogram.
const Bins = 256

// Histogram counts pixel intensities of one 8-bit channel.
type Histogram [Bins]float64

// FromGray builds the histogram of a grayscale image.
func FromGray(img *image.Gray) Histogram {
	var h Histogram
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			h[img.GrayAt(x, y).Y]++
		}
	}
	return h
}

// FromChannel builds one histogram per RGB channel of an image.
func FromChannel(img image.Image) (r, g, b Histogram) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r[cr>>8]++
			g[cg>>8]++
			b[cb>>8]++
		}
	}
	return r, g, b
}

// Total returns the number of counted pixels.
func (h Histogram) Total() float64 {
	var sum float64
	for _, v := range h {
		sum += v
	}
	return sum
}

// Normalized returns the histogram scaled to sum to one. An empty
// histogram is returned unchanged.
func (h Histogram) Normalized() Histogram {
	total := h.Total()
	if total == 0 {
		return h
	}
	var out Histogram
	for i, v := range h {
		out[i] = v / total
	}
	return out
}

// CDF returns the cumulative distribution of the histogram, normalized so
// the final entry is one. An empty histogram yields all zeros.
func (h Histogram) CDF() [Bins]float64 {
	var cdf [Bins]float64
	cdf[0] = h[0]
	for i := 1; i < Bins; i++ {
		cdf[i] = cdf[i-1] + h[i]
	}
	if last := cdf[Bins-1]; last > 0 {
		for i := range cdf {
			cdf[i] /= last
		}
	}
	return cdf
}

// Equalize remaps a grayscale image so its intensities spread over the
// full range, using the standard CDF-based transfer function.
func Equalize(img *image.Gray) *image.Gray {
	lut := equalizeLUT(FromGray(img))
	return lut.ApplyGray(img)
}

// EqualizeRGB equalizes each channel of a color image independently, the
// per-channel variant of the equalization demo.
func EqualizeRGB(img image.Image) *image.RGBA {
	rh, gh, bh := FromChannel(img)
	luts := [3]colorspace.LUT{equalizeLUT(rh), equalizeLUT(gh), equalizeLUT(bh)}

	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			out.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{
				R: luts[0][r>>8],
				G: luts[1][g>>8],
				B: luts[2][b>>8],
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

// equalizeLUT builds the CDF transfer function, anchored at the lowest
// occupied level so the darkest pixel maps to zero.
func equalizeLUT(h Histogram) colorspace.LUT {
	cdf := h.CDF()
	var cdfMin float64
	for _, v := range cdf {
		if v > 0 {
			cdfMin = v
			break
		}
	}
	var lut colorspace.LUT
	if cdfMin >= 1 {
		// Single occupied level, equalization is the identity.
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}
	for i := range lut {
		v := (cdf[i] - cdfMin) / (1 - cdfMin) * 255
		if v < 0 {
			v = 0
		}
		lut[i] = uint8(math.Round(v))
	}
	return lut
}

// CompareMethod selects a histogram distance.
type CompareMethod int

const (
	// CompareCorrelation is the Pearson correlation of the two
	// histograms; identical histograms score 1.
	CompareCorrelation CompareMethod = iota
	// CompareChiSquare sums (a-b)²/a over occupied bins; identical
	// histograms score 0.
	CompareChiSquare
	// CompareIntersection sums min(a, b); higher means more similar.
	CompareIntersection
	// CompareBhattacharyya measures overlap of normalized histograms;
	// identical histograms score 0, disjoint ones 1.
	CompareBhattacharyya
)

// Compare computes a similarity or distance between two histograms using
// the given method, following the conventions of the comparison demo.
func Compare(a, b Histogram, method CompareMethod) (float64, error) {
	switch method {
	case CompareCorrelation:
		meanA := a.Total() / Bins
		meanB := b.Total() / Bins
		var num, denA, denB float64
		for i := 0; i < Bins; i++ {
			da := a[i] - meanA
			db := b[i] - meanB
			num += da * db
			denA += da * da
			denB += db * db
		}
		if denA == 0 || denB == 0 {
			return 0, fmt.Errorf("correlation undefined for constant histogram")
		}
		return num / math.Sqrt(denA*denB), nil

	case CompareChiSquare:
		var sum float64
		for i := 0; i < Bins; i++ {
			if a[i] > 0 {
				d := a[i] - b[i]
				sum += d * d / a[i]
			}
		}
		return sum, nil

	case CompareIntersection:
		var sum float64
		for i := 0; i < Bins; i++ {
			sum += math.Min(a[i], b[i])
		}
		return sum, nil

	case CompareBhattacharyya:
		na, nb := a.Normalized(), b.Normalized()
		// Hellinger form of the distance: each bin of two identical
		// histograms contributes exactly zero, where 1-sum(sqrt(na*nb))
		// leaves rounding residue that sqrt then amplifies.
		var sum float64
		for i := 0; i < Bins; i++ {
			d := math.Sqrt(na[i]) - math.Sqrt(nb[i])
			sum += d * d
		}
		if sum > 2 {
			sum = 2
		}
		return math.Sqrt(sum / 2), nil
	}
	return 0, fmt.Errorf("unknown comparison method %d", method)
}

// MatchLUT builds the lookup table that remaps intensities of the source
// histogram so its distribution approximates the reference: each source
// level j maps to the first reference level k whose CDF reaches the
// source CDF at j.
func MatchLUT(src, ref Histogram) colorspace.LUT {
	srcCDF := src.CDF()
	refCDF := ref.CDF()

	var lut colorspace.LUT
	last := 0
	for j := 0; j < Bins; j++ {
		target := srcCDF[j]
		k := last
		for k < Bins-1 && refCDF[k] < target-1e-9 {
			k++
		}
		lut[j] = uint8(k)
		last = k
	}
	return lut
}

// Match remaps a grayscale image so its histogram approximates that of
// the reference image.
func Match(src, ref *image.Gray) *image.Gray {
	lut := MatchLUT(FromGray(src), FromGray(ref))
	return lut.ApplyGray(src)
}
