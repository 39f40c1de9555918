package contour

import (
	"image"
	"math"
)

// Moments holds the spatial, central, and normalized central moments of
// a grayscale image up to third order.
type Moments struct {
	M00, M10, M01, M20, M11, M02, M30, M21, M12, M03 float64 // spatial
	Mu20, Mu11, Mu02, Mu30, Mu21, Mu12, Mu03         float64 // central
	Nu20, Nu11, Nu02, Nu30, Nu21, Nu12, Nu03         float64 // normalized
}

// ComputeMoments computes intensity-weighted moments of a grayscale
// image. For a binary image this measures the foreground shape scaled by
// its pixel value.
func ComputeMoments(img *image.Gray) Moments {
	var m Moments
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		fy := float64(y - bounds.Min.Y)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := float64(img.GrayAt(x, y).Y)
			if v == 0 {
				continue
			}
			fx := float64(x - bounds.Min.X)
			m.M00 += v
			m.M10 += fx * v
			m.M01 += fy * v
			m.M20 += fx * fx * v
			m.M11 += fx * fy * v
			m.M02 += fy * fy * v
			m.M30 += fx * fx * fx * v
			m.M21 += fx * fx * fy * v
			m.M12 += fx * fy * fy * v
			m.M03 += fy * fy * fy * v
		}
	}
	if m.M00 == 0 {
		return m
	}

	cx := m.M10 / m.M00
	cy := m.M01 / m.M00
	m.Mu20 = m.M20 - cx*m.M10
	m.Mu11 = m.M11 - cx*m.M01
	m.Mu02 = m.M02 - cy*m.M01
	m.Mu30 = m.M30 - 3*cx*m.M20 + 2*cx*cx*m.M10
	m.Mu21 = m.M21 - 2*cx*m.M11 - cy*m.M20 + 2*cx*cx*m.M01
	m.Mu12 = m.M12 - 2*cy*m.M11 - cx*m.M02 + 2*cy*cy*m.M10
	m.Mu03 = m.M03 - 3*cy*m.M02 + 2*cy*cy*m.M01

	s2 := m.M00 * m.M00
	s3 := s2 * math.Sqrt(m.M00)
	m.Nu20 = m.Mu20 / s2
	m.Nu11 = m.Mu11 / s2
	m.Nu02 = m.Mu02 / s2
	m.Nu30 = m.Mu30 / s3
	m.Nu21 = m.Mu21 / s3
	m.Nu12 = m.Mu12 / s3
	m.Nu03 = m.Mu03 / s3
	return m
}

// Centroid returns the center of mass. Ok is false when the image has no
// mass.
func (m Moments) Centroid() (x, y float64, ok bool) {
	if m.M00 == 0 {
		return 0, 0, false
	}
	return m.M10 / m.M00, m.M01 / m.M00, true
}

// Hu returns the seven Hu moment invariants, which are unchanged under
// translation, scale, and rotation of the shape.
func (m Moments) Hu() [7]float64 {
	n20, n11, n02 := m.Nu20, m.Nu11, m.Nu02
	n30, n21, n12, n03 := m.Nu30, m.Nu21, m.Nu12, m.Nu03

	t0 := n30 + n12
	t1 := n21 + n03

	var h [7]float64
	h[0] = n20 + n02
	h[1] = (n20-n02)*(n20-n02) + 4*n11*n11
	h[2] = (n30-3*n12)*(n30-3*n12) + (3*n21-n03)*(3*n21-n03)
	h[3] = t0*t0 + t1*t1
	h[4] = (n30-3*n12)*t0*(t0*t0-3*t1*t1) + (3*n21-n03)*t1*(3*t0*t0-t1*t1)
	h[5] = (n20-n02)*(t0*t0-t1*t1) + 4*n11*t0*t1
	h[6] = (3*n21-n03)*t0*(t0*t0-3*t1*t1) - (n30-3*n12)*t1*(3*t0*t0-t1*t1)
	return h
}
