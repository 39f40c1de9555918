package contour

import (
	"fmt"
	"image"
)

// ThresholdType selects how pixels are remapped around the threshold.
type ThresholdType int

const (
	// ThreshBinary maps pixels above the threshold to maxValue and the
	// rest to zero.
	ThreshBinary ThresholdType = iota
	// ThreshBinaryInv maps pixels above the threshold to zero and the
	// rest to maxValue.
	ThreshBinaryInv
	// ThreshTrunc caps pixels at the threshold value.
	ThreshTrunc
	// ThreshToZero keeps pixels above the threshold and zeroes the rest.
	ThreshToZero
	// ThreshToZeroInv zeroes pixels above the threshold and keeps the
	// rest.
	ThreshToZeroInv
)

// ParseThresholdType maps a name like "binary" or "tozero-inv" to its
// type.
func ParseThresholdType(name string) (ThresholdType, error) {
	switch name {
	case "binary":
		return ThreshBinary, nil
	case "binary-inv":
		return ThreshBinaryInv, nil
	case "trunc":
		return ThreshTrunc, nil
	case "tozero":
		return ThreshToZero, nil
	case "tozero-inv":
		return ThreshToZeroInv, nil
	}
	return 0, fmt.Errorf("unknown threshold type %q", name)
}

// Threshold applies a fixed threshold to a grayscale image.
func Threshold(img *image.Gray, thresh, maxValue uint8, typ ThresholdType) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := img.GrayAt(x, y).Y
			var o uint8
			switch typ {
			case ThreshBinary:
				if v > thresh {
					o = maxValue
				}
			case ThreshBinaryInv:
				if v <= thresh {
					o = maxValue
				}
			case ThreshTrunc:
				o = v
				if v > thresh {
					o = thresh
				}
			case ThreshToZero:
				if v > thresh {
					o = v
				}
			case ThreshToZeroInv:
				if v <= thresh {
					o = v
				}
			}
			out.Pix[(y-bounds.Min.Y)*out.Stride+(x-bounds.Min.X)] = o
		}
	}
	return out
}

// OtsuThreshold finds the threshold that maximizes between-class
// variance of the image histogram and returns it along with the
// binarized image.
func OtsuThreshold(img *image.Gray, maxValue uint8) (uint8, *image.Gray) {
	var hist [256]float64
	bounds := img.Bounds()
	total := float64(bounds.Dx() * bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[img.GrayAt(x, y).Y]++
		}
	}

	var sumAll float64
	for i, v := range hist {
		sumAll += float64(i) * v
	}

	var (
		sumBack, wBack float64
		bestVar        float64
		best           uint8
	)
	for t := 0; t < 256; t++ {
		wBack += hist[t]
		if wBack == 0 {
			continue
		}
		wFore := total - wBack
		if wFore == 0 {
			break
		}
		sumBack += float64(t) * hist[t]
		meanBack := sumBack / wBack
		meanFore := (sumAll - sumBack) / wFore
		d := meanBack - meanFore
		between := wBack * wFore * d * d
		if between > bestVar {
			bestVar = between
			best = uint8(t)
		}
	}
	return best, Threshold(img, best, maxValue, ThreshBinary)
}
