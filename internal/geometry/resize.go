package geometry

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Resize scales an image to w x h with the given filter name: "nearest",
// "linear", or "lanczos". An empty name selects "linear".
func Resize(img image.Image, w, h int, filterName string) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("target size must be positive, got %dx%d", w, h)
	}
	var f imaging.ResampleFilter
	switch filterName {
	case "nearest":
		f = imaging.NearestNeighbor
	case "linear", "":
		f = imaging.Linear
	case "lanczos":
		f = imaging.Lanczos
	default:
		return nil, fmt.Errorf("unknown resize filter %q (want nearest, linear, or lanczos)", filterName)
	}
	return imaging.Resize(img, w, h, f), nil
}

// Scale resizes an image by a uniform factor.
func Scale(img image.Image, factor float64, filterName string) (*image.NRGBA, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("scale factor must be positive, got %g", factor)
	}
	bounds := img.Bounds()
	w := int(float64(bounds.Dx()) * factor)
	h := int(float64(bounds.Dy()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Resize(img, w, h, filterName)
}

// Rotate90 rotates an image counter-clockwise by a multiple of 90 degrees
// (90, 180, or 270).
func Rotate90(img image.Image, degrees int) (*image.NRGBA, error) {
	switch degrees {
	case 90:
		return imaging.Rotate90(img), nil
	case 180:
		return imaging.Rotate180(img), nil
	case 270:
		return imaging.Rotate270(img), nil
	}
	return nil, fmt.Errorf("rotation must be 90, 180, or 270 degrees, got %d", degrees)
}

// FlipH mirrors an image horizontally (around the vertical axis).
func FlipH(img image.Image) *image.NRGBA { return imaging.FlipH(img) }

// FlipV mirrors an image vertically (around the horizontal axis).
func FlipV(img image.Image) *image.NRGBA { return imaging.FlipV(img) }

// CropRect extracts a rectangular region. The rectangle must be non-empty
// and inside the image bounds.
func CropRect(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	if r.Empty() {
		return nil, fmt.Errorf("crop rectangle %v is empty", r)
	}
	if !r.In(img.Bounds()) {
		return nil, fmt.Errorf("crop rectangle %v outside image bounds %v", r, img.Bounds())
	}
	return imaging.Crop(img, r), nil
}
