package colorspace

import (
	"fmt"
	"image"
	"image/color"
)

// LogicOp selects a bitwise operation between two grayscale images.
type LogicOp int

const (
	OpAnd LogicOp = iota
	OpOr
	OpXor
)

// Logic combines two grayscale images pixel-by-pixel with a bitwise
// operation. Both images must have identical dimensions.
//
// The inputs are typically binary masks (0 or 255), but the operation is
// defined on all 8-bit values.
func Logic(a, b *image.Gray, op LogicOp) (*image.Gray, error) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return nil, fmt.Errorf("images must have identical dimensions: %dx%d vs %dx%d",
			ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy())
	}

	out := image.NewGray(image.Rect(0, 0, ab.Dx(), ab.Dy()))
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			va := a.GrayAt(x+ab.Min.X, y+ab.Min.Y).Y
			vb := b.GrayAt(x+bb.Min.X, y+bb.Min.Y).Y
			var v uint8
			switch op {
			case OpAnd:
				v = va & vb
			case OpOr:
				v = va | vb
			case OpXor:
				v = va ^ vb
			default:
				return nil, fmt.Errorf("unknown logic operation %d", op)
			}
			out.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return out, nil
}

// Not inverts every pixel of a grayscale image.
func Not(img *image.Gray) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: ^img.GrayAt(x, y).Y})
		}
	}
	return out
}
