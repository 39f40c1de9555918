package morphology

import "fmt"

// Shape selects the structuring element geometry.
type Shape int

const (
	// Rect is a filled rectangle.
	Rect Shape = iota
	// Cross is a plus sign through the anchor.
	Cross
	// Ellipse is a filled ellipse inscribed in the kernel rectangle.
	Ellipse
)

// ParseShape maps "rect", "cross", or "ellipse" to its shape.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "rect":
		return Rect, nil
	case "cross":
		return Cross, nil
	case "ellipse":
		return Ellipse, nil
	}
	return 0, fmt.Errorf("unknown structuring element shape %q", name)
}

// StructuringElement is a binary neighborhood mask anchored at its
// center.
type StructuringElement struct {
	W, H int
	Mask []bool
}

// NewStructuringElement builds a mask of the given shape and odd size.
func NewStructuringElement(shape Shape, w, h int) (*StructuringElement, error) {
	if w < 1 || h < 1 || w%2 == 0 || h%2 == 0 {
		return nil, fmt.Errorf("structuring element size must be odd and positive, got %dx%d", w, h)
	}
	se := &StructuringElement{W: w, H: h, Mask: make([]bool, w*h)}
	cx, cy := w/2, h/2
	switch shape {
	case Rect:
		for i := range se.Mask {
			se.Mask[i] = true
		}
	case Cross:
		for x := 0; x < w; x++ {
			se.Mask[cy*w+x] = true
		}
		for y := 0; y < h; y++ {
			se.Mask[y*w+cx] = true
		}
	case Ellipse:
		rx, ry := float64(cx), float64(cy)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dx := (float64(x) - rx) / (rx + 0.5)
				dy := (float64(y) - ry) / (ry + 0.5)
				if dx*dx+dy*dy <= 1 {
					se.Mask[y*w+x] = true
				}
			}
		}
	default:
		return nil, fmt.Errorf("unknown structuring element shape %d", shape)
	}
	return se, nil
}

// offsets returns the set coordinates relative to the anchor.
func (se *StructuringElement) offsets() [][2]int {
	var offs [][2]int
	cx, cy := se.W/2, se.H/2
	for y := 0; y < se.H; y++ {
		for x := 0; x < se.W; x++ {
			if se.Mask[y*se.W+x] {
				offs = append(offs, [2]int{x - cx, y - cy})
			}
		}
	}
	return offs
}
