package morphology

import "image"

// Erode replaces each pixel by the minimum over the structuring element
// neighborhood. Out-of-bounds samples replicate the edge.
func Erode(img *image.Gray, se *StructuringElement) *image.Gray {
	return reduce(img, se, func(a, b uint8) uint8 {
		if b < a {
			return b
		}
		return a
	})
}

// Dilate replaces each pixel by the maximum over the structuring element
// neighborhood.
func Dilate(img *image.Gray, se *StructuringElement) *image.Gray {
	return reduce(img, se, func(a, b uint8) uint8 {
		if b > a {
			return b
		}
		return a
	})
}

func reduce(img *image.Gray, se *StructuringElement, pick func(a, b uint8) uint8) *image.Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	offs := se.offsets()

	at := func(x, y int) uint8 {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return img.Pix[y*img.Stride+x]
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := at(x+offs[0][0], y+offs[0][1])
			for _, o := range offs[1:] {
				acc = pick(acc, at(x+o[0], y+o[1]))
			}
			out.Pix[y*out.Stride+x] = acc
		}
	}
	return out
}

// Open erodes then dilates, removing small bright specks.
func Open(img *image.Gray, se *StructuringElement) *image.Gray {
	return Dilate(Erode(img, se), se)
}

// Close dilates then erodes, filling small dark gaps.
func Close(img *image.Gray, se *StructuringElement) *image.Gray {
	return Erode(Dilate(img, se), se)
}

// Gradient is the difference between dilation and erosion, an outline of
// intensity edges.
func Gradient(img *image.Gray, se *StructuringElement) *image.Gray {
	return subtract(Dilate(img, se), Erode(img, se))
}

// TopHat is the difference between the image and its opening, keeping
// bright details smaller than the structuring element.
func TopHat(img *image.Gray, se *StructuringElement) *image.Gray {
	return subtract(img, Open(img, se))
}

// BlackHat is the difference between the closing and the image, keeping
// dark details smaller than the structuring element.
func BlackHat(img *image.Gray, se *StructuringElement) *image.Gray {
	return subtract(Close(img, se), img)
}

func subtract(a, b *image.Gray) *image.Gray {
	w := a.Bounds().Dx()
	h := a.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			va := int(a.Pix[y*a.Stride+x])
			vb := int(b.Pix[y*b.Stride+x])
			d := va - vb
			if d < 0 {
				d = 0
			}
			out.Pix[y*out.Stride+x] = uint8(d)
		}
	}
	return out
}
