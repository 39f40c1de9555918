package ml

import (
	"fmt"
	"image"
	"image/color"
)

// Classifier2D predicts a label for a 2D point, the contract used by
// the decision-region rasterizer.
type Classifier2D interface {
	Predict(x []float64) (int, error)
}

// ClassifierFunc adapts a plain prediction function to Classifier2D.
type ClassifierFunc func(x []float64) (int, error)

// Predict implements Classifier2D.
func (f ClassifierFunc) Predict(x []float64) (int, error) { return f(x) }

// regionPalette cycles for labels beyond its length.
var regionPalette = []color.RGBA{
	{R: 102, G: 153, B: 255, A: 255},
	{R: 255, G: 128, B: 128, A: 255},
	{R: 128, G: 221, B: 128, A: 255},
	{R: 255, G: 210, B: 120, A: 255},
	{R: 200, G: 150, B: 255, A: 255},
}

// DecisionRegions paints each pixel of a w x h image with the color of
// the label predicted at that point, mapping pixel coordinates through
// the given data-space extent. Negative labels index the palette by
// absolute value.
func DecisionRegions(c Classifier2D, w, h int, minX, maxX, minY, maxY float64) (*image.RGBA, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("image size %dx%d must be positive", w, h)
	}
	if maxX <= minX || maxY <= minY {
		return nil, fmt.Errorf("empty extent (%v, %v)-(%v, %v)", minX, minY, maxX, maxY)
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	pt := make([]float64, 2)
	for py := 0; py < h; py++ {
		pt[1] = minY + (maxY-minY)*float64(py)/float64(h)
		for px := 0; px < w; px++ {
			pt[0] = minX + (maxX-minX)*float64(px)/float64(w)
			label, err := c.Predict(pt)
			if err != nil {
				return nil, fmt.Errorf("decision regions at (%d, %d): %w", px, py, err)
			}
			if label < 0 {
				label = -label
			}
			out.SetRGBA(px, py, regionPalette[label%len(regionPalette)])
		}
	}
	return out, nil
}
