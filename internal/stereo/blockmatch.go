package stereo

import (
	"fmt"
	"image"
	"math"

	"github.com/pixelmill/govision/internal/imgio"
)

// MatcherConfig tunes the block matcher.
type MatcherConfig struct {
	// BlockSize is the odd window width in pixels.
	BlockSize int `json:"block_size"`
	// NumDisparities is the search range; disparities run from 0 to
	// NumDisparities-1.
	NumDisparities int `json:"num_disparities"`
	// TextureThreshold rejects windows whose intensity variation is too
	// low to match reliably. Zero disables the check.
	TextureThreshold float64 `json:"texture_threshold"`
	// UniquenessRatio rejects matches whose best cost is not at least
	// this percentage better than the runner-up. Zero disables.
	UniquenessRatio float64 `json:"uniqueness_ratio"`
}

// DefaultMatcherConfig mirrors the usual block-matcher defaults.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		BlockSize:        9,
		NumDisparities:   64,
		TextureThreshold: 10,
		UniquenessRatio:  15,
	}
}

func (c MatcherConfig) validate() error {
	if c.BlockSize < 3 || c.BlockSize%2 == 0 {
		return fmt.Errorf("block size must be odd and at least 3, got %d", c.BlockSize)
	}
	if c.NumDisparities < 1 {
		return fmt.Errorf("disparity range must be positive, got %d", c.NumDisparities)
	}
	return nil
}

// DisparityMap is the per-pixel horizontal offset between the rectified
// left and right images. Invalid pixels hold -1.
type DisparityMap struct {
	W, H int
	Data []float64
}

// At returns the disparity at (x, y).
func (d *DisparityMap) At(x, y int) float64 { return d.Data[y*d.W+x] }

// Match computes the disparity of each left-image pixel by sliding a
// SAD window across the corresponding right-image row. Left and right
// must be rectified and the same size.
func Match(left, right *image.Gray, cfg MatcherConfig) (*DisparityMap, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if !left.Bounds().Size().Eq(right.Bounds().Size()) {
		return nil, fmt.Errorf("image sizes differ: %v vs %v", left.Bounds().Size(), right.Bounds().Size())
	}

	w := left.Bounds().Dx()
	h := left.Bounds().Dy()
	half := cfg.BlockSize / 2

	dm := &DisparityMap{W: w, H: h, Data: make([]float64, w*h)}
	for i := range dm.Data {
		dm.Data[i] = -1
	}

	for y := half; y < h-half; y++ {
		for x := half; x < w-half; x++ {
			if cfg.TextureThreshold > 0 && windowTexture(left, x, y, half) < cfg.TextureThreshold {
				continue
			}

			maxD := cfg.NumDisparities
			if x-half-maxD+1 < 0 {
				maxD = x - half + 1
			}
			if maxD < 1 {
				continue
			}

			bestD, bestCost, secondCost := -1, math.MaxFloat64, math.MaxFloat64
			for d := 0; d < maxD; d++ {
				cost := sadCost(left, right, x, y, d, half)
				if cost < bestCost {
					secondCost = bestCost
					bestCost, bestD = cost, d
				} else if cost < secondCost {
					secondCost = cost
				}
			}
			if bestD < 0 {
				continue
			}
			if cfg.UniquenessRatio > 0 && secondCost < math.MaxFloat64 {
				if secondCost*(100-cfg.UniquenessRatio) < bestCost*100 {
					continue
				}
			}
			dm.Data[y*w+x] = float64(bestD)
		}
	}
	return dm, nil
}

func sadCost(left, right *image.Gray, x, y, d, half int) float64 {
	var sum float64
	for dy := -half; dy <= half; dy++ {
		lrow := (y + dy) * left.Stride
		rrow := (y + dy) * right.Stride
		for dx := -half; dx <= half; dx++ {
			lv := int(left.Pix[lrow+x+dx])
			rv := int(right.Pix[rrow+x+dx-d])
			if lv > rv {
				sum += float64(lv - rv)
			} else {
				sum += float64(rv - lv)
			}
		}
	}
	return sum
}

// windowTexture is the mean absolute deviation of the window, a cheap
// texture measure.
func windowTexture(img *image.Gray, x, y, half int) float64 {
	var sum float64
	n := 0
	for dy := -half; dy <= half; dy++ {
		row := (y + dy) * img.Stride
		for dx := -half; dx <= half; dx++ {
			sum += float64(img.Pix[row+x+dx])
			n++
		}
	}
	mean := sum / float64(n)
	var dev float64
	for dy := -half; dy <= half; dy++ {
		row := (y + dy) * img.Stride
		for dx := -half; dx <= half; dx++ {
			dev += math.Abs(float64(img.Pix[row+x+dx]) - mean)
		}
	}
	return dev / float64(n)
}

// Normalize renders the disparity map as an 8-bit image with invalid
// pixels black.
func (d *DisparityMap) Normalize() *image.Gray {
	p := imgio.NewPlane(d.W, d.H)
	maxD := 0.0
	for _, v := range d.Data {
		if v > maxD {
			maxD = v
		}
	}
	if maxD == 0 {
		maxD = 1
	}
	for i, v := range d.Data {
		if v < 0 {
			continue
		}
		p.Pix[i] = v / maxD * 255
	}
	return p.GrayImage()
}
