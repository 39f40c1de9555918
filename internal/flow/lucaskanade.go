package flow

import (
	"fmt"
	"math"

	"github.com/pixelmill/govision/internal/filter"
	"github.com/pixelmill/govision/internal/imgio"
)

// Track is the motion of one feature point between two frames.
type Track struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	// Found is false when tracking diverged or left the image.
	Found bool `json:"found"`
}

// LKConfig tunes the pyramidal Lucas-Kanade tracker.
type LKConfig struct {
	// WindowRadius is the half-size of the integration window.
	WindowRadius int
	// Levels is the number of pyramid levels; 1 disables the pyramid.
	Levels int
	// MaxIterations bounds the Newton refinement per level.
	MaxIterations int
	// Epsilon stops iterating once the update is this small.
	Epsilon float64
}

// DefaultLKConfig matches the usual tracker settings.
func DefaultLKConfig() LKConfig {
	return LKConfig{WindowRadius: 7, Levels: 3, MaxIterations: 20, Epsilon: 0.01}
}

func (c LKConfig) validate() error {
	if c.WindowRadius < 1 {
		return fmt.Errorf("window radius must be positive, got %d", c.WindowRadius)
	}
	if c.Levels < 1 {
		return fmt.Errorf("pyramid levels must be positive, got %d", c.Levels)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("iteration limit must be positive, got %d", c.MaxIterations)
	}
	return nil
}

// TrackFeatures follows the given points from prev to next with
// pyramidal Lucas-Kanade. Each input point yields one Track; points
// that leave the image or fail to converge are marked not found.
func TrackFeatures(prev, next *imgio.Plane, points [][2]float64, cfg LKConfig) ([]Track, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if prev.W != next.W || prev.H != next.H {
		return nil, fmt.Errorf("frame sizes differ: %dx%d vs %dx%d", prev.W, prev.H, next.W, next.H)
	}

	levels := cfg.Levels
	for (prev.W>>(levels-1)) < 2*cfg.WindowRadius+3 || (prev.H>>(levels-1)) < 2*cfg.WindowRadius+3 {
		levels--
		if levels == 1 {
			break
		}
	}

	pyrPrev := buildPyramid(prev, levels)
	pyrNext := buildPyramid(next, levels)

	tracks := make([]Track, len(points))
	for i, pt := range points {
		tracks[i] = trackOne(pyrPrev, pyrNext, pt[0], pt[1], cfg)
	}
	return tracks, nil
}

func buildPyramid(p *imgio.Plane, levels int) []*imgio.Plane {
	pyr := make([]*imgio.Plane, levels)
	pyr[0] = p
	for l := 1; l < levels; l++ {
		pyr[l] = downsample(pyr[l-1])
	}
	return pyr
}

var pyramidKernel, _ = filter.GaussianKernel(5, 1.0)

// downsample halves the image after a light Gaussian blur.
func downsample(p *imgio.Plane) *imgio.Plane {
	blurred := filter.Convolve(p, pyramidKernel)
	out := imgio.NewPlane((p.W+1)/2, (p.H+1)/2)
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			out.Set(x, y, blurred.AtClamped(2*x, 2*y))
		}
	}
	return out
}

func trackOne(pyrPrev, pyrNext []*imgio.Plane, x, y float64, cfg LKConfig) Track {
	tr := Track{X0: x, Y0: y}
	levels := len(pyrPrev)

	scale := math.Pow(2, float64(levels-1))
	gx, gy := 0.0, 0.0 // guess at the current level, relative offset
	px, py := x/scale, y/scale

	for l := levels - 1; l >= 0; l-- {
		prev := pyrPrev[l]
		next := pyrNext[l]

		ok := refineLevel(prev, next, px, py, &gx, &gy, cfg)
		if !ok {
			return tr
		}
		if l > 0 {
			gx *= 2
			gy *= 2
			px = x / math.Pow(2, float64(l-1))
			py = y / math.Pow(2, float64(l-1))
		}
	}

	tr.X1 = x + gx
	tr.Y1 = y + gy
	tr.Found = tr.X1 >= 0 && tr.Y1 >= 0 && tr.X1 < float64(pyrPrev[0].W) && tr.Y1 < float64(pyrPrev[0].H)
	return tr
}

// refineLevel runs the iterative Lucas-Kanade update at one pyramid
// level, adjusting the flow guess in place.
func refineLevel(prev, next *imgio.Plane, px, py float64, gx, gy *float64, cfg LKConfig) bool {
	r := cfg.WindowRadius

	// Spatial gradients of the template window, fixed across iterations.
	n := (2*r + 1) * (2*r + 1)
	ix := make([]float64, n)
	iy := make([]float64, n)
	tv := make([]float64, n)
	var a11, a12, a22 float64
	idx := 0
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			sx, sy := px+float64(dx), py+float64(dy)
			ix[idx] = (sampleBilinear(prev, sx+1, sy) - sampleBilinear(prev, sx-1, sy)) / 2
			iy[idx] = (sampleBilinear(prev, sx, sy+1) - sampleBilinear(prev, sx, sy-1)) / 2
			tv[idx] = sampleBilinear(prev, sx, sy)
			a11 += ix[idx] * ix[idx]
			a12 += ix[idx] * iy[idx]
			a22 += iy[idx] * iy[idx]
			idx++
		}
	}
	det := a11*a22 - a12*a12
	if det < 1e-9 {
		return false // untrackable: no texture in the window
	}

	for it := 0; it < cfg.MaxIterations; it++ {
		var b1, b2 float64
		idx = 0
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				diff := tv[idx] - sampleBilinear(next, px+float64(dx)+*gx, py+float64(dy)+*gy)
				b1 += diff * ix[idx]
				b2 += diff * iy[idx]
				idx++
			}
		}
		du := (a22*b1 - a12*b2) / det
		dv := (a11*b2 - a12*b1) / det
		*gx += du
		*gy += dv
		if math.Hypot(du, dv) < cfg.Epsilon {
			break
		}
	}
	return true
}

func sampleBilinear(p *imgio.Plane, x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)
	v00 := p.AtClamped(x0, y0)
	v10 := p.AtClamped(x0+1, y0)
	v01 := p.AtClamped(x0, y0+1)
	v11 := p.AtClamped(x0+1, y0+1)
	return v00*(1-fx)*(1-fy) + v10*fx*(1-fy) + v01*(1-fx)*fy + v11*fx*fy
}
