package flow

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pixelmill/govision/internal/imgio"
)

// Field is a dense flow field: one (U, V) displacement per pixel.
type Field struct {
	W, H int
	U, V []float64
}

// At returns the flow vector at (x, y).
func (f *Field) At(x, y int) (u, v float64) {
	return f.U[y*f.W+x], f.V[y*f.W+x]
}

// HSConfig tunes the Horn-Schunck solver.
type HSConfig struct {
	// Alpha weights the smoothness term; larger values give smoother
	// fields.
	Alpha float64
	// Iterations of the Jacobi relaxation.
	Iterations int
}

// DefaultHSConfig matches common Horn-Schunck settings.
func DefaultHSConfig() HSConfig {
	return HSConfig{Alpha: 1.0, Iterations: 100}
}

// HornSchunck estimates dense optical flow between two frames by
// minimizing the global brightness-constancy energy with a smoothness
// prior, via Jacobi iteration of the Euler-Lagrange equations.
func HornSchunck(prev, next *imgio.Plane, cfg HSConfig) (*Field, error) {
	if prev.W != next.W || prev.H != next.H {
		return nil, fmt.Errorf("frame sizes differ: %dx%d vs %dx%d", prev.W, prev.H, next.W, next.H)
	}
	if cfg.Alpha <= 0 {
		return nil, fmt.Errorf("smoothness weight must be positive, got %v", cfg.Alpha)
	}
	if cfg.Iterations < 1 {
		return nil, fmt.Errorf("iteration count must be positive, got %d", cfg.Iterations)
	}

	w, h := prev.W, prev.H
	n := w * h
	ix := make([]float64, n)
	iy := make([]float64, n)
	it := make([]float64, n)

	// Derivatives averaged over the two frames, Horn and Schunck's
	// original stencil.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			ix[i] = (prev.AtClamped(x+1, y) - prev.AtClamped(x, y) +
				prev.AtClamped(x+1, y+1) - prev.AtClamped(x, y+1) +
				next.AtClamped(x+1, y) - next.AtClamped(x, y) +
				next.AtClamped(x+1, y+1) - next.AtClamped(x, y+1)) / 4
			iy[i] = (prev.AtClamped(x, y+1) - prev.AtClamped(x, y) +
				prev.AtClamped(x+1, y+1) - prev.AtClamped(x+1, y) +
				next.AtClamped(x, y+1) - next.AtClamped(x, y) +
				next.AtClamped(x+1, y+1) - next.AtClamped(x+1, y)) / 4
			it[i] = (next.AtClamped(x, y) - prev.AtClamped(x, y) +
				next.AtClamped(x+1, y) - prev.AtClamped(x+1, y) +
				next.AtClamped(x, y+1) - prev.AtClamped(x, y+1) +
				next.AtClamped(x+1, y+1) - prev.AtClamped(x+1, y+1)) / 4
		}
	}

	u := make([]float64, n)
	v := make([]float64, n)
	nu := make([]float64, n)
	nv := make([]float64, n)
	a2 := cfg.Alpha * cfg.Alpha

	avg := func(f []float64, x, y int) float64 {
		clamp := func(cx, cy int) float64 {
			if cx < 0 {
				cx = 0
			} else if cx >= w {
				cx = w - 1
			}
			if cy < 0 {
				cy = 0
			} else if cy >= h {
				cy = h - 1
			}
			return f[cy*w+cx]
		}
		// Weighted 8-neighborhood average from the original paper.
		return (clamp(x-1, y)+clamp(x+1, y)+clamp(x, y-1)+clamp(x, y+1))/6 +
			(clamp(x-1, y-1)+clamp(x+1, y-1)+clamp(x-1, y+1)+clamp(x+1, y+1))/12
	}

	for iter := 0; iter < cfg.Iterations; iter++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				ubar := avg(u, x, y)
				vbar := avg(v, x, y)
				num := ix[i]*ubar + iy[i]*vbar + it[i]
				den := a2 + ix[i]*ix[i] + iy[i]*iy[i]
				nu[i] = ubar - ix[i]*num/den
				nv[i] = vbar - iy[i]*num/den
			}
		}
		u, nu = nu, u
		v, nv = nv, v
	}

	return &Field{W: w, H: h, U: u, V: v}, nil
}

// Visualize renders the field with direction as hue and magnitude as
// value, the familiar flow-wheel coloring.
func (f *Field) Visualize() *image.RGBA {
	maxMag := 0.0
	for i := range f.U {
		if m := math.Hypot(f.U[i], f.V[i]); m > maxMag {
			maxMag = m
		}
	}
	if maxMag == 0 {
		maxMag = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			u, v := f.At(x, y)
			mag := math.Hypot(u, v) / maxMag
			hue := math.Atan2(v, u) * 180 / math.Pi
			if hue < 0 {
				hue += 360
			}
			c := colorful.Hsv(hue, 1, mag)
			r, g, b := c.RGB255()
			i := y*out.Stride + x*4
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = r, g, b, 255
		}
	}
	return out
}
