package morphology

import (
	"fmt"
	"image"
)

// FloodFill replaces the connected region around the seed with newValue.
// A pixel joins the region when its value differs from the seed value by
// at most tolerance. Connectivity must be 4 or 8. The filled pixel count
// is returned.
func FloodFill(img *image.Gray, seed image.Point, newValue uint8, tolerance int, connectivity int) (int, error) {
	if connectivity != 4 && connectivity != 8 {
		return 0, fmt.Errorf("connectivity must be 4 or 8, got %d", connectivity)
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if seed.X < 0 || seed.Y < 0 || seed.X >= w || seed.Y >= h {
		return 0, fmt.Errorf("seed (%d, %d) outside %dx%d image", seed.X, seed.Y, w, h)
	}

	seedVal := int(img.Pix[seed.Y*img.Stride+seed.X])
	inRange := func(v uint8) bool {
		d := int(v) - seedVal
		if d < 0 {
			d = -d
		}
		return d <= tolerance
	}
	// The fill value may itself fall inside the tolerance band, so
	// visits are tracked explicitly rather than inferred from pixel
	// values.
	visited := make([]bool, w*h)
	dirs := [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}[:connectivity]

	stack := []image.Point{seed}
	visited[seed.Y*w+seed.X] = true
	count := 0
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		img.Pix[p.Y*img.Stride+p.X] = newValue
		count++
		for _, d := range dirs {
			nx, ny := p.X+d[0], p.Y+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h || visited[ny*w+nx] {
				continue
			}
			if inRange(img.Pix[ny*img.Stride+nx]) {
				visited[ny*w+nx] = true
				stack = append(stack, image.Point{X: nx, Y: ny})
			}
		}
	}
	return count, nil
}

// FillHoles closes interior background regions of a binary image: any
// background area not connected to the border becomes foreground. The
// input is not modified.
func FillHoles(img *image.Gray) *image.Gray {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	// Flood the background from every border pixel; whatever background
	// remains unreached is a hole.
	outside := make([]bool, w*h)
	var stack []image.Point
	push := func(x, y int) {
		if img.Pix[y*img.Stride+x] == 0 && !outside[y*w+x] {
			outside[y*w+x] = true
			stack = append(stack, image.Point{X: x, Y: y})
		}
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.X > 0 {
			push(p.X-1, p.Y)
		}
		if p.X < w-1 {
			push(p.X+1, p.Y)
		}
		if p.Y > 0 {
			push(p.X, p.Y-1)
		}
		if p.Y < h-1 {
			push(p.X, p.Y+1)
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.Pix[y*img.Stride+x] > 0 || !outside[y*w+x] {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}
