package contour

import (
	"image"
	"math"
)

// Point is an integer pixel coordinate on a contour.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Contour is an ordered list of boundary pixels of one connected
// component, traced counter-clockwise.
type Contour []Point

// FindExternal traces the outer boundary of every 8-connected foreground
// component in a binary image using Moore neighbor tracing. Pixels with
// value above zero are foreground. Interior holes are not reported.
func FindExternal(img *image.Gray) []Contour {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	fg := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return img.Pix[y*img.Stride+x] > 0
	}

	// Component labels assigned by flood fill once a contour is traced,
	// so each component is reported exactly once.
	labeled := make([]bool, w*h)

	var contours []Contour
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !fg(x, y) || labeled[y*w+x] {
				continue
			}
			// Scan order guarantees (x, y) is the topmost-leftmost pixel
			// of an untraced component, so its left neighbor is
			// background.
			c := traceBoundary(fg, x, y)
			contours = append(contours, c)
			fillComponent(fg, labeled, w, h, x, y)
		}
	}
	return contours
}

// Moore neighborhood in clockwise order starting from west.
var mooreDX = [8]int{-1, -1, 0, 1, 1, 1, 0, -1}
var mooreDY = [8]int{0, -1, -1, -1, 0, 1, 1, 1}

// mooreDir maps a unit offset back to its neighborhood index.
func mooreDir(dx, dy int) int {
	for d := 0; d < 8; d++ {
		if mooreDX[d] == dx && mooreDY[d] == dy {
			return d
		}
	}
	return 0
}

func traceBoundary(fg func(x, y int) bool, sx, sy int) Contour {
	c := Contour{{sx, sy}}

	// The raster scan entered (sx, sy) from its west background
	// neighbor, which is the first backtrack position. bdir is always
	// the direction from the current pixel to its backtrack neighbor.
	px, py := sx, sy
	bdir := 0
	startVisits := 0
	for {
		found := -1
		for i := 1; i <= 8; i++ {
			d := (bdir + i) % 8
			if fg(px+mooreDX[d], py+mooreDY[d]) {
				found = i
				break
			}
		}
		if found < 0 {
			// Isolated pixel.
			return c
		}

		d := (bdir + found) % 8
		nx, ny := px+mooreDX[d], py+mooreDY[d]
		// The last background neighbor examined before d becomes the
		// new backtrack position, re-expressed from the next pixel.
		bd := (bdir + found - 1) % 8
		bx, by := px+mooreDX[bd], py+mooreDY[bd]
		px, py = nx, ny
		bdir = mooreDir(bx-px, by-py)

		if px == sx && py == sy {
			// Jacob's stopping criterion: the trace is complete when
			// the start pixel is re-entered from its original
			// backtrack neighbor. Spurs may pass through the start
			// from other directions first; cap those passes so a
			// degenerate component cannot loop forever.
			startVisits++
			if bdir == 0 || startVisits >= 8 {
				return c
			}
		}
		c = append(c, Point{px, py})
	}
}

func fillComponent(fg func(x, y int) bool, labeled []bool, w, h, sx, sy int) {
	stack := []Point{{sx, sy}}
	labeled[sy*w+sx] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for d := 0; d < 8; d++ {
			nx, ny := p.X+mooreDX[d], p.Y+mooreDY[d]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if fg(nx, ny) && !labeled[ny*w+nx] {
				labeled[ny*w+nx] = true
				stack = append(stack, Point{nx, ny})
			}
		}
	}
}

// Area returns the enclosed area of the contour by the shoelace formula.
func (c Contour) Area() float64 {
	if len(c) < 3 {
		return 0
	}
	var sum float64
	n := len(c)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += float64(c[i].X*c[j].Y - c[j].X*c[i].Y)
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the closed length of the contour.
func (c Contour) Perimeter() float64 {
	if len(c) < 2 {
		return 0
	}
	var sum float64
	n := len(c)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		dx := float64(c[j].X - c[i].X)
		dy := float64(c[j].Y - c[i].Y)
		sum += math.Hypot(dx, dy)
	}
	return sum
}

// BoundingBox returns the axis-aligned box enclosing the contour.
func (c Contour) BoundingBox() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := c[0].X, c[0].Y
	for _, p := range c[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
