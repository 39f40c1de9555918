package morphology

import (
	"fmt"
	"image"
)

// ThinningMethod selects the skeletonization algorithm.
type ThinningMethod int

const (
	// ZhangSuen is the two-subiteration thinning of Zhang and Suen.
	ZhangSuen ThinningMethod = iota
	// GuoHall is the two-subiteration thinning of Guo and Hall, which
	// tends to produce cleaner diagonal strokes.
	GuoHall
)

// ParseThinningMethod maps "zhang-suen" or "guo-hall" to its method.
func ParseThinningMethod(name string) (ThinningMethod, error) {
	switch name {
	case "zhang-suen":
		return ZhangSuen, nil
	case "guo-hall":
		return GuoHall, nil
	}
	return 0, fmt.Errorf("unknown thinning method %q", name)
}

// Thin reduces foreground strokes of a binary image to one-pixel-wide
// skeletons, iterating until no pixel changes. Foreground is any value
// above zero; the result uses 255 for skeleton pixels.
func Thin(img *image.Gray, method ThinningMethod) (*image.Gray, error) {
	if method != ZhangSuen && method != GuoHall {
		return nil, fmt.Errorf("unknown thinning method %d", method)
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	cur := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.Pix[y*img.Stride+x] > 0 {
				cur[y*w+x] = 1
			}
		}
	}

	for {
		changed := false
		for iter := 0; iter < 2; iter++ {
			var marks [][2]int
			for y := 1; y < h-1; y++ {
				for x := 1; x < w-1; x++ {
					if cur[y*w+x] == 0 {
						continue
					}
					var del bool
					if method == ZhangSuen {
						del = zhangSuenDelete(cur, w, x, y, iter)
					} else {
						del = guoHallDelete(cur, w, x, y, iter)
					}
					if del {
						marks = append(marks, [2]int{x, y})
					}
				}
			}
			for _, m := range marks {
				cur[m[1]*w+m[0]] = 0
			}
			if len(marks) > 0 {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range cur {
		if v != 0 {
			out.Pix[(i/w)*out.Stride+i%w] = 255
		}
	}
	return out, nil
}

// neighbors returns p2..p9 clockwise from north, per the usual thinning
// numbering.
func neighbors(p []uint8, w, x, y int) (p2, p3, p4, p5, p6, p7, p8, p9 uint8) {
	p2 = p[(y-1)*w+x]
	p3 = p[(y-1)*w+x+1]
	p4 = p[y*w+x+1]
	p5 = p[(y+1)*w+x+1]
	p6 = p[(y+1)*w+x]
	p7 = p[(y+1)*w+x-1]
	p8 = p[y*w+x-1]
	p9 = p[(y-1)*w+x-1]
	return
}

func zhangSuenDelete(p []uint8, w, x, y, iter int) bool {
	p2, p3, p4, p5, p6, p7, p8, p9 := neighbors(p, w, x, y)

	b := int(p2) + int(p3) + int(p4) + int(p5) + int(p6) + int(p7) + int(p8) + int(p9)
	if b < 2 || b > 6 {
		return false
	}

	// Number of 0->1 transitions around the ring.
	a := 0
	ring := [9]uint8{p2, p3, p4, p5, p6, p7, p8, p9, p2}
	for i := 0; i < 8; i++ {
		if ring[i] == 0 && ring[i+1] == 1 {
			a++
		}
	}
	if a != 1 {
		return false
	}

	if iter == 0 {
		return p2*p4*p6 == 0 && p4*p6*p8 == 0
	}
	return p2*p4*p8 == 0 && p2*p6*p8 == 0
}

func guoHallDelete(p []uint8, w, x, y, iter int) bool {
	p2, p3, p4, p5, p6, p7, p8, p9 := neighbors(p, w, x, y)

	c := 0
	if p2 == 0 && (p3 == 1 || p4 == 1) {
		c++
	}
	if p4 == 0 && (p5 == 1 || p6 == 1) {
		c++
	}
	if p6 == 0 && (p7 == 1 || p8 == 1) {
		c++
	}
	if p8 == 0 && (p9 == 1 || p2 == 1) {
		c++
	}
	if c != 1 {
		return false
	}

	n1 := int(p9|p2) + int(p3|p4) + int(p5|p6) + int(p7|p8)
	n2 := int(p2|p3) + int(p4|p5) + int(p6|p7) + int(p8|p9)
	n := n1
	if n2 < n1 {
		n = n2
	}
	if n < 2 || n > 3 {
		return false
	}

	if iter == 0 {
		return (p6|p7|(1-p9))&p8 == 0
	}
	return (p2|p3|(1-p5))&p4 == 0
}
