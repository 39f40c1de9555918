package features

import (
	"image"
	"math"
	"math/rand"
	"sort"
)

// PolarLine is a line in Hough normal form: x·cos(θ) + y·sin(θ) = ρ.
type PolarLine struct {
	Rho   float64 `json:"rho"`
	Theta float64 `json:"theta"`
	Votes int     `json:"votes"`
}

// Segment is a finite line segment.
type Segment struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return math.Hypot(float64(s.X2-s.X1), float64(s.Y2-s.Y1))
}

// HoughLines runs the standard Hough transform over a binary edge map.
// Every edge pixel votes for all lines through it at one-degree angular
// resolution; accumulator cells with at least threshold votes that are
// local maxima become lines, strongest first.
func HoughLines(edges *image.Gray, threshold int) []PolarLine {
	w := edges.Bounds().Dx()
	h := edges.Bounds().Dy()
	maxDist := int(math.Ceil(math.Hypot(float64(w), float64(h))))
	numAngles := 180

	acc := make([][]int, maxDist*2)
	for i := range acc {
		acc[i] = make([]int, numAngles)
	}

	sin := make([]float64, numAngles)
	cos := make([]float64, numAngles)
	for t := 0; t < numAngles; t++ {
		a := float64(t) * math.Pi / 180
		sin[t], cos[t] = math.Sin(a), math.Cos(a)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if edges.Pix[y*edges.Stride+x] == 0 {
				continue
			}
			for t := 0; t < numAngles; t++ {
				rho := float64(x)*cos[t] + float64(y)*sin[t]
				ri := int(math.Round(rho)) + maxDist
				if ri >= 0 && ri < maxDist*2 {
					acc[ri][t]++
				}
			}
		}
	}

	var lines []PolarLine
	for ri := 0; ri < maxDist*2; ri++ {
		for t := 0; t < numAngles; t++ {
			v := acc[ri][t]
			if v < threshold {
				continue
			}
			if !isLocalMax(acc, ri, t, maxDist*2, numAngles) {
				continue
			}
			lines = append(lines, PolarLine{
				Rho:   float64(ri - maxDist),
				Theta: float64(t) * math.Pi / 180,
				Votes: v,
			})
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Votes > lines[j].Votes })
	return lines
}

func isLocalMax(acc [][]int, ri, t, numRho, numAngles int) bool {
	v := acc[ri][t]
	for dr := -2; dr <= 2; dr++ {
		nr := ri + dr
		if nr < 0 || nr >= numRho {
			continue
		}
		for dt := -2; dt <= 2; dt++ {
			if dr == 0 && dt == 0 {
				continue
			}
			nt := (t + dt + numAngles) % numAngles
			if acc[nr][nt] > v {
				return false
			}
		}
	}
	return true
}

// HoughLinesP is the probabilistic Hough transform: edge pixels are
// sampled in random order, each sample votes, and once a cell crosses
// the threshold the supporting pixels are walked into a segment and
// removed from further voting. Segments shorter than minLength are
// discarded; gaps up to maxGap along a line are bridged.
func HoughLinesP(edges *image.Gray, threshold, minLength, maxGap int, rng *rand.Rand) []Segment {
	w := edges.Bounds().Dx()
	h := edges.Bounds().Dy()
	maxDist := int(math.Ceil(math.Hypot(float64(w), float64(h))))
	numAngles := 180

	mask := make([]bool, w*h)
	var points []image.Point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if edges.Pix[y*edges.Stride+x] > 0 {
				mask[y*w+x] = true
				points = append(points, image.Point{X: x, Y: y})
			}
		}
	}
	rng.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })

	acc := make([][]int, maxDist*2)
	for i := range acc {
		acc[i] = make([]int, numAngles)
	}
	sin := make([]float64, numAngles)
	cos := make([]float64, numAngles)
	for t := 0; t < numAngles; t++ {
		a := float64(t) * math.Pi / 180
		sin[t], cos[t] = math.Sin(a), math.Cos(a)
	}

	var segments []Segment
	for _, p := range points {
		if !mask[p.Y*w+p.X] {
			continue
		}

		best, bestT := 0, 0
		for t := 0; t < numAngles; t++ {
			rho := float64(p.X)*cos[t] + float64(p.Y)*sin[t]
			ri := int(math.Round(rho)) + maxDist
			if ri < 0 || ri >= maxDist*2 {
				continue
			}
			acc[ri][t]++
			if acc[ri][t] > best {
				best, bestT = acc[ri][t], t
			}
		}
		if best < threshold {
			continue
		}

		// Walk along the line direction in both ways, bridging small
		// gaps, to find the supporting segment.
		dx, dy := sin[bestT], -cos[bestT]
		x1, y1 := walkLine(mask, w, h, p.X, p.Y, dx, dy, maxGap)
		x2, y2 := walkLine(mask, w, h, p.X, p.Y, -dx, -dy, maxGap)

		seg := Segment{X1: x1, Y1: y1, X2: x2, Y2: y2}
		if seg.Length() < float64(minLength) {
			continue
		}
		segments = append(segments, seg)

		// Un-vote and clear the pixels the segment consumed.
		clearSegment(mask, acc, w, h, seg, maxDist, numAngles, sin, cos)
	}
	return segments
}

func walkLine(mask []bool, w, h, sx, sy int, dx, dy float64, maxGap int) (int, int) {
	lastX, lastY := sx, sy
	gap := 0
	fx, fy := float64(sx), float64(sy)
	for {
		fx += dx
		fy += dy
		x, y := int(math.Round(fx)), int(math.Round(fy))
		if x < 0 || y < 0 || x >= w || y >= h {
			break
		}
		if mask[y*w+x] {
			lastX, lastY = x, y
			gap = 0
		} else {
			gap++
			if gap > maxGap {
				break
			}
		}
	}
	return lastX, lastY
}

func clearSegment(mask []bool, acc [][]int, w, h int, seg Segment, maxDist, numAngles int, sin, cos []float64) {
	dx := float64(seg.X2 - seg.X1)
	dy := float64(seg.Y2 - seg.Y1)
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		x := int(math.Round(float64(seg.X1) + f*dx))
		y := int(math.Round(float64(seg.Y1) + f*dy))
		for oy := -1; oy <= 1; oy++ {
			for ox := -1; ox <= 1; ox++ {
				nx, ny := x+ox, y+oy
				if nx < 0 || ny < 0 || nx >= w || ny >= h || !mask[ny*w+nx] {
					continue
				}
				mask[ny*w+nx] = false
				for t := 0; t < numAngles; t++ {
					rho := float64(nx)*cos[t] + float64(ny)*sin[t]
					ri := int(math.Round(rho)) + maxDist
					if ri >= 0 && ri < len(acc) && acc[ri][t] > 0 {
						acc[ri][t]--
					}
				}
			}
		}
	}
}

// Circle is a detected circle.
type Circle struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Radius int     `json:"radius"`
	Votes  int     `json:"votes"`
	Score  float64 `json:"score"`
}

// HoughCircles detects circles of radii in [minR, maxR] by voting each
// edge pixel onto candidate centers. Score is the fraction of a
// candidate's circumference supported by edges; candidates below
// minScore or closer than minDist to a stronger circle are dropped.
func HoughCircles(edges *image.Gray, minR, maxR, minDist int, minScore float64) []Circle {
	w := edges.Bounds().Dx()
	h := edges.Bounds().Dy()

	var cand []Circle
	for r := minR; r <= maxR; r++ {
		acc := make([]int, w*h)
		circ := circlePerimeter(r)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if edges.Pix[y*edges.Stride+x] == 0 {
					continue
				}
				for _, o := range circ {
					cx, cy := x+o[0], y+o[1]
					if cx >= 0 && cy >= 0 && cx < w && cy < h {
						acc[cy*w+cx]++
					}
				}
			}
		}
		need := int(minScore * float64(len(circ)))
		for i, v := range acc {
			if v >= need {
				cand = append(cand, Circle{
					X: i % w, Y: i / w, Radius: r,
					Votes: v,
					Score: float64(v) / float64(len(circ)),
				})
			}
		}
	}

	sort.Slice(cand, func(i, j int) bool { return cand[i].Votes > cand[j].Votes })
	var out []Circle
	for _, c := range cand {
		keep := true
		for _, k := range out {
			dx, dy := float64(c.X-k.X), float64(c.Y-k.Y)
			if math.Hypot(dx, dy) < float64(minDist) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}

func circlePerimeter(r int) [][2]int {
	seen := make(map[[2]int]bool)
	var offs [][2]int
	n := int(2 * math.Pi * float64(r))
	if n < 8 {
		n = 8
	}
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		o := [2]int{int(math.Round(float64(r) * math.Cos(a))), int(math.Round(float64(r) * math.Sin(a)))}
		if !seen[o] {
			seen[o] = true
			offs = append(offs, o)
		}
	}
	return offs
}
