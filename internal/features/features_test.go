package features

import (
	"encoding/json"
	"image"
	"math"
	"math/rand"
	"testing"

	"github.com/pixelmill/govision/internal/geometry"
)

func edgeMap(w, h int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, w, h))
}

func TestHoughLinesHorizontal(t *testing.T) {
	img := edgeMap(50, 50)
	for x := 5; x < 45; x++ {
		img.Pix[20*img.Stride+x] = 255
	}
	lines := HoughLines(img, 30)
	if len(lines) == 0 {
		t.Fatal("no lines found")
	}
	best := lines[0]
	// A horizontal line at y=20 has theta=90 degrees, rho=20.
	if math.Abs(best.Theta-math.Pi/2) > 0.03 {
		t.Errorf("theta = %v, want pi/2", best.Theta)
	}
	if math.Abs(best.Rho-20) > 1.5 {
		t.Errorf("rho = %v, want 20", best.Rho)
	}
	if best.Votes < 35 {
		t.Errorf("votes = %d, want near 40", best.Votes)
	}
}

func TestHoughLinesVertical(t *testing.T) {
	img := edgeMap(50, 50)
	for y := 0; y < 50; y++ {
		img.Pix[y*img.Stride+30] = 255
	}
	lines := HoughLines(img, 40)
	if len(lines) == 0 {
		t.Fatal("no lines found")
	}
	best := lines[0]
	if math.Abs(best.Theta) > 0.03 {
		t.Errorf("theta = %v, want 0", best.Theta)
	}
	if math.Abs(best.Rho-30) > 1.5 {
		t.Errorf("rho = %v, want 30", best.Rho)
	}
}

func TestHoughLinesEmptyImage(t *testing.T) {
	if lines := HoughLines(edgeMap(20, 20), 5); len(lines) != 0 {
		t.Fatalf("got %d lines from empty edge map", len(lines))
	}
}

func TestHoughLinesPFindsSegment(t *testing.T) {
	img := edgeMap(60, 60)
	for x := 10; x < 50; x++ {
		img.Pix[25*img.Stride+x] = 255
	}
	rng := rand.New(rand.NewSource(7))
	segs := HoughLinesP(img, 20, 25, 2, rng)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	s := segs[0]
	if s.Y1 != 25 || s.Y2 != 25 {
		t.Errorf("segment not on y=25: %+v", s)
	}
	if got := s.Length(); got < 30 {
		t.Errorf("segment length = %v, want near 39", got)
	}
}

func TestHoughLinesPBridgesGap(t *testing.T) {
	img := edgeMap(60, 60)
	for x := 5; x < 55; x++ {
		if x >= 28 && x <= 30 {
			continue // three-pixel gap
		}
		img.Pix[40*img.Stride+x] = 255
	}
	rng := rand.New(rand.NewSource(3))
	segs := HoughLinesP(img, 20, 40, 4, rng)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1 bridged segment", len(segs))
	}
	if got := segs[0].Length(); got < 45 {
		t.Errorf("bridged length = %v, want near 49", got)
	}
}

func TestHoughCircles(t *testing.T) {
	img := edgeMap(60, 60)
	cx, cy, r := 30.0, 30.0, 12.0
	for i := 0; i < 360; i++ {
		a := float64(i) * math.Pi / 180
		x := int(math.Round(cx + r*math.Cos(a)))
		y := int(math.Round(cy + r*math.Sin(a)))
		img.Pix[y*img.Stride+x] = 255
	}
	circles := HoughCircles(img, 8, 16, 10, 0.6)
	if len(circles) == 0 {
		t.Fatal("no circles found")
	}
	best := circles[0]
	if abs(best.X-30) > 2 || abs(best.Y-30) > 2 {
		t.Errorf("center = (%d, %d), want (30, 30)", best.X, best.Y)
	}
	if abs(best.Radius-12) > 1 {
		t.Errorf("radius = %d, want 12", best.Radius)
	}
}

func TestCircleJSONCenter(t *testing.T) {
	b, err := json.Marshal(Circle{X: 30, Y: 28, Radius: 12, Votes: 90, Score: 0.8})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["x"] != 30 || m["y"] != 28 {
		t.Errorf("center = (%v, %v), want (30, 28): %s", m["x"], m["y"], b)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func matchesFromH(h geometry.Homography, pts [][2]float64) []Match {
	out := make([]Match, len(pts))
	for i, p := range pts {
		x, y, _ := h.Apply(p[0], p[1])
		out[i] = Match{SrcX: p[0], SrcY: p[1], DstX: x, DstY: y}
	}
	return out
}

func TestEstimateHomographyRecoversTransform(t *testing.T) {
	// A mild perspective transform.
	truth := geometry.Homography{1.1, 0.05, 4, -0.03, 0.95, 7, 0.0004, -0.0002, 1}
	pts := [][2]float64{
		{0, 0}, {100, 0}, {100, 100}, {0, 100},
		{25, 60}, {70, 30}, {50, 90}, {10, 45},
	}
	h, err := EstimateHomography(matchesFromH(truth, pts))
	if err != nil {
		t.Fatalf("EstimateHomography: %v", err)
	}
	for _, p := range [][2]float64{{15, 15}, {80, 40}, {33, 77}} {
		wx, wy, _ := truth.Apply(p[0], p[1])
		gx, gy, err := h.Apply(p[0], p[1])
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if math.Hypot(gx-wx, gy-wy) > 1e-6 {
			t.Errorf("point %v maps to (%v, %v), want (%v, %v)", p, gx, gy, wx, wy)
		}
	}
}

func TestEstimateHomographyMinimalSample(t *testing.T) {
	// Exactly four matches: the design matrix is 8x9 and the solution
	// must still come out of the factorization's ninth column.
	truth := geometry.Homography{0.9, 0.1, -3, 0.02, 1.05, 6, 0.0002, 0.0001, 1}
	pts := [][2]float64{{0, 0}, {100, 0}, {100, 100}, {0, 100}}
	h, err := EstimateHomography(matchesFromH(truth, pts))
	if err != nil {
		t.Fatalf("EstimateHomography: %v", err)
	}
	for _, p := range pts {
		wx, wy, _ := truth.Apply(p[0], p[1])
		gx, gy, err := h.Apply(p[0], p[1])
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if math.Hypot(gx-wx, gy-wy) > 1e-6 {
			t.Errorf("point %v maps to (%v, %v), want (%v, %v)", p, gx, gy, wx, wy)
		}
	}
}

func TestEstimateHomographyTooFewMatches(t *testing.T) {
	if _, err := EstimateHomography(make([]Match, 3)); err == nil {
		t.Fatal("expected error for 3 matches")
	}
}

func TestRANSACRejectsOutliers(t *testing.T) {
	truth := geometry.Homography{1, 0, 10, 0, 1, -5, 0, 0, 1} // translation
	pts := make([][2]float64, 20)
	rng := rand.New(rand.NewSource(11))
	for i := range pts {
		pts[i] = [2]float64{rng.Float64() * 200, rng.Float64() * 200}
	}
	matches := matchesFromH(truth, pts)
	// Corrupt a quarter of the matches.
	for i := 0; i < 5; i++ {
		matches[i*4].DstX += 50 + rng.Float64()*100
		matches[i*4].DstY -= 80
	}

	res, err := EstimateHomographyRANSAC(matches, 2.0, 500, rng)
	if err != nil {
		t.Fatalf("EstimateHomographyRANSAC: %v", err)
	}
	if len(res.Inliers) != 15 {
		t.Errorf("inliers = %d, want 15", len(res.Inliers))
	}
	gx, gy, _ := res.H.Apply(50, 50)
	if math.Hypot(gx-60, gy-45) > 0.1 {
		t.Errorf("recovered transform maps (50,50) to (%v, %v), want (60, 45)", gx, gy)
	}
}

func TestRANSACBadThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := EstimateHomographyRANSAC(make([]Match, 8), -1, 10, rng); err == nil {
		t.Fatal("expected error for negative threshold")
	}
}
