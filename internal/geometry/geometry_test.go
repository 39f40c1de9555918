package geometry

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestTranslationApply(t *testing.T) {
	a := Translation(5, -3)
	x, y := a.Apply(10, 10)
	if x != 15 || y != 7 {
		t.Errorf("translate (10,10): got (%g,%g), want (15,7)", x, y)
	}
}

func TestRotationAboutCenterFixedPoint(t *testing.T) {
	a := RotationAbout(50, 50, 90, 1)
	x, y := a.Apply(50, 50)
	if math.Abs(x-50) > 1e-9 || math.Abs(y-50) > 1e-9 {
		t.Errorf("rotation center must be fixed: got (%g,%g)", x, y)
	}

	// 90 degrees counter-clockwise about (50,50): (60,50) -> (50,40).
	x, y = a.Apply(60, 50)
	if math.Abs(x-50) > 1e-9 || math.Abs(y-40) > 1e-9 {
		t.Errorf("rotated point: got (%g,%g), want (50,40)", x, y)
	}
}

func TestAffineInvertRoundTrip(t *testing.T) {
	a := RotationAbout(10, 20, 33, 1.5)
	inv, err := a.Invert()
	if err != nil {
		t.Fatalf("Invert failed: %v", err)
	}
	x, y := a.Apply(7, 9)
	bx, by := inv.Apply(x, y)
	if math.Abs(bx-7) > 1e-9 || math.Abs(by-9) > 1e-9 {
		t.Errorf("round trip: got (%g,%g), want (7,9)", bx, by)
	}
}

func TestAffineInvertSingular(t *testing.T) {
	if _, err := (Affine{}).Invert(); err == nil {
		t.Error("expected error for singular transform")
	}
}

func TestAffineFromPoints(t *testing.T) {
	src := [3][2]float64{{0, 0}, {1, 0}, {0, 1}}
	dst := [3][2]float64{{2, 3}, {4, 3}, {2, 8}}
	a, err := AffineFromPoints(src, dst)
	if err != nil {
		t.Fatalf("AffineFromPoints failed: %v", err)
	}
	for i := range src {
		x, y := a.Apply(src[i][0], src[i][1])
		if math.Abs(x-dst[i][0]) > 1e-9 || math.Abs(y-dst[i][1]) > 1e-9 {
			t.Errorf("point %d: got (%g,%g), want (%g,%g)", i, x, y, dst[i][0], dst[i][1])
		}
	}
}

func TestAffineFromPointsCollinear(t *testing.T) {
	src := [3][2]float64{{0, 0}, {1, 1}, {2, 2}}
	dst := [3][2]float64{{0, 0}, {1, 0}, {0, 1}}
	if _, err := AffineFromPoints(src, dst); err == nil {
		t.Error("expected error for collinear source points")
	}
}

func TestHomographyIdentity(t *testing.T) {
	h := Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
	x, y, err := h.Apply(12, 34)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if x != 12 || y != 34 {
		t.Errorf("identity: got (%g,%g), want (12,34)", x, y)
	}
}

func TestHomographyInvertRoundTrip(t *testing.T) {
	// A mild projective transform.
	h := Homography{1.1, 0.1, 5, -0.05, 0.9, 3, 0.0002, 0.0001, 1}
	inv, err := h.Invert()
	if err != nil {
		t.Fatalf("Invert failed: %v", err)
	}
	x, y, err := h.Apply(40, 60)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	bx, by, err := inv.Apply(x, y)
	if err != nil {
		t.Fatalf("inverse Apply failed: %v", err)
	}
	if math.Abs(bx-40) > 1e-6 || math.Abs(by-60) > 1e-6 {
		t.Errorf("round trip: got (%g,%g), want (40,60)", bx, by)
	}
}

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 25), uint8(y * 25), 0, 255})
		}
	}
	return img
}

func TestWarpAffineTranslation(t *testing.T) {
	img := testImage(10, 10)
	out, err := WarpAffine(img, Translation(3, 2), 10, 10)
	if err != nil {
		t.Fatalf("WarpAffine failed: %v", err)
	}
	// Destination (5,5) should hold source (2,3).
	want := img.RGBAAt(2, 3)
	got := out.RGBAAt(5, 5)
	if got.R != want.R || got.G != want.G {
		t.Errorf("translated pixel: got %v, want %v", got, want)
	}
	// Area with no source coverage stays black.
	if c := out.RGBAAt(0, 0); c.R != 0 || c.G != 0 {
		t.Errorf("uncovered pixel: got %v, want black", c)
	}
}

func TestWarpPerspectiveIdentity(t *testing.T) {
	img := testImage(8, 8)
	out, err := WarpPerspective(img, Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}, 8, 8)
	if err != nil {
		t.Fatalf("WarpPerspective failed: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if out.RGBAAt(x, y).R != img.RGBAAt(x, y).R {
				t.Fatalf("identity warp changed pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestResize(t *testing.T) {
	img := testImage(10, 10)
	out, err := Resize(img, 5, 20, "linear")
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if out.Bounds().Dx() != 5 || out.Bounds().Dy() != 20 {
		t.Errorf("size: got %dx%d, want 5x20", out.Bounds().Dx(), out.Bounds().Dy())
	}

	if _, err := Resize(img, 0, 5, "linear"); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := Resize(img, 5, 5, "cubic"); err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestScale(t *testing.T) {
	img := testImage(10, 10)
	out, err := Scale(img, 0.5, "")
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if out.Bounds().Dx() != 5 || out.Bounds().Dy() != 5 {
		t.Errorf("size: got %dx%d, want 5x5", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if _, err := Scale(img, -1, ""); err == nil {
		t.Error("expected error for negative factor")
	}
}

func TestRotate90(t *testing.T) {
	img := testImage(10, 6)
	out, err := Rotate90(img, 90)
	if err != nil {
		t.Fatalf("Rotate90 failed: %v", err)
	}
	if out.Bounds().Dx() != 6 || out.Bounds().Dy() != 10 {
		t.Errorf("size after 90 rotation: got %dx%d, want 6x10", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if _, err := Rotate90(img, 45); err == nil {
		t.Error("expected error for non-right-angle rotation")
	}
}

func TestCropRect(t *testing.T) {
	img := testImage(10, 10)
	out, err := CropRect(img, image.Rect(2, 2, 6, 8))
	if err != nil {
		t.Fatalf("CropRect failed: %v", err)
	}
	if out.Bounds().Dx() != 4 || out.Bounds().Dy() != 6 {
		t.Errorf("size: got %dx%d, want 4x6", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if _, err := CropRect(img, image.Rect(8, 8, 20, 20)); err == nil {
		t.Error("expected error for out-of-bounds crop")
	}
}
