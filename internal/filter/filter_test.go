package filter

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/pixelmill/govision/internal/imgio"
)

func TestNewKernelValidation(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		n       int
		wantErr bool
	}{
		{"valid 3x3", 3, 3, 9, false},
		{"even width", 4, 3, 12, true},
		{"even height", 3, 2, 6, true},
		{"wrong weight count", 3, 3, 8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKernel(tt.w, tt.h, make([]float64, tt.n))
			if (err != nil) != tt.wantErr {
				t.Errorf("NewKernel(%d,%d,%d weights): err=%v, wantErr=%v",
					tt.w, tt.h, tt.n, err, tt.wantErr)
			}
		})
	}
}

func TestConvolveIdentity(t *testing.T) {
	p := imgio.NewPlane(5, 5)
	for i := range p.Pix {
		p.Pix[i] = float64(i)
	}
	identity, err := NewKernel(3, 3, []float64{0, 0, 0, 0, 1, 0, 0, 0, 0})
	if err != nil {
		t.Fatalf("NewKernel failed: %v", err)
	}
	out := Convolve(p, identity)
	for i := range p.Pix {
		if out.Pix[i] != p.Pix[i] {
			t.Fatalf("sample %d: got %v, want %v", i, out.Pix[i], p.Pix[i])
		}
	}
}

func TestConvolveSobelOnRamp(t *testing.T) {
	// Horizontal ramp: constant gradient of 1 per pixel in x.
	p := imgio.NewPlane(7, 7)
	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			p.Set(x, y, float64(x))
		}
	}
	gx := Convolve(p, SobelX())
	// Interior response of Sobel X on a unit ramp is 8.
	if math.Abs(gx.At(3, 3)-8) > 1e-12 {
		t.Errorf("Sobel X on ramp: got %v, want 8", gx.At(3, 3))
	}
	gy := Convolve(p, SobelY())
	if math.Abs(gy.At(3, 3)) > 1e-12 {
		t.Errorf("Sobel Y on horizontal ramp: got %v, want 0", gy.At(3, 3))
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	k, err := GaussianKernel(5, 1.4)
	if err != nil {
		t.Fatalf("GaussianKernel failed: %v", err)
	}
	sum := 0.0
	for _, v := range k.Data {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("kernel sum: got %v, want 1", sum)
	}
	// Center weight dominates.
	if k.At(2, 2) <= k.At(0, 0) {
		t.Error("center weight should exceed corner weight")
	}

	if _, err := GaussianKernel(4, 1); err == nil {
		t.Error("expected error for even kernel size")
	}
	if _, err := GaussianKernel(5, 0); err == nil {
		t.Error("expected error for zero sigma")
	}
}

func TestSmoothersRejectBadRadius(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if _, err := Box(img, 0); err == nil {
		t.Error("Box: expected error for zero radius")
	}
	if _, err := Gaussian(img, -1); err == nil {
		t.Error("Gaussian: expected error for negative radius")
	}
	if _, err := Median(img, 0); err == nil {
		t.Error("Median: expected error for zero radius")
	}
}

func TestGaussianSmoothsNoise(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(0)
			if (x+y)%2 == 0 {
				v = 255
			}
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	out, err := Gaussian(img, 2)
	if err != nil {
		t.Fatalf("Gaussian failed: %v", err)
	}
	// Checkerboard extremes should be pulled toward the middle.
	c := out.RGBAAt(4, 4)
	if c.R == 0 || c.R == 255 {
		t.Errorf("center after blur: got %d, want intermediate value", c.R)
	}
}

func TestBilateralPreservesEdge(t *testing.T) {
	// Step edge: left half 0, right half 200.
	p := imgio.NewPlane(12, 6)
	for y := 0; y < 6; y++ {
		for x := 6; x < 12; x++ {
			p.Set(x, y, 200)
		}
	}

	out, err := Bilateral(p, 10, 1.5)
	if err != nil {
		t.Fatalf("Bilateral failed: %v", err)
	}

	// With a tight color sigma the step must survive nearly intact.
	if out.At(2, 3) > 20 {
		t.Errorf("dark side: got %v, want near 0", out.At(2, 3))
	}
	if out.At(9, 3) < 180 {
		t.Errorf("bright side: got %v, want near 200", out.At(9, 3))
	}
}

func TestBilateralValidation(t *testing.T) {
	p := imgio.NewPlane(4, 4)
	if _, err := Bilateral(p, 0, 1); err == nil {
		t.Error("expected error for zero color sigma")
	}
	if _, err := Bilateral(p, 1, 0); err == nil {
		t.Error("expected error for zero space sigma")
	}
}
