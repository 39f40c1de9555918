package imgio

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestPlaneAtSet(t *testing.T) {
	p := NewPlane(4, 3)
	p.Set(2, 1, 7.5)
	if got := p.At(2, 1); got != 7.5 {
		t.Errorf("At(2,1): got %v, want 7.5", got)
	}
	if got := p.At(0, 0); got != 0 {
		t.Errorf("At(0,0): got %v, want 0", got)
	}
}

func TestAtClamped(t *testing.T) {
	p := NewPlane(2, 2)
	p.Set(0, 0, 1)
	p.Set(1, 0, 2)
	p.Set(0, 1, 3)
	p.Set(1, 1, 4)

	tests := []struct {
		name string
		x, y int
		want float64
	}{
		{"inside", 1, 0, 2},
		{"left of plane", -5, 0, 1},
		{"right of plane", 9, 1, 4},
		{"above plane", 0, -1, 1},
		{"below plane", 1, 7, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.AtClamped(tt.x, tt.y); got != tt.want {
				t.Errorf("AtClamped(%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	p := NewPlane(2, 1)
	p.Set(0, 0, 10)
	p.Set(1, 0, 30)
	p.Normalize(0, 255)
	if p.At(0, 0) != 0 || p.At(1, 0) != 255 {
		t.Errorf("normalize: got (%v, %v), want (0, 255)", p.At(0, 0), p.At(1, 0))
	}
}

func TestNormalizeConstant(t *testing.T) {
	p := NewPlane(3, 3)
	for i := range p.Pix {
		p.Pix[i] = 42
	}
	p.Normalize(0, 1)
	for i, v := range p.Pix {
		if v != 0 {
			t.Fatalf("constant plane sample %d: got %v, want 0", i, v)
		}
	}
}

func TestPadReplicate(t *testing.T) {
	p := NewPlane(2, 2)
	p.Set(0, 0, 1)
	p.Set(1, 0, 2)
	p.Set(0, 1, 3)
	p.Set(1, 1, 4)

	padded, err := p.PadReplicate(4, 3)
	if err != nil {
		t.Fatalf("PadReplicate failed: %v", err)
	}
	if padded.W != 4 || padded.H != 3 {
		t.Fatalf("dimensions: got %dx%d, want 4x3", padded.W, padded.H)
	}
	// Right edge replicates column 1, bottom edge replicates row 1.
	if padded.At(3, 0) != 2 {
		t.Errorf("replicated right edge: got %v, want 2", padded.At(3, 0))
	}
	if padded.At(1, 2) != 4 {
		t.Errorf("replicated bottom edge: got %v, want 4", padded.At(1, 2))
	}
	if padded.At(3, 2) != 4 {
		t.Errorf("replicated corner: got %v, want 4", padded.At(3, 2))
	}

	if _, err := p.PadReplicate(1, 1); err == nil {
		t.Error("expected error when shrinking via PadReplicate")
	}
}

func TestCropRoundTrip(t *testing.T) {
	p := NewPlane(3, 3)
	for i := range p.Pix {
		p.Pix[i] = float64(i)
	}
	padded, err := p.PadReplicate(5, 4)
	if err != nil {
		t.Fatalf("PadReplicate failed: %v", err)
	}
	cropped, err := padded.Crop(3, 3)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	for i := range p.Pix {
		if cropped.Pix[i] != p.Pix[i] {
			t.Fatalf("sample %d: got %v, want %v", i, cropped.Pix[i], p.Pix[i])
		}
	}
}

func TestLuminance(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})
	img.Set(1, 0, color.RGBA{0, 0, 0, 255})

	p := Luminance(img)
	if math.Abs(p.At(0, 0)-255) > 0.5 {
		t.Errorf("white luminance: got %v, want ~255", p.At(0, 0))
	}
	if p.At(1, 0) != 0 {
		t.Errorf("black luminance: got %v, want 0", p.At(1, 0))
	}
}

func TestChannelsMergeRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{10, 20, 30, 255})
	img.Set(1, 1, color.RGBA{200, 100, 50, 255})

	r, g, b := Channels(img)
	merged, err := MergeRGB(r, g, b)
	if err != nil {
		t.Fatalf("MergeRGB failed: %v", err)
	}
	got := merged.RGBAAt(1, 1)
	if got.R != 200 || got.G != 100 || got.B != 50 {
		t.Errorf("round trip (1,1): got (%d,%d,%d), want (200,100,50)", got.R, got.G, got.B)
	}
}

func TestMergeRGBDimensionMismatch(t *testing.T) {
	if _, err := MergeRGB(NewPlane(2, 2), NewPlane(3, 2), NewPlane(2, 2)); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestGrayImageClipping(t *testing.T) {
	p := NewPlane(2, 1)
	p.Set(0, 0, -40)
	p.Set(1, 0, 300)
	img := p.GrayImage()
	if img.GrayAt(0, 0).Y != 0 {
		t.Errorf("negative sample: got %d, want 0", img.GrayAt(0, 0).Y)
	}
	if img.GrayAt(1, 0).Y != 255 {
		t.Errorf("oversized sample: got %d, want 255", img.GrayAt(1, 0).Y)
	}
}
