package colorspace

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestSampleAt(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})

	s, err := SampleAt(img, 0, 0)
	if err != nil {
		t.Fatalf("SampleAt failed: %v", err)
	}
	if s.Hex != "#FF0000" {
		t.Errorf("hex: got %s, want #FF0000", s.Hex)
	}
	if math.Abs(s.H-0) > 1e-9 || math.Abs(s.S-1) > 1e-9 || math.Abs(s.V-1) > 1e-9 {
		t.Errorf("HSV of pure red: got (%g,%g,%g), want (0,1,1)", s.H, s.S, s.V)
	}
	if math.Abs(s.GrayY-0.299*255) > 0.01 {
		t.Errorf("luminance: got %g, want %g", s.GrayY, 0.299*255)
	}
}

func TestSampleAtOutOfBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if _, err := SampleAt(img, 5, 0); err == nil {
		t.Error("expected error for out-of-bounds sample")
	}
}

func TestHSVRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	img.Set(0, 0, color.RGBA{0, 255, 0, 255})
	img.Set(1, 1, color.RGBA{120, 60, 200, 255})

	h, s, v := HSVPlanes(img)
	back, err := HSVImage(h, s, v)
	if err != nil {
		t.Fatalf("HSVImage failed: %v", err)
	}
	for _, pt := range []image.Point{{0, 0}, {1, 1}} {
		want := img.RGBAAt(pt.X, pt.Y)
		got := back.RGBAAt(pt.X, pt.Y)
		if int(got.R)-int(want.R) > 1 || int(want.R)-int(got.R) > 1 ||
			int(got.G)-int(want.G) > 1 || int(want.G)-int(got.G) > 1 ||
			int(got.B)-int(want.B) > 1 || int(want.B)-int(got.B) > 1 {
			t.Errorf("round trip at %v: got %v, want %v", pt, got, want)
		}
	}
}

func TestLabPlanesWhite(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})
	l, a, b := LabPlanes(img)
	if math.Abs(l.At(0, 0)-1) > 0.01 {
		t.Errorf("L of white: got %g, want ~1", l.At(0, 0))
	}
	if math.Abs(a.At(0, 0)) > 0.01 || math.Abs(b.At(0, 0)) > 0.01 {
		t.Errorf("a,b of white: got (%g,%g), want ~(0,0)", a.At(0, 0), b.At(0, 0))
	}
}

func TestNegativeLUT(t *testing.T) {
	lut := NegativeLUT()
	if lut[0] != 255 || lut[255] != 0 || lut[100] != 155 {
		t.Errorf("negative LUT: got lut[0]=%d lut[255]=%d lut[100]=%d", lut[0], lut[255], lut[100])
	}
}

func TestGammaLUT(t *testing.T) {
	lut, err := GammaLUT(1.0)
	if err != nil {
		t.Fatalf("GammaLUT failed: %v", err)
	}
	// Gamma 1 is the identity.
	for i := 0; i < 256; i++ {
		if lut[i] != uint8(i) {
			t.Fatalf("gamma 1 lut[%d]: got %d, want %d", i, lut[i], i)
		}
	}

	if _, err := GammaLUT(0); err == nil {
		t.Error("expected error for non-positive gamma")
	}
}

func TestLinearLUTClipping(t *testing.T) {
	lut := LinearLUT(2, 10)
	if lut[0] != 10 {
		t.Errorf("lut[0]: got %d, want 10", lut[0])
	}
	if lut[200] != 255 {
		t.Errorf("lut[200]: got %d, want 255 (clipped)", lut[200])
	}
}

func TestLUTApplyGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 1))
	img.SetGray(0, 0, color.Gray{Y: 10})
	img.SetGray(1, 0, color.Gray{Y: 250})

	out := NegativeLUT().ApplyGray(img)
	if out.GrayAt(0, 0).Y != 245 || out.GrayAt(1, 0).Y != 5 {
		t.Errorf("negative apply: got (%d,%d), want (245,5)",
			out.GrayAt(0, 0).Y, out.GrayAt(1, 0).Y)
	}
}

func TestLogic(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 2, 1))
	b := image.NewGray(image.Rect(0, 0, 2, 1))
	a.SetGray(0, 0, color.Gray{Y: 255})
	b.SetGray(0, 0, color.Gray{Y: 255})
	a.SetGray(1, 0, color.Gray{Y: 255})

	tests := []struct {
		name string
		op   LogicOp
		p0   uint8
		p1   uint8
	}{
		{"and", OpAnd, 255, 0},
		{"or", OpOr, 255, 255},
		{"xor", OpXor, 0, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Logic(a, b, tt.op)
			if err != nil {
				t.Fatalf("Logic failed: %v", err)
			}
			if out.GrayAt(0, 0).Y != tt.p0 || out.GrayAt(1, 0).Y != tt.p1 {
				t.Errorf("got (%d,%d), want (%d,%d)",
					out.GrayAt(0, 0).Y, out.GrayAt(1, 0).Y, tt.p0, tt.p1)
			}
		})
	}
}

func TestLogicDimensionMismatch(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 2, 2))
	b := image.NewGray(image.Rect(0, 0, 3, 2))
	if _, err := Logic(a, b, OpAnd); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestNot(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.SetGray(0, 0, color.Gray{Y: 200})
	if got := Not(img).GrayAt(0, 0).Y; got != 55 {
		t.Errorf("Not: got %d, want 55", got)
	}
}
