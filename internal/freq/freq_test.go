package freq

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pixelmill/govision/internal/imgio"
)

func randomPlane(w, h int, seed int64) *imgio.Plane {
	rng := rand.New(rand.NewSource(seed))
	p := imgio.NewPlane(w, h)
	for i := range p.Pix {
		p.Pix[i] = rng.Float64() * 255
	}
	return p
}

func TestOptimalSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{1, 1}, {2, 2}, {3, 4}, {17, 32}, {64, 64}, {100, 128},
	}
	for _, tt := range tests {
		if got := OptimalSize(tt.in); got != tt.want {
			t.Errorf("OptimalSize(%d): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDFTIdentity(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"power of two", 32, 16},
		{"odd sizes padded", 30, 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := randomPlane(tt.w, tt.h, 1)
			s, err := DFT(p)
			if err != nil {
				t.Fatalf("DFT failed: %v", err)
			}
			rec, err := IDFT(s)
			if err != nil {
				t.Fatalf("IDFT failed: %v", err)
			}
			if rec.W != tt.w || rec.H != tt.h {
				t.Fatalf("size: got %dx%d, want %dx%d", rec.W, rec.H, tt.w, tt.h)
			}
			for i := range p.Pix {
				if math.Abs(rec.Pix[i]-p.Pix[i]) > 1e-6 {
					t.Fatalf("sample %d: got %v, want %v", i, rec.Pix[i], p.Pix[i])
				}
			}
		})
	}
}

func TestDFTDCValue(t *testing.T) {
	p := imgio.NewPlane(8, 8)
	for i := range p.Pix {
		p.Pix[i] = 3
	}
	s, err := DFT(p)
	if err != nil {
		t.Fatalf("DFT failed: %v", err)
	}
	// DC bin holds the sum of all samples for an unnormalized forward FFT.
	if math.Abs(real(s.At(0, 0))-3*64) > 1e-6 {
		t.Errorf("DC bin: got %v, want %v", real(s.At(0, 0)), 3*64.0)
	}
	// All other bins vanish for a constant input.
	if math.Abs(real(s.At(1, 0))) > 1e-6 || math.Abs(imag(s.At(1, 0))) > 1e-6 {
		t.Errorf("non-DC bin of constant input: got %v, want 0", s.At(1, 0))
	}
}

func TestShiftInvolution(t *testing.T) {
	p := randomPlane(16, 16, 2)
	s, err := DFT(p)
	if err != nil {
		t.Fatalf("DFT failed: %v", err)
	}
	orig := s.Clone()
	Shift(s)
	if s.At(8, 8) != orig.At(0, 0) {
		t.Error("Shift should move DC to the center")
	}
	Shift(s)
	for i := range s.Data {
		if s.Data[i] != orig.Data[i] {
			t.Fatal("double Shift should restore the original layout")
		}
	}
}

func TestLogMagnitudeRange(t *testing.T) {
	p := randomPlane(16, 16, 3)
	s, err := DFT(p)
	if err != nil {
		t.Fatalf("DFT failed: %v", err)
	}
	lm := LogMagnitude(s)
	min, max := lm.MinMax()
	if min != 0 || max != 255 {
		t.Errorf("normalized range: got [%v, %v], want [0, 255]", min, max)
	}
}

func TestFilterIdealLowPassKeepsDC(t *testing.T) {
	p := randomPlane(32, 32, 4)
	s, err := DFT(p)
	if err != nil {
		t.Fatalf("DFT failed: %v", err)
	}
	dc := s.At(0, 0)
	if err := FilterIdeal(s, 4, false); err != nil {
		t.Fatalf("FilterIdeal failed: %v", err)
	}
	if s.At(0, 0) != dc {
		t.Error("low-pass filter should keep the DC coefficient")
	}
	if s.At(16, 16) != 0 {
		t.Error("low-pass filter should zero the highest frequency")
	}

	rec, err := IDFT(s)
	if err != nil {
		t.Fatalf("IDFT failed: %v", err)
	}
	// Low-pass output is smoother: neighboring samples differ less than in
	// the random input on average.
	var rough, roughRec float64
	for y := 0; y < 32; y++ {
		for x := 1; x < 32; x++ {
			rough += math.Abs(p.At(x, y) - p.At(x-1, y))
			roughRec += math.Abs(rec.At(x, y) - rec.At(x-1, y))
		}
	}
	if roughRec >= rough {
		t.Errorf("low-pass did not smooth: rough=%v roughRec=%v", rough, roughRec)
	}
}

func TestFilterIdealHighPassZeroesDC(t *testing.T) {
	p := randomPlane(16, 16, 5)
	s, err := DFT(p)
	if err != nil {
		t.Fatalf("DFT failed: %v", err)
	}
	if err := FilterIdeal(s, 2, true); err != nil {
		t.Fatalf("FilterIdeal failed: %v", err)
	}
	if s.At(0, 0) != 0 {
		t.Error("high-pass filter should zero the DC coefficient")
	}
}

func TestFilterIdealValidation(t *testing.T) {
	s := &Spectrum{W: 4, H: 4, OrigW: 4, OrigH: 4, Data: make([]complex128, 16)}
	if err := FilterIdeal(s, 0, false); err == nil {
		t.Error("expected error for non-positive radius")
	}
}

func TestDCTIdentity(t *testing.T) {
	p := randomPlane(24, 18, 6)
	coeffs, err := DCT(p)
	if err != nil {
		t.Fatalf("DCT failed: %v", err)
	}
	rec, err := IDCT(coeffs)
	if err != nil {
		t.Fatalf("IDCT failed: %v", err)
	}
	for i := range p.Pix {
		if math.Abs(rec.Pix[i]-p.Pix[i]) > 1e-6 {
			t.Fatalf("sample %d: got %v, want %v", i, rec.Pix[i], p.Pix[i])
		}
	}
}

func TestDCTConstantEnergyInDC(t *testing.T) {
	p := imgio.NewPlane(8, 8)
	for i := range p.Pix {
		p.Pix[i] = 100
	}
	coeffs, err := DCT(p)
	if err != nil {
		t.Fatalf("DCT failed: %v", err)
	}
	// Orthonormal DCT of a constant: DC = 100 * sqrt(W*H), rest zero.
	want := 100 * math.Sqrt(64)
	if math.Abs(coeffs.At(0, 0)-want) > 1e-9 {
		t.Errorf("DC: got %v, want %v", coeffs.At(0, 0), want)
	}
	if math.Abs(coeffs.At(3, 5)) > 1e-9 {
		t.Errorf("AC coefficient of constant: got %v, want 0", coeffs.At(3, 5))
	}
}

func TestCompress(t *testing.T) {
	p := randomPlane(16, 16, 7)
	rec, kept, err := Compress(p, 0.5)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if rec.W != 16 || rec.H != 16 {
		t.Fatalf("size: got %dx%d, want 16x16", rec.W, rec.H)
	}
	if math.Abs(kept-0.25) > 1e-9 {
		t.Errorf("kept fraction: got %v, want 0.25", kept)
	}

	// Full keep is lossless.
	rec, kept, err = Compress(p, 1)
	if err != nil {
		t.Fatalf("Compress(1) failed: %v", err)
	}
	if kept != 1 {
		t.Errorf("kept: got %v, want 1", kept)
	}
	for i := range p.Pix {
		if math.Abs(rec.Pix[i]-p.Pix[i]) > 1e-6 {
			t.Fatalf("lossless sample %d: got %v, want %v", i, rec.Pix[i], p.Pix[i])
		}
	}

	if _, _, err := Compress(p, 0); err == nil {
		t.Error("expected error for zero keepFraction")
	}
}

func TestCompressSmoothImageLowError(t *testing.T) {
	// A smooth gradient concentrates its energy in low-frequency
	// coefficients, so truncating in the DCT basis barely changes it.
	// Truncating in any other basis (or round-tripping the image
	// through an extra transform pair) destroys it.
	p := imgio.NewPlane(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			p.Set(x, y, 8*float64(x)+4*float64(y))
		}
	}
	rec, _, err := Compress(p, 0.5)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	var maxErr float64
	for i := range p.Pix {
		if d := math.Abs(rec.Pix[i] - p.Pix[i]); d > maxErr {
			maxErr = d
		}
	}
	if maxErr > 5 {
		t.Errorf("max reconstruction error = %v intensity levels, want < 5", maxErr)
	}
}
