package dnn

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadClassNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	if err := os.WriteFile(path, []byte("person\ncar\n\nbicycle\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	names, err := LoadClassNames(path)
	if err != nil {
		t.Fatalf("LoadClassNames: %v", err)
	}
	want := []string{"person", "car", "bicycle"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLoadClassNamesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadClassNames(path); err == nil {
		t.Fatal("expected error for empty class file")
	}
}

func TestIoU(t *testing.T) {
	a := Detection{X: 0, Y: 0, W: 10, H: 10}
	tests := []struct {
		name string
		b    Detection
		want float64
	}{
		{"identical", Detection{X: 0, Y: 0, W: 10, H: 10}, 1},
		{"disjoint", Detection{X: 20, Y: 20, W: 5, H: 5}, 0},
		{"half overlap", Detection{X: 5, Y: 0, W: 10, H: 10}, 50.0 / 150.0},
		{"touching edge", Detection{X: 10, Y: 0, W: 10, H: 10}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IoU(a, tc.b); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("IoU = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNonMaxSuppress(t *testing.T) {
	dets := []Detection{
		{ClassID: 0, Confidence: 0.9, X: 0, Y: 0, W: 10, H: 10},
		{ClassID: 0, Confidence: 0.7, X: 1, Y: 1, W: 10, H: 10},  // overlaps first
		{ClassID: 1, Confidence: 0.8, X: 1, Y: 1, W: 10, H: 10},  // other class, kept
		{ClassID: 0, Confidence: 0.6, X: 50, Y: 50, W: 10, H: 10}, // far away, kept
	}
	kept := NonMaxSuppress(dets, 0.4)
	if len(kept) != 3 {
		t.Fatalf("kept %d detections, want 3", len(kept))
	}
	if kept[0].Confidence != 0.9 {
		t.Errorf("strongest detection should come first, got %v", kept[0].Confidence)
	}
	for _, d := range kept {
		if d.ClassID == 0 && d.Confidence == 0.7 {
			t.Error("overlapping same-class box survived suppression")
		}
	}
}

func TestDecodeYOLO(t *testing.T) {
	// Two candidates of the same object, one weak unrelated candidate.
	rows := [][]float64{
		{0.5, 0.5, 0.2, 0.2, 0.9, 0.1, 0.95}, // class 1, conf 0.855
		{0.51, 0.5, 0.2, 0.2, 0.8, 0.1, 0.9}, // same object, suppressed
		{0.2, 0.2, 0.1, 0.1, 0.3, 0.9, 0.1},  // conf 0.27 < threshold
	}
	cfg := DefaultConfig()
	cfg.ClassNames = []string{"cat", "dog"}

	dets, err := DecodeYOLO(rows, 200, 100, cfg)
	if err != nil {
		t.Fatalf("DecodeYOLO: %v", err)
	}
	if len(dets) != 1 {
		t.Fatalf("got %d detections, want 1", len(dets))
	}
	d := dets[0]
	if d.ClassID != 1 || d.ClassName != "dog" {
		t.Errorf("class = %d (%q), want 1 (dog)", d.ClassID, d.ClassName)
	}
	if math.Abs(d.Confidence-0.9*0.95) > 1e-12 {
		t.Errorf("confidence = %v, want %v", d.Confidence, 0.9*0.95)
	}
	// Box centered at (0.5, 0.5) of a 200x100 image with 0.2 extent.
	if math.Abs(d.X-80) > 1e-9 || math.Abs(d.Y-40) > 1e-9 {
		t.Errorf("origin = (%v, %v), want (80, 40)", d.X, d.Y)
	}
	if math.Abs(d.W-40) > 1e-9 || math.Abs(d.H-20) > 1e-9 {
		t.Errorf("size = (%v, %v), want (40, 20)", d.W, d.H)
	}
}

func TestDecodeYOLOValidation(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := DecodeYOLO([][]float64{{1, 2, 3}}, 100, 100, cfg); err == nil {
		t.Error("expected error for short row")
	}
	cfg.ConfThreshold = 0
	if _, err := DecodeYOLO(nil, 100, 100, cfg); err == nil {
		t.Error("expected error for bad confidence threshold")
	}
}

func TestLoadNetMissingModel(t *testing.T) {
	// Without the gocv tag this is the stub error; with it, the model
	// file does not exist. Either way loading must fail cleanly.
	if _, err := LoadNet(filepath.Join(t.TempDir(), "missing.onnx"), 640, DefaultConfig()); err == nil {
		t.Fatal("expected error")
	}
}
