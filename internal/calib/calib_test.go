package calib

import (
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"
)

func rotation(ax, ay, az float64) [9]float64 {
	cx, sx := math.Cos(ax), math.Sin(ax)
	cy, sy := math.Cos(ay), math.Sin(ay)
	cz, sz := math.Cos(az), math.Sin(az)
	// Rz * Ry * Rx
	return [9]float64{
		cz * cy, cz*sy*sx - sz*cx, cz*sy*cx + sz*sx,
		sz * cy, sz*sy*sx + cz*cx, sz*sy*cx - cz*sx,
		-sy, cy * sx, cy * cx,
	}
}

func boardGrid(cols, rows int, spacing float64) [][2]float64 {
	var pts [][2]float64
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			pts = append(pts, [2]float64{float64(c) * spacing, float64(r) * spacing})
		}
	}
	return pts
}

func syntheticViews(truth *Camera, poses []Extrinsics) []View {
	board := boardGrid(7, 5, 30)
	views := make([]View, len(poses))
	for i, pose := range poses {
		v := View{Board: board}
		for _, p := range board {
			X, Y, Z := pose.Transform(p[0], p[1], 0)
			u, vv, err := truth.Project(X, Y, Z)
			if err != nil {
				panic(err)
			}
			v.Pixels = append(v.Pixels, [2]float64{u, vv})
		}
		views[i] = v
	}
	return views
}

func TestCalibrateRecoversIntrinsics(t *testing.T) {
	truth := &Camera{Intrinsics: Intrinsics{
		Width: 640, Height: 480,
		Fx: 800, Fy: 820, Cx: 322, Cy: 238,
	}}
	poses := []Extrinsics{
		{R: rotation(0.3, 0.1, 0.05), T: [3]float64{-80, -60, 600}},
		{R: rotation(-0.2, 0.35, -0.1), T: [3]float64{-100, -40, 700}},
		{R: rotation(0.1, -0.3, 0.2), T: [3]float64{-60, -90, 650}},
		{R: rotation(-0.35, -0.15, 0.3), T: [3]float64{-90, -70, 550}},
		{R: rotation(0.25, 0.25, -0.25), T: [3]float64{-70, -50, 620}},
	}
	views := syntheticViews(truth, poses)

	cam, exts, err := Calibrate(640, 480, views)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if len(exts) != len(views) {
		t.Fatalf("got %d extrinsics, want %d", len(exts), len(views))
	}

	in := cam.Intrinsics
	if math.Abs(in.Fx-800) > 1 || math.Abs(in.Fy-820) > 1 {
		t.Errorf("focal lengths = (%v, %v), want (800, 820)", in.Fx, in.Fy)
	}
	if math.Abs(in.Cx-322) > 1 || math.Abs(in.Cy-238) > 1 {
		t.Errorf("principal point = (%v, %v), want (322, 238)", in.Cx, in.Cy)
	}
	if cam.RMSError > 0.1 {
		t.Errorf("RMS reprojection error = %v, want near zero", cam.RMSError)
	}
}

func TestCalibrateTooFewViews(t *testing.T) {
	if _, _, err := Calibrate(640, 480, make([]View, 2)); err == nil {
		t.Fatal("expected error for 2 views")
	}
}

func TestCalibrateMismatchedView(t *testing.T) {
	bad := View{Board: boardGrid(4, 4, 10), Pixels: [][2]float64{{1, 1}}}
	if _, _, err := Calibrate(640, 480, []View{bad, bad, bad}); err == nil {
		t.Fatal("expected error for mismatched point counts")
	}
}

func TestDistortionRoundTrip(t *testing.T) {
	d := Distortion{K1: -0.21, K2: 0.05, P1: 0.001, P2: -0.0007}
	pts := [][2]float64{{0, 0}, {0.2, -0.1}, {-0.35, 0.3}, {0.4, 0.4}}
	for _, p := range pts {
		xd, yd := d.Apply(p[0], p[1])
		x, y := d.Remove(xd, yd)
		if math.Hypot(x-p[0], y-p[1]) > 1e-8 {
			t.Errorf("round trip of %v drifted to (%v, %v)", p, x, y)
		}
	}
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	cam := &Camera{
		Intrinsics: Intrinsics{Width: 640, Height: 480, Fx: 700, Fy: 710, Cx: 320, Cy: 240},
		Distortion: Distortion{K1: -0.15, K2: 0.03},
	}
	x, y, z := 120.0, -45.0, 800.0
	u, v, err := cam.Project(x, y, z)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	gx, gy, gz := cam.Unproject(u, v, z)
	if math.Abs(gx-x) > 1e-6 || math.Abs(gy-y) > 1e-6 || gz != z {
		t.Errorf("round trip = (%v, %v, %v), want (%v, %v, %v)", gx, gy, gz, x, y, z)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := &Camera{Intrinsics: Intrinsics{Width: 10, Height: 10, Fx: 1, Fy: 1}}
	if _, _, err := cam.Project(0, 0, -5); err == nil {
		t.Fatal("expected error for point behind camera")
	}
}

func TestCameraSaveLoad(t *testing.T) {
	cam := &Camera{
		Intrinsics: Intrinsics{Width: 640, Height: 480, Fx: 800, Fy: 820, Cx: 321, Cy: 239},
		Distortion: Distortion{K1: -0.2, K2: 0.04, P1: 0.0003},
		RMSError:   0.42,
	}
	path := filepath.Join(t.TempDir(), "camera.json")
	if err := cam.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := LoadCamera(path)
	if err != nil {
		t.Fatalf("LoadCamera: %v", err)
	}
	if *got != *cam {
		t.Errorf("loaded %+v, want %+v", got, cam)
	}
}

func TestLoadCameraRejectsInvalid(t *testing.T) {
	cam := &Camera{Intrinsics: Intrinsics{Width: 0, Height: 480, Fx: 800, Fy: 820}}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := cam.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := LoadCamera(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestUndistortIdentityWithoutDistortion(t *testing.T) {
	cam := &Camera{Intrinsics: Intrinsics{Width: 8, Height: 8, Fx: 10, Fy: 10, Cx: 4, Cy: 4}}
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), A: 255})
		}
	}
	out, err := Undistort(cam, img)
	if err != nil {
		t.Fatalf("Undistort: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if out.RGBAAt(x, y) != img.RGBAAt(x, y) {
				t.Fatalf("pixel (%d, %d) changed: %v -> %v", x, y, img.RGBAAt(x, y), out.RGBAAt(x, y))
			}
		}
	}
}
