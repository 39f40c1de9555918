package calib

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Intrinsics holds the pinhole camera matrix parameters.
type Intrinsics struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Fx     float64 `json:"fx"`
	Fy     float64 `json:"fy"`
	Cx     float64 `json:"cx"`
	Cy     float64 `json:"cy"`
	Skew   float64 `json:"skew,omitempty"`
}

// Distortion holds Brown-Conrady lens distortion coefficients: three
// radial and two tangential terms.
type Distortion struct {
	K1 float64 `json:"k1"`
	K2 float64 `json:"k2"`
	K3 float64 `json:"k3"`
	P1 float64 `json:"p1"`
	P2 float64 `json:"p2"`
}

// Camera is a calibrated pinhole camera.
type Camera struct {
	Intrinsics Intrinsics `json:"intrinsics"`
	Distortion Distortion `json:"distortion"`
	// RMSError is the root-mean-square reprojection error of the
	// calibration, in pixels.
	RMSError float64 `json:"rms_error,omitempty"`
}

// Validate checks that the intrinsics describe a usable camera.
func (in Intrinsics) Validate() error {
	if in.Width <= 0 || in.Height <= 0 {
		return fmt.Errorf("image size %dx%d must be positive", in.Width, in.Height)
	}
	if in.Fx <= 0 || in.Fy <= 0 {
		return fmt.Errorf("focal lengths (%v, %v) must be positive", in.Fx, in.Fy)
	}
	return nil
}

// Project maps a camera-frame 3D point to pixel coordinates, applying
// distortion. Points at or behind the camera plane are an error.
func (c *Camera) Project(x, y, z float64) (u, v float64, err error) {
	if z <= 0 {
		return 0, 0, fmt.Errorf("point at z=%v is behind the camera", z)
	}
	xn, yn := x/z, y/z
	xd, yd := c.Distortion.Apply(xn, yn)
	in := c.Intrinsics
	return in.Fx*xd + in.Skew*yd + in.Cx, in.Fy*yd + in.Cy, nil
}

// Unproject maps a pixel and depth to a camera-frame 3D point. The
// distortion inverse is iterative.
func (c *Camera) Unproject(u, v, depth float64) (x, y, z float64) {
	in := c.Intrinsics
	yd := (v - in.Cy) / in.Fy
	xd := (u - in.Cx - in.Skew*yd) / in.Fx
	xn, yn := c.Distortion.Remove(xd, yd)
	return xn * depth, yn * depth, depth
}

// Apply distorts normalized image coordinates.
func (d Distortion) Apply(x, y float64) (float64, float64) {
	r2 := x*x + y*y
	radial := 1 + d.K1*r2 + d.K2*r2*r2 + d.K3*r2*r2*r2
	xd := x*radial + 2*d.P1*x*y + d.P2*(r2+2*x*x)
	yd := y*radial + d.P1*(r2+2*y*y) + 2*d.P2*x*y
	return xd, yd
}

// Remove undistorts normalized image coordinates by fixed-point
// iteration, which converges quickly for realistic lens coefficients.
func (d Distortion) Remove(xd, yd float64) (float64, float64) {
	x, y := xd, yd
	for i := 0; i < 20; i++ {
		r2 := x*x + y*y
		radial := 1 + d.K1*r2 + d.K2*r2*r2 + d.K3*r2*r2*r2
		if radial == 0 {
			break
		}
		dx := 2*d.P1*x*y + d.P2*(r2+2*x*x)
		dy := d.P1*(r2+2*y*y) + 2*d.P2*x*y
		nx := (xd - dx) / radial
		ny := (yd - dy) / radial
		if math.Abs(nx-x) < 1e-12 && math.Abs(ny-y) < 1e-12 {
			return nx, ny
		}
		x, y = nx, ny
	}
	return x, y
}

// Save writes the camera parameters to a JSON file.
func (c *Camera) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal camera: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save camera: %w", err)
	}
	return nil
}

// LoadCamera reads camera parameters from a JSON file.
func LoadCamera(path string) (*Camera, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load camera: %w", err)
	}
	var c Camera
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse camera %s: %w", path, err)
	}
	if err := c.Intrinsics.Validate(); err != nil {
		return nil, fmt.Errorf("camera %s: %w", path, err)
	}
	return &c, nil
}
