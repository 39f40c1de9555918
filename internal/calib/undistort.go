package calib

import (
	"fmt"
	"image"

	"github.com/pixelmill/govision/internal/geometry"
)

// Undistort remaps an image so straight lines in the scene appear
// straight: each output pixel is pulled from the distorted position the
// lens would have imaged it at, with bilinear sampling. The output keeps
// the same intrinsic matrix.
func Undistort(cam *Camera, img image.Image) (*image.RGBA, error) {
	if err := cam.Intrinsics.Validate(); err != nil {
		return nil, fmt.Errorf("undistort: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	in := cam.Intrinsics

	for v := 0; v < h; v++ {
		for u := 0; u < w; u++ {
			yn := (float64(v) - in.Cy) / in.Fy
			xn := (float64(u) - in.Cx - in.Skew*yn) / in.Fx
			xd, yd := cam.Distortion.Apply(xn, yn)
			su := in.Fx*xd + in.Skew*yd + in.Cx
			sv := in.Fy*yd + in.Cy
			out.SetRGBA(u, v, geometry.SampleBilinear(img, su+float64(bounds.Min.X), sv+float64(bounds.Min.Y)))
		}
	}
	return out, nil
}
