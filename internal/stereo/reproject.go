package stereo

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/pixelmill/govision/internal/calib"
)

// Reproject converts valid disparities to 3D points in the left camera
// frame: depth is focal*baseline/disparity. baseline is the distance
// between the rectified camera centers, in the same unit the returned
// points use. Zero disparities are skipped along with invalid pixels.
func Reproject(d *DisparityMap, in calib.Intrinsics, baseline float64) ([]r3.Vector, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("reproject: %w", err)
	}
	if baseline <= 0 {
		return nil, fmt.Errorf("baseline must be positive, got %v", baseline)
	}

	pts := make([]r3.Vector, 0, len(d.Data))
	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			disp := d.Data[y*d.W+x]
			if disp <= 0 {
				continue
			}
			z := in.Fx * baseline / disp
			pts = append(pts, r3.Vector{
				X: (float64(x) - in.Cx) * z / in.Fx,
				Y: (float64(y) - in.Cy) * z / in.Fy,
				Z: z,
			})
		}
	}
	return pts, nil
}
