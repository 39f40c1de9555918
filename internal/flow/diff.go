package flow

import (
	"fmt"
	"image"

	"github.com/pixelmill/govision/internal/imgio"
)

// DiffResult reports frame-differencing change detection.
type DiffResult struct {
	// Mask marks changed pixels with 255.
	Mask *image.Gray `json:"-"`
	// ChangedPixels counts pixels whose difference passed the
	// threshold.
	ChangedPixels int `json:"changed_pixels"`
	// ChangedFraction is ChangedPixels over the frame area.
	ChangedFraction float64 `json:"changed_fraction"`
}

// FrameDiff thresholds the absolute difference of two same-sized frames.
// Pixels differing by more than threshold count as motion.
func FrameDiff(prev, next *imgio.Plane, threshold float64) (*DiffResult, error) {
	if prev.W != next.W || prev.H != next.H {
		return nil, fmt.Errorf("frame sizes differ: %dx%d vs %dx%d", prev.W, prev.H, next.W, next.H)
	}
	if threshold < 0 {
		return nil, fmt.Errorf("threshold must not be negative, got %v", threshold)
	}

	mask := image.NewGray(image.Rect(0, 0, prev.W, prev.H))
	changed := 0
	for i := range prev.Pix {
		d := prev.Pix[i] - next.Pix[i]
		if d < 0 {
			d = -d
		}
		if d > threshold {
			mask.Pix[(i/prev.W)*mask.Stride+i%prev.W] = 255
			changed++
		}
	}
	return &DiffResult{
		Mask:            mask,
		ChangedPixels:   changed,
		ChangedFraction: float64(changed) / float64(prev.W*prev.H),
	}, nil
}
