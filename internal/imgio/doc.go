// Package imgio provides image loading, saving, and the float-plane
// representation shared by the processing packages.
//
// Images enter the toolkit as standard Go image.Image values decoded from
// PNG, JPEG, or GIF files. Numerical operations (transforms, filtering,
// optical flow) work on a Plane: a dense row-major float64 matrix holding
// one channel. Conversion helpers map between the two, using BT.601
// luminance weights for grayscale conversion.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
// X increases rightward, Y increases downward. Plane indexing is (x, y)
// with the same convention.
//
// # Thread Safety
//
// The Cache type is safe for concurrent use. Plane values are not
// synchronized; callers must not mutate a Plane shared across goroutines.
package imgio
