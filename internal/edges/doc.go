// Package edges implements gradient-based edge and corner detection:
// Sobel and Laplacian derivatives, Canny edge maps, Harris corner
// response, and Shi-Tomasi feature selection.
//
// All detectors consume grayscale planes with values in [0, 255]. Canny
// follows the standard pipeline: Gaussian smoothing, Sobel gradients,
// non-maximum suppression along the gradient direction, then hysteresis
// thresholding with strong/weak edge tracking.
package edges
