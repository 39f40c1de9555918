// Package filter implements neighborhood operations: generic 2D
// convolution, the classic smoothing filters (box, Gaussian, median,
// bilateral), and the named kernels used by the edge packages.
//
// Convolution operates on float planes with replicated borders, matching
// the BORDER_REPLICATE convention used across the toolkit. The box,
// Gaussian, and median filters on full-color images are backed by the bild
// library; the bilateral filter, which bild does not provide, is
// implemented directly on grayscale planes.
package filter
