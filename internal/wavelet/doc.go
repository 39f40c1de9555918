// Package wavelet implements the 2D Haar wavelet transform with
// shrinkage-based denoising.
//
// The forward transform decomposes an image into four sub-bands per level:
//
//	+-------+-------+
//	|  LL   |  LH   |   LL: approximation (averages)
//	+-------+-------+   LH: horizontal detail
//	|  HL   |  HH   |   HL: vertical detail, HH: diagonal detail
//	+-------+-------+
//
// Each level operates on the LL quadrant of the previous one, so a plane
// must have dimensions divisible by 2^levels; Pad handles that by
// replicating the border. Denoising shrinks detail coefficients (never the
// approximation) with one of three scalar rules before reconstruction.
package wavelet
