// Package geometry implements the geometric transforms: resizing,
// rotation, translation, general affine warps, and perspective warps.
//
// Whole-image resampling (resize, axis flips, 90-degree rotations, crops)
// is delegated to the imaging library. Arbitrary affine and perspective
// warps are computed by inverse mapping with bilinear interpolation, so
// every destination pixel samples the source exactly once and holes cannot
// appear.
package geometry
