// Package colorspace converts images between color representations and
// applies per-pixel intensity transforms.
//
// Conversions cover grayscale (BT.601), HSV, CIE Lab, and CIE XYZ. Single
// pixels can be sampled in all representations at once; whole images can be
// decomposed into per-channel planes for the transform packages.
//
// The package also hosts the pixel-to-pixel operations that need no
// neighborhood: lookup-table application (negative, gamma, brightness and
// contrast) and bitwise logic between binary masks.
package colorspace
