// Package morphology implements binary and grayscale morphological
// operators on 8-bit images: erosion and dilation with rectangular,
// cross, and elliptical structuring elements, the derived open, close,
// gradient, top-hat, and black-hat operations, skeletonization by the
// Zhang-Suen and Guo-Hall thinning algorithms, and flood fill with hole
// filling.
package morphology
