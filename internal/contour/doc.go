// Package contour segments binary images and measures the resulting
// shapes. It provides the classic fixed and Otsu thresholds, external
// contour extraction by border following, and shape descriptors: area,
// perimeter, bounding box, centroid, and spatial, central, and Hu
// moments.
package contour
