// Package features extracts geometric structure from edge maps: the
// standard and probabilistic Hough line transforms, Hough circle
// detection, and robust homography estimation from point matches with
// RANSAC over a normalized direct linear transform.
package features
