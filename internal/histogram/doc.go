// Package histogram computes and manipulates 256-bin intensity
// histograms: equalization, the four classic comparison metrics
// (correlation, chi-square, intersection, Bhattacharyya), CDF-based
// histogram matching, and chart rendering.
package histogram
