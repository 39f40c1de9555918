// Package flow estimates motion between frames: simple frame
// differencing for change detection, pyramidal Lucas-Kanade tracking of
// sparse feature points, and dense Horn-Schunck optical flow with a
// hue-coded visualization.
package flow
