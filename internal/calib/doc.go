// Package calib models the pinhole camera: intrinsic parameters with
// Brown-Conrady lens distortion, Zhang's calibration from planar
// chessboard views, reprojection error reporting, image undistortion,
// and JSON persistence of the calibrated parameters.
package calib
