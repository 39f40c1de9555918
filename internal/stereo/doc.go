// Package stereo computes dense disparity between a rectified image
// pair by sum-of-absolute-differences block matching, with texture and
// uniqueness validation, and reprojects disparities to 3D points given
// the rig geometry.
package stereo
