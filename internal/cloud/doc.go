// Package cloud works with unorganized 3D point clouds: ASCII PCD
// reading and writing, passthrough and voxel-grid downsampling filters,
// centroid and bounds statistics, RANSAC plane segmentation, and rigid
// alignment by iterative closest point.
package cloud
