// Package dnn runs object detection with YOLO-family models. The
// postprocessing pipeline (box decoding, confidence filtering,
// per-class non-maximum suppression) is pure Go; network inference
// itself needs OpenCV's DNN module and is only compiled in with the
// gocv build tag.
package dnn
