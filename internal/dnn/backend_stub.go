//go:build !gocv

package dnn

import (
	"fmt"
	"image"
)

// Net is unavailable without the gocv build tag; postprocessing via
// DecodeYOLO still works on externally produced network output.
type Net struct{}

// LoadNet reports that inference support is not compiled in.
func LoadNet(modelPath string, inputSize int, cfg Config) (*Net, error) {
	return nil, fmt.Errorf("dnn inference requires building with the gocv tag")
}

// Close is a no-op on the stub.
func (n *Net) Close() error { return nil }

// Detect reports that inference support is not compiled in.
func (n *Net) Detect(img image.Image) ([]Detection, error) {
	return nil, fmt.Errorf("dnn inference requires building with the gocv tag")
}
