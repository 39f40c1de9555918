//go:build gocv

package dnn

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Net wraps an OpenCV DNN network loaded from an ONNX YOLO model.
type Net struct {
	net       gocv.Net
	inputSize int
	cfg       Config
}

// LoadNet reads an ONNX model from disk. inputSize is the square
// network input in pixels (640 for the usual YOLO exports).
func LoadNet(modelPath string, inputSize int, cfg Config) (*Net, error) {
	if inputSize < 32 {
		return nil, fmt.Errorf("input size %d too small", inputSize)
	}
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("load model %s: empty network", modelPath)
	}
	return &Net{net: net, inputSize: inputSize, cfg: cfg}, nil
}

// Close releases the network.
func (n *Net) Close() error {
	return n.net.Close()
}

// Detect runs the network on an image and postprocesses the output with
// DecodeYOLO.
func (n *Net) Detect(img image.Image) ([]Detection, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0,
		image.Pt(n.inputSize, n.inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	n.net.SetInput(blob, "")
	out := n.net.Forward("")
	defer out.Close()

	// Output shape is 1 x N x (5 + classes); flatten to rows.
	sz := out.Size()
	if len(sz) != 3 {
		return nil, fmt.Errorf("unexpected output rank %d", len(sz))
	}
	numRows, rowLen := sz[1], sz[2]
	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	rows := make([][]float64, numRows)
	for r := 0; r < numRows; r++ {
		row := make([]float64, rowLen)
		for c := 0; c < rowLen; c++ {
			row[c] = float64(data[r*rowLen+c])
		}
		rows[r] = row
	}

	bounds := img.Bounds()
	return DecodeYOLO(rows, bounds.Dx(), bounds.Dy(), n.cfg)
}
