package dnn

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Detection is one detected object in pixel coordinates.
type Detection struct {
	ClassID    int     `json:"class_id"`
	ClassName  string  `json:"class_name,omitempty"`
	Confidence float64 `json:"confidence"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
}

// Config tunes detection postprocessing.
type Config struct {
	// ConfThreshold drops candidates below this confidence.
	ConfThreshold float64 `json:"conf_threshold"`
	// NMSThreshold is the IoU above which overlapping boxes of the same
	// class are suppressed.
	NMSThreshold float64 `json:"nms_threshold"`
	// ClassNames maps class IDs to display names; optional.
	ClassNames []string `json:"-"`
}

// DefaultConfig matches the usual YOLO demo settings.
func DefaultConfig() Config {
	return Config{ConfThreshold: 0.5, NMSThreshold: 0.4}
}

// LoadClassNames reads one class name per line, in ID order.
func LoadClassNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load class names: %w", err)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if name := strings.TrimSpace(sc.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("load class names %s: %w", path, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("class file %s is empty", path)
	}
	return names, nil
}

// DecodeYOLO converts raw YOLO output rows into detections. Each row is
// (cx, cy, w, h, objectness, classScore...) with the box in fractions
// of the input, which is scaled to imgW x imgH. Candidates below the
// confidence threshold are dropped and per-class NMS prunes overlaps.
func DecodeYOLO(rows [][]float64, imgW, imgH int, cfg Config) ([]Detection, error) {
	if cfg.ConfThreshold <= 0 || cfg.ConfThreshold >= 1 {
		return nil, fmt.Errorf("confidence threshold %v outside (0, 1)", cfg.ConfThreshold)
	}
	if cfg.NMSThreshold <= 0 || cfg.NMSThreshold >= 1 {
		return nil, fmt.Errorf("nms threshold %v outside (0, 1)", cfg.NMSThreshold)
	}

	var cands []Detection
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("output row %d has %d values, want at least 6", i, len(row))
		}
		obj := row[4]
		classID, classScore := 0, row[5]
		for c := 6; c < len(row); c++ {
			if row[c] > classScore {
				classID, classScore = c-5, row[c]
			}
		}
		conf := obj * classScore
		if conf < cfg.ConfThreshold {
			continue
		}

		d := Detection{
			ClassID:    classID,
			Confidence: conf,
			X:          (row[0] - row[2]/2) * float64(imgW),
			Y:          (row[1] - row[3]/2) * float64(imgH),
			W:          row[2] * float64(imgW),
			H:          row[3] * float64(imgH),
		}
		if classID < len(cfg.ClassNames) {
			d.ClassName = cfg.ClassNames[classID]
		}
		cands = append(cands, d)
	}
	return NonMaxSuppress(cands, cfg.NMSThreshold), nil
}

// NonMaxSuppress keeps the highest-confidence box of each overlapping
// same-class group. Boxes of different classes never suppress each
// other.
func NonMaxSuppress(dets []Detection, iouThreshold float64) []Detection {
	sorted := append([]Detection(nil), dets...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	var kept []Detection
	for _, d := range sorted {
		ok := true
		for _, k := range kept {
			if k.ClassID == d.ClassID && IoU(k, d) > iouThreshold {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, d)
		}
	}
	return kept
}

// IoU is the intersection-over-union of two boxes.
func IoU(a, b Detection) float64 {
	x1 := maxf(a.X, b.X)
	y1 := maxf(a.Y, b.Y)
	x2 := minf(a.X+a.W, b.X+b.W)
	y2 := minf(a.Y+a.H, b.Y+b.H)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	inter := (x2 - x1) * (y2 - y1)
	union := a.W*a.H + b.W*b.H - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
