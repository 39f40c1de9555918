package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/pixelmill/govision/internal/calib"
	"github.com/pixelmill/govision/internal/cloud"
	"github.com/pixelmill/govision/internal/colorspace"
	"github.com/pixelmill/govision/internal/contour"
	"github.com/pixelmill/govision/internal/dnn"
	"github.com/pixelmill/govision/internal/edges"
	"github.com/pixelmill/govision/internal/features"
	"github.com/pixelmill/govision/internal/filter"
	"github.com/pixelmill/govision/internal/flow"
	"github.com/pixelmill/govision/internal/freq"
	"github.com/pixelmill/govision/internal/geometry"
	"github.com/pixelmill/govision/internal/histogram"
	"github.com/pixelmill/govision/internal/imgio"
	"github.com/pixelmill/govision/internal/morphology"
	"github.com/pixelmill/govision/internal/stereo"
	"github.com/pixelmill/govision/internal/wavelet"
)

// Operation is one named CLI entry point.
type Operation struct {
	Description string
	Run         func(args []string) error
}

var operations = map[string]Operation{
	"info":      {"Print image dimensions and format as JSON", runInfo},
	"grayscale": {"Convert an image to grayscale", runGrayscale},
	"negative":  {"Invert an image through a lookup table", runNegative},
	"gamma":     {"Apply gamma correction", runGamma},
	"equalize":  {"Equalize the intensity histogram", runEqualize},
	"histogram": {"Render the histogram chart of an image", runHistogram},
	"threshold": {"Threshold a grayscale image (fixed or Otsu)", runThreshold},
	"blur":      {"Smooth with a box, gaussian, or median filter", runBlur},
	"bilateral": {"Edge-preserving bilateral smoothing", runBilateral},
	"canny":     {"Canny edge detection", runCanny},
	"morph":     {"Morphological operator (erode, dilate, open, ...)", runMorph},
	"thin":      {"Skeletonize with Zhang-Suen or Guo-Hall thinning", runThin},
	"contours":  {"Find external contours and report shape stats", runContours},
	"resize":    {"Resize an image with a named filter", runResize},
	"rotate":    {"Rotate by a multiple of 90 degrees or flip", runRotate},
	"spectrum":  {"Write the centered log-magnitude DFT spectrum", runSpectrum},
	"dct":       {"Compress through the DCT, keeping a coefficient fraction", runDCT},
	"denoise":   {"Wavelet shrinkage denoising", runDenoise},
	"hough":     {"Detect lines with the standard Hough transform", runHough},
	"undistort": {"Remove lens distortion using saved camera parameters", runUndistort},
	"disparity": {"Block-matching disparity between a rectified pair", runDisparity},
	"voxel":     {"Voxel-downsample an ASCII PCD point cloud", runVoxel},
	"motion":    {"Frame-difference change detection between two frames", runMotion},
	"detect":    {"Run YOLO object detection (needs the gocv build)", runDetect},
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	fs.Parse(args)

	info, err := imgio.LoadInfo(imgio.NewCache(), *in)
	if err != nil {
		return err
	}
	return writeJSON(info)
}

func runGrayscale(args []string) error {
	fs := flag.NewFlagSet("grayscale", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	return imgio.Save(*out, colorspace.Grayscale(img))
}

func runNegative(args []string) error {
	fs := flag.NewFlagSet("negative", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	return imgio.Save(*out, colorspace.NegativeLUT().Apply(img))
}

func runGamma(args []string) error {
	fs := flag.NewFlagSet("gamma", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	gamma := fs.Float64("gamma", 2.2, "gamma exponent")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	lut, err := colorspace.GammaLUT(*gamma)
	if err != nil {
		return err
	}
	return imgio.Save(*out, lut.Apply(img))
}

func runEqualize(args []string) error {
	fs := flag.NewFlagSet("equalize", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	perChannel := fs.Bool("rgb", false, "equalize color channels independently")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	if *perChannel {
		return imgio.Save(*out, histogram.EqualizeRGB(img))
	}
	return imgio.Save(*out, histogram.Equalize(colorspace.Grayscale(img)))
}

func runHistogram(args []string) error {
	fs := flag.NewFlagSet("histogram", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output chart path (.png)")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	h := histogram.FromGray(colorspace.Grayscale(img))
	return histogram.RenderChart(*out, "intensity histogram",
		histogram.Series{Name: "gray", Hist: h})
}

func runThreshold(args []string) error {
	fs := flag.NewFlagSet("threshold", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	typ := fs.String("type", "binary", "binary, binary-inv, trunc, tozero, tozero-inv, or otsu")
	value := fs.Int("value", 128, "threshold value (ignored for otsu)")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	gray := colorspace.Grayscale(img)

	if *typ == "otsu" {
		level, bin := contour.OtsuThreshold(gray, 255)
		if err := imgio.Save(*out, bin); err != nil {
			return err
		}
		return writeJSON(map[string]interface{}{"otsu_threshold": level})
	}

	tt, err := contour.ParseThresholdType(*typ)
	if err != nil {
		return err
	}
	return imgio.Save(*out, contour.Threshold(gray, uint8(*value), 255, tt))
}

func runBlur(args []string) error {
	fs := flag.NewFlagSet("blur", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	kind := fs.String("kind", "gaussian", "box, gaussian, or median")
	radius := fs.Float64("radius", 3, "filter radius")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	var result image.Image
	switch *kind {
	case "box":
		result, err = filter.Box(img, *radius)
	case "gaussian":
		result, err = filter.Gaussian(img, *radius)
	case "median":
		result, err = filter.Median(img, *radius)
	default:
		return fmt.Errorf("unknown blur kind %q", *kind)
	}
	if err != nil {
		return err
	}
	return imgio.Save(*out, result)
}

func runBilateral(args []string) error {
	fs := flag.NewFlagSet("bilateral", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	sigmaColor := fs.Float64("sigma-color", 25, "intensity sigma")
	sigmaSpace := fs.Float64("sigma-space", 5, "spatial sigma")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	p, err := filter.Bilateral(imgio.Luminance(img), *sigmaColor, *sigmaSpace)
	if err != nil {
		return err
	}
	return imgio.Save(*out, p.GrayImage())
}

func runCanny(args []string) error {
	fs := flag.NewFlagSet("canny", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	low := fs.Float64("low", 50, "low hysteresis threshold")
	high := fs.Float64("high", 150, "high hysteresis threshold")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	edgeMap, err := edges.Canny(imgio.Luminance(img), *low, *high)
	if err != nil {
		return err
	}
	return imgio.Save(*out, edgeMap)
}

func runMorph(args []string) error {
	fs := flag.NewFlagSet("morph", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	op := fs.String("op", "erode", "erode, dilate, open, close, gradient, tophat, or blackhat")
	shape := fs.String("shape", "rect", "rect, cross, or ellipse")
	size := fs.Int("size", 3, "odd structuring element size")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	sh, err := morphology.ParseShape(*shape)
	if err != nil {
		return err
	}
	se, err := morphology.NewStructuringElement(sh, *size, *size)
	if err != nil {
		return err
	}
	gray := colorspace.Grayscale(img)

	var result *image.Gray
	switch *op {
	case "erode":
		result = morphology.Erode(gray, se)
	case "dilate":
		result = morphology.Dilate(gray, se)
	case "open":
		result = morphology.Open(gray, se)
	case "close":
		result = morphology.Close(gray, se)
	case "gradient":
		result = morphology.Gradient(gray, se)
	case "tophat":
		result = morphology.TopHat(gray, se)
	case "blackhat":
		result = morphology.BlackHat(gray, se)
	default:
		return fmt.Errorf("unknown morphological operator %q", *op)
	}
	return imgio.Save(*out, result)
}

func runThin(args []string) error {
	fs := flag.NewFlagSet("thin", flag.ExitOnError)
	in := fs.String("in", "", "input binary image path")
	out := fs.String("out", "", "output image path")
	method := fs.String("method", "zhang-suen", "zhang-suen or guo-hall")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	m, err := morphology.ParseThinningMethod(*method)
	if err != nil {
		return err
	}
	skel, err := morphology.Thin(colorspace.Grayscale(img), m)
	if err != nil {
		return err
	}
	return imgio.Save(*out, skel)
}

func runContours(args []string) error {
	fs := flag.NewFlagSet("contours", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	thresh := fs.Int("threshold", 128, "binarization threshold")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	bin := contour.Threshold(colorspace.Grayscale(img), uint8(*thresh), 255, contour.ThreshBinary)
	found := contour.FindExternal(bin)

	type shape struct {
		Points    int     `json:"points"`
		Area      float64 `json:"area"`
		Perimeter float64 `json:"perimeter"`
		Box       string  `json:"bounding_box"`
	}
	report := make([]shape, len(found))
	for i, c := range found {
		report[i] = shape{
			Points:    len(c),
			Area:      c.Area(),
			Perimeter: c.Perimeter(),
			Box:       c.BoundingBox().String(),
		}
	}
	return writeJSON(map[string]interface{}{"count": len(found), "contours": report})
}

func runResize(args []string) error {
	fs := flag.NewFlagSet("resize", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	w := fs.Int("width", 0, "output width")
	h := fs.Int("height", 0, "output height")
	filterName := fs.String("filter", "lanczos", "nearest, linear, or lanczos")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	result, err := geometry.Resize(img, *w, *h, *filterName)
	if err != nil {
		return err
	}
	return imgio.Save(*out, result)
}

func runRotate(args []string) error {
	fs := flag.NewFlagSet("rotate", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	degrees := fs.Int("degrees", 90, "90, 180, or 270")
	flip := fs.String("flip", "", "optional flip: h or v")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	var result image.Image
	switch *flip {
	case "h":
		result = geometry.FlipH(img)
	case "v":
		result = geometry.FlipV(img)
	case "":
		result, err = geometry.Rotate90(img, *degrees)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown flip %q", *flip)
	}
	return imgio.Save(*out, result)
}

func runSpectrum(args []string) error {
	fs := flag.NewFlagSet("spectrum", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output spectrum image path")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	spec, err := freq.DFT(imgio.Luminance(img))
	if err != nil {
		return err
	}
	freq.Shift(spec)
	return imgio.Save(*out, freq.LogMagnitude(spec).GrayImage())
}

func runDCT(args []string) error {
	fs := flag.NewFlagSet("dct", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	keep := fs.Float64("keep", 0.25, "fraction of coefficients to keep per axis")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	// Compress owns the full DCT -> truncate -> IDCT round trip.
	restored, ratio, err := freq.Compress(imgio.Luminance(img), *keep)
	if err != nil {
		return err
	}
	if err := imgio.Save(*out, restored.GrayImage()); err != nil {
		return err
	}
	return writeJSON(map[string]interface{}{"kept_fraction": ratio})
}

func runDenoise(args []string) error {
	fs := flag.NewFlagSet("denoise", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	levels := fs.Int("levels", 2, "wavelet decomposition levels")
	method := fs.String("shrink", "garrote", "none, hard, soft, or garrote")
	threshold := fs.Float64("threshold", 30, "shrinkage threshold")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	shrink, err := wavelet.ParseShrinkage(*method)
	if err != nil {
		return err
	}
	denoised, _, err := wavelet.Denoise(imgio.Luminance(img), *levels, shrink, *threshold)
	if err != nil {
		return err
	}
	return imgio.Save(*out, denoised.GrayImage())
}

func runHough(args []string) error {
	fs := flag.NewFlagSet("hough", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	votes := fs.Int("votes", 100, "accumulator vote threshold")
	low := fs.Float64("low", 50, "Canny low threshold")
	high := fs.Float64("high", 150, "Canny high threshold")
	fs.Parse(args)

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	edgeMap, err := edges.Canny(imgio.Luminance(img), *low, *high)
	if err != nil {
		return err
	}
	lines := features.HoughLines(edgeMap, *votes)
	return writeJSON(map[string]interface{}{"count": len(lines), "lines": lines})
}

func runUndistort(args []string) error {
	fs := flag.NewFlagSet("undistort", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	out := fs.String("out", "", "output image path")
	camPath := fs.String("camera", "", "camera parameter JSON path")
	fs.Parse(args)

	cam, err := calib.LoadCamera(*camPath)
	if err != nil {
		return err
	}
	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	result, err := calib.Undistort(cam, img)
	if err != nil {
		return err
	}
	return imgio.Save(*out, result)
}

func runDisparity(args []string) error {
	fs := flag.NewFlagSet("disparity", flag.ExitOnError)
	left := fs.String("left", "", "left rectified image path")
	right := fs.String("right", "", "right rectified image path")
	out := fs.String("out", "", "output disparity image path")
	block := fs.Int("block", 9, "odd matching block size")
	disparities := fs.Int("disparities", 64, "disparity search range")
	fs.Parse(args)

	li, err := imgio.Load(*left)
	if err != nil {
		return err
	}
	ri, err := imgio.Load(*right)
	if err != nil {
		return err
	}
	cfg := stereo.DefaultMatcherConfig()
	cfg.BlockSize = *block
	cfg.NumDisparities = *disparities

	dm, err := stereo.Match(colorspace.Grayscale(li), colorspace.Grayscale(ri), cfg)
	if err != nil {
		return err
	}
	return imgio.Save(*out, dm.Normalize())
}

func runVoxel(args []string) error {
	fs := flag.NewFlagSet("voxel", flag.ExitOnError)
	in := fs.String("in", "", "input PCD path")
	out := fs.String("out", "", "output PCD path")
	leaf := fs.Float64("leaf", 0.05, "voxel edge length")
	fs.Parse(args)

	pc, err := cloud.LoadPCD(*in)
	if err != nil {
		return err
	}
	down := pc.VoxelDownsample(*leaf)
	if err := down.SavePCD(*out); err != nil {
		return err
	}
	return writeJSON(map[string]interface{}{"before": pc.Len(), "after": down.Len()})
}

func runMotion(args []string) error {
	fs := flag.NewFlagSet("motion", flag.ExitOnError)
	prev := fs.String("prev", "", "previous frame path")
	next := fs.String("next", "", "next frame path")
	out := fs.String("out", "", "optional motion mask output path")
	threshold := fs.Float64("threshold", 25, "per-pixel difference threshold")
	fs.Parse(args)

	pi, err := imgio.Load(*prev)
	if err != nil {
		return err
	}
	ni, err := imgio.Load(*next)
	if err != nil {
		return err
	}
	res, err := flow.FrameDiff(imgio.Luminance(pi), imgio.Luminance(ni), *threshold)
	if err != nil {
		return err
	}
	if *out != "" {
		if err := imgio.Save(*out, res.Mask); err != nil {
			return err
		}
	}
	return writeJSON(res)
}

func runDetect(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	in := fs.String("in", "", "input image path")
	model := fs.String("model", "", "ONNX model path")
	names := fs.String("names", "", "optional class-name file")
	inputSize := fs.Int("input", 640, "network input size")
	conf := fs.Float64("conf", 0.5, "confidence threshold")
	fs.Parse(args)

	cfg := dnn.DefaultConfig()
	cfg.ConfThreshold = *conf
	if *names != "" {
		classNames, err := dnn.LoadClassNames(*names)
		if err != nil {
			return err
		}
		cfg.ClassNames = classNames
	}

	net, err := dnn.LoadNet(*model, *inputSize, cfg)
	if err != nil {
		return err
	}
	defer net.Close()

	img, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	start := time.Now()
	dets, err := net.Detect(img)
	if err != nil {
		return err
	}
	return writeJSON(map[string]interface{}{
		"count":      len(dets),
		"detections": dets,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
}
