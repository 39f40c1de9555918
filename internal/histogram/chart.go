package histogram

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Series pairs a histogram with a label and color for charting.
type Series struct {
	Name      string
	Hist      Histogram
	LineColor color.Color
}

// RenderChart plots one line per series over the 256 intensity levels and
// writes the chart to path (format chosen by extension, e.g. .png).
func RenderChart(path, title string, series ...Series) error {
	if len(series) == 0 {
		return fmt.Errorf("render chart: no series")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "intensity"
	p.Y.Label.Text = "count"
	p.X.Min, p.X.Max = 0, Bins-1

	for _, s := range series {
		pts := make(plotter.XYs, Bins)
		for b := 0; b < Bins; b++ {
			pts[b].X = float64(b)
			pts[b].Y = s.Hist[b]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("render chart series %q: %w", s.Name, err)
		}
		line.Width = vg.Points(1)
		if s.LineColor != nil {
			line.Color = s.LineColor
		}
		p.Add(line)
		if s.Name != "" {
			p.Legend.Add(s.Name, line)
		}
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
