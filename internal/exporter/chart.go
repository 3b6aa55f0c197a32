package exporter

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"stockig/internal/analysis"
)

// Chart dimensions used by the dashboard
const (
	ChartWidth  = 6 * vg.Inch
	ChartHeight = 3.5 * vg.Inch
)

var (
	barColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	bestColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// WriteBarChart draws the feature scores of one company as a PNG bar chart,
// highlighting the best feature
func WriteBarChart(w io.Writer, result *analysis.Result, width, height vg.Length) error {
	labels := make([]string, len(result.Scores))
	values := make(plotter.Values, len(result.Scores))
	best := make(plotter.Values, len(result.Scores))
	for i, s := range result.Scores {
		labels[i] = s.Feature
		if s.Feature == result.BestFeature {
			best[i] = s.Score
		} else {
			values[i] = s.Score
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Information Gain – %s", result.Company)
	p.Y.Label.Text = "Information Gain"
	p.Y.Min = 0
	p.NominalX(labels...)

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return fmt.Errorf("create bar chart: %w", err)
	}
	bars.LineStyle.Width = 0
	bars.Color = barColor

	bestBars, err := plotter.NewBarChart(best, vg.Points(40))
	if err != nil {
		return fmt.Errorf("create bar chart: %w", err)
	}
	bestBars.LineStyle.Width = 0
	bestBars.Color = bestColor

	p.Add(bars, bestBars)
	p.Add(plotter.NewGrid())

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
