package report

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/lixenwraith/vi-composer/genetic/tracking"
)

var ErrEmptyHistory = errors.New("no fitness history to plot")

var (
	bestColor    = color.RGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
	averageColor = color.RGBA{R: 0x15, G: 0x65, B: 0xc0, A: 0xff}
	worstColor   = color.RGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff}
)

// PlotHistory draws best, average and worst fitness per generation.
// The image format follows the file extension.
func PlotHistory(history []tracking.GenerationStats, path string) error {
	if len(history) == 0 {
		return ErrEmptyHistory
	}

	p := plot.New()
	p.Title.Text = "Fitness by generation"
	p.X.Label.Text = "generation"
	p.Y.Label.Text = "fitness"
	p.Add(plotter.NewGrid())

	series := []struct {
		name  string
		color color.Color
		value func(tracking.GenerationStats) float64
	}{
		{"best", bestColor, func(s tracking.GenerationStats) float64 { return s.Best }},
		{"average", averageColor, func(s tracking.GenerationStats) float64 { return s.Average }},
		{"worst", worstColor, func(s tracking.GenerationStats) float64 { return s.Worst }},
	}

	for _, s := range series {
		pts := make(plotter.XYs, len(history))
		for i, h := range history {
			pts[i].X = float64(h.Generation)
			pts[i].Y = s.value(h)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot %s: %w", s.name, err)
		}
		line.Color = s.color
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
