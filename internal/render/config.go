package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// PlotConfig carries every style decision of one chart. Nothing is shared
// between calls, so two charts rendered concurrently never affect each other.
type PlotConfig struct {
	Title  string
	XLabel string
	YLabel string

	WidthIn  float64 // canvas width [in]
	HeightIn float64 // canvas height [in]
	DPI      int

	TitleSize float64 // points
	LabelSize float64
	TickSize  float64
	LineWidth float64

	LogY   bool
	Legend bool
}

// CoherenceConfig is the summary chart of a sweep: coherence time per wind
// speed on a logarithmic time axis.
func CoherenceConfig() PlotConfig {
	return PlotConfig{
		Title:     "Coherence time vs wind speed",
		XLabel:    "mean wind speed [m/s]",
		YLabel:    "coherence time [s]",
		WidthIn:   8,
		HeightIn:  6,
		DPI:       150,
		TitleSize: 16,
		LabelSize: 13,
		TickSize:  11,
		LineWidth: 2,
		LogY:      true,
		Legend:    true,
	}
}

// RealizationConfig is the two-panel inspection chart of a single run
func RealizationConfig() PlotConfig {
	return PlotConfig{
		Title:     "Pole sway realization",
		XLabel:    "time [s]",
		WidthIn:   8,
		HeightIn:  8,
		DPI:       150,
		TitleSize: 14,
		LabelSize: 12,
		TickSize:  10,
		LineWidth: 1.5,
		Legend:    true,
	}
}

// ThresholdConfig plots theta_max against the number of antennas
func ThresholdConfig() PlotConfig {
	return PlotConfig{
		Title:     "Maximum tolerated misalignment",
		XLabel:    "number of antennas",
		YLabel:    "theta_max [deg]",
		WidthIn:   8,
		HeightIn:  6,
		DPI:       150,
		TitleSize: 16,
		LabelSize: 13,
		TickSize:  11,
		LineWidth: 2,
	}
}

func (c PlotConfig) validate() error {
	if !(c.WidthIn > 0) || !(c.HeightIn > 0) {
		return fmt.Errorf("%w: canvas must be positive, got %vx%v in", ErrInvalidPlot, c.WidthIn, c.HeightIn)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("%w: dpi must be positive, got %d", ErrInvalidPlot, c.DPI)
	}
	return nil
}

// apply styles p with the config's fonts and labels
func (c PlotConfig) apply(p *plot.Plot, title, ylabel string) {
	p.Title.Text = title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = ylabel

	if c.TitleSize > 0 {
		p.Title.TextStyle.Font.Size = vg.Points(c.TitleSize)
	}
	if c.LabelSize > 0 {
		p.X.Label.TextStyle.Font.Size = vg.Points(c.LabelSize)
		p.Y.Label.TextStyle.Font.Size = vg.Points(c.LabelSize)
	}
	if c.TickSize > 0 {
		p.X.Tick.Label.Font.Size = vg.Points(c.TickSize)
		p.Y.Tick.Label.Font.Size = vg.Points(c.TickSize)
	}
	p.Title.Padding = vg.Points(8)
	p.X.Padding = vg.Points(6)
	p.Y.Padding = vg.Points(6)
}

func (c PlotConfig) lineWidth() vg.Length {
	if c.LineWidth > 0 {
		return vg.Points(c.LineWidth)
	}
	return vg.Points(1)
}
