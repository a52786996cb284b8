package render

import (
	"bytes"
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrInvalidPlot is returned for unusable plot input or configuration
var ErrInvalidPlot = errors.New("invalid plot")

func newCanvas(cfg PlotConfig) *vgimg.Canvas {
	return vgimg.NewWith(
		vgimg.UseWH(vg.Length(cfg.WidthIn)*vg.Inch, vg.Length(cfg.HeightIn)*vg.Inch),
		vgimg.UseDPI(cfg.DPI),
	)
}

func encodePNG(c *vgimg.Canvas) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// singlePNG draws one plot on a fresh canvas
func singlePNG(p *plot.Plot, cfg PlotConfig) ([]byte, error) {
	c := newCanvas(cfg)
	p.Draw(draw.New(c))
	return encodePNG(c)
}

// stackedPNG draws plots as rows sharing the canvas width
func stackedPNG(plots []*plot.Plot, cfg PlotConfig) ([]byte, error) {
	rows := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		rows[i] = []*plot.Plot{p}
	}

	c := newCanvas(cfg)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadX:      vg.Points(4),
		PadY:      vg.Points(10),
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(8),
	}
	canvases := plot.Align(rows, tiles, draw.New(c))
	for i, p := range plots {
		p.Draw(canvases[i][0])
	}
	return encodePNG(c)
}
