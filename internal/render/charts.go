package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/RMahshie/beamsway/internal/coherence"
	"github.com/RMahshie/beamsway/internal/sway"
)

var crossDashes = []vg.Length{vg.Points(6), vg.Points(3)}

// CoherencePlot draws the along-wind (solid) and cross-wind (dashed) curves of
// every antenna count and returns the chart as PNG bytes. Unbounded points
// are left out; on a log axis non-positive points are left out too.
func CoherencePlot(curves []coherence.Curve, cfg PlotConfig) ([]byte, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(curves) == 0 {
		return nil, fmt.Errorf("%w: no curves", ErrInvalidPlot)
	}

	p := plot.New()
	cfg.apply(p, cfg.Title, cfg.YLabel)
	p.Legend.Top = true

	var plotted int
	for i, c := range curves {
		if len(c.WindSpeeds) != len(c.AlongWind) || len(c.WindSpeeds) != len(c.CrossWind) {
			return nil, fmt.Errorf("%w: curve %d has mismatched lengths", ErrInvalidPlot, c.AntennaCount)
		}
		color := plotutil.Color(i)

		for _, axis := range []struct {
			name   string
			values []float64
			dashed bool
		}{
			{"along-wind", c.AlongWind, false},
			{"cross-wind", c.CrossWind, true},
		} {
			pts := finitePoints(c.WindSpeeds, axis.values, cfg.LogY)
			if len(pts) == 0 {
				continue
			}
			line, scatter, err := plotter.NewLinePoints(pts)
			if err != nil {
				return nil, fmt.Errorf("building %s line for M=%d: %w", axis.name, c.AntennaCount, err)
			}
			line.Color = color
			line.Width = cfg.lineWidth()
			if axis.dashed {
				line.Dashes = crossDashes
			}
			scatter.Color = color
			scatter.Shape = plotutil.Shape(i)

			p.Add(line, scatter)
			if cfg.Legend {
				p.Legend.Add(fmt.Sprintf("M=%d %s", c.AntennaCount, axis.name), line, scatter)
			}
			plotted++
		}
	}

	if cfg.LogY && plotted > 0 {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	p.Add(plotter.NewGrid())

	return singlePNG(p, cfg)
}

// RealizationPlot draws displacement (top) and pointing angle (bottom) of both
// wind axes over time.
func RealizationPlot(r *sway.Realization, cfg PlotConfig) ([]byte, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if r == nil || len(r.Time) == 0 {
		return nil, fmt.Errorf("%w: empty realization", ErrInvalidPlot)
	}

	title := fmt.Sprintf("%s (u=%.1f m/s, seed %d)", cfg.Title, r.Config.WindSpeed, r.Seed)
	displacement, err := seriesPlot(cfg, title, "displacement [m]", r.Time,
		r.AlongDisplacement, r.CrossDisplacement)
	if err != nil {
		return nil, err
	}
	angle, err := seriesPlot(cfg, "", "angle [deg]", r.Time, r.AlongAngle, r.CrossAngle)
	if err != nil {
		return nil, err
	}

	return stackedPNG([]*plot.Plot{displacement, angle}, cfg)
}

// ThresholdPlot draws theta_max over the antenna counts
func ThresholdPlot(counts []int, thetas []float64, cfg PlotConfig) ([]byte, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(counts) == 0 || len(counts) != len(thetas) {
		return nil, fmt.Errorf("%w: %d counts for %d thresholds", ErrInvalidPlot, len(counts), len(thetas))
	}

	pts := make(plotter.XYs, len(counts))
	for i := range counts {
		pts[i].X = float64(counts[i])
		pts[i].Y = thetas[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("building threshold line: %w", err)
	}
	line.Width = cfg.lineWidth()
	line.Color = plotutil.Color(0)

	p := plot.New()
	cfg.apply(p, cfg.Title, cfg.YLabel)
	p.Add(plotter.NewGrid(), line)

	return singlePNG(p, cfg)
}

func seriesPlot(cfg PlotConfig, title, ylabel string, t, along, cross []float64) (*plot.Plot, error) {
	if len(along) != len(t) || len(cross) != len(t) {
		return nil, fmt.Errorf("%w: series length does not match time axis", ErrInvalidPlot)
	}

	p := plot.New()
	cfg.apply(p, title, ylabel)
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, s := range []struct {
		name   string
		values []float64
	}{
		{"along-wind", along},
		{"cross-wind", cross},
	} {
		pts := make(plotter.XYs, len(t))
		for j := range t {
			pts[j].X = t[j]
			pts[j].Y = s.values[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("building %s series: %w", s.name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = cfg.lineWidth()
		p.Add(line)
		if cfg.Legend {
			p.Legend.Add(s.name, line)
		}
	}
	return p, nil
}

// finitePoints pairs xs with the bounded ys, dropping non-positive ys for log axes
func finitePoints(xs, ys []float64, positive bool) plotter.XYs {
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		y := ys[i]
		if coherence.IsUnbounded(y) || (positive && y <= 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: y})
	}
	return pts
}
