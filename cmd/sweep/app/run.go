package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/beamsway/internal/coherence"
	"github.com/RMahshie/beamsway/internal/render"
	"github.com/RMahshie/beamsway/internal/sway"
)

// Run executes the sweep described by c, prints the curves to out and writes
// the requested artifacts
func Run(ctx context.Context, c *Config, out io.Writer) error {
	counts := c.Counts
	if len(c.Lengths) > 0 {
		counts = make([]int, len(c.Lengths))
		for i, l := range c.Lengths {
			n, err := coherence.AntennaCount(l, c.CarrierHz)
			if err != nil {
				return err
			}
			counts[i] = n
		}
		carrier, prefix := humanize.ComputeSI(c.CarrierHz)
		log.Info().
			Floats64("lengths_m", c.Lengths).
			Str("carrier", fmt.Sprintf("%.4g %sHz", carrier, prefix)).
			Ints("antenna_counts", counts).
			Msg("Derived antenna counts")
	}

	seed := rand.Uint64()
	if c.Seed != nil {
		seed = *c.Seed
	}

	sweep := coherence.Sweep{
		AntennaCounts: counts,
		WindSpeeds:    c.Winds,
		Repeats:       c.Repeats,
		Seed:          seed,
		Alpha:         c.Alpha,
		Window:        c.Window,
		Base:          c.Simulation,
	}

	if c.ThresholdPath != "" {
		if err := writeThreshold(c, counts); err != nil {
			return err
		}
	}
	if c.RealizationPath != "" {
		if err := writeRealization(c, seed); err != nil {
			return err
		}
	}

	total := len(counts) * len(c.Winds) * c.Repeats
	log.Info().
		Uint64("seed", seed).
		Ints("antenna_counts", counts).
		Int("wind_points", len(c.Winds)).
		Int("repeats", c.Repeats).
		Str("realizations", humanize.Comma(int64(total))).
		Msg("Starting sweep")

	est := coherence.NewEstimator(
		coherence.WithWorkers(c.Workers),
		coherence.WithProgress(progressLogger(c.Verbose)),
	)
	res, err := est.Run(ctx, sweep)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	log.Info().
		Str("realizations", humanize.Comma(int64(res.Realizations))).
		Dur("elapsed", res.Elapsed).
		Msg("Sweep complete")

	if err := printCurves(out, res.Curves); err != nil {
		return err
	}

	if c.PlotPath != "" {
		data, err := render.CoherencePlot(res.Curves, render.CoherenceConfig())
		if err != nil {
			return err
		}
		if err := writeFile(c.PlotPath, data); err != nil {
			return err
		}
	}
	if c.CSVPath != "" {
		var buf bytes.Buffer
		if err := render.WriteCurvesCSV(&buf, res.Curves); err != nil {
			return err
		}
		if err := writeFile(c.CSVPath, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// progressLogger logs every tenth of the sweep, or every point when verbose
func progressLogger(verbose bool) coherence.ProgressFunc {
	return func(done, total int) {
		step := max(1, total/10)
		if !verbose && done%step != 0 && done != total {
			return
		}
		log.Info().Int("done", done).Int("total", total).Msg("Sweep progress")
	}
}

func writeThreshold(c *Config, counts []int) error {
	thetas, err := coherence.ThresholdCurve(counts, c.Alpha)
	if err != nil {
		return err
	}
	data, err := render.ThresholdPlot(counts, thetas, render.ThresholdConfig())
	if err != nil {
		return err
	}
	return writeFile(c.ThresholdPath, data)
}

func writeRealization(c *Config, seed uint64) error {
	r, err := sway.Run(c.Simulation.WithWindSpeed(c.RealizationWind).WithSeed(seed))
	if err != nil {
		return err
	}
	data, err := render.RealizationPlot(r, render.RealizationConfig())
	if err != nil {
		return err
	}
	return writeFile(c.RealizationPath, data)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info().Str("path", path).Str("size", humanize.Bytes(uint64(len(data)))).Msg("Wrote artifact")
	return nil
}

// printCurves writes one aligned table row per (antenna count, wind speed)
func printCurves(out io.Writer, curves []coherence.Curve) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "antennas\ttheta_max [deg]\twind [m/s]\talong [s]\tcross [s]\tcrossed\t")
	for _, c := range curves {
		for i, u := range c.WindSpeeds {
			fmt.Fprintf(tw, "%d\t%.4g\t%g\t%s\t%s\t%d/%d\t\n",
				c.AntennaCount, c.ThetaMax, u,
				formatTime(c.AlongWind[i]), formatTime(c.CrossWind[i]),
				c.AlongCrossings[i], c.CrossCrossings[i])
		}
	}
	return tw.Flush()
}

func formatTime(v float64) string {
	if coherence.IsUnbounded(v) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
