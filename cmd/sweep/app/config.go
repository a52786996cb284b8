package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/RMahshie/beamsway/internal/coherence"
	"github.com/RMahshie/beamsway/internal/sway"
)

// Config holds the command line options of one offline sweep
type Config struct {
	Counts    []int
	Lengths   []float64
	CarrierHz float64
	Winds     []float64
	Repeats   int
	Seed      *uint64
	Alpha     float64
	Window    int
	Workers   int

	Simulation sway.SimulationConfig

	PlotPath        string
	CSVPath         string
	ThresholdPath   string
	RealizationPath string
	RealizationWind float64

	Verbose bool
}

// maxRangePoints bounds a start:stop:step wind range
const maxRangePoints = 10_000

// ParseFlags reads a Config from args, usually os.Args[1:]
func ParseFlags(args []string, output io.Writer) (*Config, error) {
	c := &Config{Simulation: sway.DefaultConfig()}

	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	fs.SetOutput(output)

	var counts, lengths, winds string
	var seed uint64
	fs.StringVar(&counts, "counts", "60,120,180", "Comma separated antenna counts")
	fs.StringVar(&lengths, "lengths", "", "Comma separated array lengths in meters, used instead of -counts")
	fs.Float64Var(&c.CarrierHz, "carrier", 90e9, "Carrier frequency in Hz used with -lengths")
	fs.StringVar(&winds, "winds", "1:30:1", "Wind speeds in m/s, a comma separated list or start:stop:step")
	fs.IntVar(&c.Repeats, "repeats", 100, "Monte-Carlo repeats per point")
	fs.Uint64Var(&seed, "seed", 0, "Sweep seed, random when omitted")
	fs.Float64Var(&c.Alpha, "alpha", coherence.DefaultAlpha, "Beamwidth scaling of the misalignment threshold")
	fs.IntVar(&c.Window, "window", coherence.DefaultWindow, "Moving average width")
	fs.IntVar(&c.Workers, "workers", 0, "Concurrent sweep points, 0 for one per CPU")

	fs.Float64Var(&c.Simulation.Duration, "duration", c.Simulation.Duration, "Realization length in seconds")
	fs.Float64Var(&c.Simulation.SampleRate, "sample-rate", c.Simulation.SampleRate, "Sample rate in Hz")
	fs.Float64Var(&c.Simulation.Baseline, "baseline", c.Simulation.Baseline, "Link baseline in meters")
	fs.Float64Var(&c.Simulation.Mass, "mass", c.Simulation.Mass, "Pole and antenna mass in kg")
	fs.Float64Var(&c.Simulation.Height, "height", c.Simulation.Height, "Pole height in meters")
	fs.Float64Var(&c.Simulation.Diameter, "diameter", c.Simulation.Diameter, "Pole diameter in meters")

	fs.StringVar(&c.PlotPath, "plot", "", "Write the coherence chart PNG to this path")
	fs.StringVar(&c.CSVPath, "csv", "", "Write the coherence curves CSV to this path")
	fs.StringVar(&c.ThresholdPath, "threshold-plot", "", "Write the theta_max chart PNG to this path")
	fs.StringVar(&c.RealizationPath, "realization-plot", "", "Write a single realization chart PNG to this path")
	fs.Float64Var(&c.RealizationWind, "realization-wind", 13, "Wind speed in m/s of the -realization-plot run")
	fs.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			c.Seed = &seed
		}
	})

	var err error
	if lengths != "" {
		c.Lengths, err = parseFloats(lengths)
		if err != nil {
			return nil, fmt.Errorf("invalid -lengths: %w", err)
		}
	} else {
		c.Counts, err = parseInts(counts)
		if err != nil {
			return nil, fmt.Errorf("invalid -counts: %w", err)
		}
	}
	if c.Winds, err = parseWinds(winds); err != nil {
		return nil, fmt.Errorf("invalid -winds: %w", err)
	}
	if c.Repeats < 1 {
		return nil, errors.New("-repeats must be at least 1")
	}
	if c.Workers < 0 {
		return nil, errors.New("-workers must not be negative")
	}
	return c, nil
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range splitList(s) {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.New("empty list")
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range splitList(s) {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.New("empty list")
	}
	return out, nil
}

// parseWinds accepts "5,10,15" or an inclusive "start:stop:step" range
func parseWinds(s string) ([]float64, error) {
	if !strings.Contains(s, ":") {
		return parseFloats(s)
	}

	bounds := strings.Split(s, ":")
	if len(bounds) != 3 {
		return nil, fmt.Errorf("range %q must be start:stop:step", s)
	}
	var v [3]float64
	for i, b := range bounds {
		f, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
		if err != nil {
			return nil, err
		}
		v[i] = f
	}
	start, stop, step := v[0], v[1], v[2]
	if !(step > 0) || stop < start {
		return nil, fmt.Errorf("range %q must have step > 0 and stop >= start", s)
	}

	n := int(math.Floor((stop-start)/step+1e-9)) + 1
	if n > maxRangePoints {
		return nil, fmt.Errorf("range %q has %d points, at most %d", s, n, maxRangePoints)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
