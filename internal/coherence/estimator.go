package coherence

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/RMahshie/beamsway/internal/sway"
)

// DefaultWindow is the width of the moving average applied to each curve
const DefaultWindow = 5

// Axis names used in results and metrics
const (
	AxisAlong = "along"
	AxisCross = "cross"
)

// Recorder receives per-realization outcomes. Implementations must be safe
// for concurrent use.
type Recorder interface {
	RecordRealization(alongCrossed, crossCrossed bool)
}

// ProgressFunc is called after every (antenna count, wind speed) point with the
// number of finished points and the total. It may be called concurrently.
type ProgressFunc func(done, total int)

// Sweep describes one Monte-Carlo sweep
type Sweep struct {
	AntennaCounts []int
	WindSpeeds    []float64
	Repeats       int
	Seed          uint64
	Alpha         float64 // 0 means DefaultAlpha
	Window        int     // 0 means DefaultWindow
	Base          sway.SimulationConfig
}

// Curve is the coherence time versus wind speed for one antenna count
type Curve struct {
	AntennaCount int       `json:"antenna_count"`
	ThetaMax     float64   `json:"theta_max"`
	WindSpeeds   []float64 `json:"wind_speeds"`

	// smoothed coherence times [s]
	AlongWind []float64 `json:"along_wind"`
	CrossWind []float64 `json:"cross_wind"`

	// per-point means before smoothing
	RawAlongWind []float64 `json:"raw_along_wind"`
	RawCrossWind []float64 `json:"raw_cross_wind"`

	// number of repeats that crossed the threshold per point
	AlongCrossings []int `json:"along_crossings"`
	CrossCrossings []int `json:"cross_crossings"`
}

// Result is the outcome of a sweep
type Result struct {
	Curves       []Curve
	Realizations int
	Elapsed      time.Duration
}

// Estimator runs coherence-time sweeps
type Estimator struct {
	workers  int
	recorder Recorder
	progress ProgressFunc
	tracer   trace.Tracer
}

// WithWorkers bounds the number of concurrently simulated sweep points
func WithWorkers(n int) func(*Estimator) {
	return func(e *Estimator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithRecorder reports every realization to r
func WithRecorder(r Recorder) func(*Estimator) {
	return func(e *Estimator) {
		e.recorder = r
	}
}

// WithProgress registers a progress callback
func WithProgress(fn ProgressFunc) func(*Estimator) {
	return func(e *Estimator) {
		e.progress = fn
	}
}

// NewEstimator creates an Estimator. By default it uses one worker per CPU.
func NewEstimator(options ...func(*Estimator)) *Estimator {
	e := &Estimator{
		workers: runtime.GOMAXPROCS(0),
		tracer:  otel.Tracer("github.com/RMahshie/beamsway/internal/coherence"),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Validate checks the sweep parameters before any simulation work starts
func (s Sweep) Validate() error {
	if len(s.AntennaCounts) == 0 {
		return fmt.Errorf("%w: at least one antenna count is required", sway.ErrConfig)
	}
	if len(s.WindSpeeds) == 0 {
		return fmt.Errorf("%w: at least one wind speed is required", sway.ErrConfig)
	}
	if s.Repeats < 1 {
		return fmt.Errorf("%w: repeats must be at least 1, got %d", sway.ErrConfig, s.Repeats)
	}
	if s.Window < 0 {
		return fmt.Errorf("%w: window must not be negative, got %d", sway.ErrConfig, s.Window)
	}
	for _, a := range s.AntennaCounts {
		if _, err := ThetaMaxAlpha(a, s.alpha()); err != nil {
			return err
		}
	}
	for _, u := range s.WindSpeeds {
		if err := s.Base.WithWindSpeed(u).Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s Sweep) alpha() float64 {
	if s.Alpha == 0 {
		return DefaultAlpha
	}
	return s.Alpha
}

func (s Sweep) window() int {
	if s.Window == 0 {
		return DefaultWindow
	}
	return s.Window
}

// Run simulates every (antenna count, wind speed, repeat) triple and reduces
// the first-passage times into one smoothed Curve per antenna count.
//
// Each repeat draws its phases from a source seeded by SeedFor, so the result
// depends only on the sweep and not on the number of workers.
func (e *Estimator) Run(ctx context.Context, s Sweep) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "coherence.Run", trace.WithAttributes(
		attribute.IntSlice("antenna_counts", s.AntennaCounts),
		attribute.Int("wind_points", len(s.WindSpeeds)),
		attribute.Int("repeats", s.Repeats),
	))
	defer span.End()

	start := time.Now()
	nA, nU, nR := len(s.AntennaCounts), len(s.WindSpeeds), s.Repeats

	thetas := make([]float64, nA)
	for ai, a := range s.AntennaCounts {
		// Validate already rejected counts and alphas ThetaMaxAlpha refuses
		thetas[ai], _ = ThetaMaxAlpha(a, s.alpha())
	}

	// along[ai][ui][r], cross[ai][ui][r]; every task owns its own [ai][ui] slot
	along := make([][][]float64, nA)
	cross := make([][][]float64, nA)
	for ai := range along {
		along[ai] = make([][]float64, nU)
		cross[ai] = make([][]float64, nU)
		for ui := range along[ai] {
			along[ai][ui] = make([]float64, nR)
			cross[ai][ui] = make([]float64, nR)
		}
	}

	total := nA * nU
	var done atomic.Int64

	p := pool.New().WithMaxGoroutines(e.workers).WithContext(ctx).WithCancelOnError()
	for ai := range s.AntennaCounts {
		for ui, u := range s.WindSpeeds {
			p.Go(func(ctx context.Context) error {
				if err := e.runPoint(ctx, s, ai, ui, u, thetas[ai], along[ai][ui], cross[ai][ui]); err != nil {
					return err
				}
				if e.progress != nil {
					e.progress(int(done.Add(1)), total)
				}
				return nil
			})
		}
	}
	if err := p.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	res := &Result{
		Curves:       make([]Curve, nA),
		Realizations: nA * nU * nR,
	}
	for ai, a := range s.AntennaCounts {
		c := Curve{
			AntennaCount:   a,
			ThetaMax:       thetas[ai],
			WindSpeeds:     append([]float64(nil), s.WindSpeeds...),
			RawAlongWind:   make([]float64, nU),
			RawCrossWind:   make([]float64, nU),
			AlongCrossings: make([]int, nU),
			CrossCrossings: make([]int, nU),
		}
		for ui := range s.WindSpeeds {
			c.RawAlongWind[ui] = MeanCrossing(along[ai][ui])
			c.RawCrossWind[ui] = MeanCrossing(cross[ai][ui])
			c.AlongCrossings[ui] = CountCrossings(along[ai][ui])
			c.CrossCrossings[ui] = CountCrossings(cross[ai][ui])
		}
		c.AlongWind = MovingAverage(c.RawAlongWind, s.window())
		c.CrossWind = MovingAverage(c.RawCrossWind, s.window())
		res.Curves[ai] = c
	}
	res.Elapsed = time.Since(start)

	span.SetAttributes(attribute.Int("realizations", res.Realizations))
	return res, nil
}

// runPoint simulates all repeats of one sweep point into the given slices
func (e *Estimator) runPoint(ctx context.Context, s Sweep, ai, ui int, u, theta float64, along, cross []float64) error {
	proc, err := sway.NewProcess(s.Base.WithWindSpeed(u))
	if err != nil {
		return err
	}

	for r := 0; r < s.Repeats; r++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		rng := sway.NewSource(SeedFor(s.Seed, ai, ui, r))
		rz, err := proc.Realize(u, rng)
		if err != nil {
			return fmt.Errorf("antenna count %d, wind %v m/s, repeat %d: %w", s.AntennaCounts[ai], u, r, err)
		}

		var alongOK, crossOK bool
		along[r], alongOK = FirstPassage(rz.AlongAngle, theta, s.Base.SampleRate)
		cross[r], crossOK = FirstPassage(rz.CrossAngle, theta, s.Base.SampleRate)

		if e.recorder != nil {
			e.recorder.RecordRealization(alongOK, crossOK)
		}
	}
	return nil
}
