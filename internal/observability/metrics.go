package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RMahshie/beamsway/internal/coherence"
)

// SweepCollector bundles the Prometheus metrics of the sweep service.
// It satisfies coherence.Recorder, so an Estimator can report every
// realization straight into it.
type SweepCollector struct {
	gatherer prometheus.Gatherer

	Realizations   *prometheus.CounterVec
	SweepRuns      *prometheus.CounterVec
	SweepDurations prometheus.Histogram
	SweepsInFlight prometheus.Gauge
	HTTPRequests   *prometheus.CounterVec
}

var _ coherence.Recorder = (*SweepCollector)(nil)

// NewSweepCollector registers the sweep metrics against reg, defaulting to the
// global Prometheus registry when nil. Registering twice on the same registry
// returns the already registered collectors.
func NewSweepCollector(reg prometheus.Registerer) (*SweepCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	realizations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "beamsway_realizations_total",
		Help: "Simulated sway realizations per wind axis, labeled by whether the misalignment threshold was crossed.",
	}, []string{"axis", "crossed"}), "beamsway_realizations_total")
	if err != nil {
		return nil, err
	}

	runs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "beamsway_sweep_runs_total",
		Help: "Finished coherence sweeps, labeled by final status.",
	}, []string{"status"}), "beamsway_sweep_runs_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "beamsway_sweep_duration_seconds",
		Help:    "Wall time of coherence sweeps in seconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800},
	}), "beamsway_sweep_duration_seconds")
	if err != nil {
		return nil, err
	}

	inFlight, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "beamsway_sweeps_in_flight",
		Help: "Coherence sweeps currently being processed.",
	}), "beamsway_sweeps_in_flight")
	if err != nil {
		return nil, err
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "beamsway_http_requests_total",
		Help: "Handled HTTP requests, labeled by method, route pattern and status code.",
	}, []string{"method", "route", "code"}), "beamsway_http_requests_total")
	if err != nil {
		return nil, err
	}

	return &SweepCollector{
		gatherer:       gatherer,
		Realizations:   realizations,
		SweepRuns:      runs,
		SweepDurations: durations,
		SweepsInFlight: inFlight,
		HTTPRequests:   requests,
	}, nil
}

// RecordRealization counts one realization for each wind axis
func (c *SweepCollector) RecordRealization(alongCrossed, crossCrossed bool) {
	if c == nil || c.Realizations == nil {
		return
	}
	c.Realizations.WithLabelValues(coherence.AxisAlong, strconv.FormatBool(alongCrossed)).Inc()
	c.Realizations.WithLabelValues(coherence.AxisCross, strconv.FormatBool(crossCrossed)).Inc()
}

// TrackSweep marks a sweep as in flight. The returned func records its final
// status and duration and must be called exactly once.
func (c *SweepCollector) TrackSweep() func(status string) {
	if c == nil {
		return func(string) {}
	}
	start := time.Now()
	if c.SweepsInFlight != nil {
		c.SweepsInFlight.Inc()
	}
	return func(status string) {
		if c.SweepsInFlight != nil {
			c.SweepsInFlight.Dec()
		}
		if c.SweepRuns != nil {
			c.SweepRuns.WithLabelValues(status).Inc()
		}
		if c.SweepDurations != nil {
			c.SweepDurations.Observe(time.Since(start).Seconds())
		}
	}
}

// Middleware counts HTTP requests by their chi route pattern
func (c *SweepCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if c == nil || c.HTTPRequests == nil {
			return
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}

// Handler exposes a ready-to-use /metrics handler
func (c *SweepCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}
