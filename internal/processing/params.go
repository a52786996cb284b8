package processing

import (
	"fmt"
	"math"

	"github.com/RMahshie/beamsway/internal/coherence"
	"github.com/RMahshie/beamsway/internal/sway"
	"github.com/RMahshie/beamsway/pkg/models"
)

// ApplySimulation overlays the non-zero overrides on base
func ApplySimulation(base sway.SimulationConfig, p models.SimulationParams) sway.SimulationConfig {
	if p.Duration > 0 {
		base.Duration = p.Duration
	}
	if p.SampleRate > 0 {
		base.SampleRate = p.SampleRate
	}
	if p.Baseline > 0 {
		base.Baseline = p.Baseline
	}
	if p.Mass > 0 {
		base.Mass = p.Mass
	}
	if p.Height > 0 {
		base.Height = p.Height
	}
	if p.Diameter > 0 {
		base.Diameter = p.Diameter
	}
	return base
}

// SimulationParamsOf reports every field of cfg as an explicit override
func SimulationParamsOf(cfg sway.SimulationConfig) models.SimulationParams {
	return models.SimulationParams{
		Duration:   cfg.Duration,
		SampleRate: cfg.SampleRate,
		Baseline:   cfg.Baseline,
		Mass:       cfg.Mass,
		Height:     cfg.Height,
		Diameter:   cfg.Diameter,
	}
}

// BuildSweep turns stored sweep parameters into an estimator sweep and
// validates it.
func BuildSweep(base sway.SimulationConfig, p models.SweepParams) (coherence.Sweep, error) {
	s := coherence.Sweep{
		AntennaCounts: p.AntennaCounts,
		WindSpeeds:    p.WindSpeeds,
		Repeats:       p.Repeats,
		Seed:          p.Seed,
		Alpha:         p.Alpha,
		Window:        p.Window,
		Base:          ApplySimulation(base, p.Simulation),
	}
	if err := s.Validate(); err != nil {
		return coherence.Sweep{}, err
	}
	return s, nil
}

// ResolveAntennaCounts returns counts as given, or derives them from array
// lengths at the carrier frequency when counts is empty.
func ResolveAntennaCounts(counts []int, arrayLengths []float64, carrierHz float64) ([]int, error) {
	if len(counts) > 0 {
		return counts, nil
	}
	if len(arrayLengths) == 0 {
		return nil, fmt.Errorf("%w: antenna counts or array lengths are required", sway.ErrConfig)
	}
	out := make([]int, len(arrayLengths))
	for i, l := range arrayLengths {
		n, err := coherence.AntennaCount(l, carrierHz)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// CurvesToModels converts estimator curves into their stored form.
// Unbounded times become nil with the matching flag set.
func CurvesToModels(curves []coherence.Curve) []models.CurveResult {
	out := make([]models.CurveResult, len(curves))
	for i, c := range curves {
		points := make([]models.CurvePoint, len(c.WindSpeeds))
		for j, u := range c.WindSpeeds {
			p := models.CurvePoint{
				WindSpeed:      u,
				AlongCrossings: c.AlongCrossings[j],
				CrossCrossings: c.CrossCrossings[j],
			}
			p.AlongWind, p.AlongUnbounded = bounded(c.AlongWind[j])
			p.CrossWind, p.CrossUnbounded = bounded(c.CrossWind[j])
			p.RawAlongWind, _ = bounded(c.RawAlongWind[j])
			p.RawCrossWind, _ = bounded(c.RawCrossWind[j])
			points[j] = p
		}
		out[i] = models.CurveResult{
			AntennaCount: c.AntennaCount,
			ThetaMax:     c.ThetaMax,
			Points:       points,
		}
	}
	return out
}

// ModelsToCurves is the inverse of CurvesToModels
func ModelsToCurves(results []models.CurveResult) []coherence.Curve {
	out := make([]coherence.Curve, len(results))
	for i, r := range results {
		n := len(r.Points)
		c := coherence.Curve{
			AntennaCount:   r.AntennaCount,
			ThetaMax:       r.ThetaMax,
			WindSpeeds:     make([]float64, n),
			AlongWind:      make([]float64, n),
			CrossWind:      make([]float64, n),
			RawAlongWind:   make([]float64, n),
			RawCrossWind:   make([]float64, n),
			AlongCrossings: make([]int, n),
			CrossCrossings: make([]int, n),
		}
		for j, p := range r.Points {
			c.WindSpeeds[j] = p.WindSpeed
			c.AlongWind[j] = unbounded(p.AlongWind)
			c.CrossWind[j] = unbounded(p.CrossWind)
			c.RawAlongWind[j] = unbounded(p.RawAlongWind)
			c.RawCrossWind[j] = unbounded(p.RawCrossWind)
			c.AlongCrossings[j] = p.AlongCrossings
			c.CrossCrossings[j] = p.CrossCrossings
		}
		out[i] = c
	}
	return out
}

func bounded(v float64) (*float64, bool) {
	if coherence.IsUnbounded(v) || math.IsNaN(v) {
		return nil, true
	}
	return &v, false
}

func unbounded(p *float64) float64 {
	if p == nil {
		return coherence.Unbounded
	}
	return *p
}
