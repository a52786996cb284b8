package handlers

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/beamsway/internal/coherence"
	"github.com/RMahshie/beamsway/internal/processing"
	"github.com/RMahshie/beamsway/internal/sway"
	"github.com/RMahshie/beamsway/pkg/models"
)

// MaxRealizationSamples bounds the size of a synchronous realization response
const MaxRealizationSamples = 200_000

// SimulationHandler serves synchronous single-realization and threshold requests
type SimulationHandler struct {
	base sway.SimulationConfig
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(base sway.SimulationConfig) *SimulationHandler {
	return &SimulationHandler{base: base}
}

// RunRealization simulates one realization of the pole sway
func (h *SimulationHandler) RunRealization(ctx context.Context, req *models.RealizationRequest) (*models.RealizationResponse, error) {
	var overrides models.SimulationParams
	if req.Body.Simulation != nil {
		overrides = *req.Body.Simulation
	}
	cfg := processing.ApplySimulation(h.base, overrides).WithWindSpeed(req.Body.WindSpeed)
	if req.Body.Seed != nil {
		cfg = cfg.WithSeed(*req.Body.Seed)
	}
	if n := cfg.Samples(); n > MaxRealizationSamples {
		return nil, huma.Error400BadRequest(
			fmt.Sprintf("Realization too long: %d samples, at most %d", n, MaxRealizationSamples))
	}

	r, err := sway.Run(cfg)
	if err != nil {
		return nil, toHTTPError("Simulation failed", err)
	}

	body := models.RealizationResponseBody{
		Seed:              r.Seed,
		WindSpeed:         r.Config.WindSpeed,
		Time:              r.Time,
		AlongDisplacement: r.AlongDisplacement,
		CrossDisplacement: r.CrossDisplacement,
		AlongAngle:        r.AlongAngle,
		CrossAngle:        r.CrossAngle,
	}
	if req.Body.IncludePSD {
		bins := sway.PositiveBins(len(r.Frequency))
		body.PSD = &models.PSDResponse{
			AlongWind: frequencyPoints(r.Frequency[:bins], r.PSD.AlongWind[:bins]),
			CrossWind: frequencyPoints(r.Frequency[:bins], r.PSD.CrossWind[:bins]),
		}
	}

	return &models.RealizationResponse{Body: body}, nil
}

// GetThreshold returns theta_max for every requested antenna count
func (h *SimulationHandler) GetThreshold(ctx context.Context, req *models.ThresholdRequest) (*models.ThresholdResponse, error) {
	if len(req.Counts) == 0 {
		return nil, huma.Error400BadRequest("At least one antenna count is required")
	}
	alpha := req.Alpha
	if alpha == 0 {
		alpha = coherence.DefaultAlpha
	}

	thetas, err := coherence.ThresholdCurve(req.Counts, alpha)
	if err != nil {
		return nil, toHTTPError("Invalid antenna count", err)
	}

	resp := &models.ThresholdResponse{}
	resp.Body.Points = make([]models.ThresholdPoint, len(thetas))
	for i, theta := range thetas {
		resp.Body.Points[i] = models.ThresholdPoint{AntennaCount: req.Counts[i], ThetaMax: theta}
	}
	return resp, nil
}

func frequencyPoints(freqs, values []float64) []models.FrequencyPoint {
	out := make([]models.FrequencyPoint, len(freqs))
	for i := range freqs {
		out[i] = models.FrequencyPoint{Frequency: freqs[i], Magnitude: values[i]}
	}
	return out
}
