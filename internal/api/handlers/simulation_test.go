package handlers

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/beamsway/internal/coherence"
	"github.com/RMahshie/beamsway/internal/sway"
	"github.com/RMahshie/beamsway/pkg/models"
)

func realizationRequest(u float64, seed uint64) *models.RealizationRequest {
	req := &models.RealizationRequest{}
	req.Body.WindSpeed = u
	req.Body.Seed = &seed
	req.Body.Simulation = &models.SimulationParams{Duration: 1, SampleRate: 100}
	return req
}

func TestRunRealization(t *testing.T) {
	handler := NewSimulationHandler(sway.DefaultConfig())

	req := realizationRequest(12, 5)
	req.Body.IncludePSD = true
	resp, err := handler.RunRealization(context.Background(), req)
	require.NoError(t, err)

	body := resp.Body
	assert.Equal(t, uint64(5), body.Seed)
	assert.Len(t, body.Time, 100)
	assert.Len(t, body.AlongDisplacement, 100)
	assert.Len(t, body.CrossAngle, 100)
	require.NotNil(t, body.PSD)
	assert.Len(t, body.PSD.AlongWind, 51)
	assert.InDelta(t, 50.0, body.PSD.CrossWind[50].Frequency, 1e-9)

	again, err := handler.RunRealization(context.Background(), realizationRequest(12, 5))
	require.NoError(t, err)
	assert.Equal(t, body.AlongAngle, again.Body.AlongAngle)
	assert.Nil(t, again.Body.PSD)
}

func TestRunRealization_Errors(t *testing.T) {
	handler := NewSimulationHandler(sway.DefaultConfig())

	req := realizationRequest(12, 5)
	req.Body.Simulation.Height = 2
	_, err := handler.RunRealization(context.Background(), req)
	assert.Equal(t, 400, statusOf(t, err))

	req = realizationRequest(12, 5)
	req.Body.Simulation = &models.SimulationParams{Duration: 1000, SampleRate: 1000}
	_, err = handler.RunRealization(context.Background(), req)
	assert.Equal(t, 400, statusOf(t, err))
}

func TestGetThreshold(t *testing.T) {
	handler := NewSimulationHandler(sway.DefaultConfig())

	resp, err := handler.GetThreshold(context.Background(), &models.ThresholdRequest{Counts: []int{60, 120}})
	require.NoError(t, err)
	require.Len(t, resp.Body.Points, 2)

	want := coherence.DefaultAlpha * math.Asin(0.891/60) * 180 / math.Pi
	assert.InDelta(t, want, resp.Body.Points[0].ThetaMax, 1e-12)
	assert.Equal(t, 120, resp.Body.Points[1].AntennaCount)

	_, err = handler.GetThreshold(context.Background(), &models.ThresholdRequest{Counts: []int{0}})
	assert.Equal(t, 400, statusOf(t, err))

	_, err = handler.GetThreshold(context.Background(), &models.ThresholdRequest{})
	assert.Equal(t, 400, statusOf(t, err))
}
