package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/beamsway/internal/repository"
	"github.com/RMahshie/beamsway/internal/sway"
	"github.com/RMahshie/beamsway/pkg/models"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.True(t, errors.As(err, &se), "expected a huma status error, got %v", err)
	return se.GetStatus()
}

func validCreateRequest() *models.CreateSweepRequest {
	req := &models.CreateSweepRequest{}
	req.Body.AntennaCounts = []int{60, 120}
	req.Body.WindSpeeds = []float64{1, 10, 20}
	req.Body.Repeats = 5
	seed := uint64(42)
	req.Body.Seed = &seed
	return req
}

func TestCreateSweep(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.CreateSweepRequest)
		mockSetup func(*MockSweepRepository, *MockProcessingService)
		wantCode  int
	}{
		{
			name:   "valid sweep",
			mutate: func(r *models.CreateSweepRequest) {},
			mockSetup: func(repo *MockSweepRepository, proc *MockProcessingService) {
				repo.On("Create", mock.Anything, mock.MatchedBy(func(run *models.SweepRun) bool {
					return run.Status == models.StatusPending &&
						run.Params.Seed == 42 &&
						run.Params.Window == 5 &&
						run.Params.Simulation.SampleRate == 1000
				})).Return(nil)
				proc.On("ProcessSweep", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)
			},
			wantCode: 200,
		},
		{
			name: "array lengths at a carrier",
			mutate: func(r *models.CreateSweepRequest) {
				r.Body.AntennaCounts = nil
				r.Body.ArrayLengths = []float64{0.1, 0.2}
				r.Body.CarrierHz = 90e9
			},
			mockSetup: func(repo *MockSweepRepository, proc *MockProcessingService) {
				repo.On("Create", mock.Anything, mock.MatchedBy(func(run *models.SweepRun) bool {
					return assert.ObjectsAreEqual([]int{60, 120}, run.Params.AntennaCounts)
				})).Return(nil)
				proc.On("ProcessSweep", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)
			},
			wantCode: 200,
		},
		{
			name: "no antennas",
			mutate: func(r *models.CreateSweepRequest) {
				r.Body.AntennaCounts = nil
			},
			mockSetup: func(repo *MockSweepRepository, proc *MockProcessingService) {},
			wantCode:  400,
		},
		{
			name: "negative wind speed",
			mutate: func(r *models.CreateSweepRequest) {
				r.Body.WindSpeeds = []float64{-3}
			},
			mockSetup: func(repo *MockSweepRepository, proc *MockProcessingService) {},
			wantCode:  400,
		},
		{
			name: "pole below terrain roughness",
			mutate: func(r *models.CreateSweepRequest) {
				r.Body.Simulation = &models.SimulationParams{Height: 1}
			},
			mockSetup: func(repo *MockSweepRepository, proc *MockProcessingService) {},
			wantCode:  400,
		},
		{
			name:   "database failure",
			mutate: func(r *models.CreateSweepRequest) {},
			mockSetup: func(repo *MockSweepRepository, proc *MockProcessingService) {
				repo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockSweepRepository{}
			proc := &MockProcessingService{}
			tt.mockSetup(repo, proc)

			handler := NewSweepHandler(repo, nil, proc, sway.DefaultConfig())
			req := validCreateRequest()
			tt.mutate(req)

			resp, err := handler.CreateSweep(context.Background(), req)
			handler.Wait()

			if tt.wantCode >= 400 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, statusOf(t, err))
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, resp.Body.ID)
				assert.Equal(t, models.StatusPending, resp.Body.Status)
			}

			repo.AssertExpectations(t)
			proc.AssertExpectations(t)
		})
	}
}

func TestCreateSweep_RandomSeedIsReported(t *testing.T) {
	repo := &MockSweepRepository{}
	proc := &MockProcessingService{}

	var stored *models.SweepRun
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*models.SweepRun)
	}).Return(nil)
	proc.On("ProcessSweep", mock.Anything, mock.Anything).Return(nil)

	handler := NewSweepHandler(repo, nil, proc, sway.DefaultConfig())
	req := validCreateRequest()
	req.Body.Seed = nil

	resp, err := handler.CreateSweep(context.Background(), req)
	handler.Wait()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, stored.Params.Seed, resp.Body.Seed)
}

func TestCreateSweep_BackgroundUsesSweepContext(t *testing.T) {
	repo := &MockSweepRepository{}
	proc := &MockProcessingService{}

	sweepCtx, cancel := context.WithCancel(context.Background())
	cancel()

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	proc.On("ProcessSweep", mock.MatchedBy(func(ctx context.Context) bool {
		return errors.Is(ctx.Err(), context.Canceled)
	}), mock.AnythingOfType("uuid.UUID")).Return(context.Canceled)

	handler := NewSweepHandler(repo, nil, proc, sway.DefaultConfig(), WithSweepContext(sweepCtx))
	_, err := handler.CreateSweep(context.Background(), validCreateRequest())
	handler.Wait()

	require.NoError(t, err)
	proc.AssertExpectations(t)
}

func TestCreateSweep_BackgroundPanicIsContained(t *testing.T) {
	repo := &MockSweepRepository{}
	proc := &MockProcessingService{}

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	proc.On("ProcessSweep", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(nil)

	handler := NewSweepHandler(repo, nil, proc, sway.DefaultConfig())
	_, err := handler.CreateSweep(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.NotPanics(t, handler.Wait)
	proc.AssertExpectations(t)
}

func TestCreateSweep_OversizedSimulation(t *testing.T) {
	repo := &MockSweepRepository{}
	handler := NewSweepHandler(repo, nil, &MockProcessingService{}, sway.DefaultConfig())

	req := validCreateRequest()
	req.Body.Simulation = &models.SimulationParams{Duration: 1e9, SampleRate: 1e9}
	_, err := handler.CreateSweep(context.Background(), req)

	assert.Equal(t, 400, statusOf(t, err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetSweepStatus(t *testing.T) {
	id := uuid.New()
	failure := "Coherence sweep failed: boom"

	tests := []struct {
		name        string
		id          string
		run         *models.SweepRun
		repoErr     error
		wantCode    int
		wantMessage string
	}{
		{"processing", id.String(), &models.SweepRun{ID: id.String(), Status: models.StatusProcessing, Progress: 40}, nil, 200, "Simulating pole sway..."},
		{"failed shows error", id.String(), &models.SweepRun{ID: id.String(), Status: models.StatusFailed, ErrorMsg: &failure}, nil, 200, failure},
		{"invalid id", "not-a-uuid", nil, nil, 400, ""},
		{"not found", id.String(), nil, repository.ErrNotFound, 404, ""},
		{"database failure", id.String(), nil, assert.AnError, 500, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockSweepRepository{}
			if parsed, err := uuid.Parse(tt.id); err == nil {
				repo.On("GetByID", mock.Anything, parsed).Return(tt.run, tt.repoErr)
			}

			handler := NewSweepHandler(repo, nil, &MockProcessingService{}, sway.DefaultConfig())
			resp, err := handler.GetSweepStatus(context.Background(), &models.GetSweepStatusRequest{ID: tt.id})

			if tt.wantCode >= 400 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, statusOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMessage, resp.Body.Message)
			assert.Equal(t, tt.run.Progress, resp.Body.Progress)
		})
	}
}

func TestGetSweepResults(t *testing.T) {
	id := uuid.New()
	plotKey := "sweeps/" + id.String() + "/coherence.png"
	along := 0.25
	results := &models.SweepResults{
		ID:      uuid.New().String(),
		SweepID: id.String(),
		Curves: []models.CurveResult{{
			AntennaCount: 60,
			Points:       []models.CurvePoint{{WindSpeed: 10, AlongWind: &along, CrossUnbounded: true}},
		}},
		Realizations: 100,
		PlotKey:      &plotKey,
		CreatedAt:    time.Now(),
	}

	t.Run("completed", func(t *testing.T) {
		repo := &MockSweepRepository{}
		store := &MockArtifactStore{}
		repo.On("GetByID", mock.Anything, id).Return(&models.SweepRun{ID: id.String(), Status: models.StatusCompleted}, nil)
		repo.On("GetResults", mock.Anything, id).Return(results, nil)
		store.On("GenerateDownloadURL", mock.Anything, plotKey).Return("https://example.com/coherence.png", nil)

		handler := NewSweepHandler(repo, store, &MockProcessingService{}, sway.DefaultConfig())
		resp, err := handler.GetSweepResults(context.Background(), &models.GetSweepResultsRequest{ID: id.String()})

		require.NoError(t, err)
		assert.Equal(t, results.Curves, resp.Body.Curves)
		assert.Equal(t, "https://example.com/coherence.png", resp.Body.PlotURL)
		assert.Empty(t, resp.Body.CSVURL)
		store.AssertExpectations(t)
	})

	t.Run("still processing", func(t *testing.T) {
		repo := &MockSweepRepository{}
		repo.On("GetByID", mock.Anything, id).Return(&models.SweepRun{ID: id.String(), Status: models.StatusProcessing}, nil)

		handler := NewSweepHandler(repo, nil, &MockProcessingService{}, sway.DefaultConfig())
		_, err := handler.GetSweepResults(context.Background(), &models.GetSweepResultsRequest{ID: id.String()})
		assert.Equal(t, 409, statusOf(t, err))
	})

	t.Run("not found", func(t *testing.T) {
		repo := &MockSweepRepository{}
		repo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

		handler := NewSweepHandler(repo, nil, &MockProcessingService{}, sway.DefaultConfig())
		_, err := handler.GetSweepResults(context.Background(), &models.GetSweepResultsRequest{ID: id.String()})
		assert.Equal(t, 404, statusOf(t, err))
	})
}

func TestListSweeps(t *testing.T) {
	repo := &MockSweepRepository{}
	repo.On("List", mock.Anything, 10).Return([]*models.SweepRun{
		{ID: "a", Status: models.StatusCompleted, Progress: 100},
		{ID: "b", Status: models.StatusPending},
	}, nil)

	handler := NewSweepHandler(repo, nil, &MockProcessingService{}, sway.DefaultConfig())
	resp, err := handler.ListSweeps(context.Background(), &models.ListSweepsRequest{Limit: 10})

	require.NoError(t, err)
	require.Len(t, resp.Body.Sweeps, 2)
	assert.Equal(t, "Sweep complete!", resp.Body.Sweeps[0].Message)
	assert.Equal(t, "Sweep queued for processing...", resp.Body.Sweeps[1].Message)
}
