package handlers

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/beamsway/internal/coherence"
	"github.com/RMahshie/beamsway/internal/processing"
	"github.com/RMahshie/beamsway/internal/repository"
	"github.com/RMahshie/beamsway/internal/storage"
	"github.com/RMahshie/beamsway/internal/sway"
	"github.com/RMahshie/beamsway/pkg/models"
)

// SweepHandler handles sweep-related HTTP requests
type SweepHandler struct {
	repo          repository.SweepRepository
	store         storage.ArtifactStore
	processingSvc processing.ProcessingService
	base          sway.SimulationConfig

	// parent of every background sweep; canceling it fails running sweeps
	sweepCtx context.Context
	wg       sync.WaitGroup
}

// WithSweepContext runs background sweeps under ctx instead of
// context.Background, so canceling ctx at shutdown stops them
func WithSweepContext(ctx context.Context) func(*SweepHandler) {
	return func(h *SweepHandler) {
		if ctx != nil {
			h.sweepCtx = ctx
		}
	}
}

// NewSweepHandler creates a new sweep handler. store may be nil when no
// artifact backend is configured.
func NewSweepHandler(repo repository.SweepRepository, store storage.ArtifactStore, processingSvc processing.ProcessingService, base sway.SimulationConfig, options ...func(*SweepHandler)) *SweepHandler {
	h := &SweepHandler{
		repo:          repo,
		store:         store,
		processingSvc: processingSvc,
		base:          base,
		sweepCtx:      context.Background(),
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// Wait blocks until every background sweep started by this handler returned
func (h *SweepHandler) Wait() {
	h.wg.Wait()
}

// CreateSweep stores a new sweep and starts processing it in the background
func (h *SweepHandler) CreateSweep(ctx context.Context, req *models.CreateSweepRequest) (*models.CreateSweepResponse, error) {
	in := req.Body

	counts, err := processing.ResolveAntennaCounts(in.AntennaCounts, in.ArrayLengths, in.CarrierHz)
	if err != nil {
		return nil, toHTTPError("Invalid antenna configuration", err)
	}

	var seed uint64
	if in.Seed != nil {
		seed = *in.Seed
	} else {
		seed = rand.Uint64()
	}
	alpha := in.Alpha
	if alpha == 0 {
		alpha = coherence.DefaultAlpha
	}
	window := in.Window
	if window == 0 {
		window = coherence.DefaultWindow
	}

	var overrides models.SimulationParams
	if in.Simulation != nil {
		overrides = *in.Simulation
	}
	params := models.SweepParams{
		AntennaCounts: counts,
		WindSpeeds:    in.WindSpeeds,
		Repeats:       in.Repeats,
		Seed:          seed,
		Alpha:         alpha,
		Window:        window,
		Simulation:    processing.SimulationParamsOf(processing.ApplySimulation(h.base, overrides)),
	}
	if _, err := processing.BuildSweep(h.base, params); err != nil {
		return nil, toHTTPError("Invalid sweep parameters", err)
	}

	sweepID := uuid.New()
	now := time.Now()
	run := &models.SweepRun{
		ID:        sweepID.String(),
		Status:    models.StatusPending,
		Progress:  0,
		Params:    params,
		CreatedAt: now,
		UpdatedAt: now,
	}

	log.Info().
		Str("sweepID", run.ID).
		Ints("antennaCounts", counts).
		Int("windPoints", len(params.WindSpeeds)).
		Int("repeats", params.Repeats).
		Msg("Creating sweep")
	if err := h.repo.Create(ctx, run); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create sweep", err)
	}

	// Processing outlives the request
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("sweepID", sweepID.String()).Msg("Sweep processing panicked")
			}
		}()
		if err := h.processingSvc.ProcessSweep(h.sweepCtx, sweepID); err != nil {
			log.Error().Err(err).Str("sweepID", sweepID.String()).Msg("Sweep processing failed")
		}
	}()

	return &models.CreateSweepResponse{
		Body: models.CreateSweepResponseBody{
			ID:     run.ID,
			Status: run.Status,
			Seed:   seed,
		},
	}, nil
}

// GetSweepStatus returns the current status of a sweep
func (h *SweepHandler) GetSweepStatus(ctx context.Context, req *models.GetSweepStatusRequest) (*models.GetSweepStatusResponse, error) {
	sweepID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid sweep ID", err)
	}

	run, err := h.repo.GetByID(ctx, sweepID)
	if err != nil {
		return nil, toHTTPError("Sweep not found", err)
	}

	return &models.GetSweepStatusResponse{Body: statusBody(run)}, nil
}

// ListSweeps returns the most recent sweeps
func (h *SweepHandler) ListSweeps(ctx context.Context, req *models.ListSweepsRequest) (*models.ListSweepsResponse, error) {
	runs, err := h.repo.List(ctx, req.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list sweeps", err)
	}

	resp := &models.ListSweepsResponse{}
	resp.Body.Sweeps = make([]models.GetSweepStatusResponseBody, len(runs))
	for i, run := range runs {
		resp.Body.Sweeps[i] = statusBody(run)
	}
	return resp, nil
}

// GetSweepResults returns the curves of a completed sweep
func (h *SweepHandler) GetSweepResults(ctx context.Context, req *models.GetSweepResultsRequest) (*models.GetSweepResultsResponse, error) {
	sweepID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid sweep ID", err)
	}

	run, err := h.repo.GetByID(ctx, sweepID)
	if err != nil {
		return nil, toHTTPError("Sweep not found", err)
	}
	if run.Status != models.StatusCompleted {
		return nil, huma.Error409Conflict("Sweep not yet completed",
			fmt.Errorf("sweep status is %s", run.Status))
	}

	results, err := h.repo.GetResults(ctx, sweepID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get results", err)
	}

	return &models.GetSweepResultsResponse{
		Body: models.GetSweepResultsResponseBody{
			ID:           run.ID,
			Params:       run.Params,
			Curves:       results.Curves,
			Realizations: results.Realizations,
			ElapsedMs:    results.ElapsedMs,
			PlotURL:      h.downloadURL(ctx, results.PlotKey),
			CSVURL:       h.downloadURL(ctx, results.CSVKey),
			CreatedAt:    results.CreatedAt,
		},
	}, nil
}

// downloadURL presigns key, returning "" when there is nothing to sign
func (h *SweepHandler) downloadURL(ctx context.Context, key *string) string {
	if h.store == nil || key == nil {
		return ""
	}
	u, err := h.store.GenerateDownloadURL(ctx, *key)
	if err != nil {
		log.Warn().Err(err).Str("key", *key).Msg("Failed to presign artifact")
		return ""
	}
	return u
}

func statusBody(run *models.SweepRun) models.GetSweepStatusResponseBody {
	body := models.GetSweepStatusResponseBody{
		ID:       run.ID,
		Status:   run.Status,
		Progress: run.Progress,
		Message:  statusMessage(run.Status, run.Progress),
	}
	if run.Status == models.StatusFailed && run.ErrorMsg != nil {
		body.Message = *run.ErrorMsg
	}
	return body
}

// statusMessage creates a human-readable status message
func statusMessage(status string, progress int) string {
	switch status {
	case models.StatusPending:
		return "Sweep queued for processing..."
	case models.StatusProcessing:
		if progress < 10 {
			return "Preparing sweep..."
		} else if progress < 80 {
			return "Simulating pole sway..."
		} else if progress < 95 {
			return "Rendering artifacts..."
		} else {
			return "Finalizing results..."
		}
	case models.StatusCompleted:
		return "Sweep complete!"
	case models.StatusFailed:
		return "Sweep failed."
	default:
		return "Unknown status"
	}
}
