package processing

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/RMahshie/beamsway/internal/coherence"
	"github.com/RMahshie/beamsway/internal/observability"
	"github.com/RMahshie/beamsway/internal/render"
	"github.com/RMahshie/beamsway/internal/repository"
	"github.com/RMahshie/beamsway/internal/storage"
	"github.com/RMahshie/beamsway/internal/sway"
	"github.com/RMahshie/beamsway/pkg/models"
)

// Progress milestones of a sweep run
const (
	progressStarted   = 5
	progressSimStart  = 10
	progressSimEnd    = 80
	progressRendered  = 85
	progressUploaded  = 90
	progressStored    = 95
	progressCompleted = 100
)

// Artifact names under the sweep prefix
const (
	PlotArtifact = "coherence.png"
	CSVArtifact  = "coherence.csv"
)

type ProcessingService interface {
	ProcessSweep(ctx context.Context, sweepID uuid.UUID) error
}

// Options configures a processing service
type Options struct {
	Base    sway.SimulationConfig // defaults every sweep starts from
	Workers int                   // estimator workers, 0 for one per CPU
	Timeout time.Duration         // per-sweep deadline, 0 for none
	Metrics *observability.SweepCollector
}

type processingService struct {
	store      storage.ArtifactStore
	repository repository.SweepRepository
	opts       Options
	tracer     trace.Tracer
}

// NewProcessingService creates the sweep pipeline. store may be nil, in
// which case no artifacts are rendered or uploaded.
func NewProcessingService(store storage.ArtifactStore, repo repository.SweepRepository, opts Options) ProcessingService {
	return &processingService{
		store:      store,
		repository: repo,
		opts:       opts,
		tracer:     otel.Tracer("github.com/RMahshie/beamsway/internal/processing"),
	}
}

// ProcessSweep runs a stored sweep to completion. Failures after the sweep
// was loaded are recorded on the sweep with UpdateError and returned.
func (s *processingService) ProcessSweep(ctx context.Context, sweepID uuid.UUID) (err error) {
	ctx, span := s.tracer.Start(ctx, "processing.ProcessSweep",
		trace.WithAttributes(attribute.String("sweep.id", sweepID.String())))
	defer span.End()

	done := s.opts.Metrics.TrackSweep()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			done(models.StatusFailed)
			return
		}
		done(models.StatusCompleted)
	}()

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, sweepID, models.StatusProcessing, progressStarted); err != nil {
		return s.fail(sweepID, "Failed to update status", err)
	}

	// Step 2: Load sweep parameters
	run, err := s.repository.GetByID(ctx, sweepID)
	if err != nil {
		return s.fail(sweepID, "Failed to load sweep", err)
	}

	sweep, err := BuildSweep(s.opts.Base, run.Params)
	if err != nil {
		return s.fail(sweepID, "Invalid sweep parameters", err)
	}

	log.Info().
		Str("sweepID", sweepID.String()).
		Ints("antennaCounts", sweep.AntennaCounts).
		Int("windPoints", len(sweep.WindSpeeds)).
		Int("repeats", sweep.Repeats).
		Uint64("seed", sweep.Seed).
		Msg("Starting coherence sweep")

	// Step 3: Monte-Carlo estimation
	if err := s.repository.UpdateStatus(ctx, sweepID, models.StatusProcessing, progressSimStart); err != nil {
		return s.fail(sweepID, "Failed to update status", err)
	}

	estimator := coherence.NewEstimator(
		coherence.WithWorkers(s.opts.Workers),
		coherence.WithRecorder(s.opts.Metrics),
		coherence.WithProgress(s.progressReporter(ctx, sweepID)),
	)
	result, err := estimator.Run(ctx, sweep)
	if err != nil {
		return s.fail(sweepID, "Coherence sweep failed", err)
	}
	curves := CurvesToModels(result.Curves)

	// Step 4: Render and upload artifacts
	plotKey, csvKey, err := s.publishArtifacts(ctx, sweepID, result.Curves)
	if err != nil {
		return s.fail(sweepID, "Failed to publish artifacts", err)
	}

	// Step 5: Store results
	results := &models.SweepResults{
		ID:           uuid.New().String(),
		SweepID:      run.ID,
		Curves:       curves,
		Realizations: result.Realizations,
		ElapsedMs:    result.Elapsed.Milliseconds(),
		PlotKey:      plotKey,
		CSVKey:       csvKey,
		CreatedAt:    time.Now(),
	}
	if err := s.repository.StoreResults(ctx, results); err != nil {
		return s.fail(sweepID, "Failed to store results", err)
	}
	if err := s.repository.UpdateStatus(ctx, sweepID, models.StatusProcessing, progressStored); err != nil {
		return s.fail(sweepID, "Failed to update status", err)
	}

	// Step 6: Mark complete
	if err := s.repository.UpdateStatus(ctx, sweepID, models.StatusCompleted, progressCompleted); err != nil {
		return s.fail(sweepID, "Failed to mark sweep completed", err)
	}

	log.Info().
		Str("sweepID", sweepID.String()).
		Int("realizations", result.Realizations).
		Dur("elapsed", result.Elapsed).
		Msg("Coherence sweep completed")
	return nil
}

// progressReporter maps estimator progress onto the simulation progress band
// and writes it only when the percentage changes.
func (s *processingService) progressReporter(ctx context.Context, sweepID uuid.UUID) coherence.ProgressFunc {
	var mu sync.Mutex
	last := progressSimStart
	return func(done, total int) {
		pct := progressSimStart + (progressSimEnd-progressSimStart)*done/total

		mu.Lock()
		defer mu.Unlock()
		if pct <= last {
			return
		}
		last = pct
		if err := s.repository.UpdateStatus(ctx, sweepID, models.StatusProcessing, pct); err != nil {
			log.Warn().Err(err).Str("sweepID", sweepID.String()).Int("progress", pct).Msg("Failed to update sweep progress")
		}
	}
}

func (s *processingService) publishArtifacts(ctx context.Context, sweepID uuid.UUID, curves []coherence.Curve) (*string, *string, error) {
	if s.store == nil {
		return nil, nil, nil
	}

	png, err := render.CoherencePlot(curves, render.CoherenceConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("rendering coherence plot: %w", err)
	}
	var csvBuf bytes.Buffer
	if err := render.WriteCurvesCSV(&csvBuf, curves); err != nil {
		return nil, nil, fmt.Errorf("writing coherence csv: %w", err)
	}
	if err := s.repository.UpdateStatus(ctx, sweepID, models.StatusProcessing, progressRendered); err != nil {
		return nil, nil, err
	}

	plotKey := storage.ArtifactKey(sweepID.String(), PlotArtifact)
	if err := s.store.Upload(ctx, plotKey, storage.ContentTypePNG, png); err != nil {
		return nil, nil, err
	}
	csvKey := storage.ArtifactKey(sweepID.String(), CSVArtifact)
	if err := s.store.Upload(ctx, csvKey, storage.ContentTypeCSV, csvBuf.Bytes()); err != nil {
		return nil, nil, err
	}
	if err := s.repository.UpdateStatus(ctx, sweepID, models.StatusProcessing, progressUploaded); err != nil {
		return nil, nil, err
	}
	return &plotKey, &csvKey, nil
}

// fail records the failure on the sweep. It uses a fresh context so a
// timed-out sweep is still marked failed.
func (s *processingService) fail(sweepID uuid.UUID, msg string, cause error) error {
	log.Error().Err(cause).Str("sweepID", sweepID.String()).Msg(msg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repository.UpdateError(ctx, sweepID, fmt.Sprintf("%s: %v", msg, cause)); err != nil {
		log.Error().Err(err).Str("sweepID", sweepID.String()).Msg("Failed to record sweep error")
	}
	return fmt.Errorf("%s: %w", msg, cause)
}
