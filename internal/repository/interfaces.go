package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/RMahshie/beamsway/pkg/models"
)

// ErrNotFound is returned when a sweep or its results do not exist
var ErrNotFound = errors.New("not found")

// SweepRepository defines the interface for sweep data operations
type SweepRepository interface {
	Create(ctx context.Context, run *models.SweepRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SweepRun, error)
	List(ctx context.Context, limit int) ([]*models.SweepRun, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreResults(ctx context.Context, results *models.SweepResults) error
	GetResults(ctx context.Context, sweepID uuid.UUID) (*models.SweepResults, error)
}
