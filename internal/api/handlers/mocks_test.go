package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/RMahshie/beamsway/pkg/models"
)

// MockSweepRepository implements repository.SweepRepository for testing
type MockSweepRepository struct {
	mock.Mock
}

func (m *MockSweepRepository) Create(ctx context.Context, run *models.SweepRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSweepRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SweepRun, error) {
	args := m.Called(ctx, id)
	run, _ := args.Get(0).(*models.SweepRun)
	return run, args.Error(1)
}

func (m *MockSweepRepository) List(ctx context.Context, limit int) ([]*models.SweepRun, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]*models.SweepRun)
	return runs, args.Error(1)
}

func (m *MockSweepRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockSweepRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockSweepRepository) StoreResults(ctx context.Context, results *models.SweepResults) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

func (m *MockSweepRepository) GetResults(ctx context.Context, sweepID uuid.UUID) (*models.SweepResults, error) {
	args := m.Called(ctx, sweepID)
	results, _ := args.Get(0).(*models.SweepResults)
	return results, args.Error(1)
}

// MockArtifactStore implements storage.ArtifactStore for testing
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Upload(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockArtifactStore) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockArtifactStore) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockProcessingService implements processing.ProcessingService for testing
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessSweep(ctx context.Context, sweepID uuid.UUID) error {
	args := m.Called(ctx, sweepID)
	return args.Error(0)
}
