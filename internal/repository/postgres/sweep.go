package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/RMahshie/beamsway/internal/repository"
	"github.com/RMahshie/beamsway/pkg/models"
)

// PostgresSweepRepository implements SweepRepository for PostgreSQL
type PostgresSweepRepository struct {
	db *sql.DB
}

// NewPostgresSweepRepository creates a new PostgreSQL sweep repository
func NewPostgresSweepRepository(db *sql.DB) repository.SweepRepository {
	return &PostgresSweepRepository{db: db}
}

const sweepColumns = `id, status, progress, params, error_message, created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a new sweep record
func (r *PostgresSweepRepository) Create(ctx context.Context, run *models.SweepRun) error {
	params, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal sweep params: %w", err)
	}

	query := `
		INSERT INTO sweeps (id, status, progress, params, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.Status,
		run.Progress,
		string(params),
		run.CreatedAt,
		run.UpdatedAt)

	return err
}

// GetByID retrieves a sweep by ID
func (r *PostgresSweepRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SweepRun, error) {
	query := `SELECT ` + sweepColumns + ` FROM sweeps WHERE id = $1`

	run, err := scanSweep(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sweep %s: %w", id, repository.ErrNotFound)
	}
	return run, err
}

// List returns the most recent sweeps, newest first
func (r *PostgresSweepRepository) List(ctx context.Context, limit int) ([]*models.SweepRun, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + sweepColumns + ` FROM sweeps ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.SweepRun
	for rows.Next() {
		run, err := scanSweep(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// UpdateStatus updates the status and progress of a sweep
func (r *PostgresSweepRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE sweeps
		SET status = $1::text, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1::text = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	return expectOne(r.db.ExecContext(ctx, query, status, progress, id))
}

// UpdateError marks a sweep as failed with the given message
func (r *PostgresSweepRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE sweeps
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	return expectOne(r.db.ExecContext(ctx, query, errorMsg, id))
}

// StoreResults stores the results of a sweep
func (r *PostgresSweepRepository) StoreResults(ctx context.Context, results *models.SweepResults) error {
	curves, err := json.Marshal(results.Curves)
	if err != nil {
		return fmt.Errorf("failed to marshal curves: %w", err)
	}

	query := `
		INSERT INTO sweep_results (id, sweep_id, curves, realizations, elapsed_ms, plot_key, csv_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		results.ID,
		results.SweepID,
		string(curves),
		results.Realizations,
		results.ElapsedMs,
		results.PlotKey,
		results.CSVKey,
		results.CreatedAt)

	return err
}

// GetResults retrieves the results of a sweep
func (r *PostgresSweepRepository) GetResults(ctx context.Context, sweepID uuid.UUID) (*models.SweepResults, error) {
	query := `
		SELECT id, sweep_id, curves, realizations, elapsed_ms, plot_key, csv_key, created_at
		FROM sweep_results
		WHERE sweep_id = $1`

	var results models.SweepResults
	var curves []byte
	var plotKey, csvKey sql.NullString

	err := r.db.QueryRowContext(ctx, query, sweepID).Scan(
		&results.ID,
		&results.SweepID,
		&curves,
		&results.Realizations,
		&results.ElapsedMs,
		&plotKey,
		&csvKey,
		&results.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("results of sweep %s: %w", sweepID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(curves, &results.Curves); err != nil {
		return nil, fmt.Errorf("failed to unmarshal curves: %w", err)
	}
	if plotKey.Valid {
		results.PlotKey = &plotKey.String
	}
	if csvKey.Valid {
		results.CSVKey = &csvKey.String
	}

	return &results, nil
}

func scanSweep(row rowScanner) (*models.SweepRun, error) {
	var run models.SweepRun
	var params []byte
	var errorMsg sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&run.ID,
		&run.Status,
		&run.Progress,
		&params,
		&errorMsg,
		&run.CreatedAt,
		&run.UpdatedAt,
		&completedAt)

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(params, &run.Params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sweep params: %w", err)
	}
	if errorMsg.Valid {
		run.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	return &run, nil
}

func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
