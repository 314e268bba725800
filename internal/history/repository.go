package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ListOptions filter job listings.
type ListOptions struct {
	// PrinterID limits results to one printer when non-empty.
	PrinterID string

	// Limit caps the number of rows. Zero applies DefaultListLimit.
	Limit int
}

// DefaultListLimit bounds unfiltered job listings.
const DefaultListLimit = 100

// Repository persists job records in SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a job history repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a completed job record.
func (r *Repository) Insert(ctx context.Context, job *Job) error {
	var completedAt any
	if job.CompletedAt != nil {
		completedAt = job.CompletedAt.Format(time.RFC3339Nano)
	}

	query := `
		INSERT INTO print_jobs (id, printer_id, operation, source, status,
			error, bytes_written, duration_ms, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.PrinterID, job.Operation, job.Source, job.Status,
		job.Error, job.BytesWritten, job.DurationMS,
		job.CreatedAt.Format(time.RFC3339Nano), completedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting job %s: %w", job.ID, err)
	}
	return nil
}

// List returns jobs newest first.
func (r *Repository) List(ctx context.Context, opts ListOptions) ([]Job, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, printer_id, operation, source, status, error,
			bytes_written, duration_ms, created_at, completed_at
		FROM print_jobs`
	args := []any{}
	if opts.PrinterID != "" {
		query += ` WHERE printer_id = ?`
		args = append(args, opts.PrinterID)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var (
			job         Job
			createdAt   string
			completedAt sql.NullString
		)
		err := rows.Scan(&job.ID, &job.PrinterID, &job.Operation, &job.Source,
			&job.Status, &job.Error, &job.BytesWritten, &job.DurationMS,
			&createdAt, &completedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			job.CreatedAt = t
		}
		if completedAt.Valid {
			if t, err := time.Parse(time.RFC3339Nano, completedAt.String); err == nil {
				job.CompletedAt = &t
			}
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

// Prune deletes all but the newest keep records. Returns the number of
// rows removed.
func (r *Repository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	query := `
		DELETE FROM print_jobs
		WHERE id NOT IN (
			SELECT id FROM print_jobs ORDER BY created_at DESC, id LIMIT ?
		)`

	result, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning jobs: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking prune result: %w", err)
	}
	return removed, nil
}

// Count returns the total number of stored jobs.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM print_jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting jobs: %w", err)
	}
	return n, nil
}
