package printer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines printer persistence. The abstraction keeps the
// registry testable without a database.
type Repository interface {
	// GetByID retrieves a printer by its unique identifier.
	// Returns ErrPrinterNotFound if the printer does not exist.
	GetByID(ctx context.Context, id string) (*Printer, error)

	// List retrieves all printers ordered by ID.
	List(ctx context.Context) ([]Printer, error)

	// Create inserts a new printer.
	// Returns ErrPrinterExists if the ID is already taken.
	Create(ctx context.Context, p *Printer) error

	// Update modifies an existing printer.
	// Returns ErrPrinterNotFound if the printer does not exist.
	Update(ctx context.Context, p *Printer) error

	// Delete removes a printer by ID.
	// Returns ErrPrinterNotFound if the printer does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const printerColumns = `id, name, connection_type, host, port, device_path, baud_rate,
	queue, codepage, profile, line_width, timeout_seconds, keepalive,
	status_interval, default_align, default_cut, created_at, updated_at`

// GetByID retrieves a printer by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Printer, error) {
	query := `SELECT ` + printerColumns + ` FROM printers WHERE id = ?`

	p, err := scanPrinter(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPrinterNotFound
		}
		return nil, fmt.Errorf("querying printer %s: %w", id, err)
	}
	return p, nil
}

// List retrieves all printers ordered by ID.
func (r *SQLiteRepository) List(ctx context.Context) ([]Printer, error) {
	query := `SELECT ` + printerColumns + ` FROM printers ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing printers: %w", err)
	}
	defer rows.Close()

	var printers []Printer
	for rows.Next() {
		p, err := scanPrinter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning printer: %w", err)
		}
		printers = append(printers, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating printers: %w", err)
	}
	return printers, nil
}

// Create inserts a new printer.
func (r *SQLiteRepository) Create(ctx context.Context, p *Printer) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO printers (` + printerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, string(p.ConnectionType), p.Host, p.Port,
		p.DevicePath, p.BaudRate, p.Queue, p.Codepage, p.Profile,
		p.LineWidth, p.TimeoutSeconds, boolToInt(p.Keepalive),
		p.StatusIntervalSeconds, p.DefaultAlign, p.DefaultCut,
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return ErrPrinterExists
		}
		return fmt.Errorf("inserting printer %s: %w", p.ID, err)
	}
	return nil
}

// Update modifies an existing printer.
func (r *SQLiteRepository) Update(ctx context.Context, p *Printer) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE printers
		SET name = ?, connection_type = ?, host = ?, port = ?, device_path = ?,
			baud_rate = ?, queue = ?, codepage = ?, profile = ?, line_width = ?,
			timeout_seconds = ?, keepalive = ?, status_interval = ?,
			default_align = ?, default_cut = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, string(p.ConnectionType), p.Host, p.Port, p.DevicePath,
		p.BaudRate, p.Queue, p.Codepage, p.Profile, p.LineWidth,
		p.TimeoutSeconds, boolToInt(p.Keepalive), p.StatusIntervalSeconds,
		p.DefaultAlign, p.DefaultCut, p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating printer %s: %w", p.ID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return ErrPrinterNotFound
	}
	return nil
}

// Delete removes a printer by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM printers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting printer %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrPrinterNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPrinter(s scanner) (*Printer, error) {
	var (
		p              Printer
		connectionType string
		keepalive      int
		createdAt      string
		updatedAt      string
	)

	err := s.Scan(
		&p.ID, &p.Name, &connectionType, &p.Host, &p.Port,
		&p.DevicePath, &p.BaudRate, &p.Queue, &p.Codepage, &p.Profile,
		&p.LineWidth, &p.TimeoutSeconds, &keepalive,
		&p.StatusIntervalSeconds, &p.DefaultAlign, &p.DefaultCut,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ConnectionType = ConnectionType(connectionType)
	p.Keepalive = keepalive != 0
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		p.UpdatedAt = t
	}
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
