// package repositories provides the persistence layer for export history.
package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/spotzip/internal/models"
	"github.com/desertthunder/spotzip/internal/shared"
)

// ExportRunRepository persists export-run metadata. Playlist content is
// never stored, only the per-run counters and archive name.
type ExportRunRepository struct {
	db *sql.DB
}

// NewExportRunRepository creates a new ExportRunRepository with the given database connection
func NewExportRunRepository(db *sql.DB) *ExportRunRepository {
	return &ExportRunRepository{db: db}
}

// Create inserts a new export run with a generated ID.
func (r *ExportRunRepository) Create(run *models.ExportRun) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO export_runs (id, user_id, playlist_id, requested, succeeded, failed, tracks, elapsed_ms, archive_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		run.ID,
		run.UserID,
		nullable(run.PlaylistID),
		run.Requested,
		run.Succeeded,
		run.Failed,
		run.Tracks,
		run.ElapsedMS,
		run.ArchiveName,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert export run: %w", err)
	}

	return nil
}

// Get retrieves an export run by ID.
func (r *ExportRunRepository) Get(id string) (*models.ExportRun, error) {
	query := `
		SELECT id, user_id, playlist_id, requested, succeeded, failed, tracks, elapsed_ms, archive_name, created_at
		FROM export_runs
		WHERE id = ?
	`

	return scanRun(r.db.QueryRow(query, id))
}

// ListByUser retrieves the most recent export runs for a user, newest first.
func (r *ExportRunRepository) ListByUser(userID string, limit int) ([]*models.ExportRun, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, playlist_id, requested, succeeded, failed, tracks, elapsed_ms, archive_name, created_at
		FROM export_runs
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query export runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.ExportRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.ExportRun, error) {
	var run models.ExportRun
	var playlistID sql.NullString

	err := row.Scan(
		&run.ID,
		&run.UserID,
		&playlistID,
		&run.Requested,
		&run.Succeeded,
		&run.Failed,
		&run.Tracks,
		&run.ElapsedMS,
		&run.ArchiveName,
		&run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("export run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan export run: %w", err)
	}

	run.PlaylistID = playlistID.String
	return &run, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
