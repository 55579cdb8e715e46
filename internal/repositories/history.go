package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/deepdive/internal/models"
)

// HistoryRepository persists [models.ReadEntry] rows.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new [HistoryRepository] with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record stores that articleID of the given kind was opened now.
func (r *HistoryRepository) Record(ctx context.Context, articleID string, kind models.ReadKind, title string) (*models.ReadEntry, error) {
	entry := models.NewReadEntry(articleID, kind, title)
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "read_history")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}
	entry.Sequence = sequence

	query := `
		INSERT INTO read_history (id, sequence, article_id, kind, title, opened_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		entry.ID(), entry.Sequence, entry.ArticleID, string(entry.Kind), entry.Title,
		entry.OpenedAt, entry.CreatedAt(), entry.UpdatedAt())
	if err != nil {
		return nil, fmt.Errorf("failed to insert read entry: %w", err)
	}

	return entry, nil
}

// Recent returns up to limit entries, most recent first. A limit below 1 returns every entry.
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]*models.ReadEntry, error) {
	if limit < 1 {
		limit = -1
	}

	query := `
		SELECT id, sequence, article_id, kind, title, opened_at, created_at, updated_at
		FROM read_history
		ORDER BY sequence DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query read history: %w", err)
	}
	defer rows.Close()

	var entries []*models.ReadEntry
	for rows.Next() {
		var (
			e    models.ReadEntry
			kind string
		)
		if err := rows.Scan(&e.EntryID, &e.Sequence, &e.ArticleID, &kind, &e.Title, &e.OpenedAt, &e.Created, &e.Updated); err != nil {
			return nil, fmt.Errorf("failed to scan read entry: %w", err)
		}
		e.Kind = models.ReadKind(kind)
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating read history: %w", err)
	}
	return entries, nil
}

// IsRead reports whether articleID of the given kind has been opened before.
func (r *HistoryRepository) IsRead(ctx context.Context, articleID string, kind models.ReadKind) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM read_history WHERE kind = ? AND article_id = ?)`
	if err := r.db.QueryRowContext(ctx, query, string(kind), articleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to query read history: %w", err)
	}
	return exists, nil
}

// ReadSet returns the ids of every opened item of kind.
func (r *HistoryRepository) ReadSet(ctx context.Context, kind models.ReadKind) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT article_id FROM read_history WHERE kind = ?`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to query read history: %w", err)
	}
	defer rows.Close()

	read := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan read history: %w", err)
		}
		read[id] = true
	}
	return read, rows.Err()
}
