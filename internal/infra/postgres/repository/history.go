package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/infra/postgres"
)

// HistoryRepository stores the recent search queries of users.
type HistoryRepository struct {
	db postgres.DBTX
}

func NewHistoryRepository(db postgres.DBTX) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Add records a query as the most recent one and keeps at most keep entries.
func (r *HistoryRepository) Add(ctx context.Context, userID int64, query string, keep int) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO search_history (user_id, query, searched_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, query) DO UPDATE SET searched_at = EXCLUDED.searched_at
	`, userID, query)
	batch.Queue(`
		DELETE FROM search_history
		WHERE user_id = $1 AND query NOT IN (
			SELECT query FROM search_history
			WHERE user_id = $1
			ORDER BY searched_at DESC
			LIMIT $2
		)
	`, userID, keep)

	br := r.db.SendBatch(ctx, batch)

	if _, err := br.Exec(); err != nil {
		_ = br.Close()
		return fmt.Errorf("save search query: %w", err)
	}
	if _, err := br.Exec(); err != nil {
		_ = br.Close()
		return fmt.Errorf("prune search history: %w", err)
	}

	if err := br.Close(); err != nil {
		return fmt.Errorf("close search history batch: %w", err)
	}

	return nil
}

// List returns the user's queries, most recent first.
func (r *HistoryRepository) List(ctx context.Context, userID int64, limit int) ([]entities.SearchHistoryEntry, error) {
	query := `
		SELECT user_id, query, searched_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY searched_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[entities.SearchHistoryEntry])
	if err != nil {
		return nil, fmt.Errorf("scan search history: %w", err)
	}

	return entries, nil
}

// Clear removes all queries of a user.
func (r *HistoryRepository) Clear(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM search_history WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear search history: %w", err)
	}
	return nil
}
