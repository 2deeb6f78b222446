package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/mushaf-bot/internal/infra/postgres"
)

type ResetRepository struct {
	db postgres.DBTX
}

func NewResetRepository(db postgres.DBTX) *ResetRepository {
	return &ResetRepository{db: db}
}

// ResetUser deletes quiz sessions, their answers and the search history of a user.
func (s *ResetRepository) ResetUser(ctx context.Context, userID int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM quiz_answers WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete quiz_answers: %w", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM quiz_sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete quiz_sessions: %w", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM search_history WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete search_history: %w", err)
	}

	return nil
}
