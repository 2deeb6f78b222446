package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/infra/postgres"
)

// UserRepository provides access to user data in the database.
type UserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new UserRepository with the provided database handle.
func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Save inserts a new user or updates an existing one. It reports whether the
// user was created.
func (r *UserRepository) Save(ctx context.Context, user *entities.User) (bool, error) {
	query := `
		INSERT INTO users (id, chat_id, username, language_code, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			username = EXCLUDED.username,
			language_code = EXCLUDED.language_code,
			is_active = EXCLUDED.is_active
		RETURNING (xmax = 0) AS created
	`

	var created bool
	err := r.db.QueryRow(
		ctx,
		query,
		user.ID,
		user.ChatID,
		user.Username,
		user.LanguageCode,
		user.IsActive,
		user.CreatedAt,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("save user: %w", err)
	}

	return created, nil
}
