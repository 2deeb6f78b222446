package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/infra/postgres"
)

var (
	ErrSessionNotFound  = errors.New("quiz session not found")
	ErrOptimisticLock   = errors.New("quiz session was modified by another process")
	ErrSessionNotActive = errors.New("quiz session is not active")
)

const sessionColumns = `
	id, user_id, question_type, scope_type, scope_value, expert,
	answered_count, correct_answers, score, session_status,
	started_at, completed_at, version
`

// QuizRepository provides access to quiz session and answer data in the database.
type QuizRepository struct {
	db postgres.DBTX
}

// NewQuizRepository creates a new QuizRepository with the provided database handle.
func NewQuizRepository(db postgres.DBTX) *QuizRepository {
	return &QuizRepository{db: db}
}

// Create creates a new quiz session.
func (r *QuizRepository) Create(ctx context.Context, session *entities.QuizSession) (int64, error) {
	query := `
		INSERT INTO quiz_sessions (
			user_id, question_type, scope_type, scope_value, expert,
			session_status, started_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		session.UserID,
		session.QuestionType,
		session.Scope.Type,
		session.Scope.Value,
		session.Expert,
		session.SessionStatus,
		session.StartedAt,
		session.Version,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create quiz session: %w", err)
	}

	return id, nil
}

// GetSessionForUpdate retrieves an active session with a row-level lock.
func (r *QuizRepository) GetSessionForUpdate(ctx context.Context, sessionID, userID int64) (*entities.QuizSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM quiz_sessions WHERE id = $1 AND user_id = $2 FOR UPDATE`

	session, err := scanSession(r.db.QueryRow(ctx, query, sessionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session for update: %w", err)
	}

	if !session.IsActive() {
		return nil, ErrSessionNotActive
	}

	return session, nil
}

// GetActiveSessionByUserID retrieves the latest active session of a user.
func (r *QuizRepository) GetActiveSessionByUserID(ctx context.Context, userID int64) (*entities.QuizSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM quiz_sessions
		WHERE user_id = $1 AND session_status = 'active'
		ORDER BY started_at DESC
		LIMIT 1
	`

	session, err := scanSession(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get quiz session: %w", err)
	}

	return session, nil
}

// SaveAnswer stores a checked answer.
func (r *QuizRepository) SaveAnswer(ctx context.Context, answer *entities.QuizAnswer) error {
	query := `
		INSERT INTO quiz_answers (
			user_id, session_id, verse_id, question_type,
			user_answer, correct_answer, is_correct, answered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(
		ctx,
		query,
		answer.UserID,
		answer.SessionID,
		answer.VerseID,
		answer.QuestionType,
		answer.UserAnswer,
		answer.CorrectAnswer,
		answer.IsCorrect,
		answer.AnsweredAt,
	)
	if err != nil {
		return fmt.Errorf("save answer: %w", err)
	}

	return nil
}

// UpdateSession updates a quiz session using optimistic locking.
func (r *QuizRepository) UpdateSession(ctx context.Context, session *entities.QuizSession) error {
	query := `
		UPDATE quiz_sessions
		SET answered_count = $1,
		    correct_answers = $2,
		    score = $3,
		    session_status = $4,
		    completed_at = $5,
		    version = version + 1
		WHERE id = $6 AND version = $7
	`

	result, err := r.db.Exec(
		ctx,
		query,
		session.AnsweredCount,
		session.CorrectAnswers,
		session.Score,
		session.SessionStatus,
		session.CompletedAt,
		session.ID,
		session.Version,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrOptimisticLock
	}

	session.Version++

	return nil
}

// AbandonOldSessions marks the user's active sessions as abandoned.
func (r *QuizRepository) AbandonOldSessions(ctx context.Context, userID int64) error {
	query := `
		UPDATE quiz_sessions
		SET session_status = 'abandoned'
		WHERE user_id = $1 AND session_status = 'active'
	`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("abandon old sessions: %w", err)
	}

	return nil
}

func scanSession(row pgx.Row) (*entities.QuizSession, error) {
	var s entities.QuizSession
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.QuestionType,
		&s.Scope.Type,
		&s.Scope.Value,
		&s.Expert,
		&s.AnsweredCount,
		&s.CorrectAnswers,
		&s.Score,
		&s.SessionStatus,
		&s.StartedAt,
		&s.CompletedAt,
		&s.Version,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
