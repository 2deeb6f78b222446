package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
)

// Transactor runs fn inside a database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

type VerseRepository interface {
	All(ctx context.Context) ([]entities.Verse, error)
	GetByID(ctx context.Context, id int64) (*entities.Verse, error)
	GetBySurahAyah(ctx context.Context, surah, ayah int) (*entities.Verse, error)
	List(ctx context.Context, skip, limit int) ([]entities.Verse, error)
	SearchText(ctx context.Context, q string, limit int) ([]entities.Verse, error)
	Count(ctx context.Context) (int, error)
}

// VerseWriter bulk-loads verses. It is bound to a transaction.
type VerseWriter interface {
	Upsert(ctx context.Context, verses []entities.Verse) (int64, error)
}

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
}

type QuizRepository interface {
	Create(ctx context.Context, s *entities.QuizSession) (int64, error)
	GetActiveSessionByUserID(ctx context.Context, userID int64) (*entities.QuizSession, error)
	GetSessionForUpdate(ctx context.Context, sessionID, userID int64) (*entities.QuizSession, error)
	SaveAnswer(ctx context.Context, a *entities.QuizAnswer) error
	UpdateSession(ctx context.Context, s *entities.QuizSession) error
	AbandonOldSessions(ctx context.Context, userID int64) error
}

type HistoryRepository interface {
	Add(ctx context.Context, userID int64, query string, keep int) error
	List(ctx context.Context, userID int64, limit int) ([]entities.SearchHistoryEntry, error)
}

type ResetRepository interface {
	ResetUser(ctx context.Context, userID int64) error
}

// Repository constructors bound to a transaction.
type (
	VerseWriterFactory func(tx pgx.Tx) VerseWriter
	QuizRepoFactory    func(tx pgx.Tx) QuizRepository
	ResetRepoFactory   func(tx pgx.Tx) ResetRepository
)
