package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/service"
	"github.com/aliskhannn/mushaf-bot/internal/storage"
)

// Bot is the part of tgbotapi.BotAPI the handler talks to.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64, username, languageCode string) (bool, error)
}

type SearchService interface {
	Search(ctx context.Context, query string, opts service.SearchOptions) (*entities.SearchResults, error)
	Defaults() service.SearchOptions
}

type VerseService interface {
	ByID(ctx context.Context, id int64) (*entities.Verse, error)
	ByRef(ctx context.Context, surah, ayah int) (*entities.Verse, error)
}

type SimilarityService interface {
	Similar(ctx context.Context, id int64, limit int, threshold float64, excludeBasmala bool) (*entities.Verse, []entities.SimilarVerse, error)
	Compare(ctx context.Context, id1, id2 int64) (*entities.Comparison, error)
}

type StatsService interface {
	Overview(ctx context.Context) entities.Overview
	Word(ctx context.Context, word string, limit int) (*entities.WordStats, error)
}

type QuizService interface {
	Start(ctx context.Context, userID int64, req service.QuestionRequest) (*entities.QuizSession, error)
	ActiveSession(ctx context.Context, userID int64) (*entities.QuizSession, error)
	NextQuestion(ctx context.Context, req service.QuestionRequest) (*entities.Question, error)
	Answer(ctx context.Context, userID, sessionID int64, q entities.Question, userAnswer string) (*entities.QuizResult, error)
	Finish(ctx context.Context, userID, sessionID int64) (*entities.QuizSession, error)
}

type HistoryService interface {
	Record(ctx context.Context, userID int64, query string) error
	Recent(ctx context.Context, userID int64) ([]entities.SearchHistoryEntry, error)
}

type ResetService interface {
	ResetUser(ctx context.Context, userID int64) error
}

type QuizStorage interface {
	Store(chatID int64, q storage.PendingQuestion) (prev storage.PendingQuestion, hadPrev bool)
	Get(chatID int64) (storage.PendingQuestion, bool)
	Take(chatID int64) (storage.PendingQuestion, bool)
	Delete(chatID int64)
	Expire(cutoff time.Time) int
}
