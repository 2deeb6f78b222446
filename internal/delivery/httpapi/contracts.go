package httpapi

import (
	"context"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/service"
)

type SearchService interface {
	Search(ctx context.Context, query string, opts service.SearchOptions) (*entities.SearchResults, error)
}

type VerseService interface {
	ByRef(ctx context.Context, surah, ayah int) (*entities.Verse, error)
	List(ctx context.Context, skip, limit int) ([]entities.Verse, error)
}

type SimilarityService interface {
	Similar(ctx context.Context, id int64, limit int, threshold float64, excludeBasmala bool) (*entities.Verse, []entities.SimilarVerse, error)
	Compare(ctx context.Context, id1, id2 int64) (*entities.Comparison, error)
	AllPairs(ctx context.Context, q service.PairQuery) (*service.PairsResult, error)
	RandomWithSimilar(ctx context.Context, limit int, minSimilarity float64) ([]entities.Verse, error)
}

type StatsService interface {
	Overview(ctx context.Context) entities.Overview
	Word(ctx context.Context, word string, limit int) (*entities.WordStats, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]entities.WordFrequency, error)
}

type QuizService interface {
	NextQuestion(ctx context.Context, req service.QuestionRequest) (*entities.Question, error)
	Check(q entities.Question, userAnswer string) (bool, error)
}

// Services groups the services the API serves.
type Services struct {
	Search     SearchService
	Verses     VerseService
	Similarity SimilarityService
	Stats      StatsService
	Quiz       QuizService
}
