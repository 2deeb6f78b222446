package service

import (
	"context"
	"strings"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
)

// MaxHistory is the number of recent searches kept per user.
const MaxHistory = 10

// HistoryService remembers the recent searches of users.
type HistoryService struct {
	repository HistoryRepository
}

func NewHistoryService(repository HistoryRepository) *HistoryService {
	return &HistoryService{repository: repository}
}

// Record stores query as the most recent search. Blank queries are ignored
// and a repeated query moves to the front.
func (s *HistoryService) Record(ctx context.Context, userID int64, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return s.repository.Add(ctx, userID, query, MaxHistory)
}

// Recent returns the user's searches, most recent first.
func (s *HistoryService) Recent(ctx context.Context, userID int64) ([]entities.SearchHistoryEntry, error) {
	return s.repository.List(ctx, userID, MaxHistory)
}
