package storage

import (
	"sync"
	"time"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
)

// PendingQuestion is a question sent to a chat and not answered yet.
type PendingQuestion struct {
	SessionID int64
	Question  entities.Question
	MessageID int // message carrying the question, 0 if unknown
	AskedAt   time.Time
}

// QuizStorage keeps the pending question of every chat in memory.
type QuizStorage struct {
	mu      sync.RWMutex
	pending map[int64]PendingQuestion
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		pending: make(map[int64]PendingQuestion),
	}
}

// Store sets the pending question of a chat and returns the one it replaced.
func (s *QuizStorage) Store(chatID int64, q PendingQuestion) (prev PendingQuestion, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q.AskedAt.IsZero() {
		q.AskedAt = time.Now()
	}

	prev, hadPrev = s.pending[chatID]
	s.pending[chatID] = q

	return prev, hadPrev
}

// Get retrieves the pending question of a chat.
func (s *QuizStorage) Get(chatID int64) (PendingQuestion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.pending[chatID]
	return q, ok
}

// Take removes and returns the pending question of a chat, so a question is
// answered at most once.
func (s *QuizStorage) Take(chatID int64) (PendingQuestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.pending[chatID]
	if ok {
		delete(s.pending, chatID)
	}
	return q, ok
}

// Delete removes the pending question of a chat.
func (s *QuizStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, chatID)
}

// Expire drops questions asked before cutoff and returns how many were dropped.
func (s *QuizStorage) Expire(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for chatID, q := range s.pending {
		if q.AskedAt.Before(cutoff) {
			delete(s.pending, chatID)
			n++
		}
	}
	return n
}
