package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/infra/postgres/repository"
)

var ErrInvalidReference = errors.New("invalid verse reference")

const maxPageSize = 100

// VerseService reads single verses and pages of verses.
type VerseService struct {
	verses VerseRepository
}

func NewVerseService(verses VerseRepository) *VerseService {
	return &VerseService{verses: verses}
}

// ByID returns the verse with global number id.
func (s *VerseService) ByID(ctx context.Context, id int64) (*entities.Verse, error) {
	v, err := s.verses.GetByID(ctx, id)
	if errors.Is(err, repository.ErrVerseNotFound) {
		return nil, ErrVerseNotFound
	}
	return v, err
}

// ByRef returns the verse at surah:ayah.
func (s *VerseService) ByRef(ctx context.Context, surah, ayah int) (*entities.Verse, error) {
	if surah < 1 || surah > entities.MaxSurah || ayah < 1 {
		return nil, ErrInvalidReference
	}

	v, err := s.verses.GetBySurahAyah(ctx, surah, ayah)
	if errors.Is(err, repository.ErrVerseNotFound) {
		return nil, ErrVerseNotFound
	}
	return v, err
}

// List returns a page of verses ordered by ID.
func (s *VerseService) List(ctx context.Context, skip, limit int) ([]entities.Verse, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	return s.verses.List(ctx, skip, limit)
}

// ParseRef parses a "surah:ayah" reference.
func ParseRef(s string) (surah, ayah int, err error) {
	a, b, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}

	surah, err = strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	ayah, err = strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}

	if surah < 1 || surah > entities.MaxSurah || ayah < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}

	return surah, ayah, nil
}
