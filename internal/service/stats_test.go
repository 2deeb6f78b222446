package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
)

func TestOverview(t *testing.T) {
	t.Parallel()

	o := NewStatsService(newFakeCorpus()).Overview(context.Background())

	assert.Equal(t, 11, o.TotalVerses)
	assert.Equal(t, 7, o.TotalSurahs)
	assert.Equal(t, 4, o.TotalJuz)
	assert.Positive(t, o.IndexedWords)
}

func TestWordStats(t *testing.T) {
	t.Parallel()

	s := NewStatsService(newFakeCorpus())

	stats, err := s.Word(context.Background(), "ٱلرَّحْمَٰنِ", 10)
	require.NoError(t, err)

	assert.Equal(t, "الرحمن", stats.Normalized)
	assert.Equal(t, 2, stats.TotalCount)
	assert.Equal(t, 2, stats.VersesCount)
	assert.Equal(t, []entities.Bucket{{Label: "الفاتحة (1)", Count: 2}}, stats.BySurah)
	assert.Equal(t, []entities.Bucket{{Label: "الجزء 1", Count: 2}}, stats.ByJuz)
	assert.Empty(t, stats.Suggestions)
}

func TestWordStatsAcrossSurahs(t *testing.T) {
	t.Parallel()

	stats, err := NewStatsService(newFakeCorpus()).Word(context.Background(), "قل", 2)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalCount)
	assert.Equal(t, 3, stats.VersesCount)
	assert.Len(t, stats.Matches, 2, "matches are limited")
	assert.Len(t, stats.BySurah, 3)
	assert.Equal(t, []entities.Bucket{{Label: "الجزء 30", Count: 3}}, stats.ByJuz)
}

func TestWordStatsSuggestions(t *testing.T) {
	t.Parallel()

	stats, err := NewStatsService(newFakeCorpus()).Word(context.Background(), "الرحمان", 10)
	require.NoError(t, err)

	assert.Zero(t, stats.TotalCount)
	assert.NotNil(t, stats.Matches)
	require.NotEmpty(t, stats.Suggestions)
	assert.Equal(t, "الرحمن", stats.Suggestions[0])
}

func TestWordTooShort(t *testing.T) {
	t.Parallel()

	s := NewStatsService(newFakeCorpus())

	for _, w := range []string{"", "ا", "ٱ", "  بَ  ", "؟"} {
		_, err := s.Word(context.Background(), w, 10)
		require.ErrorIs(t, err, ErrWordTooShort, w)
	}
}

func TestAutocomplete(t *testing.T) {
	t.Parallel()

	s := NewStatsService(newFakeCorpus())

	words, err := s.Autocomplete(context.Background(), "ٱلرَّ", 10)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "الرحمن", words[0].Word)
	assert.Equal(t, 2, words[0].Count)
	assert.Equal(t, "الرحيم", words[1].Word)

	words, err = s.Autocomplete(context.Background(), "الر", 1)
	require.NoError(t, err)
	assert.Len(t, words, 1)

	words, err = s.Autocomplete(context.Background(), "زز", 10)
	require.NoError(t, err)
	assert.Empty(t, words)

	_, err = s.Autocomplete(context.Background(), "ا", 10)
	require.ErrorIs(t, err, ErrWordTooShort)
}
