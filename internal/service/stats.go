package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/aliskhannn/mushaf-bot/internal/arabic"
	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/similarity"
)

var ErrWordTooShort = errors.New("word is too short")

const (
	minWordRunes   = 2
	maxSuggestions = 5
	maxSuggestDist = 2
)

// StatsService answers statistics questions about the corpus.
type StatsService struct {
	corpus CorpusSource
}

func NewStatsService(corpus CorpusSource) *StatsService {
	return &StatsService{corpus: corpus}
}

// Overview counts verses, surahs, juz and indexed words.
func (s *StatsService) Overview(_ context.Context) entities.Overview {
	c := s.corpus.Snapshot()
	return entities.Overview{
		TotalVerses:  c.Len(),
		TotalSurahs:  len(c.Surahs()),
		TotalJuz:     c.JuzCount(),
		IndexedWords: len(c.Words()),
	}
}

// Word counts the occurrences of word in every verse. Occurrences are
// substring matches of the normalized forms, so a word also counts inside
// longer words.
func (s *StatsService) Word(ctx context.Context, word string, limit int) (*entities.WordStats, error) {
	normalized := arabic.Search.Normalize(word)
	if utf8.RuneCountInString(normalized) < minWordRunes {
		return nil, ErrWordTooShort
	}

	c := s.corpus.Snapshot()

	stats := &entities.WordStats{
		Word:       strings.TrimSpace(word),
		Normalized: normalized,
		BySurah:    []entities.Bucket{},
		ByJuz:      []entities.Bucket{},
		Matches:    []entities.WordMatch{},
	}

	bySurah := newCounter()
	byJuz := newCounter()

	for i, v := range c.Verses() {
		if i%512 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		n := strings.Count(v.Normalized.Text, normalized)
		if n == 0 {
			continue
		}

		stats.TotalCount += n
		stats.Matches = append(stats.Matches, entities.WordMatch{Verse: v.Verse, Count: n})
		bySurah.add(fmt.Sprintf("%s (%d)", v.SurahName, v.Surah), n)
		byJuz.add(fmt.Sprintf("الجزء %d", v.Juz), n)
	}

	stats.VersesCount = len(stats.Matches)
	stats.BySurah = bySurah.buckets()
	stats.ByJuz = byJuz.buckets()

	slices.SortStableFunc(stats.Matches, func(a, b entities.WordMatch) int { return b.Count - a.Count })
	if limit > 0 && len(stats.Matches) > limit {
		stats.Matches = stats.Matches[:limit]
	}

	if stats.TotalCount == 0 {
		stats.Suggestions = suggest(c.Words(), normalized)
	}

	return stats, nil
}

// Autocomplete returns indexed words starting with prefix, most frequent first.
func (s *StatsService) Autocomplete(_ context.Context, prefix string, limit int) ([]entities.WordFrequency, error) {
	normalized := arabic.Search.Normalize(prefix)
	if utf8.RuneCountInString(normalized) < minWordRunes {
		return nil, ErrWordTooShort
	}

	out := []entities.WordFrequency{}
	for _, w := range s.corpus.Snapshot().Words() {
		if !strings.HasPrefix(w.Word, normalized) {
			continue
		}
		out = append(out, w)
		if limit > 0 && len(out) >= limit {
			break
		}
	}

	return out, nil
}

// suggest returns indexed words within a small edit distance of word,
// closest first and more frequent first among equals.
func suggest(words []entities.WordFrequency, word string) []string {
	type candidate struct {
		word  string
		dist  int
		count int
	}

	n := utf8.RuneCountInString(word)

	var cands []candidate
	for _, w := range words {
		if d := utf8.RuneCountInString(w.Word) - n; d > maxSuggestDist || d < -maxSuggestDist {
			continue
		}
		if d := similarity.Distance(word, w.Word); d <= maxSuggestDist {
			cands = append(cands, candidate{word: w.Word, dist: d, count: w.Count})
		}
	}

	slices.SortStableFunc(cands, func(a, b candidate) int {
		if a.dist != b.dist {
			return a.dist - b.dist
		}
		return b.count - a.count
	})

	out := make([]string, 0, min(len(cands), maxSuggestions))
	for _, c := range cands[:min(len(cands), maxSuggestions)] {
		out = append(out, c.word)
	}
	return out
}

// counter accumulates labeled counts in first-seen order.
type counter struct {
	index map[string]int
	list  []entities.Bucket
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(label string, n int) {
	i, ok := c.index[label]
	if !ok {
		i = len(c.list)
		c.index[label] = i
		c.list = append(c.list, entities.Bucket{Label: label})
	}
	c.list[i].Count += n
}

// buckets returns the counts, largest first.
func (c *counter) buckets() []entities.Bucket {
	out := slices.Clone(c.list)
	if out == nil {
		out = []entities.Bucket{}
	}
	slices.SortStableFunc(out, func(a, b entities.Bucket) int { return b.Count - a.Count })
	return out
}
