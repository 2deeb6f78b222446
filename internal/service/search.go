package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/arabic"
	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/highlight"
	"github.com/aliskhannn/mushaf-bot/internal/similarity"
	"github.com/aliskhannn/mushaf-bot/internal/storage"
)

var ErrEmptyQuery = errors.New("empty search query")

// CorpusSource provides the current corpus snapshot.
type CorpusSource interface {
	Snapshot() *storage.Corpus
}

// SearchOptions tunes a search.
type SearchOptions struct {
	Limit     int     // maximum number of results
	Threshold float64 // minimal similarity for the lexical fallback
	Highlight bool    // fill HighlightedText
}

// SearchService finds verses by text.
type SearchService struct {
	verses      VerseRepository
	corpus      CorpusSource
	highlighter highlight.Highlighter
	defaults    SearchOptions
	logger      *zap.Logger
}

func NewSearchService(
	verses VerseRepository,
	corpus CorpusSource,
	highlighter highlight.Highlighter,
	defaults SearchOptions,
	logger *zap.Logger,
) *SearchService {
	return &SearchService{
		verses:      verses,
		corpus:      corpus,
		highlighter: highlighter,
		defaults:    defaults,
		logger:      logger,
	}
}

// Defaults returns the options used for unset fields.
func (s *SearchService) Defaults() SearchOptions {
	return s.defaults
}

// Search looks for query verbatim first, then in normalized form, and falls
// back to lexical similarity when neither finds anything.
func (s *SearchService) Search(ctx context.Context, query string, opts SearchOptions) (*entities.SearchResults, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	opts = s.withDefaults(opts)

	normalized := arabic.Search.Normalize(q)
	corpus := s.corpus.Snapshot()

	res := &entities.SearchResults{
		Query:      q,
		Normalized: normalized,
		Results:    []entities.SearchResult{},
	}

	exact, err := s.verses.SearchText(ctx, q, opts.Limit)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(exact))
	for _, v := range exact {
		seen[v.ID] = true
		res.Results = append(res.Results, entities.SearchResult{
			Verse:      v,
			Similarity: 1,
			MatchType:  entities.MatchExactOriginal,
		})
	}

	if normalized != "" && len(res.Results) < opts.Limit {
		for _, iv := range corpus.Verses() {
			if seen[iv.ID] || !strings.Contains(iv.Normalized.Text, normalized) {
				continue
			}
			res.Results = append(res.Results, entities.SearchResult{
				Verse:      iv.Verse,
				Similarity: 1,
				MatchType:  entities.MatchExactClean,
			})
			if len(res.Results) >= opts.Limit {
				break
			}
		}
	}

	if len(res.Results) == 0 && normalized != "" {
		res.Fallback = true
		res.Results = s.lexical(corpus, normalized, opts)
	}

	if opts.Highlight {
		for i := range res.Results {
			res.Results[i].HighlightedText = s.highlightResult(corpus, res.Results[i].Verse, q, normalized)
		}
	}

	s.logger.Debug("search done",
		zap.String("query", q),
		zap.Int("results", len(res.Results)),
		zap.Bool("fallback", res.Fallback),
	)

	return res, nil
}

func (s *SearchService) lexical(corpus *storage.Corpus, normalized string, opts SearchOptions) []entities.SearchResult {
	out := []entities.SearchResult{}
	for _, iv := range corpus.Verses() {
		score := similarity.Ratio(normalized, iv.Normalized.Text)
		if score < opts.Threshold {
			continue
		}
		out = append(out, entities.SearchResult{
			Verse:      iv.Verse,
			Similarity: score,
			MatchType:  entities.MatchLexical,
		})
	}

	slices.SortStableFunc(out, func(a, b entities.SearchResult) int {
		return compareScore(a.Similarity, b.Similarity)
	})

	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// highlightResult marks the whole query in the verse, or its words when the
// query as a whole does not occur.
func (s *SearchService) highlightResult(corpus *storage.Corpus, v entities.Verse, query, normalized string) string {
	iv, ok := corpus.ByID(v.ID)
	if !ok || iv.Text != v.Text {
		return s.highlighter.RenderAll(v.Text, query)
	}

	spans := highlight.LocateAllMapped(iv.Normalized, normalized)
	if len(spans) == 0 {
		spans = highlight.LocateAnyMapped(iv.Normalized, significantWords(normalized))
	}
	return s.highlighter.RenderSpans(v.Text, spans)
}

func (s *SearchService) withDefaults(opts SearchOptions) SearchOptions {
	if opts.Limit <= 0 {
		opts.Limit = s.defaults.Limit
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Threshold <= 0 {
		opts.Threshold = s.defaults.Threshold
	}
	return opts
}

// significantWords drops words too short to be worth marking.
func significantWords(normalized string) []string {
	words := strings.Fields(normalized)
	out := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) >= 2 {
			out = append(out, w)
		}
	}
	return out
}

// compareScore orders scores descending.
func compareScore(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
