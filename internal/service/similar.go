package service

import (
	"context"
	"errors"
	"math/rand"
	"runtime"
	"slices"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/arabic"
	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/similarity"
	"github.com/aliskhannn/mushaf-bot/internal/storage"
)

var ErrVerseNotFound = errors.New("verse not found")

// identicalScore is the word ratio from which two verses count as the same.
const identicalScore = 0.99

// refrains are repeated verses whose identical copies are not interesting.
var refrains = []string{
	arabic.Search.Normalize("فَبِأَيِّ آلَاءِ رَبِّكُمَا تُكَذِّبَانِ"),
	arabic.Search.Normalize("فَبِأَىِّ ءَالَآءِ رَبِّكُمَا تُكَذِّبَانِ"),
	arabic.Search.Normalize("وَيْلٌ يَوْمَئِذٍ لِّلْمُكَذِّبِينَ"),
	arabic.Search.Normalize(storage.Basmala),
}

// PairQuery selects the verses AllPairs compares.
type PairQuery struct {
	Target         entities.Scope
	Compare        entities.Scope
	MinSimilarity  float64
	Limit          int
	ExcludeBasmala bool
}

// PairsResult is the outcome of AllPairs.
type PairsResult struct {
	Pairs        []entities.VersePair
	TargetScope  string
	CompareScope string
	Compared     int // pairs actually scored
}

// SimilarityService finds verses that read alike.
type SimilarityService struct {
	corpus  CorpusSource
	workers int
	rng     *lockedRand
	logger  *zap.Logger
}

// NewSimilarityService creates the service. workers bounds parallel scans;
// zero means one per CPU. rng may be nil.
func NewSimilarityService(corpus CorpusSource, workers int, rng *rand.Rand, logger *zap.Logger) *SimilarityService {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &SimilarityService{
		corpus:  corpus,
		workers: workers,
		rng:     newLockedRand(rng),
		logger:  logger,
	}
}

// Similar returns the verses most similar to verse id, best first.
// Identical verses are left out.
func (s *SimilarityService) Similar(
	ctx context.Context, id int64, limit int, threshold float64, excludeBasmala bool,
) (*entities.Verse, []entities.SimilarVerse, error) {
	corpus := s.corpus.Snapshot()

	ref, ok := corpus.ByID(id)
	if !ok {
		return nil, nil, ErrVerseNotFound
	}

	out := []entities.SimilarVerse{}
	for i, v := range corpus.Verses() {
		if i%512 == 0 && ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		if v.ID == id || (excludeBasmala && v.Basmala) {
			continue
		}
		if !mayReach(ref.Tokens, v.Tokens, threshold) {
			continue
		}

		score := similarity.WordRatioTokens(ref.Tokens, v.Tokens)
		if score >= threshold && score < identicalScore {
			out = append(out, entities.SimilarVerse{Verse: v.Verse, Similarity: score})
		}
	}

	slices.SortStableFunc(out, func(a, b entities.SimilarVerse) int {
		return compareScore(a.Similarity, b.Similarity)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return &ref.Verse, out, nil
}

// Compare aligns the words of two verses and marks the differences.
func (s *SimilarityService) Compare(_ context.Context, id1, id2 int64) (*entities.Comparison, error) {
	corpus := s.corpus.Snapshot()

	v1, ok := corpus.ByID(id1)
	if !ok {
		return nil, ErrVerseNotFound
	}
	v2, ok := corpus.ByID(id2)
	if !ok {
		return nil, ErrVerseNotFound
	}

	left, right := similarity.DiffWords(v1.Text, v2.Text)

	return &entities.Comparison{
		Verse1:       v1.Verse,
		Verse2:       v2.Verse,
		Similarity:   similarity.WordRatioTokens(v1.Tokens, v2.Tokens),
		Highlighted1: left,
		Highlighted2: right,
	}, nil
}

// AllPairs scores every pair of a target verse and a compare verse and
// returns those at or above the minimal similarity, best first.
func (s *SimilarityService) AllPairs(ctx context.Context, q PairQuery) (*PairsResult, error) {
	if err := q.Target.Validate(); err != nil {
		return nil, err
	}
	if err := q.Compare.Validate(); err != nil {
		return nil, err
	}

	corpus := s.corpus.Snapshot()
	target := filterBasmala(corpus.InScope(q.Target), q.ExcludeBasmala)
	compare := filterBasmala(corpus.InScope(q.Compare), q.ExcludeBasmala)

	res := &PairsResult{
		Pairs:        []entities.VersePair{},
		TargetScope:  q.Target.Label(),
		CompareScope: q.Compare.Label(),
	}
	if len(target) == 0 || len(compare) == 0 {
		return res, nil
	}

	inTarget := make(map[int64]bool, len(target))
	for _, v := range target {
		inTarget[v.ID] = true
	}

	type chunk struct {
		pairs    []entities.VersePair
		compared int
	}

	p := pool.NewWithResults[chunk]().WithContext(ctx).WithMaxGoroutines(s.workers)
	for _, a := range target {
		p.Go(func(ctx context.Context) (chunk, error) {
			var c chunk
			for _, b := range compare {
				if a.ID == b.ID {
					continue
				}
				// Both sides in the target set: score the pair once.
				if inTarget[b.ID] && b.ID < a.ID {
					continue
				}
				if !mayReach(a.Tokens, b.Tokens, q.MinSimilarity) {
					continue
				}

				c.compared++
				score := similarity.WordRatioTokens(a.Tokens, b.Tokens)
				if score < q.MinSimilarity || isRefrainCopy(a, b, score) {
					continue
				}

				v1, v2 := a.Verse, b.Verse
				if v2.ID < v1.ID {
					v1, v2 = v2, v1
				}
				c.pairs = append(c.pairs, entities.VersePair{
					Verse1:       v1,
					Verse2:       v2,
					Similarity:   score,
					ScorePercent: int(score*100 + 0.5),
				})
			}
			return c, ctx.Err()
		})
	}

	chunks, err := p.Wait()
	if err != nil {
		return nil, err
	}

	for _, c := range chunks {
		res.Pairs = append(res.Pairs, c.pairs...)
		res.Compared += c.compared
	}

	slices.SortFunc(res.Pairs, func(a, b entities.VersePair) int {
		if c := compareScore(a.Similarity, b.Similarity); c != 0 {
			return c
		}
		if a.Verse1.ID != b.Verse1.ID {
			return cmpID(a.Verse1.ID, b.Verse1.ID)
		}
		return cmpID(a.Verse2.ID, b.Verse2.ID)
	})
	if q.Limit > 0 && len(res.Pairs) > q.Limit {
		res.Pairs = res.Pairs[:q.Limit]
	}

	s.logger.Debug("pairs scanned",
		zap.String("target", res.TargetScope),
		zap.String("compare", res.CompareScope),
		zap.Int("compared", res.Compared),
		zap.Int("found", len(res.Pairs)),
	)

	return res, nil
}

// RandomWithSimilar picks up to limit random verses from distinct surahs
// that have at least one near-duplicate among a sample of the corpus.
func (s *SimilarityService) RandomWithSimilar(ctx context.Context, limit int, minSimilarity float64) ([]entities.Verse, error) {
	const sampleSize = 100

	corpus := s.corpus.Snapshot()
	candidates := filterBasmala(corpus.InScope(entities.AllScope), true)

	out := []entities.Verse{}
	if len(candidates) <= limit {
		for _, v := range candidates {
			out = append(out, v.Verse)
		}
		return out, nil
	}

	usedSurahs := make(map[int]bool)
	for _, v := range shuffled(s.rng, candidates) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if usedSurahs[v.Surah] {
			continue
		}

		sample := shuffled(s.rng, candidates)[:min(sampleSize, len(candidates))]
		for _, o := range sample {
			if o.ID == v.ID {
				continue
			}
			score := similarity.WordRatioTokens(v.Tokens, o.Tokens)
			if score >= minSimilarity && score < identicalScore {
				out = append(out, v.Verse)
				usedSurahs[v.Surah] = true
				break
			}
		}

		if len(out) >= limit {
			break
		}
	}

	return out, nil
}

// IsBasmala reports whether verse id opens with the basmala.
func (s *SimilarityService) IsBasmala(id int64) bool {
	v, ok := s.corpus.Snapshot().ByID(id)
	return ok && v.Basmala
}

// isRefrainCopy reports identical copies of a refrain or the basmala.
func isRefrainCopy(a, b *storage.IndexedVerse, score float64) bool {
	if score < identicalScore || a.Normalized.Text != b.Normalized.Text {
		return false
	}
	if a.Basmala || b.Basmala {
		return true
	}
	for _, r := range refrains {
		if strings.Contains(a.Normalized.Text, r) {
			return true
		}
	}
	return false
}

// mayReach reports whether two token lists can reach min at all: the word
// ratio never exceeds 2*min(la, lb)/(la+lb).
func mayReach(a, b []string, threshold float64) bool {
	la, lb := len(a), len(b)
	if la+lb == 0 {
		return true
	}
	return 2*float64(min(la, lb))/float64(la+lb) >= threshold
}

func filterBasmala(verses []*storage.IndexedVerse, exclude bool) []*storage.IndexedVerse {
	if !exclude {
		return verses
	}
	out := verses[:0:0]
	for _, v := range verses {
		if !v.Basmala {
			out = append(out, v)
		}
	}
	return out
}

func cmpID(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
