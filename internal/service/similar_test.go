package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
)

func newSimilarityService() *SimilarityService {
	return NewSimilarityService(newFakeCorpus(), 4, seeded(), zap.NewNop())
}

func TestSimilarExcludesIdentical(t *testing.T) {
	t.Parallel()

	s := newSimilarityService()

	ref, similar, err := s.Similar(context.Background(), 6227, 10, 0.3, true)
	require.NoError(t, err)
	assert.Equal(t, int64(6227), ref.ID)

	require.NotEmpty(t, similar)
	assert.Equal(t, int64(6231), similar[0].ID)
	assert.InDelta(t, 0.75, similar[0].Similarity, 1e-9)

	_, similar, err = s.Similar(context.Background(), 12, 10, 0.3, true)
	require.NoError(t, err)
	for _, v := range similar {
		assert.NotEqual(t, int64(3474), v.ID, "identical verse returned")
	}
}

func TestSimilarBasmala(t *testing.T) {
	t.Parallel()

	s := newSimilarityService()

	_, similar, err := s.Similar(context.Background(), 3, 10, 0.3, true)
	require.NoError(t, err)
	for _, v := range similar {
		assert.NotEqual(t, int64(1), v.ID)
	}

	_, similar, err = s.Similar(context.Background(), 3, 10, 0.3, false)
	require.NoError(t, err)
	require.NotEmpty(t, similar)
	assert.Equal(t, int64(1), similar[0].ID)

	assert.True(t, s.IsBasmala(1))
	assert.False(t, s.IsBasmala(3))
}

func TestSimilarNotFound(t *testing.T) {
	t.Parallel()

	_, _, err := newSimilarityService().Similar(context.Background(), 99999, 10, 0.3, true)
	require.ErrorIs(t, err, ErrVerseNotFound)
}

func TestCompare(t *testing.T) {
	t.Parallel()

	s := newSimilarityService()

	c, err := s.Compare(context.Background(), 6227, 6231)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, c.Similarity, 1e-9)
	require.Len(t, c.Highlighted1, 4)
	require.Len(t, c.Highlighted2, 4)
	assert.False(t, c.Highlighted1[0].Changed)
	assert.True(t, c.Highlighted1[3].Changed)
	assert.Equal(t, "ٱلنَّاسِ", c.Highlighted2[3].Text)

	_, err = s.Compare(context.Background(), 6227, 1)
	require.NoError(t, err)

	_, err = s.Compare(context.Background(), 6227, 424242)
	require.ErrorIs(t, err, ErrVerseNotFound)
}

func TestAllPairs(t *testing.T) {
	t.Parallel()

	s := newSimilarityService()

	res, err := s.AllPairs(context.Background(), PairQuery{
		Target:         entities.AllScope,
		Compare:        entities.AllScope,
		MinSimilarity:  0.7,
		Limit:          100,
		ExcludeBasmala: true,
	})
	require.NoError(t, err)

	require.Len(t, res.Pairs, 2, "refrain copies must be left out")
	assert.Equal(t, [2]int64{12, 3474}, [2]int64{res.Pairs[0].Verse1.ID, res.Pairs[0].Verse2.ID})
	assert.Equal(t, 100, res.Pairs[0].ScorePercent)
	assert.Equal(t, [2]int64{6227, 6231}, [2]int64{res.Pairs[1].Verse1.ID, res.Pairs[1].Verse2.ID})
	assert.Equal(t, 75, res.Pairs[1].ScorePercent)
	assert.Equal(t, "القرآن كاملاً", res.TargetScope)
}

func TestAllPairsScoped(t *testing.T) {
	t.Parallel()

	s := newSimilarityService()

	res, err := s.AllPairs(context.Background(), PairQuery{
		Target:        entities.Scope{Type: entities.ScopeSurah, Value: 114},
		Compare:       entities.Scope{Type: entities.ScopeJuz, Value: 30},
		MinSimilarity: 0.7,
		Limit:         1,
	})
	require.NoError(t, err)
	require.Len(t, res.Pairs, 1)
	assert.Equal(t, int64(6227), res.Pairs[0].Verse1.ID)
	assert.Equal(t, int64(6231), res.Pairs[0].Verse2.ID)

	_, err = s.AllPairs(context.Background(), PairQuery{
		Target:  entities.Scope{Type: entities.ScopeJuz, Value: 40},
		Compare: entities.AllScope,
	})
	require.ErrorIs(t, err, entities.ErrInvalidScope)
}

func TestAllPairsCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSimilarityService().AllPairs(ctx, PairQuery{
		Target:        entities.AllScope,
		Compare:       entities.AllScope,
		MinSimilarity: 0.1,
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRandomWithSimilar(t *testing.T) {
	t.Parallel()

	verses, err := newSimilarityService().RandomWithSimilar(context.Background(), 1, 0.7)
	require.NoError(t, err)
	require.Len(t, verses, 1)
	assert.Contains(t, []int64{6227, 6231}, verses[0].ID)
}
