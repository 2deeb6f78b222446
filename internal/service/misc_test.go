package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	t.Parallel()

	repo := &fakeHistoryRepo{}
	s := NewHistoryService(repo)
	ctx := context.Background()

	for _, q := range []string{"الرحمن", "  ", "بسم الله", " الرحمن "} {
		require.NoError(t, s.Record(ctx, 1, q))
	}
	for i := range MaxHistory + 5 {
		require.NoError(t, s.Record(ctx, 2, string(rune('a'+i))))
	}

	entries, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "الرحمن", entries[0].Query)
	assert.Equal(t, "بسم الله", entries[1].Query)

	entries, err = s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, MaxHistory)
	assert.Equal(t, "o", entries[0].Query)
}

func TestResetUser(t *testing.T) {
	t.Parallel()

	repo := &fakeResetRepo{}
	tr := &fakeTransactor{}
	s := NewResetService(tr, func(pgx.Tx) ResetRepository { return repo })

	require.NoError(t, s.ResetUser(context.Background(), 42))
	assert.Equal(t, []int64{42}, repo.reset)
	assert.Equal(t, 1, tr.calls)
}

func TestEnsureUser(t *testing.T) {
	t.Parallel()

	repo := &fakeUserRepo{}
	s := NewUserService(repo)

	created, err := s.EnsureUser(context.Background(), 1, 100, "ali", "ar")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.EnsureUser(context.Background(), 1, 100, "ali", "ar")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "ar", repo.users[1].LanguageCode)
}

func TestVerseService(t *testing.T) {
	t.Parallel()

	s := NewVerseService(&fakeVerseRepo{verses: fixtureVerses()})
	ctx := context.Background()

	v, err := s.ByID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "2:2", v.Ref())

	_, err = s.ByID(ctx, 5)
	require.ErrorIs(t, err, ErrVerseNotFound)

	v, err = s.ByRef(ctx, 113, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6227), v.ID)

	_, err = s.ByRef(ctx, 113, 2)
	require.ErrorIs(t, err, ErrVerseNotFound)

	_, err = s.ByRef(ctx, 115, 1)
	require.ErrorIs(t, err, ErrInvalidReference)

	page, err := s.List(ctx, 9, 5)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(6227), page[0].ID)

	page, err = s.List(ctx, -3, 0)
	require.NoError(t, err)
	assert.Len(t, page, 11)
}

func TestParseRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in          string
		surah, ayah int
		wantErr     bool
	}{
		{"2:255", 2, 255, false},
		{" 114 : 6 ", 114, 6, false},
		{"2", 0, 0, true},
		{"a:1", 0, 0, true},
		{"1:b", 0, 0, true},
		{"0:1", 0, 0, true},
		{"115:1", 0, 0, true},
		{"1:0", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			surah, ayah, err := ParseRef(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidReference)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, [2]int{tt.surah, tt.ayah}, [2]int{surah, ayah})
		})
	}
}
