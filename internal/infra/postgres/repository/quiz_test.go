package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
)

func TestQuizUpdateSession(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	tests := []struct {
		name    string
		tag     string
		execErr error
		err     error
		version int
	}{
		{"version matches", "UPDATE 1", nil, nil, 4},
		{"version moved on", "UPDATE 0", nil, ErrOptimisticLock, 3},
		{"exec fails", "", boom, boom, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := &fakeDB{exec: func(string, []any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag(tt.tag), tt.execErr
			}}
			session := &entities.QuizSession{
				ID:             11,
				AnsweredCount:  2,
				CorrectAnswers: 1,
				Score:          entities.PointsPerCorrectAnswer,
				SessionStatus:  entities.SessionActive,
				Version:        3,
			}

			err := NewQuizRepository(db).UpdateSession(context.Background(), session)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.version, session.Version)

			require.Len(t, db.calls, 1)
			assert.Contains(t, db.calls[0].sql, "version = version + 1")
			assert.Contains(t, db.calls[0].sql, "WHERE id = $6 AND version = $7")
			args := db.calls[0].args
			require.Len(t, args, 7)
			assert.Equal(t, int64(11), args[5])
			assert.Equal(t, 3, args[6])
		})
	}
}

func TestQuizGetSessionForUpdate(t *testing.T) {
	t.Parallel()

	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	sessionRow := func(status string) fakeRow {
		return fakeRow{values: []any{
			int64(11), int64(42), entities.QuestionContinue, entities.ScopeJuz, 30, false,
			2, 1, 10, status, started, nil, 3,
		}}
	}
	boom := errors.New("boom")

	tests := []struct {
		name string
		row  fakeRow
		err  error
	}{
		{"active", sessionRow(entities.SessionActive), nil},
		{"completed", sessionRow(entities.SessionCompleted), ErrSessionNotActive},
		{"missing", fakeRow{err: pgx.ErrNoRows}, ErrSessionNotFound},
		{"scan fails", fakeRow{err: boom}, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := &fakeDB{queryRow: func(string, []any) pgx.Row { return tt.row }}

			session, err := NewQuizRepository(db).GetSessionForUpdate(context.Background(), 11, 42)

			require.Len(t, db.calls, 1)
			assert.Contains(t, db.calls[0].sql, "FOR UPDATE")
			assert.Equal(t, []any{int64(11), int64(42)}, db.calls[0].args)

			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(42), session.UserID)
			assert.Equal(t, entities.Scope{Type: entities.ScopeJuz, Value: 30}, session.Scope)
			assert.Equal(t, 3, session.Version)
			assert.Nil(t, session.CompletedAt)
		})
	}
}
