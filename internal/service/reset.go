package service

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type ResetService struct {
	tr           Transactor
	newResetRepo ResetRepoFactory
}

func NewResetService(tr Transactor, newResetRepo ResetRepoFactory) *ResetService {
	return &ResetService{
		tr:           tr,
		newResetRepo: newResetRepo,
	}
}

// ResetUser deletes the quiz results and search history of a user.
func (s *ResetService) ResetUser(ctx context.Context, userID int64) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.newResetRepo(tx).ResetUser(ctx, userID)
	})
}
