package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/mushaf-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling logs a failed handler and tells the user what went
// wrong. Errors caused by the input get a specific message, everything
// else a generic one.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		if text, ok := userMessage(err); ok {
			h.logger.Debug("request rejected",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, text)
			return nil
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return nil
	}
}

func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrVerseNotFound):
		return msgVerseNotFound, true
	case errors.Is(err, service.ErrInvalidReference):
		return msgInvalidReference, true
	case errors.Is(err, service.ErrEmptyQuery):
		return msgUseSearch, true
	case errors.Is(err, service.ErrWordTooShort):
		return msgWordTooShort, true
	case errors.Is(err, service.ErrNoQuestionsAvailable):
		return msgNoQuestions, true
	case errors.Is(err, service.ErrEmptyAnswer):
		return msgEmptyAnswer, true
	case errors.Is(err, entities.ErrInvalidScope):
		return msgInvalidScope, true
	case errors.Is(err, entities.ErrUnknownQuestionType):
		return msgUnknownQuestionType, true
	case errors.Is(err, repository.ErrSessionNotFound), errors.Is(err, repository.ErrSessionNotActive):
		return msgNoActiveQuiz, true
	case errors.Is(err, repository.ErrOptimisticLock):
		return msgAnswerConflict, true
	}
	return "", false
}
