package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/mushaf-bot/internal/service"
	"github.com/aliskhannn/mushaf-bot/internal/storage"
)

// handleQuiz starts a quiz, or shows the quiz menu when no arguments are given.
func (h *Handler) handleQuiz(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.TrimSpace(args) == "" {
			msg := newHTMLMessage(chatID, msgChooseQuizType)
			msg.ReplyMarkup = buildQuizTypeKeyboard()
			h.send(msg)
			return nil
		}

		req, err := parseQuizArgs(args)
		if err != nil {
			return err
		}

		return h.startQuiz(ctx, chatID, userID, req)
	}
}

// handleStop finishes the running quiz and shows its summary.
func (h *Handler) handleStop(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, err := h.services.Quiz.ActiveSession(ctx, userID)
		if err != nil {
			return err
		}

		return h.finishQuiz(ctx, chatID, userID, session.ID)
	}
}

func (h *Handler) startQuiz(ctx context.Context, chatID, userID int64, req service.QuestionRequest) error {
	session, err := h.services.Quiz.Start(ctx, userID, req)
	if err != nil {
		return err
	}

	h.logger.Debug("quiz session created",
		zap.Int64("session_id", session.ID),
		zap.Int64("user_id", userID),
		zap.String("question_type", string(session.QuestionType)),
		zap.String("scope", session.Scope.Label()),
	)

	h.send(newHTMLMessage(chatID, formatQuizStart(session)))

	return h.askQuestion(ctx, chatID, session)
}

// askQuestion generates the next question of a session and remembers it
// until it is answered.
func (h *Handler) askQuestion(ctx context.Context, chatID int64, session *entities.QuizSession) error {
	q, err := h.services.Quiz.NextQuestion(ctx, service.QuestionRequest{
		Type:   session.QuestionType,
		Scope:  session.Scope,
		Expert: session.Expert,
	})
	if err != nil {
		return err
	}

	msg := newHTMLMessage(chatID, formatQuestion(q))
	if q.HasOptions() {
		msg.ReplyMarkup = buildQuizAnswerKeyboard(q, session.ID)
	}

	sent, err := h.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send question: %w", err)
	}

	prev, hadPrev := h.quizStorage.Store(chatID, storage.PendingQuestion{
		SessionID: session.ID,
		Question:  *q,
		MessageID: sent.MessageID,
	})
	if hadPrev {
		h.removeKeyboard(chatID, prev.MessageID)
	}

	return nil
}

// answerQuestion checks the answer to a pending question and shows the result.
func (h *Handler) answerQuestion(
	ctx context.Context, chatID, userID int64, pending storage.PendingQuestion, answer string,
) error {
	res, err := h.services.Quiz.Answer(ctx, userID, pending.SessionID, pending.Question, answer)
	if err != nil {
		if errors.Is(err, service.ErrEmptyAnswer) || errors.Is(err, repository.ErrOptimisticLock) {
			// The question stays open for another try.
			h.quizStorage.Store(chatID, pending)
		}
		return err
	}

	h.logger.Debug("quiz answer checked",
		zap.Int64("session_id", pending.SessionID),
		zap.Bool("correct", res.Correct),
	)

	msg := newHTMLMessage(chatID, formatAnswerFeedback(res, pending.Question.Verse))
	msg.ReplyMarkup = buildQuizResultKeyboard(pending.SessionID)
	h.send(msg)
	return nil
}

func (h *Handler) finishQuiz(ctx context.Context, chatID, userID, sessionID int64) error {
	session, err := h.services.Quiz.Finish(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	if pending, ok := h.quizStorage.Take(chatID); ok {
		h.removeKeyboard(chatID, pending.MessageID)
	}

	h.send(newHTMLMessage(chatID, formatQuizSummary(session)))
	return nil
}

// removeKeyboard drops the inline keyboard of a sent message.
func (h *Handler) removeKeyboard(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.Debug("failed to remove keyboard",
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
	}
}
