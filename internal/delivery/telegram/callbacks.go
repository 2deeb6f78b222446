package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb, "")
		return
	}

	data := decodeCallback(cb.Data)
	chatID := cb.Message.Chat.ID

	var (
		fn     HandlerFunc
		notice string
	)

	switch data.Action {
	case actionQuiz:
		fn, notice = h.handleQuizCallback(cb, data)
	case actionSimilar:
		fn = h.handleSimilarCallback(cb, data)
	case actionCompare:
		fn = h.handleCompareCallback(data)
	case actionReset:
		fn = h.handleResetCallback(cb, data)
	default:
		h.logger.Debug("unknown callback", zap.String("data", data.Raw))
	}

	// Remove the user's "clock".
	h.answerCallback(cb, notice)

	if fn != nil {
		_ = h.withErrorHandling(fn)(ctx, chatID)
	}
}

// handleQuizCallback returns the handler for a quiz button, or a notice
// when the button is stale.
func (h *Handler) handleQuizCallback(cb *tgbotapi.CallbackQuery, data callbackData) (HandlerFunc, string) {
	userID := cb.From.ID
	messageID := cb.Message.MessageID

	switch data.param(0) {
	case quizStart:
		qt, err := entities.ParseQuestionType(data.param(1))
		if err != nil {
			return nil, msgQuestionExpired
		}

		req := service.QuestionRequest{
			Type:   qt,
			Scope:  entities.AllScope,
			Expert: data.param(2) == "expert",
		}
		return func(ctx context.Context, chatID int64) error {
			h.removeKeyboard(chatID, messageID)
			return h.startQuiz(ctx, chatID, userID, req)
		}, ""

	case quizAnswer:
		sessionID, ok1 := data.int64Param(1)
		idx, ok2 := data.intParam(2)
		if !ok1 || !ok2 {
			return nil, msgQuestionExpired
		}

		chatID := cb.Message.Chat.ID
		pending, ok := h.quizStorage.Get(chatID)
		if !ok || pending.SessionID != sessionID || pending.MessageID != messageID ||
			idx < 0 || idx >= len(pending.Question.Options) {
			h.removeKeyboard(chatID, messageID)
			return nil, msgQuestionExpired
		}
		if pending, ok = h.quizStorage.Take(chatID); !ok {
			return nil, msgQuestionExpired
		}

		option := pending.Question.Options[idx]
		return func(ctx context.Context, chatID int64) error {
			edit := newHTMLEdit(chatID, messageID, formatQuestion(&pending.Question)+"\n\n"+bold("إجابتك: "+option))
			h.send(edit)
			return h.answerQuestion(ctx, chatID, userID, pending, option)
		}, ""

	case quizNext:
		sessionID, ok := data.int64Param(1)
		if !ok {
			return nil, msgQuestionExpired
		}
		return func(ctx context.Context, chatID int64) error {
			h.removeKeyboard(chatID, messageID)

			session, err := h.services.Quiz.ActiveSession(ctx, userID)
			if err != nil {
				return err
			}
			if session.ID != sessionID {
				h.sendError(chatID, msgNoActiveQuiz)
				return nil
			}
			return h.askQuestion(ctx, chatID, session)
		}, ""

	case quizStop:
		sessionID, ok := data.int64Param(1)
		if !ok {
			return nil, msgQuestionExpired
		}
		return func(ctx context.Context, chatID int64) error {
			h.removeKeyboard(chatID, messageID)
			return h.finishQuiz(ctx, chatID, userID, sessionID)
		}, ""
	}

	return nil, ""
}

// handleSimilarCallback turns the page of similar verses in place.
func (h *Handler) handleSimilarCallback(cb *tgbotapi.CallbackQuery, data callbackData) HandlerFunc {
	verseID, ok1 := data.int64Param(0)
	page, ok2 := data.intParam(1)
	if !ok1 || !ok2 {
		return nil
	}

	messageID := cb.Message.MessageID
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := h.renderSimilar(ctx, verseID, page)
		if err != nil {
			return err
		}

		edit := newHTMLEdit(chatID, messageID, text)
		edit.ReplyMarkup = kb
		h.send(edit)
		return nil
	}
}

func (h *Handler) handleCompareCallback(data callbackData) HandlerFunc {
	id1, ok1 := data.int64Param(0)
	id2, ok2 := data.int64Param(1)
	if !ok1 || !ok2 {
		return nil
	}

	return func(ctx context.Context, chatID int64) error {
		c, err := h.services.Similarity.Compare(ctx, id1, id2)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, formatComparison(c)))
		return nil
	}
}

func (h *Handler) handleResetCallback(cb *tgbotapi.CallbackQuery, data callbackData) HandlerFunc {
	userID := cb.From.ID
	messageID := cb.Message.MessageID

	switch data.param(0) {
	case resetConfirm:
		return func(ctx context.Context, chatID int64) error {
			if err := h.services.Reset.ResetUser(ctx, userID); err != nil {
				return err
			}
			h.quizStorage.Delete(chatID)

			h.logger.Info("user data reset", zap.Int64("user_id", userID))
			h.send(newHTMLEdit(chatID, messageID, msgResetDone))
			return nil
		}
	case resetCancel:
		return func(_ context.Context, chatID int64) error {
			h.send(newHTMLEdit(chatID, messageID, msgResetCanceled))
			return nil
		}
	}

	return nil
}
