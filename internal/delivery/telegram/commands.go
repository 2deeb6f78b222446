package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/service"
)

// handleText answers a pending free-text quiz question or searches.
func (h *Handler) handleText(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if pending, ok := h.quizStorage.Get(chatID); ok && !pending.Question.HasOptions() {
			if pending, ok = h.quizStorage.Take(chatID); ok {
				return h.answerQuestion(ctx, chatID, userID, pending, text)
			}
		}

		return h.handleSearch(userID, text)(ctx, chatID)
	}
}

// handleSearch searches verses and records the query in the user's history.
func (h *Handler) handleSearch(userID int64, query string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		query = strings.TrimSpace(query)
		if query == "" {
			h.send(newHTMLMessage(chatID, msgUseSearch))
			return nil
		}

		opts := h.services.Search.Defaults()
		opts.Highlight = true
		opts.Limit = h.opts.SearchResults

		res, err := h.services.Search.Search(ctx, query, opts)
		if err != nil {
			return err
		}

		if err := h.services.History.Record(ctx, userID, query); err != nil {
			h.logger.Warn("failed to record search",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}

		h.send(newHTMLMessage(chatID, formatSearchResults(res, h.opts.SearchResults)))
		return nil
	}
}

// handleVerse shows a single verse.
func (h *Handler) handleVerse(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.TrimSpace(args) == "" {
			h.send(newHTMLMessage(chatID, msgUseVerse))
			return nil
		}

		v, err := h.resolveVerse(ctx, args)
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, formatVerse(*v))
		msg.ReplyMarkup = buildVerseKeyboard(v.ID)
		h.send(msg)
		return nil
	}
}

// handleSimilar lists the verses most similar to a verse.
func (h *Handler) handleSimilar(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.TrimSpace(args) == "" {
			h.send(newHTMLMessage(chatID, msgUseSimilar))
			return nil
		}

		v, err := h.resolveVerse(ctx, args)
		if err != nil {
			return err
		}

		text, kb, err := h.renderSimilar(ctx, v.ID, 0)
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		h.send(msg)
		return nil
	}
}

// handleCompare shows the word differences between two verses.
func (h *Handler) handleCompare(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		refs := strings.Fields(args)
		if len(refs) != 2 {
			h.send(newHTMLMessage(chatID, msgUseCompare))
			return nil
		}

		v1, err := h.resolveVerse(ctx, refs[0])
		if err != nil {
			return err
		}
		v2, err := h.resolveVerse(ctx, refs[1])
		if err != nil {
			return err
		}

		c, err := h.services.Similarity.Compare(ctx, v1.ID, v2.ID)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, formatComparison(c)))
		return nil
	}
}

// handleStats shows corpus totals.
func (h *Handler) handleStats() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.send(newHTMLMessage(chatID, formatOverview(h.services.Stats.Overview(ctx))))
		return nil
	}
}

// handleWord shows the occurrences of a word.
func (h *Handler) handleWord(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.TrimSpace(args) == "" {
			h.send(newHTMLMessage(chatID, msgUseWord))
			return nil
		}

		stats, err := h.services.Stats.Word(ctx, args, h.opts.WordMatches)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, formatWordStats(stats)))
		return nil
	}
}

// handleHistory lists the user's recent searches.
func (h *Handler) handleHistory(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		entries, err := h.services.History.Recent(ctx, userID)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, formatHistory(entries)))
		return nil
	}
}

// handleReset asks for confirmation before deleting the user's data.
func (h *Handler) handleReset() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		msg := newHTMLMessage(chatID, msgResetConfirm)
		msg.ReplyMarkup = buildResetKeyboard()
		h.send(msg)
		return nil
	}
}

// renderSimilar renders one page of similar verses with its keyboard.
func (h *Handler) renderSimilar(ctx context.Context, verseID int64, page int) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	v, similar, err := h.services.Similarity.Similar(ctx, verseID, 0, h.opts.SimilarThreshold, true)
	if err != nil {
		return "", nil, err
	}

	text, shown, totalPages := formatSimilarPage(v, similar, page, h.opts.SimilarPageSize)
	page = max(0, min(page, totalPages-1))

	return text, buildSimilarKeyboard(verseID, shown, page, totalPages), nil
}

// parseQuizArgs reads "[type] [scope value] [expert]".
func parseQuizArgs(args string) (service.QuestionRequest, error) {
	var req service.QuestionRequest

	fields := strings.Fields(strings.ToLower(args))
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		switch f {
		case "expert":
			req.Expert = true
		case string(entities.ScopeAll):
			req.Scope = entities.AllScope
		case string(entities.ScopeJuz), string(entities.ScopeSurah), string(entities.ScopeThulth):
			var value string
			if i+1 < len(fields) {
				value = fields[i+1]
				i++
			}
			scope, err := entities.ParseScope(f, value)
			if err != nil {
				return req, err
			}
			req.Scope = scope
		default:
			qt, err := entities.ParseQuestionType(f)
			if err != nil {
				return req, err
			}
			req.Type = qt
		}
	}

	return req, nil
}
