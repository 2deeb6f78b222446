package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Services groups the services the handler depends on.
type Services struct {
	Users      UserService
	Search     SearchService
	Verses     VerseService
	Similarity SimilarityService
	Stats      StatsService
	Quiz       QuizService
	History    HistoryService
	Reset      ResetService
}

// Options tunes the handler.
type Options struct {
	PendingTTL       time.Duration // unanswered quiz questions are dropped after this
	SearchResults    int           // search results shown in one message
	SimilarPageSize  int           // similar verses per page
	SimilarThreshold float64       // minimal similarity for /similar
	WordMatches      int           // verses listed by /word
}

func (o Options) withDefaults() Options {
	if o.PendingTTL <= 0 {
		o.PendingTTL = 30 * time.Minute
	}
	if o.SearchResults <= 0 {
		o.SearchResults = 10
	}
	if o.SimilarPageSize <= 0 {
		o.SimilarPageSize = 5
	}
	if o.SimilarThreshold <= 0 {
		o.SimilarThreshold = 0.4
	}
	if o.WordMatches <= 0 {
		o.WordMatches = 5
	}
	return o
}

type Handler struct {
	bot         Bot
	logger      *zap.Logger
	services    Services
	quizStorage QuizStorage
	opts        Options
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	services Services,
	quizStorage QuizStorage,
	opts Options,
) *Handler {
	return &Handler{
		bot:         bot,
		logger:      logger,
		services:    services,
		quizStorage: quizStorage,
		opts:        opts.withDefaults(),
	}
}

// Run receives updates until ctx is done. Pending quiz questions older
// than the configured TTL are dropped along the way.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	ticker := time.NewTicker(h.opts.PendingTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		case now := <-ticker.C:
			if n := h.quizStorage.Expire(now.Add(-h.opts.PendingTTL)); n > 0 {
				h.logger.Debug("pending questions expired", zap.Int("count", n))
			}
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID

	created, err := h.services.Users.EnsureUser(ctx, from.ID, chatID, from.UserName, from.LanguageCode)
	if err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	} else if created {
		h.logger.Info("new user", zap.Int64("user_id", from.ID))
	}

	if update.Message.IsCommand() {
		args := update.Message.CommandArguments()

		switch update.Message.Command() {
		case "start":
			h.send(newHTMLMessage(chatID, msgWelcome))

		case "help":
			h.send(newHTMLMessage(chatID, msgHelp))

		case "search":
			_ = h.withErrorHandling(h.handleSearch(from.ID, args))(ctx, chatID)

		case "verse":
			_ = h.withErrorHandling(h.handleVerse(args))(ctx, chatID)

		case "similar":
			_ = h.withErrorHandling(h.handleSimilar(args))(ctx, chatID)

		case "compare":
			_ = h.withErrorHandling(h.handleCompare(args))(ctx, chatID)

		case "stats":
			_ = h.withErrorHandling(h.handleStats())(ctx, chatID)

		case "word":
			_ = h.withErrorHandling(h.handleWord(args))(ctx, chatID)

		case "quiz":
			_ = h.withErrorHandling(h.handleQuiz(from.ID, args))(ctx, chatID)

		case "stop":
			_ = h.withErrorHandling(h.handleStop(from.ID))(ctx, chatID)

		case "history":
			_ = h.withErrorHandling(h.handleHistory(from.ID))(ctx, chatID)

		case "reset":
			_ = h.withErrorHandling(h.handleReset())(ctx, chatID)

		default:
			h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}

		return
	}

	_ = h.withErrorHandling(h.handleText(from.ID, update.Message.Text))(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, text string) {
	h.send(newHTMLMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

// answerCallback removes the loading indicator of a button, optionally
// showing a short notice.
func (h *Handler) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		h.logger.Warn("failed to answer callback", zap.Error(err))
	}
}
