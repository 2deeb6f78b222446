package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/mushaf-bot/internal/answer"
	"github.com/aliskhannn/mushaf-bot/internal/config"
	"github.com/aliskhannn/mushaf-bot/internal/delivery/httpapi"
	"github.com/aliskhannn/mushaf-bot/internal/delivery/telegram"
	"github.com/aliskhannn/mushaf-bot/internal/highlight"
	"github.com/aliskhannn/mushaf-bot/internal/infra/postgres"
	"github.com/aliskhannn/mushaf-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/mushaf-bot/internal/logger"
	"github.com/aliskhannn/mushaf-bot/internal/service"
	"github.com/aliskhannn/mushaf-bot/internal/storage"
)

var botCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "بدء استخدام البوت"},
	{Command: "help", Description: "المساعدة"},
	{Command: "search", Description: "البحث عن آية (مثال: /search الحمد لله)"},
	{Command: "verse", Description: "عرض آية (مثال: /verse 2 255)"},
	{Command: "similar", Description: "الآيات المتشابهة (مثال: /similar 2 2)"},
	{Command: "compare", Description: "مقارنة آيتين (مثال: /compare 2 2 3 2)"},
	{Command: "stats", Description: "إحصائيات المصحف"},
	{Command: "word", Description: "إحصائيات كلمة"},
	{Command: "quiz", Description: "بدء اختبار"},
	{Command: "stop", Description: "إنهاء الاختبار"},
	{Command: "history", Description: "سجل البحث"},
	{Command: "reset", Description: "حذف بياناتي"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("application stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	tr := postgres.NewTransactor(pool)
	if err := postgres.Migrate(ctx, pool, tr, log); err != nil {
		return err
	}

	// Initialize repositories.
	verseRepo := repository.NewVerseRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	historyRepo := repository.NewHistoryRepository(pool)

	newVerseWriter := func(tx pgx.Tx) service.VerseWriter { return repository.NewVerseRepository(tx) }
	newQuizRepo := func(tx pgx.Tx) service.QuizRepository { return repository.NewQuizRepository(tx) }
	newResetRepo := func(tx pgx.Tx) service.ResetRepository { return repository.NewResetRepository(tx) }

	// Load the corpus before serving anything.
	corpusService := service.NewCorpusService(verseRepo, tr, newVerseWriter, storage.NewCorpusStore(), log)
	if err := corpusService.Bootstrap(ctx, cfg.Corpus.CSVPath); err != nil {
		return err
	}

	searchDefaults := service.SearchOptions{
		Limit:     cfg.Search.DefaultLimit,
		Threshold: cfg.Search.FallbackThreshold,
		Highlight: true,
	}
	verseService := service.NewVerseService(verseRepo)
	similarityService := service.NewSimilarityService(corpusService, cfg.Similarity.Workers, nil, log)
	statsService := service.NewStatsService(corpusService)
	quizService := service.NewQuizService(
		corpusService,
		quizRepo,
		tr,
		newQuizRepo,
		answer.Matcher{MinTruncatedCoverage: cfg.Quiz.MinTruncatedCoverage},
		nil,
		log,
	)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Corpus.RefreshSpec != "" {
		g.Go(func() error {
			return corpusService.Start(ctx, cfg.Corpus.RefreshSpec)
		})
	}

	if cfg.HTTP.Enabled {
		handler := httpapi.NewHandler(httpapi.Services{
			Search:     service.NewSearchService(verseRepo, corpusService, highlight.HTML, searchDefaults, log),
			Verses:     verseService,
			Similarity: similarityService,
			Stats:      statsService,
			Quiz:       quizService,
		}, log)
		router := httpapi.NewRouter(handler, httpapi.RouterOptions{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			RequestTimeout: cfg.HTTP.RequestTimeout,
		})
		server := httpapi.NewServer(router, httpapi.ServerOptions{
			Addr:         cfg.HTTP.Addr,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		}, log)

		g.Go(func() error {
			return server.Run(ctx)
		})
	}

	if cfg.Bot.Enabled {
		token, err := cfg.Token()
		if err != nil {
			return err
		}

		bot, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			return err
		}
		bot.Debug = cfg.Bot.Debug
		log.Info("authorized on account", zap.String("username", bot.Self.UserName))

		if _, err := bot.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
			log.Warn("failed to set bot commands", zap.Error(err))
		}

		handler := telegram.NewHandler(
			bot,
			log,
			telegram.Services{
				Users:      service.NewUserService(userRepo),
				Search:     service.NewSearchService(verseRepo, corpusService, telegram.Highlighter, searchDefaults, log),
				Verses:     verseService,
				Similarity: similarityService,
				Stats:      statsService,
				Quiz:       quizService,
				History:    service.NewHistoryService(historyRepo),
				Reset:      service.NewResetService(tr, newResetRepo),
			},
			storage.NewQuizStorage(),
			telegram.Options{
				PendingTTL:       cfg.Bot.PendingTTL,
				SearchResults:    cfg.Bot.SearchResults,
				SimilarPageSize:  cfg.Bot.SimilarPageSize,
				SimilarThreshold: cfg.Bot.SimilarThreshold,
				WordMatches:      cfg.Bot.WordMatches,
			},
		)

		g.Go(func() error {
			return handler.Run(ctx)
		})
	}

	return g.Wait()
}
