package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/infra/csvload"
	"github.com/aliskhannn/mushaf-bot/internal/storage"
)

var ErrNoVerses = errors.New("no verses available")

// ImportReport summarizes a corpus import.
type ImportReport struct {
	Read     int   // verses read from the file
	Skipped  []int // lines skipped for a missing juz
	Upserted int64 // rows inserted or updated
}

// CorpusService keeps the in-memory corpus in sync with the database.
type CorpusService struct {
	verses    VerseRepository
	tr        Transactor
	newWriter VerseWriterFactory
	store     *storage.CorpusStore
	logger    *zap.Logger
}

func NewCorpusService(
	verses VerseRepository,
	tr Transactor,
	newWriter VerseWriterFactory,
	store *storage.CorpusStore,
	logger *zap.Logger,
) *CorpusService {
	return &CorpusService{
		verses:    verses,
		tr:        tr,
		newWriter: newWriter,
		store:     store,
		logger:    logger,
	}
}

// Snapshot returns the current corpus.
func (s *CorpusService) Snapshot() *storage.Corpus {
	return s.store.Load()
}

// Refresh reloads the corpus from the database. The previous snapshot stays
// in place when loading fails or yields nothing.
func (s *CorpusService) Refresh(ctx context.Context) error {
	start := time.Now()

	verses, err := s.verses.All(ctx)
	if err != nil {
		return fmt.Errorf("load verses: %w", err)
	}
	if len(verses) == 0 {
		return ErrNoVerses
	}

	corpus := storage.NewCorpus(verses)
	s.store.Replace(corpus)

	s.logger.Info("corpus loaded",
		zap.Int("verses", corpus.Len()),
		zap.Int("surahs", len(corpus.Surahs())),
		zap.Int("words", len(corpus.Words())),
		zap.Duration("took", time.Since(start)),
	)

	return nil
}

// Import upserts verses in one transaction and refreshes the corpus.
func (s *CorpusService) Import(ctx context.Context, verses []entities.Verse) (int64, error) {
	if len(verses) == 0 {
		return 0, ErrNoVerses
	}

	var n int64
	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		n, err = s.newWriter(tx).Upsert(ctx, verses)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("import verses: %w", err)
	}

	if err := s.Refresh(ctx); err != nil {
		return n, err
	}

	return n, nil
}

// ImportFile reads a corpus CSV file and imports it.
func (s *CorpusService) ImportFile(ctx context.Context, path string) (*ImportReport, error) {
	res, err := csvload.ReadFile(path)
	if err != nil {
		return nil, err
	}

	for _, line := range res.Skipped {
		s.logger.Warn("verse skipped: empty juz", zap.String("path", path), zap.Int("line", line))
	}

	n, err := s.Import(ctx, res.Verses)
	if err != nil {
		return nil, err
	}

	return &ImportReport{Read: len(res.Verses), Skipped: res.Skipped, Upserted: n}, nil
}

// Bootstrap loads the corpus at startup and imports csvPath when the
// database holds no verses yet.
func (s *CorpusService) Bootstrap(ctx context.Context, csvPath string) error {
	n, err := s.verses.Count(ctx)
	if err != nil {
		return err
	}

	if n == 0 && csvPath != "" {
		s.logger.Info("database is empty, importing corpus", zap.String("path", csvPath))
		report, err := s.ImportFile(ctx, csvPath)
		if err != nil {
			return err
		}
		s.logger.Info("corpus imported", zap.Int("read", report.Read), zap.Int64("upserted", report.Upserted))
		return nil
	}

	return s.Refresh(ctx)
}

// Start refreshes the corpus on the cron schedule spec until ctx is done.
func (s *CorpusService) Start(ctx context.Context, spec string) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(spec, func() {
		if err := s.Refresh(ctx); err != nil {
			s.logger.Error("failed to refresh corpus", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}

	c.Start()
	s.logger.Info("corpus refresh scheduled", zap.String("spec", spec))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("corpus refresh stopped")

	return nil
}
