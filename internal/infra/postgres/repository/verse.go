package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/infra/postgres"
)

var ErrVerseNotFound = errors.New("verse not found")

const verseColumns = `id, surah, surah_name, ayah, text, juz`

// VerseRepository provides access to the verse corpus in the database.
type VerseRepository struct {
	db postgres.DBTX
}

// NewVerseRepository creates a new VerseRepository with the provided database handle.
func NewVerseRepository(db postgres.DBTX) *VerseRepository {
	return &VerseRepository{db: db}
}

// GetByID retrieves a verse by its global number.
func (r *VerseRepository) GetByID(ctx context.Context, id int64) (*entities.Verse, error) {
	query := `SELECT ` + verseColumns + ` FROM verses WHERE id = $1`

	v, err := scanVerse(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVerseNotFound
		}
		return nil, fmt.Errorf("get verse: %w", err)
	}

	return v, nil
}

// GetBySurahAyah retrieves a verse by its surah and ayah numbers.
func (r *VerseRepository) GetBySurahAyah(ctx context.Context, surah, ayah int) (*entities.Verse, error) {
	query := `SELECT ` + verseColumns + ` FROM verses WHERE surah = $1 AND ayah = $2`

	v, err := scanVerse(r.db.QueryRow(ctx, query, surah, ayah))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVerseNotFound
		}
		return nil, fmt.Errorf("get verse by reference: %w", err)
	}

	return v, nil
}

// All returns every verse ordered by ID.
func (r *VerseRepository) All(ctx context.Context) ([]entities.Verse, error) {
	query := `SELECT ` + verseColumns + ` FROM verses ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query verses: %w", err)
	}

	return collectVerses(rows)
}

// List returns a page of verses ordered by ID.
func (r *VerseRepository) List(ctx context.Context, skip, limit int) ([]entities.Verse, error) {
	query := `SELECT ` + verseColumns + ` FROM verses ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list verses: %w", err)
	}

	return collectVerses(rows)
}

// SearchText returns verses whose text contains q verbatim.
func (r *VerseRepository) SearchText(ctx context.Context, q string, limit int) ([]entities.Verse, error) {
	query := `
		SELECT ` + verseColumns + `
		FROM verses
		WHERE strpos(text, $1) > 0
		ORDER BY id
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search verses: %w", err)
	}

	return collectVerses(rows)
}

// Count returns the number of stored verses.
func (r *VerseRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM verses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count verses: %w", err)
	}
	return n, nil
}

// Upsert bulk-loads verses through a staging table and merges them by ID.
// It must run inside a transaction.
func (r *VerseRepository) Upsert(ctx context.Context, verses []entities.Verse) (int64, error) {
	if _, err := r.db.Exec(ctx, `
		CREATE TEMP TABLE verses_staging (LIKE verses INCLUDING DEFAULTS) ON COMMIT DROP
	`); err != nil {
		return 0, fmt.Errorf("create staging table: %w", err)
	}

	columns := []string{"id", "surah", "surah_name", "ayah", "text", "juz"}
	src := pgx.CopyFromSlice(len(verses), func(i int) ([]any, error) {
		v := verses[i]
		return []any{v.ID, v.Surah, v.SurahName, v.Ayah, v.Text, v.Juz}, nil
	})

	if _, err := r.db.CopyFrom(ctx, pgx.Identifier{"verses_staging"}, columns, src); err != nil {
		return 0, fmt.Errorf("copy verses: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		INSERT INTO verses (`+verseColumns+`)
		SELECT `+verseColumns+` FROM verses_staging
		ON CONFLICT (id) DO UPDATE SET
			surah = EXCLUDED.surah,
			surah_name = EXCLUDED.surah_name,
			ayah = EXCLUDED.ayah,
			text = EXCLUDED.text,
			juz = EXCLUDED.juz
	`)
	if err != nil {
		return 0, fmt.Errorf("merge verses: %w", err)
	}

	return tag.RowsAffected(), nil
}

func scanVerse(row pgx.Row) (*entities.Verse, error) {
	var v entities.Verse
	if err := row.Scan(&v.ID, &v.Surah, &v.SurahName, &v.Ayah, &v.Text, &v.Juz); err != nil {
		return nil, err
	}
	return &v, nil
}

func collectVerses(rows pgx.Rows) ([]entities.Verse, error) {
	verses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Verse, error) {
		v, err := scanVerse(row)
		if err != nil {
			return entities.Verse{}, err
		}
		return *v, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan verses: %w", err)
	}
	return verses, nil
}
