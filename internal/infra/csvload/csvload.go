// Package csvload reads the verse corpus from its CSV export.
//
// The file must have a header with the columns id, surah, surah_name, ayah,
// text and juz in any order. Extra columns are ignored. Rows without a juz
// are skipped and reported.
package csvload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidRow    = errors.New("invalid row")
)

var columns = []string{"id", "surah", "surah_name", "ayah", "text", "juz"}

// Result is the outcome of reading a corpus file.
type Result struct {
	Verses  []entities.Verse
	Skipped []int // 1-based line numbers of rows without a juz
}

// ReadFile reads the corpus from a file on disk.
func ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a corpus from r.
func Read(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		line, _ := cr.FieldPos(0)

		field := func(name string) string {
			i := idx[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		if field("juz") == "" {
			res.Skipped = append(res.Skipped, line)
			continue
		}

		v, err := parseVerse(field)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		res.Verses = append(res.Verses, v)
	}

	return res, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		idx[strings.ToLower(h)] = i
	}

	var missing []string
	for _, c := range columns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return idx, nil
}

func parseVerse(field func(string) string) (entities.Verse, error) {
	var v entities.Verse

	id, err := parseNumber(field("id"))
	if err != nil || id < 1 {
		return v, fmt.Errorf("%w: id %q", ErrInvalidRow, field("id"))
	}
	surah, err := parseNumber(field("surah"))
	if err != nil || surah < 1 || surah > entities.MaxSurah {
		return v, fmt.Errorf("%w: surah %q", ErrInvalidRow, field("surah"))
	}
	ayah, err := parseNumber(field("ayah"))
	if err != nil || ayah < 1 {
		return v, fmt.Errorf("%w: ayah %q", ErrInvalidRow, field("ayah"))
	}
	juz, err := parseNumber(field("juz"))
	if err != nil || juz < 1 || juz > entities.MaxJuz {
		return v, fmt.Errorf("%w: juz %q", ErrInvalidRow, field("juz"))
	}

	text := field("text")
	if text == "" {
		return v, fmt.Errorf("%w: empty text", ErrInvalidRow)
	}

	return entities.Verse{
		ID:        int64(id),
		Surah:     surah,
		SurahName: field("surah_name"),
		Ayah:      ayah,
		Text:      text,
		Juz:       juz,
	}, nil
}

// parseNumber accepts integers and integral floats such as "5.0".
func parseNumber(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}
