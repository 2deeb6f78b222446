package storage

import (
	"slices"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/aliskhannn/mushaf-bot/internal/arabic"
	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
)

// Basmala is the opening formula, written as in the corpus.
const Basmala = "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ"

var (
	normalizedBasmala = arabic.Search.Normalize(Basmala)
	stopWords         = normalizedSet(
		"في", "من", "إلى", "على", "عن", "أن", "إن", "ما", "لا", "هل", "بل",
		"قد", "كان", "يكون", "قال", "قل", "هو", "هي", "هم", "و",
	)
)

// IndexedVerse is a verse with its search form precomputed.
type IndexedVerse struct {
	entities.Verse
	Normalized arabic.Mapped // Search-normalized text with offsets into Text
	Tokens     []string      // words of Normalized.Text
	Basmala    bool          // first ayah opening with the basmala, surah 9 excluded
}

// Surah is a summary of one surah in the corpus.
type Surah struct {
	Number int
	Name   string
	Verses int
}

type ref struct{ surah, ayah int }

// Corpus is an immutable snapshot of the verse corpus.
type Corpus struct {
	verses   []IndexedVerse
	byID     map[int64]int
	byRef    map[ref]int
	surahs   []Surah
	juz      int
	words    []entities.WordFrequency
	loadedAt time.Time
}

// NewCorpus indexes verses. The input slice is not retained.
func NewCorpus(verses []entities.Verse) *Corpus {
	c := &Corpus{
		verses:   make([]IndexedVerse, len(verses)),
		byID:     make(map[int64]int, len(verses)),
		byRef:    make(map[ref]int, len(verses)),
		loadedAt: time.Now(),
	}

	sorted := slices.Clone(verses)
	slices.SortFunc(sorted, func(a, b entities.Verse) int { return cmpInt64(a.ID, b.ID) })

	surahs := make(map[int]*Surah)
	juz := make(map[int]struct{})
	freq := make(map[string]*entities.WordFrequency)

	for i, v := range sorted {
		m := arabic.Search.NormalizeMapped(v.Text)
		iv := IndexedVerse{
			Verse:      v,
			Normalized: m,
			Tokens:     strings.Fields(m.Text),
		}
		iv.Basmala = isBasmala(iv)

		c.verses[i] = iv
		c.byID[v.ID] = i
		c.byRef[ref{v.Surah, v.Ayah}] = i

		s, ok := surahs[v.Surah]
		if !ok {
			s = &Surah{Number: v.Surah, Name: v.SurahName}
			surahs[v.Surah] = s
		}
		s.Verses++
		juz[v.Juz] = struct{}{}

		seen := make(map[string]bool, len(iv.Tokens))
		for _, w := range iv.Tokens {
			if utf8.RuneCountInString(w) < 2 || stopWords[w] {
				continue
			}
			f, ok := freq[w]
			if !ok {
				f = &entities.WordFrequency{Word: w}
				freq[w] = f
			}
			f.Count++
			if !seen[w] {
				seen[w] = true
				f.VersesCount++
			}
		}
	}

	for _, s := range surahs {
		c.surahs = append(c.surahs, *s)
	}
	slices.SortFunc(c.surahs, func(a, b Surah) int { return a.Number - b.Number })
	c.juz = len(juz)

	c.words = make([]entities.WordFrequency, 0, len(freq))
	for _, f := range freq {
		c.words = append(c.words, *f)
	}
	slices.SortFunc(c.words, func(a, b entities.WordFrequency) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Word, b.Word)
	})

	return c
}

func isBasmala(v IndexedVerse) bool {
	if v.Ayah != 1 || v.Surah == 9 {
		return false
	}
	return strings.Contains(v.Normalized.Text, normalizedBasmala)
}

// Len returns the number of verses.
func (c *Corpus) Len() int { return len(c.verses) }

// Verses returns all verses ordered by ID. The slice must not be modified.
func (c *Corpus) Verses() []IndexedVerse { return c.verses }

func (c *Corpus) ByID(id int64) (*IndexedVerse, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.verses[i], true
}

func (c *Corpus) ByRef(surah, ayah int) (*IndexedVerse, bool) {
	i, ok := c.byRef[ref{surah, ayah}]
	if !ok {
		return nil, false
	}
	return &c.verses[i], true
}

// InScope returns the verses inside scope ordered by ID.
func (c *Corpus) InScope(scope entities.Scope) []*IndexedVerse {
	out := make([]*IndexedVerse, 0, len(c.verses))
	for i := range c.verses {
		if scope.Contains(c.verses[i].Verse) {
			out = append(out, &c.verses[i])
		}
	}
	return out
}

// Surahs returns the surahs present in the corpus ordered by number.
func (c *Corpus) Surahs() []Surah { return c.surahs }

// SurahName returns the name of surah n, if present.
func (c *Corpus) SurahName(n int) (string, bool) {
	i, ok := slices.BinarySearchFunc(c.surahs, n, func(s Surah, n int) int { return s.Number - n })
	if !ok {
		return "", false
	}
	return c.surahs[i].Name, true
}

// JuzCount returns the number of distinct juz in the corpus.
func (c *Corpus) JuzCount() int { return c.juz }

// Words returns the indexed words, most frequent first.
func (c *Corpus) Words() []entities.WordFrequency { return c.words }

// LoadedAt is the time the snapshot was built.
func (c *Corpus) LoadedAt() time.Time { return c.loadedAt }

// CorpusStore holds the current corpus snapshot. Readers never block on a
// refresh.
type CorpusStore struct {
	current atomic.Pointer[Corpus]
}

// NewCorpusStore creates a store holding an empty corpus.
func NewCorpusStore() *CorpusStore {
	s := &CorpusStore{}
	s.current.Store(NewCorpus(nil))
	return s
}

// Load returns the current snapshot.
func (s *CorpusStore) Load() *Corpus {
	return s.current.Load()
}

// Replace swaps in a new snapshot.
func (s *CorpusStore) Replace(c *Corpus) {
	s.current.Store(c)
}

func normalizedSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[arabic.Search.Normalize(w)] = true
	}
	return set
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
