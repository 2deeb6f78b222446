package service

import (
	"context"
	"math/rand"
	"slices"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/mushaf-bot/internal/storage"
)

func fixtureVerses() []entities.Verse {
	return []entities.Verse{
		{ID: 1, Surah: 1, SurahName: "الفاتحة", Ayah: 1, Text: "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ", Juz: 1},
		{ID: 2, Surah: 1, SurahName: "الفاتحة", Ayah: 2, Text: "ٱلْحَمْدُ لِلَّهِ رَبِّ ٱلْعَٰلَمِينَ", Juz: 1},
		{ID: 3, Surah: 1, SurahName: "الفاتحة", Ayah: 3, Text: "ٱلرَّحْمَٰنِ ٱلرَّحِيمِ", Juz: 1},
		{ID: 9, Surah: 2, SurahName: "البقرة", Ayah: 2, Text: "ذَٰلِكَ ٱلْكِتَٰبُ لَا رَيْبَ ۛ فِيهِ ۛ هُدًى لِّلْمُتَّقِينَ", Juz: 1},
		{ID: 12, Surah: 2, SurahName: "البقرة", Ayah: 5, Text: "أُو۟لَٰٓئِكَ عَلَىٰ هُدًى مِّن رَّبِّهِمْ ۖ وَأُو۟لَٰٓئِكَ هُمُ ٱلْمُفْلِحُونَ", Juz: 1},
		{ID: 3474, Surah: 31, SurahName: "لقمان", Ayah: 5, Text: "أُو۟لَٰٓئِكَ عَلَىٰ هُدًى مِّن رَّبِّهِمْ ۖ وَأُو۟لَٰٓئِكَ هُمُ ٱلْمُفْلِحُونَ", Juz: 21},
		{ID: 4914, Surah: 55, SurahName: "الرحمن", Ayah: 13, Text: "فَبِأَىِّ ءَالَآءِ رَبِّكُمَا تُكَذِّبَانِ", Juz: 27},
		{ID: 4917, Surah: 55, SurahName: "الرحمن", Ayah: 16, Text: "فَبِأَىِّ ءَالَآءِ رَبِّكُمَا تُكَذِّبَانِ", Juz: 27},
		{ID: 6222, Surah: 112, SurahName: "الإخلاص", Ayah: 1, Text: "قُلْ هُوَ ٱللَّهُ أَحَدٌ", Juz: 30},
		{ID: 6227, Surah: 113, SurahName: "الفلق", Ayah: 1, Text: "قُلْ أَعُوذُ بِرَبِّ ٱلْفَلَقِ", Juz: 30},
		{ID: 6231, Surah: 114, SurahName: "الناس", Ayah: 1, Text: "قُلْ أَعُوذُ بِرَبِّ ٱلنَّاسِ", Juz: 30},
	}
}

type fakeCorpus struct {
	corpus *storage.Corpus
}

func newFakeCorpus() *fakeCorpus {
	return &fakeCorpus{corpus: storage.NewCorpus(fixtureVerses())}
}

func (f *fakeCorpus) Snapshot() *storage.Corpus { return f.corpus }

func seeded() *rand.Rand { return rand.New(rand.NewSource(1)) }

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	f.calls++
	return fn(ctx, nil)
}

type fakeVerseRepo struct {
	verses   []entities.Verse
	upserted []entities.Verse
	err      error
}

func (r *fakeVerseRepo) All(context.Context) ([]entities.Verse, error) {
	return slices.Clone(r.verses), r.err
}

func (r *fakeVerseRepo) GetByID(_ context.Context, id int64) (*entities.Verse, error) {
	for _, v := range r.verses {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, repository.ErrVerseNotFound
}

func (r *fakeVerseRepo) GetBySurahAyah(_ context.Context, surah, ayah int) (*entities.Verse, error) {
	for _, v := range r.verses {
		if v.Surah == surah && v.Ayah == ayah {
			return &v, nil
		}
	}
	return nil, repository.ErrVerseNotFound
}

func (r *fakeVerseRepo) List(_ context.Context, skip, limit int) ([]entities.Verse, error) {
	if skip >= len(r.verses) {
		return nil, nil
	}
	return slices.Clone(r.verses[skip:min(len(r.verses), skip+limit)]), nil
}

func (r *fakeVerseRepo) SearchText(_ context.Context, q string, limit int) ([]entities.Verse, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []entities.Verse
	for _, v := range r.verses {
		if strings.Contains(v.Text, q) {
			out = append(out, v)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeVerseRepo) Count(context.Context) (int, error) {
	return len(r.verses), r.err
}

func (r *fakeVerseRepo) Upsert(_ context.Context, verses []entities.Verse) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.upserted = append(r.upserted, verses...)
	r.verses = append(r.verses, verses...)
	return int64(len(verses)), nil
}

type fakeQuizRepo struct {
	mu       sync.Mutex
	nextID   int64
	sessions map[int64]entities.QuizSession
	answers  []entities.QuizAnswer
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{sessions: make(map[int64]entities.QuizSession)}
}

func (r *fakeQuizRepo) Create(_ context.Context, s *entities.QuizSession) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *s
	cp.ID = r.nextID
	r.sessions[cp.ID] = cp
	return cp.ID, nil
}

func (r *fakeQuizRepo) GetActiveSessionByUserID(_ context.Context, userID int64) (*entities.QuizSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.UserID == userID && s.IsActive() {
			return &s, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (r *fakeQuizRepo) GetSessionForUpdate(_ context.Context, sessionID, userID int64) (*entities.QuizSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, repository.ErrSessionNotFound
	}
	if !s.IsActive() {
		return nil, repository.ErrSessionNotActive
	}
	return &s, nil
}

func (r *fakeQuizRepo) SaveAnswer(_ context.Context, a *entities.QuizAnswer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers = append(r.answers, *a)
	return nil
}

func (r *fakeQuizRepo) UpdateSession(_ context.Context, s *entities.QuizSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.sessions[s.ID]
	if !ok || cur.Version != s.Version {
		return repository.ErrOptimisticLock
	}
	s.Version++
	r.sessions[s.ID] = *s
	return nil
}

func (r *fakeQuizRepo) AbandonOldSessions(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.UserID == userID && s.IsActive() {
			s.SessionStatus = entities.SessionAbandoned
			r.sessions[id] = s
		}
	}
	return nil
}

type fakeHistoryRepo struct {
	entries map[int64][]string
}

func (r *fakeHistoryRepo) Add(_ context.Context, userID int64, query string, keep int) error {
	if r.entries == nil {
		r.entries = make(map[int64][]string)
	}
	list := slices.DeleteFunc(r.entries[userID], func(q string) bool { return q == query })
	list = append([]string{query}, list...)
	if len(list) > keep {
		list = list[:keep]
	}
	r.entries[userID] = list
	return nil
}

func (r *fakeHistoryRepo) List(_ context.Context, userID int64, limit int) ([]entities.SearchHistoryEntry, error) {
	var out []entities.SearchHistoryEntry
	for _, q := range r.entries[userID] {
		out = append(out, entities.SearchHistoryEntry{UserID: userID, Query: q})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeResetRepo struct {
	reset []int64
}

func (r *fakeResetRepo) ResetUser(_ context.Context, userID int64) error {
	r.reset = append(r.reset, userID)
	return nil
}

type fakeUserRepo struct {
	users map[int64]entities.User
}

func (r *fakeUserRepo) Save(_ context.Context, u *entities.User) (bool, error) {
	if r.users == nil {
		r.users = make(map[int64]entities.User)
	}
	_, existed := r.users[u.ID]
	r.users[u.ID] = *u
	return !existed, nil
}
