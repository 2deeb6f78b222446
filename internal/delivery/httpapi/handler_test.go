package httpapi

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/answer"
	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/service"
	"github.com/aliskhannn/mushaf-bot/internal/storage"
)

func fixtureVerses() []entities.Verse {
	return []entities.Verse{
		{ID: 1, Surah: 1, SurahName: "الفاتحة", Ayah: 1, Text: "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ", Juz: 1},
		{ID: 2, Surah: 1, SurahName: "الفاتحة", Ayah: 2, Text: "ٱلْحَمْدُ لِلَّهِ رَبِّ ٱلْعَٰلَمِينَ", Juz: 1},
		{ID: 3, Surah: 1, SurahName: "الفاتحة", Ayah: 3, Text: "ٱلرَّحْمَٰنِ ٱلرَّحِيمِ", Juz: 1},
		{ID: 9, Surah: 2, SurahName: "البقرة", Ayah: 2, Text: "ذَٰلِكَ ٱلْكِتَٰبُ لَا رَيْبَ ۛ فِيهِ ۛ هُدًى لِّلْمُتَّقِينَ", Juz: 1},
		{ID: 4914, Surah: 55, SurahName: "الرحمن", Ayah: 13, Text: "فَبِأَىِّ ءَالَآءِ رَبِّكُمَا تُكَذِّبَانِ", Juz: 27},
		{ID: 6222, Surah: 112, SurahName: "الإخلاص", Ayah: 1, Text: "قُلْ هُوَ ٱللَّهُ أَحَدٌ", Juz: 30},
		{ID: 6227, Surah: 113, SurahName: "الفلق", Ayah: 1, Text: "قُلْ أَعُوذُ بِرَبِّ ٱلْفَلَقِ", Juz: 30},
		{ID: 6231, Surah: 114, SurahName: "الناس", Ayah: 1, Text: "قُلْ أَعُوذُ بِرَبِّ ٱلنَّاسِ", Juz: 30},
	}
}

type corpusSource struct{ corpus *storage.Corpus }

func (c corpusSource) Snapshot() *storage.Corpus { return c.corpus }

type fakeSearch struct{}

func (fakeSearch) Search(_ context.Context, query string, opts service.SearchOptions) (*entities.SearchResults, error) {
	if strings.TrimSpace(query) == "" {
		return nil, service.ErrEmptyQuery
	}

	v := fixtureVerses()[3]
	res := entities.SearchResult{Verse: v, Similarity: 1, MatchType: entities.MatchExactOriginal}
	if opts.Highlight {
		res.HighlightedText = "<mark>" + v.Text + "</mark>"
	}
	return &entities.SearchResults{Query: query, Results: []entities.SearchResult{res}}, nil
}

type fakeVerses struct{}

func (fakeVerses) ByRef(_ context.Context, surah, ayah int) (*entities.Verse, error) {
	for _, v := range fixtureVerses() {
		if v.Surah == surah && v.Ayah == ayah {
			return &v, nil
		}
	}
	return nil, service.ErrVerseNotFound
}

func (fakeVerses) List(_ context.Context, skip, limit int) ([]entities.Verse, error) {
	all := fixtureVerses()
	if skip >= len(all) {
		return nil, nil
	}
	return all[skip:min(len(all), skip+limit)], nil
}

func newTestRouter() http.Handler {
	corpus := corpusSource{corpus: storage.NewCorpus(fixtureVerses())}
	logger := zap.NewNop()

	h := NewHandler(Services{
		Search:     fakeSearch{},
		Verses:     fakeVerses{},
		Similarity: service.NewSimilarityService(corpus, 2, rand.New(rand.NewSource(1)), logger),
		Stats:      service.NewStatsService(corpus),
		Quiz:       service.NewQuizService(corpus, nil, nil, nil, answer.Matcher{}, rand.New(rand.NewSource(1)), logger),
	}, logger)

	return NewRouter(h, RouterOptions{AllowedOrigins: []string{"https://mushaf.example"}})
}

func do(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestStatusCodes(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{name: "index", method: http.MethodGet, target: "/", want: http.StatusOK},
		{name: "search", method: http.MethodGet, target: "/search?q=" + url.QueryEscape("ذلك"), want: http.StatusOK},
		{name: "search empty", method: http.MethodGet, target: "/search?q=", want: http.StatusBadRequest},
		{name: "search limit too big", method: http.MethodGet, target: "/search?q=x&limit=500", want: http.StatusUnprocessableEntity},
		{name: "search bad highlight", method: http.MethodGet, target: "/search?q=x&highlight=maybe", want: http.StatusUnprocessableEntity},
		{name: "similar missing verse", method: http.MethodGet, target: "/similar/5", want: http.StatusNotFound},
		{name: "similar bad id", method: http.MethodGet, target: "/similar/abc", want: http.StatusUnprocessableEntity},
		{name: "similar low threshold", method: http.MethodGet, target: "/similar/6227?threshold=0.1", want: http.StatusUnprocessableEntity},
		{name: "compare missing", method: http.MethodGet, target: "/compare/6227/7", want: http.StatusNotFound},
		{name: "compare surah requires surah", method: http.MethodGet, target: "/all-similarities?compare_surah=114", want: http.StatusUnprocessableEntity},
		{name: "compare juz requires juz", method: http.MethodGet, target: "/all-similarities?compare_juz=2", want: http.StatusUnprocessableEntity},
		{name: "third out of range", method: http.MethodGet, target: "/all-similarities?third=4", want: http.StatusUnprocessableEntity},
		{name: "word too short", method: http.MethodGet, target: "/stats/word?word=" + url.QueryEscape("ا"), want: http.StatusBadRequest},
		{name: "autocomplete too short", method: http.MethodGet, target: "/autocomplete/" + url.PathEscape("ا"), want: http.StatusBadRequest},
		{name: "verse", method: http.MethodGet, target: "/verse/2/2", want: http.StatusOK},
		{name: "verse missing", method: http.MethodGet, target: "/verse/2/3", want: http.StatusNotFound},
		{name: "verse bad surah", method: http.MethodGet, target: "/verse/115/1", want: http.StatusUnprocessableEntity},
		{name: "verses bad limit", method: http.MethodGet, target: "/verses?limit=0", want: http.StatusUnprocessableEntity},
		{name: "question unknown type", method: http.MethodPost, target: "/quiz/get_question", body: `{"question_type":"names"}`, want: http.StatusBadRequest},
		{name: "question bad scope", method: http.MethodPost, target: "/quiz/get_question", body: `{"scope_type":"juz","scope_value":"31"}`, want: http.StatusBadRequest},
		{name: "question malformed", method: http.MethodPost, target: "/quiz/get_question", body: `{"scope_type":`, want: http.StatusUnprocessableEntity},
		{name: "question too short verses", method: http.MethodPost, target: "/quiz/get_question", body: `{"question_type":"continue","scope_type":"surah","scope_value":112}`, want: http.StatusNotFound},
		{name: "check empty answer", method: http.MethodPost, target: "/quiz/check", body: `{"question":{"question_type":"surah_name","correct_answer":"الفلق"}}`, want: http.StatusBadRequest},
		{name: "question via get", method: http.MethodGet, target: "/quiz/get_question", want: http.StatusMethodNotAllowed},
		{name: "unknown route", method: http.MethodGet, target: "/names", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, body := do(t, router, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			if tt.want >= http.StatusBadRequest {
				assert.NotEmpty(t, body["detail"])
			}
		})
	}
}

func TestSearchEndpoint(t *testing.T) {
	t.Parallel()

	_, body := do(t, newTestRouter(), http.MethodGet, "/search?q="+url.QueryEscape("ذلك الكتاب"), "")

	assert.Equal(t, "ذلك الكتاب", body["query"])
	assert.EqualValues(t, 1, body["total_found"])
	assert.NotEmpty(t, body["search_time"])

	results := body["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.EqualValues(t, 9, first["id"])
	assert.Equal(t, "exact_original", first["match_type"])
	assert.Contains(t, first["highlighted_text"], "<mark>")
}

func TestSimilarEndpoint(t *testing.T) {
	t.Parallel()

	rec, body := do(t, newTestRouter(), http.MethodGet, "/similar/6227", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.EqualValues(t, 6227, body["verse"].(map[string]any)["id"])
	similar := body["similar_verses"].([]any)
	require.NotEmpty(t, similar)
	assert.EqualValues(t, 6231, similar[0].(map[string]any)["id"])
}

func TestCompareEndpoint(t *testing.T) {
	t.Parallel()

	rec, body := do(t, newTestRouter(), http.MethodGet, "/compare/6227/6231", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.EqualValues(t, 6227, body["verse1"].(map[string]any)["id"])
	assert.EqualValues(t, 6231, body["verse2"].(map[string]any)["id"])
	assert.NotEmpty(t, body["highlighted1"])
}

func TestAllSimilaritiesEndpoint(t *testing.T) {
	t.Parallel()

	rec, body := do(t, newTestRouter(), http.MethodGet, "/all-similarities?surah=113&compare_surah=114&min_similarity=0.5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "سورة 113", body["search_scope"])
	assert.Equal(t, "سورة 114", body["compare_scope"])
	pairs := body["similarities"].([]any)
	require.Len(t, pairs, 1)
	pair := pairs[0].(map[string]any)
	assert.EqualValues(t, 6227, pair["verse1"].(map[string]any)["id"])
	assert.EqualValues(t, 6231, pair["verse2"].(map[string]any)["id"])
}

func TestStatsEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	_, body := do(t, router, http.MethodGet, "/stats", "")
	assert.EqualValues(t, 8, body["total_verses"])
	assert.EqualValues(t, 6, body["total_surahs"])

	_, body = do(t, router, http.MethodGet, "/stats/word?word="+url.QueryEscape("ٱلرَّحْمَٰنِ"), "")
	assert.Equal(t, "الرحمن", body["word_normalized"])
	assert.EqualValues(t, 2, body["total_count"])

	rec, body := do(t, router, http.MethodGet, "/autocomplete/"+url.PathEscape("الرح")+"?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "الرح", body["prefix"])
	suggestions := body["suggestions"].([]any)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "الرحمن", suggestions[0].(map[string]any)["word"])
}

func TestVersesEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verses?skip=6&limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var verses []entities.Verse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verses))
	require.Len(t, verses, 2)
	assert.Equal(t, int64(6227), verses[0].ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verses?skip=100", nil))
	assert.JSONEq(t, "[]", rec.Body.String())

	_, body := do(t, router, http.MethodGet, "/verses/random-with-similarities?limit=20", "")
	assert.NotNil(t, body["verses"])
}

func TestQuizEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	for _, value := range []string{`"113"`, `113`} {
		rec, body := do(t, router, http.MethodPost, "/quiz/get_question",
			`{"question_type":"surah_name","scope_type":"surah","scope_value":`+value+`}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Equal(t, "surah_name", body["question_type"])
		assert.Equal(t, "الفلق", body["correct_answer"])
		assert.Len(t, body["options"], 4)
		assert.Contains(t, body["options"], "الفلق")
	}

	rec, body := do(t, router, http.MethodPost, "/quiz/get_question", `{}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "continue", body["question_type"])
	assert.Equal(t, []any{}, body["options"])

	_, body = do(t, router, http.MethodPost, "/quiz/check",
		`{"question":{"question_type":"surah_name","correct_answer":"الفلق"},"user_answer":"الفَلَق"}`)
	assert.Equal(t, true, body["correct"])
	assert.Equal(t, "الفلق", body["correct_answer"])

	_, body = do(t, router, http.MethodPost, "/quiz/check",
		`{"question":{"question_type":"distinguish","correct_answer":"قُلْ أَعُوذُ بِرَبِّ ٱلْفَلَقِ"},"user_answer":"قل اعوذ برب"}`)
	assert.Equal(t, false, body["correct"])
}

func TestCORS(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	preflight := httptest.NewRequest(http.MethodOptions, "/quiz/check", nil)
	preflight.Header.Set("Origin", "https://mushaf.example")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, preflight)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://mushaf.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))

	other := httptest.NewRequest(http.MethodGet, "/stats", nil)
	other.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, other)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
