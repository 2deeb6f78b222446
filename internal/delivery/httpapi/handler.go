package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/service"
)

// Version is reported by the index endpoint.
const Version = "1.0.0"

// Handler serves the JSON API.
type Handler struct {
	services Services
	logger   *zap.Logger
}

func NewHandler(services Services, logger *zap.Logger) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
	}
}

func (h *Handler) index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "مرحباً بك في واجهة المصحف",
		"version": Version,
		"endpoints": map[string]string{
			"search":           "/search?q=الكلمة",
			"similar_verses":   "/similar/{verse_id}",
			"compare":          "/compare/{id1}/{id2}",
			"all_similarities": "/all-similarities",
			"stats":            "/stats",
			"word_stats":       "/stats/word?word=الكلمة",
			"autocomplete":     "/autocomplete/{prefix}",
			"quiz":             "/quiz/get_question",
		},
	})
}

type searchResponse struct {
	*entities.SearchResults
	TotalFound int    `json:"total_found"`
	SearchTime string `json:"search_time"`
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p := params{r: r}
	opts := service.SearchOptions{
		Limit:     p.Int("limit", 20, 1, 100),
		Threshold: p.Float("threshold", 0.7, 0.05, 1),
		Highlight: p.Bool("highlight", true),
	}
	if p.err != nil {
		h.writeError(w, r, p.err)
		return
	}

	res, err := h.services.Search.Search(r.Context(), r.URL.Query().Get("q"), opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		SearchResults: res,
		TotalFound:    len(res.Results),
		SearchTime:    elapsed(start),
	})
}

type similarResponse struct {
	Verse      *entities.Verse         `json:"verse"`
	Similar    []entities.SimilarVerse `json:"similar_verses"`
	TotalFound int                     `json:"total_found"`
	SearchTime string                  `json:"search_time"`
}

func (h *Handler) similar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := pathInt64(chi.URLParam(r, "id"), "verse_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	p := params{r: r}
	limit := p.Int("limit", 10, 1, 50)
	threshold := p.Float("threshold", 0.4, 0.3, 1)
	excludeBasmala := p.Bool("exclude_basmala", true)
	if p.err != nil {
		h.writeError(w, r, p.err)
		return
	}

	v, similar, err := h.services.Similarity.Similar(r.Context(), id, limit, threshold, excludeBasmala)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, similarResponse{
		Verse:      v,
		Similar:    similar,
		TotalFound: len(similar),
		SearchTime: elapsed(start),
	})
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	id1, err := pathInt64(chi.URLParam(r, "id1"), "id1")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id2, err := pathInt64(chi.URLParam(r, "id2"), "id2")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.services.Similarity.Compare(r.Context(), id1, id2)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

type pairsResponse struct {
	TotalFound    int                  `json:"total_found"`
	Similarities  []entities.VersePair `json:"similarities"`
	MinSimilarity float64              `json:"min_similarity"`
	SearchScope   string               `json:"search_scope"`
	CompareScope  string               `json:"compare_scope"`
	Compared      int                  `json:"compared"`
	SearchTime    string               `json:"search_time"`
}

func (h *Handler) allSimilarities(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p := params{r: r}
	q := service.PairQuery{
		MinSimilarity:  p.Float("min_similarity", 0.7, 0.1, 1),
		Limit:          p.Int("limit", 100, 1, 10000),
		ExcludeBasmala: p.Bool("exclude_basmala", true),
	}
	surah := p.OptionalInt("surah", 1, entities.MaxSurah)
	juz := p.OptionalInt("juz", 1, entities.MaxJuz)
	third := p.OptionalInt("third", 1, 3)
	fullQuran := p.Bool("full_quran", false)
	compareSurah := p.OptionalInt("compare_surah", 1, entities.MaxSurah)
	compareJuz := p.OptionalInt("compare_juz", 1, entities.MaxJuz)
	if p.err != nil {
		h.writeError(w, r, p.err)
		return
	}

	if compareSurah != 0 && surah == 0 {
		h.writeError(w, r, fmt.Errorf("%w: compare_surah requires surah", errInvalidParam))
		return
	}
	if compareJuz != 0 && juz == 0 {
		h.writeError(w, r, fmt.Errorf("%w: compare_juz requires juz", errInvalidParam))
		return
	}

	switch {
	case fullQuran:
		q.Target = entities.AllScope
	case third != 0:
		q.Target = entities.Scope{Type: entities.ScopeThulth, Value: third}
	case surah != 0:
		q.Target = entities.Scope{Type: entities.ScopeSurah, Value: surah}
	case juz != 0:
		q.Target = entities.Scope{Type: entities.ScopeJuz, Value: juz}
	default:
		q.Target = entities.AllScope
	}

	switch {
	case compareSurah != 0:
		q.Compare = entities.Scope{Type: entities.ScopeSurah, Value: compareSurah}
	case compareJuz != 0:
		q.Compare = entities.Scope{Type: entities.ScopeJuz, Value: compareJuz}
	default:
		q.Compare = entities.AllScope
	}

	res, err := h.services.Similarity.AllPairs(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pairsResponse{
		TotalFound:    len(res.Pairs),
		Similarities:  res.Pairs,
		MinSimilarity: q.MinSimilarity,
		SearchScope:   res.TargetScope,
		CompareScope:  res.CompareScope,
		Compared:      res.Compared,
		SearchTime:    elapsed(start),
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.services.Stats.Overview(r.Context()))
}

func (h *Handler) wordStats(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	limit := p.Int("limit", 100, 1, 1000)
	if p.err != nil {
		h.writeError(w, r, p.err)
		return
	}

	stats, err := h.services.Stats.Word(r.Context(), r.URL.Query().Get("word"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

type autocompleteResponse struct {
	Prefix      string                   `json:"prefix"`
	Suggestions []entities.WordFrequency `json:"suggestions"`
	TotalFound  int                      `json:"total_found"`
}

func (h *Handler) autocomplete(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	limit := p.Int("limit", 10, 1, 20)
	if p.err != nil {
		h.writeError(w, r, p.err)
		return
	}

	prefix, err := url.PathUnescape(chi.URLParam(r, "prefix"))
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: prefix", errInvalidParam))
		return
	}

	words, err := h.services.Stats.Autocomplete(r.Context(), prefix, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, autocompleteResponse{
		Prefix:      prefix,
		Suggestions: words,
		TotalFound:  len(words),
	})
}

func (h *Handler) verse(w http.ResponseWriter, r *http.Request) {
	surah, err := strconv.Atoi(chi.URLParam(r, "surah"))
	if err != nil || surah < 1 || surah > entities.MaxSurah {
		h.writeError(w, r, fmt.Errorf("%w: surah must be in 1..%d", errInvalidParam, entities.MaxSurah))
		return
	}
	ayah, err := strconv.Atoi(chi.URLParam(r, "ayah"))
	if err != nil || ayah < 1 {
		h.writeError(w, r, fmt.Errorf("%w: ayah must be a positive integer", errInvalidParam))
		return
	}

	v, err := h.services.Verses.ByRef(r.Context(), surah, ayah)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) verses(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	skip := p.Int("skip", 0, 0, 1<<31-1)
	limit := p.Int("limit", 10, 1, 100)
	if p.err != nil {
		h.writeError(w, r, p.err)
		return
	}

	list, err := h.services.Verses.List(r.Context(), skip, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []entities.Verse{}
	}

	writeJSON(w, http.StatusOK, list)
}

type randomResponse struct {
	Verses     []entities.Verse `json:"verses"`
	TotalFound int              `json:"total_found"`
	SearchTime string           `json:"search_time"`
}

func (h *Handler) randomWithSimilarities(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p := params{r: r}
	limit := p.Int("limit", 10, 1, 20)
	minSimilarity := p.Float("min_similarity", 0.85, 0.6, 0.99)
	if p.err != nil {
		h.writeError(w, r, p.err)
		return
	}

	verses, err := h.services.Similarity.RandomWithSimilar(r.Context(), limit, minSimilarity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, randomResponse{
		Verses:     verses,
		TotalFound: len(verses),
		SearchTime: elapsed(start),
	})
}

type questionRequest struct {
	ScopeType    string      `json:"scope_type"`
	ScopeValue   json.Number `json:"scope_value"`
	QuestionType string      `json:"question_type"`
	ExpertMode   bool        `json:"expert_mode"`
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	var body questionRequest
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	qt, err := entities.ParseQuestionType(body.QuestionType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	scope, err := entities.ParseScope(body.ScopeType, body.ScopeValue.String())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	q, err := h.services.Quiz.NextQuestion(r.Context(), service.QuestionRequest{
		Type:   qt,
		Scope:  scope,
		Expert: body.ExpertMode,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if q.Options == nil {
		q.Options = []string{}
	}

	writeJSON(w, http.StatusOK, q)
}

type checkRequest struct {
	Question   entities.Question `json:"question"`
	UserAnswer string            `json:"user_answer"`
}

type checkResponse struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

func (h *Handler) checkAnswer(w http.ResponseWriter, r *http.Request) {
	var body checkRequest
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	correct, err := h.services.Quiz.Check(body.Question, body.UserAnswer)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, checkResponse{
		Correct:       correct,
		CorrectAnswer: body.Question.CorrectAnswer,
	})
}

const maxBodyBytes = 1 << 20

// decodeBody decodes a JSON request body. An empty body leaves v unchanged.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: malformed JSON body: %v", errInvalidParam, err)
}

func elapsed(start time.Time) string {
	return fmt.Sprintf("%.3fs", time.Since(start).Seconds())
}
