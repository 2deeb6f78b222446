package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/answer"
	"github.com/aliskhannn/mushaf-bot/internal/arabic"
	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/similarity"
	"github.com/aliskhannn/mushaf-bot/internal/storage"
)

var (
	ErrNoQuestionsAvailable = errors.New("no questions available")
	ErrEmptyAnswer          = errors.New("empty answer")
)

const (
	hiddenBlank = "____"
	wordBlank   = "(___)"

	minContinueWords   = 6
	minWordChoiceWords = 5
	maxHiddenWords     = 3
	wordDistractors    = 3
	surahDistractors   = 3
	expertDistractors  = 3

	expertMinSimilarity = 0.6
)

// fallbackDistractors fill word_choice options when the surah is too short.
var fallbackDistractors = []string{"السماء", "الأرض", "الناس", "الذي", "وهم", "الذين", "الله", "الرحمن", "الرحيم"}

// QuestionRequest describes the question to generate.
type QuestionRequest struct {
	Type   entities.QuestionType
	Scope  entities.Scope
	Expert bool
}

// QuizService generates quiz questions, checks answers and keeps score.
type QuizService struct {
	corpus      CorpusSource
	quizRepo    QuizRepository
	tr          Transactor
	newQuizRepo QuizRepoFactory
	matcher     answer.Matcher
	rng         *lockedRand
	logger      *zap.Logger
}

// NewQuizService creates the service. rng may be nil.
func NewQuizService(
	corpus CorpusSource,
	quizRepo QuizRepository,
	tr Transactor,
	newQuizRepo QuizRepoFactory,
	matcher answer.Matcher,
	rng *rand.Rand,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		corpus:      corpus,
		quizRepo:    quizRepo,
		tr:          tr,
		newQuizRepo: newQuizRepo,
		matcher:     matcher,
		rng:         newLockedRand(rng),
		logger:      logger,
	}
}

// NextQuestion generates a question of the requested type from the scope.
func (s *QuizService) NextQuestion(_ context.Context, req QuestionRequest) (*entities.Question, error) {
	if req.Type == "" {
		req.Type = entities.QuestionContinue
	}
	if req.Scope.Type == "" {
		req.Scope = entities.AllScope
	}
	if err := req.Scope.Validate(); err != nil {
		return nil, err
	}

	corpus := s.corpus.Snapshot()
	verses := corpus.InScope(req.Scope)
	if len(verses) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	switch req.Type {
	case entities.QuestionContinue:
		return s.continueQuestion(verses)
	case entities.QuestionWordChoice:
		return s.wordChoiceQuestion(corpus, verses)
	case entities.QuestionDistinguish:
		if req.Expert {
			if q, ok := s.expertDistinguishQuestion(corpus, verses); ok {
				return q, nil
			}
		}
		return s.distinguishQuestion(corpus, verses)
	case entities.QuestionSurahName:
		return s.surahNameQuestion(corpus, verses)
	default:
		return nil, fmt.Errorf("question type %q: %w", req.Type, entities.ErrUnknownQuestionType)
	}
}

// Check reports whether userAnswer answers q.
func (s *QuizService) Check(q entities.Question, userAnswer string) (bool, error) {
	if strings.TrimSpace(userAnswer) == "" {
		return false, ErrEmptyAnswer
	}

	kind, err := q.Type.AnswerKind()
	if err != nil {
		return false, err
	}

	return s.matcher.MatchKind(userAnswer, q.CorrectAnswer, kind)
}

// Start abandons the user's running sessions and opens a new one.
func (s *QuizService) Start(ctx context.Context, userID int64, req QuestionRequest) (*entities.QuizSession, error) {
	if req.Type == "" {
		req.Type = entities.QuestionContinue
	}
	if req.Scope.Type == "" {
		req.Scope = entities.AllScope
	}
	if err := req.Scope.Validate(); err != nil {
		return nil, err
	}

	session := entities.NewQuizSession(userID, req.Type, req.Scope, req.Expert)

	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := s.newQuizRepo(tx)

		if err := repo.AbandonOldSessions(ctx, userID); err != nil {
			return err
		}

		id, err := repo.Create(ctx, session)
		if err != nil {
			return err
		}
		session.ID = id

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("start quiz: %w", err)
	}

	return session, nil
}

// ActiveSession returns the running session of a user.
func (s *QuizService) ActiveSession(ctx context.Context, userID int64) (*entities.QuizSession, error) {
	return s.quizRepo.GetActiveSessionByUserID(ctx, userID)
}

// Answer checks an answer within a session, stores it and updates the score.
func (s *QuizService) Answer(
	ctx context.Context, userID, sessionID int64, q entities.Question, userAnswer string,
) (*entities.QuizResult, error) {
	correct, err := s.Check(q, userAnswer)
	if err != nil {
		return nil, err
	}

	var session *entities.QuizSession
	err = s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := s.newQuizRepo(tx)

		var err error
		session, err = repo.GetSessionForUpdate(ctx, sessionID, userID)
		if err != nil {
			return err
		}

		session.Record(correct)

		if err := repo.SaveAnswer(ctx, entities.NewQuizAnswer(session, q, userAnswer, correct)); err != nil {
			return err
		}

		return repo.UpdateSession(ctx, session)
	})
	if err != nil {
		return nil, fmt.Errorf("save quiz answer: %w", err)
	}

	return &entities.QuizResult{
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
		Score:         session.Score,
		Answered:      session.AnsweredCount,
	}, nil
}

// Finish completes a session.
func (s *QuizService) Finish(ctx context.Context, userID, sessionID int64) (*entities.QuizSession, error) {
	var session *entities.QuizSession
	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := s.newQuizRepo(tx)

		var err error
		session, err = repo.GetSessionForUpdate(ctx, sessionID, userID)
		if err != nil {
			return err
		}

		session.Complete()
		return repo.UpdateSession(ctx, session)
	})
	if err != nil {
		return nil, fmt.Errorf("finish quiz: %w", err)
	}

	return session, nil
}

func (s *QuizService) continueQuestion(verses []*storage.IndexedVerse) (*entities.Question, error) {
	v, words, ok := s.pickWithWords(verses, minContinueWords)
	if !ok {
		return nil, ErrNoQuestionsAvailable
	}

	n := len(words)
	hide := min(maxHiddenWords, max(1, n/5))

	// the hidden run starts and ends on a word, never on a pause mark
	var starts []int
	for i := 1; i+hide < n; i++ {
		if isWord(words[i]) && isWord(words[i+hide-1]) {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 {
		return nil, ErrNoQuestionsAvailable
	}
	start := starts[s.rng.Intn(len(starts))]

	shown := make([]string, 0, n-hide+1)
	shown = append(shown, words[:start]...)
	shown = append(shown, hiddenBlank)
	shown = append(shown, words[start+hide:]...)

	return &entities.Question{
		Type:          entities.QuestionContinue,
		Text:          strings.Join(shown, " "),
		CorrectAnswer: strings.Join(words[start:start+hide], " "),
		Verse:         v.Verse,
	}, nil
}

func (s *QuizService) wordChoiceQuestion(corpus *storage.Corpus, verses []*storage.IndexedVerse) (*entities.Question, error) {
	v, words, ok := s.pickWithWords(verses, minWordChoiceWords)
	if !ok {
		return nil, ErrNoQuestionsAvailable
	}

	var candidates []int
	for i := 1; i < len(words)-1; i++ {
		if isWord(words[i]) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoQuestionsAvailable
	}
	idx := candidates[s.rng.Intn(len(candidates))]
	correct := words[idx]

	text := strings.Join(words[:idx], " ") + " " + wordBlank + " " + strings.Join(words[idx+1:], " ")
	distractors := s.wordDistractors(corpus, v.Surah, correct)

	return &entities.Question{
		Type:          entities.QuestionWordChoice,
		Text:          text,
		CorrectAnswer: correct,
		Options:       s.buildOptionsWithCorrect(correct, distractors),
		Verse:         v.Verse,
	}, nil
}

// wordDistractors picks words of the same surah that do not read like correct.
func (s *QuizService) wordDistractors(corpus *storage.Corpus, surah int, correct string) []string {
	taken := map[string]bool{arabic.Answer.Normalize(correct): true}

	var pool []string
	add := func(w string) {
		key := arabic.Answer.Normalize(w)
		if key == "" || taken[key] {
			return
		}
		taken[key] = true
		pool = append(pool, w)
	}

	for _, v := range corpus.InScope(entities.Scope{Type: entities.ScopeSurah, Value: surah}) {
		for _, w := range strings.Fields(v.Text) {
			if utf8.RuneCountInString(w) > 2 {
				add(w)
			}
		}
	}

	if len(pool) < wordDistractors {
		for _, w := range fallbackDistractors {
			add(w)
		}
	}

	return s.sample(pool, wordDistractors)
}

func (s *QuizService) distinguishQuestion(corpus *storage.Corpus, verses []*storage.IndexedVerse) (*entities.Question, error) {
	v := verses[s.rng.Intn(len(verses))]

	var others []*storage.IndexedVerse
	for i := range corpus.Verses() {
		o := &corpus.Verses()[i]
		if o.Surah != v.Surah && o.Normalized.Text != v.Normalized.Text {
			others = append(others, o)
		}
	}
	if len(others) == 0 {
		return s.wordChoiceQuestion(corpus, verses)
	}

	other := others[s.rng.Intn(len(others))]

	return &entities.Question{
		Type:          entities.QuestionDistinguish,
		Text:          distinguishPrompt(v.SurahName),
		CorrectAnswer: v.Text,
		Options:       s.buildOptionsWithCorrect(v.Text, []string{other.Text}),
		Verse:         v.Verse,
	}, nil
}

// expertDistinguishQuestion uses near-duplicate verses from other surahs as
// distractors. It reports false when no verse in scope has one.
func (s *QuizService) expertDistinguishQuestion(corpus *storage.Corpus, verses []*storage.IndexedVerse) (*entities.Question, bool) {
	const attempts = 20

	for range attempts {
		v := verses[s.rng.Intn(len(verses))]
		if v.Basmala {
			continue
		}

		var similar []string
		seen := map[string]bool{v.Normalized.Text: true}
		for _, o := range corpus.Verses() {
			if o.Surah == v.Surah || seen[o.Normalized.Text] {
				continue
			}
			if !mayReach(v.Tokens, o.Tokens, expertMinSimilarity) {
				continue
			}
			if similarity.WordRatioTokens(v.Tokens, o.Tokens) >= expertMinSimilarity {
				seen[o.Normalized.Text] = true
				similar = append(similar, o.Text)
			}
		}
		if len(similar) == 0 {
			continue
		}

		return &entities.Question{
			Type:          entities.QuestionDistinguish,
			Text:          distinguishPrompt(v.SurahName),
			CorrectAnswer: v.Text,
			Options:       s.buildOptionsWithCorrect(v.Text, s.sample(similar, expertDistractors)),
			Verse:         v.Verse,
			Expert:        true,
		}, true
	}

	return nil, false
}

func (s *QuizService) surahNameQuestion(corpus *storage.Corpus, verses []*storage.IndexedVerse) (*entities.Question, error) {
	v := verses[s.rng.Intn(len(verses))]

	taken := map[string]bool{arabic.Answer.Normalize(v.SurahName): true}
	var names []string
	for _, su := range corpus.Surahs() {
		key := arabic.Answer.Normalize(su.Name)
		if su.Number == v.Surah || key == "" || taken[key] {
			continue
		}
		taken[key] = true
		names = append(names, su.Name)
	}

	return &entities.Question{
		Type:          entities.QuestionSurahName,
		Text:          v.Text,
		CorrectAnswer: v.SurahName,
		Options:       s.buildOptionsWithCorrect(v.SurahName, s.sample(names, surahDistractors)),
		Verse:         v.Verse,
	}, nil
}

// pickWithWords picks a random verse with at least minWords words.
func (s *QuizService) pickWithWords(verses []*storage.IndexedVerse, minWords int) (*storage.IndexedVerse, []string, bool) {
	var eligible []*storage.IndexedVerse
	for _, v := range verses {
		if len(strings.Fields(v.Text)) >= minWords {
			eligible = append(eligible, v)
		}
	}
	if len(eligible) == 0 {
		return nil, nil, false
	}

	v := eligible[s.rng.Intn(len(eligible))]
	return v, strings.Fields(v.Text), true
}

// sample returns up to n random elements of items.
func (s *QuizService) sample(items []string, n int) []string {
	out := shuffled(s.rng, items)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (s *QuizService) buildOptionsWithCorrect(correct string, distractors []string) []string {
	options := make([]string, 0, 1+len(distractors))
	options = append(options, correct)
	options = append(options, distractors...)
	return shuffled(s.rng, options)
}

// isWord reports whether a token of a verse carries letters. Standalone
// pause marks do not.
func isWord(token string) bool {
	return arabic.Answer.Normalize(token) != ""
}

func distinguishPrompt(surahName string) string {
	return fmt.Sprintf("أي من الآيات التالية في سورة %s؟", surahName)
}
