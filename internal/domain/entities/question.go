package entities

import (
	"errors"
	"fmt"

	"github.com/aliskhannn/mushaf-bot/internal/answer"
)

var ErrUnknownQuestionType = errors.New("unknown question type")

// QuestionType is the kind of quiz question.
type QuestionType string

const (
	QuestionContinue    QuestionType = "continue"    // fill in hidden words of a verse
	QuestionWordChoice  QuestionType = "word_choice" // pick the missing word
	QuestionDistinguish QuestionType = "distinguish" // pick the verse that belongs to a surah
	QuestionSurahName   QuestionType = "surah_name"  // name the surah of a verse
)

// QuestionTypes lists every question type in menu order.
var QuestionTypes = []QuestionType{
	QuestionContinue,
	QuestionWordChoice,
	QuestionDistinguish,
	QuestionSurahName,
}

// ParseQuestionType validates a question type name. An empty name means
// QuestionContinue.
func ParseQuestionType(s string) (QuestionType, error) {
	if s == "" {
		return QuestionContinue, nil
	}
	t := QuestionType(s)
	if _, err := t.AnswerKind(); err != nil {
		return "", err
	}
	return t, nil
}

// AnswerKind tells the answer matcher how to compare answers to t.
func (t QuestionType) AnswerKind() (answer.Kind, error) {
	switch t {
	case QuestionContinue:
		return answer.FreeformContinuation, nil
	case QuestionWordChoice, QuestionDistinguish:
		return answer.MultipleChoiceLiteral, nil
	case QuestionSurahName:
		return answer.FreeformOther, nil
	default:
		return 0, fmt.Errorf("question type %q: %w", t, ErrUnknownQuestionType)
	}
}

// Question is a generated quiz question.
type Question struct {
	Type          QuestionType `json:"question_type"`
	Text          string       `json:"question_text"`
	CorrectAnswer string       `json:"correct_answer"`
	Options       []string     `json:"options"` // empty for free-text questions
	Verse         Verse        `json:"verse_info"`
	Expert        bool         `json:"expert_mode,omitempty"`
}

// HasOptions reports whether the question is answered by picking an option.
func (q Question) HasOptions() bool {
	return len(q.Options) > 0
}
