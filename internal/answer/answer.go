// Package answer decides whether a quiz answer is correct under Arabic
// orthographic variation.
package answer

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/aliskhannn/mushaf-bot/internal/arabic"
)

var ErrUnknownKind = errors.New("unknown answer kind")

// Kind selects how strictly an answer is compared.
type Kind int

const (
	// MultipleChoiceLiteral answers are picked from a fixed option list.
	MultipleChoiceLiteral Kind = iota + 1
	// FreeformContinuation answers continue a verse and may be partial or
	// carry extra words.
	FreeformContinuation
	// FreeformOther answers are typed but must match exactly.
	FreeformOther
)

func (k Kind) String() string {
	switch k {
	case MultipleChoiceLiteral:
		return "multiple_choice"
	case FreeformContinuation:
		return "continuation"
	case FreeformOther:
		return "freeform"
	default:
		return "unknown"
	}
}

// DefaultMinTruncatedCoverage is the share of the correct answer a
// truncated continuation must cover.
const DefaultMinTruncatedCoverage = 0.8

// Matcher compares answers after normalizing them with the Answer preset.
// The zero value is ready to use.
type Matcher struct {
	// MinTruncatedCoverage is the minimal rune ratio len(user)/len(correct)
	// for a continuation that is a strict part of the correct answer.
	// Zero means DefaultMinTruncatedCoverage.
	MinTruncatedCoverage float64
}

// Match reports whether user is an acceptable answer for correct.
func (m Matcher) Match(user, correct string, kind Kind) bool {
	ok, _ := m.MatchKind(user, correct, kind)
	return ok
}

// MatchKind is Match that reports an unknown kind as an error.
func (m Matcher) MatchKind(user, correct string, kind Kind) (bool, error) {
	u := arabic.Answer.Normalize(user)
	c := arabic.Answer.Normalize(correct)

	switch kind {
	case MultipleChoiceLiteral, FreeformOther:
		return u != "" && u == c, nil
	case FreeformContinuation:
		return m.continuation(u, c), nil
	default:
		return false, ErrUnknownKind
	}
}

func (m Matcher) continuation(user, correct string) bool {
	if user == "" || correct == "" {
		return false
	}

	if user == correct || strings.Contains(user, correct) {
		return true
	}

	if strings.Contains(correct, user) && m.coverage(user, correct) >= m.minCoverage() {
		return true
	}

	for _, token := range strings.Fields(correct) {
		if !strings.Contains(user, token) {
			return false
		}
	}
	return true
}

func (m Matcher) coverage(user, correct string) float64 {
	return float64(utf8.RuneCountInString(user)) / float64(utf8.RuneCountInString(correct))
}

func (m Matcher) minCoverage() float64 {
	if m.MinTruncatedCoverage <= 0 {
		return DefaultMinTruncatedCoverage
	}
	return m.MinTruncatedCoverage
}
