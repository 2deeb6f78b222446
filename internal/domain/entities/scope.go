package entities

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidScope = errors.New("invalid scope")

// ScopeType selects the part of the corpus a quiz or scan draws from.
type ScopeType string

const (
	ScopeAll    ScopeType = "all"
	ScopeJuz    ScopeType = "juz"
	ScopeSurah  ScopeType = "surah"
	ScopeThulth ScopeType = "thulth" // a third of the Quran, ten juz each
)

const (
	MaxSurah  = 114
	MaxJuz    = 30
	maxThulth = 3
)

// Scope is a contiguous part of the corpus.
type Scope struct {
	Type  ScopeType `json:"type"`
	Value int       `json:"value,omitempty"`
}

// AllScope covers the whole corpus.
var AllScope = Scope{Type: ScopeAll}

// ParseScope builds a scope from its textual form. An empty type means all.
func ParseScope(typ, value string) (Scope, error) {
	if typ == "" || ScopeType(typ) == ScopeAll {
		return AllScope, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return Scope{}, fmt.Errorf("parse scope value %q: %w", value, ErrInvalidScope)
	}

	s := Scope{Type: ScopeType(typ), Value: n}
	if err := s.Validate(); err != nil {
		return Scope{}, err
	}
	return s, nil
}

// Validate checks the scope value against the bounds of its type.
func (s Scope) Validate() error {
	var limit int
	switch s.Type {
	case ScopeAll:
		return nil
	case ScopeJuz:
		limit = MaxJuz
	case ScopeSurah:
		limit = MaxSurah
	case ScopeThulth:
		limit = maxThulth
	default:
		return fmt.Errorf("scope type %q: %w", s.Type, ErrInvalidScope)
	}

	if s.Value < 1 || s.Value > limit {
		return fmt.Errorf("%s %d out of range 1..%d: %w", s.Type, s.Value, limit, ErrInvalidScope)
	}
	return nil
}

// Contains reports whether v lies inside the scope.
func (s Scope) Contains(v Verse) bool {
	switch s.Type {
	case ScopeJuz:
		return v.Juz == s.Value
	case ScopeSurah:
		return v.Surah == s.Value
	case ScopeThulth:
		from, to := s.JuzRange()
		return v.Juz >= from && v.Juz <= to
	default:
		return true
	}
}

// JuzRange returns the inclusive juz bounds covered by the scope.
func (s Scope) JuzRange() (from, to int) {
	switch s.Type {
	case ScopeJuz:
		return s.Value, s.Value
	case ScopeThulth:
		return (s.Value-1)*10 + 1, s.Value * 10
	default:
		return 1, MaxJuz
	}
}

// Label is the Arabic caption of the scope shown to users.
func (s Scope) Label() string {
	switch s.Type {
	case ScopeJuz:
		return fmt.Sprintf("الجزء %d", s.Value)
	case ScopeSurah:
		return fmt.Sprintf("سورة %d", s.Value)
	case ScopeThulth:
		return fmt.Sprintf("الثلث %d", s.Value)
	default:
		return "القرآن كاملاً"
	}
}
