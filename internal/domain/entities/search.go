package entities

import "time"

// MatchType tells how a search result was found.
type MatchType string

const (
	MatchExactOriginal MatchType = "exact_original" // query found verbatim
	MatchExactClean    MatchType = "exact_clean"    // found after normalization
	MatchLexical       MatchType = "lexical"        // similar enough, not contained
)

// SearchResult is a verse matched by a search.
type SearchResult struct {
	Verse
	Similarity      float64   `json:"similarity"`
	MatchType       MatchType `json:"match_type"`
	HighlightedText string    `json:"highlighted_text,omitempty"`
}

// SearchResults is the answer to one search query.
type SearchResults struct {
	Query      string         `json:"query"`
	Normalized string         `json:"query_normalized"`
	Fallback   bool           `json:"fallback"` // lexical fallback was used
	Results    []SearchResult `json:"results"`
}

// SearchHistoryEntry is one remembered query of a user.
type SearchHistoryEntry struct {
	UserID     int64
	Query      string
	SearchedAt time.Time
}
