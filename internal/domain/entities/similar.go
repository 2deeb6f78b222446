package entities

import "github.com/aliskhannn/mushaf-bot/internal/similarity"

// SimilarVerse is a verse scored against a reference verse.
type SimilarVerse struct {
	Verse
	Similarity float64 `json:"similarity"`
}

// VersePair is two verses that read alike.
type VersePair struct {
	Verse1       Verse   `json:"verse1"`
	Verse2       Verse   `json:"verse2"`
	Similarity   float64 `json:"similarity"`
	ScorePercent int     `json:"score_percent"`
}

// Comparison aligns the words of two verses.
type Comparison struct {
	Verse1       Verse                `json:"verse1"`
	Verse2       Verse                `json:"verse2"`
	Similarity   float64              `json:"similarity"`
	Highlighted1 []similarity.Segment `json:"highlighted1"`
	Highlighted2 []similarity.Segment `json:"highlighted2"`
}
