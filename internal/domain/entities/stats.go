package entities

// Overview summarizes the corpus.
type Overview struct {
	TotalVerses  int `json:"total_verses"`
	TotalSurahs  int `json:"total_surahs"`
	TotalJuz     int `json:"total_juz"`
	IndexedWords int `json:"indexed_words"`
}

// Bucket is a labeled count.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// WordMatch is a verse containing a word and how many times it does.
type WordMatch struct {
	Verse Verse `json:"verse"`
	Count int   `json:"count"`
}

// WordStats describes the occurrences of a word across the corpus.
type WordStats struct {
	Word        string      `json:"word"`
	Normalized  string      `json:"word_normalized"`
	TotalCount  int         `json:"total_count"`
	VersesCount int         `json:"verses_count"`
	BySurah     []Bucket    `json:"by_surah"`
	ByJuz       []Bucket    `json:"by_juz"`
	Matches     []WordMatch `json:"matches"`
	Suggestions []string    `json:"suggestions,omitempty"` // close words when nothing matched
}

// WordFrequency is an indexed word with its totals.
type WordFrequency struct {
	Word        string `json:"word"`
	Count       int    `json:"count"`
	VersesCount int    `json:"verses_count"`
}
