package entities

import "strconv"

// Verse is a single ayah of the corpus.
type Verse struct {
	ID        int64  `json:"id"`         // global verse number, 1-based
	Surah     int    `json:"surah"`      // surah number, 1..114
	SurahName string `json:"surah_name"` // surah name in Arabic
	Ayah      int    `json:"ayah"`       // ayah number within the surah
	Text      string `json:"text"`       // text as written, with diacritics
	Juz       int    `json:"juz"`        // juz number, 1..30
}

// Ref returns the conventional "surah:ayah" reference.
func (v Verse) Ref() string {
	return strconv.Itoa(v.Surah) + ":" + strconv.Itoa(v.Ayah)
}
