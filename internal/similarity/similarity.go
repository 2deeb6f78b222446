// Package similarity scores how alike two verses are and marks the words
// that differ between them.
//
// Scores follow the 2*M/T convention: M is the number of elements shared by
// an optimal diff and T the total number of elements in both inputs, so 1
// means identical and 0 means nothing in common.
package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/aliskhannn/mushaf-bot/internal/arabic"
)

// Segment is one word of a compared verse.
type Segment struct {
	Text    string `json:"text"`
	Changed bool   `json:"changed"`
}

func newDiffer() *diffmatchpatch.DiffMatchPatch {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // exact diff, results must not depend on load
	return dmp
}

// Ratio compares a and b rune by rune. Inputs are expected to be normalized.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}

	diffs := newDiffer().DiffMain(a, b, false)
	return 2 * float64(equalRunes(diffs)) / float64(total)
}

// WordRatio compares a and b word by word. Inputs are expected to be
// normalized.
func WordRatio(a, b string) float64 {
	return WordRatioTokens(strings.Fields(a), strings.Fields(b))
}

// WordRatioTokens is WordRatio over pre-split words.
func WordRatioTokens(a, b []string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}

	ra, rb := encodeWords(a, b)
	diffs := newDiffer().DiffMainRunes(ra, rb, false)
	return 2 * float64(equalRunes(diffs)) / float64(total)
}

// Distance is the rune-level edit distance between a and b.
func Distance(a, b string) int {
	dmp := newDiffer()
	return dmp.DiffLevenshtein(dmp.DiffMain(a, b, false))
}

// DiffWords aligns the words of two raw verses. Words are compared in
// normalized form but returned as written.
func DiffWords(a, b string) (left, right []Segment) {
	wa, wb := strings.Fields(a), strings.Fields(b)

	ra, rb := encodeWords(normalizeAll(wa), normalizeAll(wb))
	diffs := newDiffer().DiffMainRunes(ra, rb, false)

	left = make([]Segment, 0, len(wa))
	right = make([]Segment, 0, len(wb))

	var i, j int
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			left = appendWords(left, wa[i:i+n], false)
			right = appendWords(right, wb[j:j+n], false)
			i += n
			j += n
		case diffmatchpatch.DiffDelete:
			left = appendWords(left, wa[i:i+n], true)
			i += n
		case diffmatchpatch.DiffInsert:
			right = appendWords(right, wb[j:j+n], true)
			j += n
		}
	}

	return left, right
}

func appendWords(dst []Segment, words []string, changed bool) []Segment {
	for _, w := range words {
		dst = append(dst, Segment{Text: w, Changed: changed})
	}
	return dst
}

func normalizeAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = arabic.Search.Normalize(w)
	}
	return out
}

func equalRunes(diffs []diffmatchpatch.Diff) int {
	var n int
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			n += utf8.RuneCountInString(d.Text)
		}
	}
	return n
}

// encodeWords maps every distinct word to a private-use rune so the diff
// runs over words instead of characters.
func encodeWords(a, b []string) ([]rune, []rune) {
	ids := make(map[string]rune, len(a)+len(b))

	encode := func(words []string) []rune {
		out := make([]rune, len(words))
		for i, w := range words {
			r, ok := ids[w]
			if !ok {
				r = wordRune(len(ids))
				ids[w] = r
			}
			out[i] = r
		}
		return out
	}

	return encode(a), encode(b)
}

const (
	bmpPrivateUse    = 0xE000
	bmpPrivateUseLen = 0xF8FF - 0xE000 + 1
	planePrivateUse  = 0xF0000
)

func wordRune(id int) rune {
	if id < bmpPrivateUseLen {
		return rune(bmpPrivateUse + id)
	}
	return rune(planePrivateUse + id - bmpPrivateUseLen)
}
