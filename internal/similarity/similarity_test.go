package similarity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "الرحمن", "الرحمن", 1},
		{"both empty", "", "", 1},
		{"one empty", "abc", "", 0},
		{"one rune differs", "abcd", "abce", 0.75},
		{"disjoint", "ab", "cd", 0},
		{"arabic shared letters", "الرحمن", "الرحيم", 2.0 * 5 / 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, Ratio(tt.b, tt.a), 1e-9)
		})
	}
}

func TestWordRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "بسم الله الرحمن الرحيم", "بسم الله الرحمن الرحيم", 1},
		{"last word differs", "a b c", "a b d", 2.0 * 2 / 6},
		{"extra word", "فباي الاء ربكما تكذبان", "فباي الاء ربكما", 2.0 * 3 / 7},
		{"no shared words", "a b", "c d", 0},
		{"empty", "", "", 1},
		{"repeated words", "a a a", "a", 2.0 * 1 / 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, WordRatio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestWordRatioManyDistinctWords(t *testing.T) {
	t.Parallel()

	words := make([]string, 7000)
	for i := range words {
		words[i] = strings.Repeat("x", i%50+1) + string(rune('a'+i%26)) + strings.Repeat("y", i/50)
	}
	assert.InDelta(t, 1.0, WordRatioTokens(words, words), 1e-9)
}

func TestDistance(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Distance("abc", "abc"))
	assert.Equal(t, 1, Distance("abc", "abd"))
	assert.Equal(t, 3, Distance("", "abc"))
	assert.Equal(t, 1, Distance("الرحمن", "الرحمان"))
}

func TestDiffWords(t *testing.T) {
	t.Parallel()

	left, right := DiffWords("بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ", "بسم الله الرحيم")

	require.Equal(t, []Segment{
		{Text: "بِسْمِ"},
		{Text: "ٱللَّهِ"},
		{Text: "ٱلرَّحْمَٰنِ", Changed: true},
	}, left)
	require.Equal(t, []Segment{
		{Text: "بسم"},
		{Text: "الله"},
		{Text: "الرحيم", Changed: true},
	}, right)
}

func TestDiffWordsInsertion(t *testing.T) {
	t.Parallel()

	left, right := DiffWords("a c", "a b c")

	assert.Equal(t, []Segment{{Text: "a"}, {Text: "c"}}, left)
	assert.Equal(t, []Segment{{Text: "a"}, {Text: "b", Changed: true}, {Text: "c"}}, right)
}

func TestDiffWordsEmpty(t *testing.T) {
	t.Parallel()

	left, right := DiffWords("", "a")
	assert.Empty(t, left)
	assert.Equal(t, []Segment{{Text: "a", Changed: true}}, right)
}
