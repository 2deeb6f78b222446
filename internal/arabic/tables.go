package arabic

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

const superscriptAlef = 'ٰ'

// marks lists everything deleted unconditionally: tashkeel and tanwin,
// Quranic annotation signs, small high letters and stop marks, and tatweel.
// The superscript alef is not a mark; it is resolved in dagger.go.
var marks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0617, Hi: 0x061A, Stride: 1},
		{Lo: 0x0640, Hi: 0x0640, Stride: 1},
		{Lo: 0x064B, Hi: 0x065F, Stride: 1},
		{Lo: 0x06D6, Hi: 0x06ED, Stride: 1},
	},
}

// punctuation is ASCII punctuation plus the Arabic comma, semicolon,
// question mark, decimal and thousands separators and ornate parentheses.
var punctuation = rangetable.Merge(
	&unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x0021, Hi: 0x002F, Stride: 1},
			{Lo: 0x003A, Hi: 0x0040, Stride: 1},
			{Lo: 0x005B, Hi: 0x0060, Stride: 1},
			{Lo: 0x007B, Hi: 0x007E, Stride: 1},
		},
		LatinOffset: 4,
	},
	rangetable.New('،', '؛', '؟', '٫', '٬', '﴾', '﴿'),
)

func isMark(r rune) bool {
	return unicode.Is(marks, r)
}

func isPunctuation(r rune) bool {
	return unicode.Is(punctuation, r)
}

// isArabic reports whether r belongs to the basic Arabic block.
func isArabic(r rune) bool {
	return r >= 0x0600 && r <= 0x06FF
}

func isArabicLetter(r rune) bool {
	return isArabic(r) && unicode.IsLetter(r)
}

// fold maps letter variants onto their base form.
func fold(r rune) rune {
	switch r {
	case 'أ', 'إ', 'آ', 'ٱ':
		return 'ا'
	case 'ى', 'ئ':
		return 'ي'
	case 'ة':
		return 'ه'
	}
	return r
}
