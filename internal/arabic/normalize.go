// Package arabic folds Arabic text into a canonical search form.
//
// Normalization deletes tashkeel, Quranic annotation marks and tatweel,
// unifies alef, yeh and taa marbuta variants, optionally strips punctuation
// and lower-cases, and collapses whitespace. The Uthmani superscript alef is
// spelled out as a plain alef, except in words whose standard spelling omits
// it (see dagger.go). Every rule replaces one rune by
// at most one rune, so the output is never longer than the input and each
// output rune can be traced back to the bytes it came from (see Mapped).
// Invalid UTF-8 is dropped.
//
// Input is walked one grapheme segment at a time (a base letter followed by
// its combining marks, as delimited by Unicode normalization boundaries).
// Segments that start with an Arabic letter are NFC-composed first, so the
// decomposed spelling of a hamza or madda letter behaves like the
// precomposed one.
//
// A Normalizer is immutable after construction and safe for concurrent use.
package arabic

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrExpandingFixup = errors.New("fixup replacement is longer than its pattern")
	ErrEmptyFixup     = errors.New("fixup pattern is empty after normalization")
)

// Fixup is a literal word-level correction.
type Fixup struct {
	From string
	To   string
}

// Config selects the optional rules of a Normalizer.
type Config struct {
	StripPunctuation bool
	Lowercase        bool
	Fixups           []Fixup
}

// DefaultFixups corrects spellings that appear in quiz answers.
var DefaultFixups = []Fixup{
	{From: "معاجزين", To: "معجزين"},
	{From: "أولائك", To: "اولئك"},
}

var (
	// Search is used for verse lookup and highlighting.
	Search = MustNew(Config{StripPunctuation: true, Lowercase: true})

	// Answer is used to compare quiz answers.
	Answer = MustNew(Config{StripPunctuation: true, Lowercase: true, Fixups: DefaultFixups})
)

type Normalizer struct {
	cfg    Config
	fixups []compiledFixup
}

type compiledFixup struct {
	from []rune
	to   []rune
}

// New builds a Normalizer. Fixup patterns and replacements are normalized
// with the same character rules so they match the normalized stream.
func New(cfg Config) (*Normalizer, error) {
	base := &Normalizer{cfg: Config{
		StripPunctuation: cfg.StripPunctuation,
		Lowercase:        cfg.Lowercase,
	}}

	n := &Normalizer{cfg: cfg}
	for _, f := range cfg.Fixups {
		from := base.Normalize(f.From)
		to := base.Normalize(f.To)

		if from == "" {
			return nil, fmt.Errorf("compile fixup %q: %w", f.From, ErrEmptyFixup)
		}
		if len(to) > len(from) || utf8.RuneCountInString(to) > utf8.RuneCountInString(from) {
			return nil, fmt.Errorf("compile fixup %q -> %q: %w", f.From, f.To, ErrExpandingFixup)
		}

		n.fixups = append(n.fixups, compiledFixup{from: []rune(from), to: []rune(to)})
	}

	return n, nil
}

// MustNew is like New but panics on an invalid fixup table.
func MustNew(cfg Config) *Normalizer {
	n, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize returns the canonical form of s.
func (n *Normalizer) Normalize(s string) string {
	return n.NormalizeMapped(s).Text
}

// NormalizeMapped returns the canonical form of s together with the
// position in s of every output rune.
func (n *Normalizer) NormalizeMapped(s string) Mapped {
	units := resolveDaggers(n.walk(s))
	if len(n.fixups) > 0 {
		units = n.applyFixups(units)
	}
	return build(units)
}

// unit is one output rune and the source bytes it consumed.
type unit struct {
	r      rune
	start  int
	end    int
	dagger bool // long alef written as a superscript alef
}

func (u unit) space() bool {
	return u.r == ' '
}

func (n *Normalizer) walk(s string) []unit {
	out := make([]unit, 0, len(s)/2+1)

	for i := 0; i < len(s); {
		size := norm.NFC.NextBoundaryInString(s[i:], true)
		if size <= 0 {
			size = len(s) - i
		}
		out = n.segment(out, s[i:i+size], i, i+size)
		i += size
	}

	return out
}

// segment emits the units of a single grapheme segment. All of them map to
// the whole segment, so trailing marks stay attached to their letter.
func (n *Normalizer) segment(out []unit, seg string, start, end int) []unit {
	src := seg
	if first, _ := utf8.DecodeRuneInString(seg); isArabic(first) {
		if composed := norm.NFC.String(seg); len(composed) <= len(seg) {
			src = composed
		}
	}

	base := -1
	for j := 0; j < len(src); {
		r, size := utf8.DecodeRuneInString(src[j:])
		j += size

		// Invalid bytes are dropped so the output is always valid UTF-8.
		if r == utf8.RuneError && size <= 1 {
			continue
		}

		switch {
		case r == superscriptAlef:
			// Resolved per word once the whole word is known.
			if base >= 0 && base == len(out)-1 && isArabicLetter(out[base].r) {
				out = append(out, unit{r: 'ا', start: start, end: end, dagger: true})
			}
			continue
		case isMark(r):
			continue
		case n.cfg.StripPunctuation && isPunctuation(r):
			continue
		case unicode.IsSpace(r):
			if len(out) > 0 && out[len(out)-1].space() {
				continue
			}
			out = append(out, unit{r: ' ', start: start, end: end})
			continue
		}

		out = append(out, unit{r: n.foldCase(fold(r)), start: start, end: end})
		base = len(out) - 1
	}

	return out
}

func (n *Normalizer) foldCase(r rune) rune {
	if !n.cfg.Lowercase {
		return r
	}
	// Lower-casing must not grow the encoding.
	if l := unicode.ToLower(r); utf8.RuneLen(l) <= utf8.RuneLen(r) {
		return l
	}
	return r
}

func (n *Normalizer) applyFixups(units []unit) []unit {
	for _, f := range n.fixups {
		units = f.apply(units)
	}
	return units
}

func (f compiledFixup) apply(in []unit) []unit {
	out := make([]unit, 0, len(in))

	for i := 0; i < len(in); {
		if !f.matchAt(in, i) {
			out = append(out, in[i])
			i++
			continue
		}

		last := in[i+len(f.from)-1].end
		for k, r := range f.to {
			out = append(out, unit{r: r, start: in[i+k].start, end: in[i+k].end})
		}
		if len(f.to) > 0 {
			out[len(out)-1].end = last
		}
		i += len(f.from)
	}

	return out
}

func (f compiledFixup) matchAt(in []unit, i int) bool {
	if len(in)-i < len(f.from) {
		return false
	}
	for k, r := range f.from {
		if in[i+k].r != r {
			return false
		}
	}
	return true
}

// build trims and collapses whitespace and materializes the index map.
func build(units []unit) Mapped {
	var (
		sb strings.Builder
		m  Mapped
	)
	sb.Grow(len(units) * 2)
	m.Offsets = make([]int, 0, len(units))
	m.Ends = make([]int, 0, len(units))
	m.pos = make([]int, 0, len(units))

	for i, u := range units {
		if u.space() {
			if sb.Len() == 0 || i == len(units)-1 || units[i+1].space() {
				continue
			}
		}

		m.pos = append(m.pos, sb.Len())
		m.Offsets = append(m.Offsets, u.start)
		m.Ends = append(m.Ends, u.end)
		sb.WriteRune(u.r)
	}

	m.Text = sb.String()
	return m
}
