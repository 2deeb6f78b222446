// Package highlight finds a query inside Arabic text the way a reader would
// (ignoring diacritics and letter variants) and reports where the match sits
// in the original, unnormalized string.
package highlight

import (
	"html"
	"slices"
	"strings"

	"github.com/aliskhannn/mushaf-bot/internal/arabic"
)

// Span is a byte range [Start, End) of the original text. Both ends fall on
// rune boundaries and End includes the marks trailing the last letter.
type Span struct {
	Start int
	End   int
}

// Locate returns the first occurrence of query in text.
func Locate(text, query string) (Span, bool) {
	q := arabic.Search.Normalize(query)
	if q == "" {
		return Span{}, false
	}
	return LocateMapped(arabic.Search.NormalizeMapped(text), q)
}

// LocateMapped is Locate over a text whose index map was built earlier.
// query must already be normalized with arabic.Search.
func LocateMapped(m arabic.Mapped, query string) (Span, bool) {
	if query == "" {
		return Span{}, false
	}

	idx := strings.Index(m.Text, query)
	if idx < 0 {
		return Span{}, false
	}

	start, end, ok := m.Span(idx, idx+len(query))
	if !ok {
		return Span{}, false
	}
	return Span{Start: start, End: end}, true
}

// LocateAll returns every non-overlapping occurrence of query in text,
// left to right.
func LocateAll(text, query string) []Span {
	q := arabic.Search.Normalize(query)
	if q == "" {
		return nil
	}
	return LocateAllMapped(arabic.Search.NormalizeMapped(text), q)
}

// LocateAllMapped is LocateAll over a prebuilt index map.
func LocateAllMapped(m arabic.Mapped, query string) []Span {
	if query == "" {
		return nil
	}

	var (
		spans []Span
		from  int
	)
	for from < len(m.Text) {
		idx := strings.Index(m.Text[from:], query)
		if idx < 0 {
			break
		}
		idx += from
		from = idx + len(query)

		start, end, ok := m.Span(idx, idx+len(query))
		if !ok {
			continue
		}
		if n := len(spans); n > 0 && start < spans[n-1].End {
			continue
		}
		spans = append(spans, Span{Start: start, End: end})
	}

	return spans
}

// LocateAnyMapped returns the occurrences of any of words, sorted and
// disjoint. Words must already be normalized with arabic.Search.
func LocateAnyMapped(m arabic.Mapped, words []string) []Span {
	var all []Span
	for _, w := range words {
		all = append(all, LocateAllMapped(m, w)...)
	}
	if len(all) == 0 {
		return nil
	}

	slices.SortFunc(all, func(a, b Span) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return b.End - a.End
	})

	out := all[:1]
	for _, s := range all[1:] {
		last := &out[len(out)-1]
		if s.Start < last.End {
			last.End = max(last.End, s.End)
			continue
		}
		out = append(out, s)
	}
	return out
}

// Split cuts text around the first match of query.
// before+matched+after always equals text; ok is false when nothing matched,
// in which case before holds the whole text.
func Split(text, query string) (before, matched, after string, ok bool) {
	span, ok := Locate(text, query)
	if !ok {
		return text, "", "", false
	}
	return text[:span.Start], text[span.Start:span.End], text[span.End:], true
}

// Marker wraps a matched fragment.
type Marker struct {
	Open  string
	Close string
}

// Highlighter renders text with matched fragments wrapped in Marker.
// Every fragment of the text, matched or not, goes through Escape.
type Highlighter struct {
	Marker Marker
	Escape func(string) string
}

// HTML marks matches with <mark> and escapes the rest for HTML.
var HTML = Highlighter{
	Marker: Marker{Open: "<mark>", Close: "</mark>"},
	Escape: html.EscapeString,
}

// Render marks the first match of query.
func (h Highlighter) Render(text, query string) string {
	span, ok := Locate(text, query)
	if !ok {
		return h.escape(text)
	}
	return h.render(text, []Span{span})
}

// RenderAll marks every match of query.
func (h Highlighter) RenderAll(text, query string) string {
	return h.render(text, LocateAll(text, query))
}

// RenderSpans marks the given spans, which must be sorted and disjoint.
func (h Highlighter) RenderSpans(text string, spans []Span) string {
	return h.render(text, spans)
}

func (h Highlighter) render(text string, spans []Span) string {
	if len(spans) == 0 {
		return h.escape(text)
	}

	var sb strings.Builder
	sb.Grow(len(text) + len(spans)*(len(h.Marker.Open)+len(h.Marker.Close)))

	prev := 0
	for _, s := range spans {
		sb.WriteString(h.escape(text[prev:s.Start]))
		sb.WriteString(h.Marker.Open)
		sb.WriteString(h.escape(text[s.Start:s.End]))
		sb.WriteString(h.Marker.Close)
		prev = s.End
	}
	sb.WriteString(h.escape(text[prev:]))

	return sb.String()
}

func (h Highlighter) escape(s string) string {
	if h.Escape == nil {
		return s
	}
	return h.Escape(s)
}
