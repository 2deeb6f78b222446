package arabic

import "sort"

// Mapped is a normalized string plus its index map back into the source.
//
// For the i-th rune of Text, Offsets[i] is the byte offset in the source of
// the grapheme segment that produced it and Ends[i] is the offset just past
// that segment, so a letter's span covers its trailing combining marks.
// Both slices are non-decreasing.
type Mapped struct {
	Text    string
	Offsets []int
	Ends    []int

	pos []int // byte offset in Text of each rune
}

// Len returns the number of runes in Text.
func (m Mapped) Len() int {
	return len(m.pos)
}

// Span maps the byte range [i, j) of Text back to a byte range of the
// source. ok is false when the range is empty or out of bounds.
func (m Mapped) Span(i, j int) (start, end int, ok bool) {
	if i < 0 || j > len(m.Text) || i >= j {
		return 0, 0, false
	}

	first := sort.SearchInts(m.pos, i)
	last := sort.SearchInts(m.pos, j) - 1
	if first >= len(m.pos) || last < first {
		return 0, 0, false
	}

	return m.Offsets[first], m.Ends[last], true
}
