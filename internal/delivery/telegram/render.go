package telegram

import (
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/mushaf-bot/internal/highlight"
	"github.com/aliskhannn/mushaf-bot/internal/similarity"
)

const (
	openMark  = "<b><u>"
	closeMark = "</u></b>"

	// maxMessageRunes keeps messages under the Telegram limit of 4096.
	maxMessageRunes = 4000
	maxButtonRunes  = 40
)

// Highlighter marks matches bold and underlined in Telegram HTML.
var Highlighter = highlight.Highlighter{
	Marker: highlight.Marker{Open: openMark, Close: closeMark},
	Escape: escape,
}

// escape escapes plain text for HTML parse mode.
func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func bold(s string) string {
	return "<b>" + escape(s) + "</b>"
}

// renderSegments joins compared words, marking the changed ones.
func renderSegments(segments []similarity.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Changed {
			parts = append(parts, openMark+escape(s.Text)+closeMark)
			continue
		}
		parts = append(parts, escape(s.Text))
	}
	return strings.Join(parts, " ")
}

// longOptions reports whether options are too long to fit on buttons.
func longOptions(options []string) bool {
	for _, o := range options {
		if utf8.RuneCountInString(o) > maxButtonRunes {
			return true
		}
	}
	return false
}

// fits reports whether appending s to sb keeps the message under the limit.
func fits(sb *strings.Builder, s string) bool {
	return utf8.RuneCountInString(sb.String())+utf8.RuneCountInString(s) <= maxMessageRunes
}

// buildProgressBar creates a text progress bar.
func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return "[" + strings.Repeat("░", length) + "]"
	}

	filled := min(length, current*length/total)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", length-filled) + "]"
}
