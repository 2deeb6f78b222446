package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
)

// buildPageKeyboard builds pagination keyboard for a paged list.
func buildPageKeyboard(page, totalPages int, prevData, nextData string) *tgbotapi.InlineKeyboardMarkup {
	if totalPages <= 1 {
		return nil
	}

	var row []tgbotapi.InlineKeyboardButton
	if page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️ السابق", prevData))
	}

	if page < totalPages-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("التالي ▶️", nextData))
	}

	kb := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{row},
	}

	return &kb
}

// buildVerseKeyboard builds keyboard shown under a single verse.
func buildVerseKeyboard(verseID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 الآيات المتشابهة", buildSimilarCallback(verseID, 0)),
		),
	)
}

// buildSimilarKeyboard adds a compare button per similar verse below the
// page navigation.
func buildSimilarKeyboard(verseID int64, similar []entities.SimilarVerse, page, totalPages int) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range similar {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚖️ مقارنة مع "+s.Ref(), buildCompareCallback(verseID, s.ID)),
		))
	}

	if nav := buildPageKeyboard(page, totalPages,
		buildSimilarCallback(verseID, page-1),
		buildSimilarCallback(verseID, page+1),
	); nav != nil {
		rows = append(rows, nav.InlineKeyboard...)
	}

	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildQuizTypeKeyboard builds the quiz menu.
func buildQuizTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, qt := range entities.QuestionTypes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(questionTypeLabel(qt), buildQuizStartCallback(qt, false)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🎓 التمييز (مستوى متقدم)", buildQuizStartCallback(entities.QuestionDistinguish, true)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuizAnswerKeyboard builds keyboard for quiz question.
func buildQuizAnswerKeyboard(q *entities.Question, sessionID int64) tgbotapi.InlineKeyboardMarkup {
	numbered := longOptions(q.Options)

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range q.Options {
		label := option
		if numbered {
			label = strconv.Itoa(i + 1)
		}
		button := tgbotapi.NewInlineKeyboardButtonData(label, buildQuizAnswerCallback(sessionID, i))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuizResultKeyboard builds keyboard shown after an answer.
func buildQuizResultKeyboard(sessionID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➡️ السؤال التالي", buildQuizNextCallback(sessionID)),
			tgbotapi.NewInlineKeyboardButtonData("🏁 إنهاء", buildQuizStopCallback(sessionID)),
		),
	)
}

// buildResetKeyboard asks to confirm deleting the user's data.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ نعم، احذف", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("❌ إلغاء", buildResetCancelCallback()),
		),
	)
}
