package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/service"
)

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

func newHTMLEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	return edit
}

// resolveVerse finds a verse by "surah:ayah" reference or global number.
func (h *Handler) resolveVerse(ctx context.Context, arg string) (*entities.Verse, error) {
	arg = strings.TrimSpace(arg)

	if strings.Contains(arg, ":") {
		surah, ayah, err := service.ParseRef(arg)
		if err != nil {
			return nil, err
		}
		return h.services.Verses.ByRef(ctx, surah, ayah)
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return nil, service.ErrInvalidReference
	}
	return h.services.Verses.ByID(ctx, id)
}
