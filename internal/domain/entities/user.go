package entities

import "time"

// User is a Telegram user of the bot.
type User struct {
	ID           int64 // Telegram user ID
	ChatID       int64 // private chat with the bot
	Username     string
	LanguageCode string
	IsActive     bool
	CreatedAt    time.Time
}

func NewUser(id, chatID int64, username, languageCode string) *User {
	return &User{
		ID:           id,
		ChatID:       chatID,
		Username:     username,
		LanguageCode: languageCode,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
}
