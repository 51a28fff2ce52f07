package middleware

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Sender is the part of the bot API the middleware needs to notify users
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// updateIDs extracts user and chat of an update; ok is false for update kinds the bot ignores
func updateIDs(update tgbotapi.Update) (userID, chatID int64, ok bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.From.ID, update.CallbackQuery.Message.Chat.ID, true
	default:
		return 0, 0, false
	}
}
