package handlers

import (
	"github.com/futig/code-companion/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// MessageSender provides centralized message sending functionality
type MessageSender struct {
	bot    BotAPI
	logger *zap.Logger
}

// NewMessageSender creates a new MessageSender
func NewMessageSender(bot BotAPI, logger *zap.Logger) *MessageSender {
	return &MessageSender{
		bot:    bot,
		logger: logger,
	}
}

// Send sends a message to the specified chat
func (s *MessageSender) Send(chatID int64, text string, markup interface{}) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	sent, err := s.bot.Send(msg)
	if err != nil {
		s.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return tgbotapi.Message{}, err
	}

	return sent, nil
}

// SendLong sends text split into chunks that fit the Telegram message limit
func (s *MessageSender) SendLong(chatID int64, text string) error {
	for _, chunk := range render.SplitMessage(text, render.MaxMessageLength) {
		if _, err := s.Send(chatID, chunk, nil); err != nil {
			return err
		}
	}
	return nil
}

// SendDocument sends data as a file attachment
func (s *MessageSender) SendDocument(chatID int64, filename string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})
	doc.Caption = caption

	if _, err := s.bot.Send(doc); err != nil {
		s.logger.Error("failed to send document",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("filename", filename),
		)
		return err
	}

	return nil
}
