package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// typingInterval is below the 5 second lifetime of a chat action
const typingInterval = 4 * time.Second

// showTyping keeps the "typing" status visible in the chat until the returned
// stop function is called or ctx is done. stop is safe to call more than once.
func showTyping(ctx context.Context, bot BotAPI, chatID int64) (stop func()) {
	send := func() {
		if _, err := bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
			ctxzap.Warn(ctx, "failed to send typing action",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
		}
	}

	send()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				send()
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
