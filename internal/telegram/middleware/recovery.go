package middleware

import (
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const recoveryMessage = "❌ Something went wrong. Try again or send /start"

// RecoveryMiddleware recovers from panics
type RecoveryMiddleware struct {
	logger *zap.Logger
	sender Sender
}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware(logger *zap.Logger, sender Sender) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		logger: logger,
		sender: sender,
	}
}

// Handle recovers from panics in next and tells the user something failed
func (m *RecoveryMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("panic recovered in telegram handler",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
				zap.Int("update_id", update.UpdateID),
			)

			_, chatID, ok := updateIDs(update)
			if !ok {
				return
			}

			if _, err := m.sender.Send(tgbotapi.NewMessage(chatID, recoveryMessage)); err != nil {
				m.logger.Error("failed to send error message",
					zap.Error(err),
					zap.Int64("chat_id", chatID),
				)
			}
		}
	}()

	next(update)
}
