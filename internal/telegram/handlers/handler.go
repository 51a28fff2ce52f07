package handlers

import (
	"context"

	"github.com/futig/code-companion/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Handler kinds the bot routes updates to
const (
	HandlerStateCommand  = "COMMAND"
	HandlerStateDocument = "DOCUMENT"
	HandlerStateCallback = "CALLBACK"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Command      string
	Document     *tgbotapi.Document
	CallbackData string
	CallbackID   string
}

// Handler defines the interface for update handlers
type Handler interface {
	// Handle processes a message routed to this handler
	Handle(ctx context.Context, msg *Message) error

	// GetState returns the kind of update this handler manages
	GetState() string
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	stateName     string
	messageSender *MessageSender
	language      entity.SourceLanguage
}

// GetState implements Handler
func (h *BaseHandler) GetState() string {
	return h.stateName
}

// sendMessage is a convenience wrapper for messageSender.Send
func (h *BaseHandler) sendMessage(chatID int64, text string, markup interface{}) {
	if h.messageSender != nil {
		h.messageSender.Send(chatID, text, markup)
	}
}

var validStates = map[string]bool{
	HandlerStateCommand:  true,
	HandlerStateDocument: true,
	HandlerStateCallback: true,
}

// IsValidState checks if a state is valid for handler registration
func IsValidState(state string) bool {
	_, ok := validStates[state]
	return ok
}
