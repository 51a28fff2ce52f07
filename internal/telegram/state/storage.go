package state

import (
	"context"
	"errors"
	"time"
)

// ErrChatNotFound is returned when a chat has no session mapping
var ErrChatNotFound = errors.New("telegram chat not found")

// ChatSession maps a Telegram chat to its companion session
type ChatSession struct {
	ChatID    int64
	UserID    int64
	SessionID string
	Filename  string
	// LastMessageID is the message carrying the action keyboard
	LastMessageID int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Storage defines the interface for chat session persistence
type Storage interface {
	// Get retrieves the chat session by chat ID
	Get(ctx context.Context, chatID int64) (*ChatSession, error)

	// Set saves the chat session
	Set(ctx context.Context, session *ChatSession) error

	// Delete removes the chat session
	Delete(ctx context.Context, chatID int64) error
}
