package state

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Manager manages chat to session mappings
type Manager struct {
	storage Storage
	now     func() time.Time
}

// NewManager creates a new state manager
func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
		now:     time.Now,
	}
}

// GetSession retrieves the chat session from storage
func (m *Manager) GetSession(ctx context.Context, chatID int64) (*ChatSession, error) {
	session, err := m.storage.Get(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get chat session from storage: %w", err)
	}

	return session, nil
}

// SessionID returns the companion session bound to the chat, or "" when there is none
func (m *Manager) SessionID(ctx context.Context, chatID int64) (string, error) {
	session, err := m.storage.Get(ctx, chatID)
	if errors.Is(err, ErrChatNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get chat session from storage: %w", err)
	}

	return session.SessionID, nil
}

// BindSession points the chat at sessionID, creating the mapping when needed
func (m *Manager) BindSession(ctx context.Context, chatID, userID int64, sessionID, filename string) (*ChatSession, error) {
	now := m.now()

	session, err := m.storage.Get(ctx, chatID)
	if err != nil {
		if !errors.Is(err, ErrChatNotFound) {
			return nil, fmt.Errorf("get chat session from storage: %w", err)
		}
		session = &ChatSession{
			ChatID:    chatID,
			CreatedAt: now,
		}
	}

	session.UserID = userID
	session.SessionID = sessionID
	session.Filename = filename
	session.UpdatedAt = now

	if err := m.storage.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("save chat session to storage: %w", err)
	}

	return session, nil
}

// SetLastMessageID remembers the message that carries the action keyboard
func (m *Manager) SetLastMessageID(ctx context.Context, chatID int64, messageID int) error {
	session, err := m.GetSession(ctx, chatID)
	if err != nil {
		return err
	}

	session.LastMessageID = messageID
	session.UpdatedAt = m.now()

	if err := m.storage.Set(ctx, session); err != nil {
		return fmt.Errorf("save chat session to storage: %w", err)
	}

	return nil
}

// DeleteSession removes the chat session from storage
func (m *Manager) DeleteSession(ctx context.Context, chatID int64) error {
	if err := m.storage.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("delete chat session from storage: %w", err)
	}

	return nil
}
