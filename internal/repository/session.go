package repository

import (
	"context"

	"github.com/futig/code-companion/internal/entity"
)

// SessionRepository defines the interface for session persistence.
// Implementations return entity.ErrSessionNotFound for unknown ids and never
// share the returned Results map with their internal state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *entity.Session) (*entity.Session, error)
	GetSessionByID(ctx context.Context, id string) (*entity.Session, error)
	// ReplaceSessionSource swaps the file and empties every result slot in one step
	ReplaceSessionSource(ctx context.Context, id, filename, source string) (*entity.Session, error)
	ClearSessionResults(ctx context.Context, id string) (*entity.Session, error)
	// SaveSessionResult fills an empty slot; a filled slot is left unchanged
	SaveSessionResult(ctx context.Context, id string, action entity.ActionKind, result string) error
	DeleteSession(ctx context.Context, id string) error
}
