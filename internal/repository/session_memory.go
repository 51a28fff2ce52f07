package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/code-companion/internal/entity"
	"github.com/patrickmn/go-cache"
)

var _ SessionRepository = &SessionMemory{}

// SessionMemory keeps sessions in process memory.
// A zero ttl keeps sessions until they are deleted.
type SessionMemory struct {
	mu    sync.Mutex
	cache *cache.Cache
	now   func() time.Time
}

func NewSessionMemory(ttl, cleanupInterval time.Duration) *SessionMemory {
	return &SessionMemory{
		cache: cache.New(ttl, cleanupInterval),
		now:   time.Now,
	}
}

func (r *SessionMemory) CreateSession(_ context.Context, session *entity.Session) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.cache.Get(session.ID); exists {
		return nil, fmt.Errorf("create session: %s already exists", session.ID)
	}

	stored := session.Clone()
	r.cache.SetDefault(stored.ID, stored)

	return stored.Clone(), nil
}

func (r *SessionMemory) GetSessionByID(_ context.Context, id string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.get(id)
	if err != nil {
		return nil, err
	}

	return stored.Clone(), nil
}

func (r *SessionMemory) ReplaceSessionSource(_ context.Context, id, filename, source string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.get(id)
	if err != nil {
		return nil, err
	}

	updated := entity.NewSession(id, filename, source, r.now())
	updated.CreatedAt = stored.CreatedAt
	r.cache.SetDefault(id, updated)

	return updated.Clone(), nil
}

func (r *SessionMemory) ClearSessionResults(_ context.Context, id string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.get(id)
	if err != nil {
		return nil, err
	}

	updated := stored.Clone()
	clear(updated.Results)
	updated.UpdatedAt = r.now()
	r.cache.SetDefault(id, updated)

	return updated.Clone(), nil
}

func (r *SessionMemory) SaveSessionResult(_ context.Context, id string, action entity.ActionKind, result string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.get(id)
	if err != nil {
		return err
	}

	if _, ok := stored.Results[action]; ok {
		return nil
	}

	updated := stored.Clone()
	updated.Results[action] = result
	updated.UpdatedAt = r.now()
	// Re-setting refreshes the expiration, so active sessions stay alive
	r.cache.SetDefault(id, updated)

	return nil
}

func (r *SessionMemory) DeleteSession(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.get(id); err != nil {
		return err
	}

	r.cache.Delete(id)
	return nil
}

// ItemCount reports the number of stored sessions, including expired ones not yet cleaned up
func (r *SessionMemory) ItemCount() int {
	return r.cache.ItemCount()
}

func (r *SessionMemory) get(id string) (*entity.Session, error) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	return v.(*entity.Session), nil
}
