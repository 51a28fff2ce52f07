package state

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

var _ Storage = &MemoryStorage{}

// MemoryStorage keeps chat sessions in process memory.
// A zero ttl keeps entries until they are deleted.
type MemoryStorage struct {
	cache *cache.Cache
}

func NewMemoryStorage(ttl, cleanupInterval time.Duration) *MemoryStorage {
	return &MemoryStorage{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (s *MemoryStorage) Get(_ context.Context, chatID int64) (*ChatSession, error) {
	v, ok := s.cache.Get(chatKey(chatID))
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrChatNotFound, chatID)
	}
	session := *v.(*ChatSession)
	return &session, nil
}

func (s *MemoryStorage) Set(_ context.Context, session *ChatSession) error {
	stored := *session
	s.cache.SetDefault(chatKey(session.ChatID), &stored)
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, chatID int64) error {
	s.cache.Delete(chatKey(chatID))
	return nil
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
