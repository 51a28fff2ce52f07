package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(0, time.Minute))

	id, err := m.SessionID(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, id)

	_, err = m.GetSession(ctx, 42)
	assert.ErrorIs(t, err, ErrChatNotFound)

	first, err := m.BindSession(ctx, 42, 7, "s1", "A.cs")
	require.NoError(t, err)
	assert.Equal(t, "s1", first.SessionID)

	require.NoError(t, m.SetLastMessageID(ctx, 42, 100))

	second, err := m.BindSession(ctx, 42, 7, "s1", "B.cs")
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "B.cs", second.Filename)
	assert.Equal(t, 100, second.LastMessageID)

	id, err = m.SessionID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "s1", id)

	require.NoError(t, m.DeleteSession(ctx, 42))
	id, err = m.SessionID(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(0, time.Minute)

	require.NoError(t, s.Set(ctx, &ChatSession{ChatID: 1, SessionID: "a"}))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	got.SessionID = "changed"

	again, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", again.SessionID)
}
