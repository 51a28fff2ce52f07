package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/futig/code-companion/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPostgresRepo connects to DATABASE_URL and applies migrations; the test
// is skipped when no database is configured.
func newPostgresRepo(t *testing.T) *SessionPostgres {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	require.NoError(t, RunMigrations(dsn))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewSessionPostgres(pool)
}

func seedPostgresSession(t *testing.T, repo *SessionPostgres) *entity.Session {
	t.Helper()

	s, err := repo.CreateSession(context.Background(),
		entity.NewSession(uuid.NewString(), "A.cs", "class A {}", time.Now().UTC()))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = repo.DeleteSession(context.Background(), s.ID)
	})

	return s
}

func TestSessionPostgres(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()

	t.Run("unknown session", func(t *testing.T) {
		_, err := repo.GetSessionByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, entity.ErrSessionNotFound)

		_, err = repo.GetSessionByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, entity.ErrSessionNotFound)

		err = repo.SaveSessionResult(ctx, uuid.NewString(), entity.ActionExplain, "x")
		assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	})

	t.Run("filled slot is immutable", func(t *testing.T) {
		s := seedPostgresSession(t, repo)

		require.NoError(t, repo.SaveSessionResult(ctx, s.ID, entity.ActionExplain, "first"))
		require.NoError(t, repo.SaveSessionResult(ctx, s.ID, entity.ActionExplain, "second"))

		reloaded, err := repo.GetSessionByID(ctx, s.ID)
		require.NoError(t, err)
		text, ok := reloaded.Result(entity.ActionExplain)
		assert.True(t, ok)
		assert.Equal(t, "first", text)
	})

	t.Run("replace source clears all slots", func(t *testing.T) {
		s := seedPostgresSession(t, repo)
		for _, a := range entity.AllActions {
			require.NoError(t, repo.SaveSessionResult(ctx, s.ID, a, "r"))
		}

		replaced, err := repo.ReplaceSessionSource(ctx, s.ID, "B.cs", "class B {}")
		require.NoError(t, err)
		assert.Equal(t, "B.cs", replaced.Filename)
		assert.Empty(t, replaced.Results)

		reloaded, err := repo.GetSessionByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "class B {}", reloaded.Source)
		assert.Empty(t, reloaded.Results)
	})

	t.Run("clear keeps source", func(t *testing.T) {
		s := seedPostgresSession(t, repo)
		require.NoError(t, repo.SaveSessionResult(ctx, s.ID, entity.ActionGenerateTests, "tests"))

		cleared, err := repo.ClearSessionResults(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "class A {}", cleared.Source)

		reloaded, err := repo.GetSessionByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Empty(t, reloaded.Results)
	})

	t.Run("replace on unknown session leaves nothing behind", func(t *testing.T) {
		_, err := repo.ReplaceSessionSource(ctx, uuid.NewString(), "B.cs", "class B {}")
		assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	})

	t.Run("delete cascades results", func(t *testing.T) {
		s := seedPostgresSession(t, repo)
		require.NoError(t, repo.SaveSessionResult(ctx, s.ID, entity.ActionExplain, "x"))

		require.NoError(t, repo.DeleteSession(ctx, s.ID))

		_, err := repo.GetSessionByID(ctx, s.ID)
		assert.ErrorIs(t, err, entity.ErrSessionNotFound)
		assert.ErrorIs(t, repo.DeleteSession(ctx, s.ID), entity.ErrSessionNotFound)
	})
}
