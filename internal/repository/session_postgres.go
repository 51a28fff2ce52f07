package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/code-companion/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgForeignKeyViolation = "23503"

var _ SessionRepository = &SessionPostgres{}

// SessionPostgres implements SessionRepository using PostgreSQL
type SessionPostgres struct {
	db *pgxpool.Pool
}

func NewSessionPostgres(db *pgxpool.Pool) *SessionPostgres {
	return &SessionPostgres{
		db: db,
	}
}

const (
	createSessionQuery = `
INSERT INTO code_sessions (id, filename, source, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
RETURNING id, filename, source, created_at, updated_at`

	getSessionQuery = `
SELECT id, filename, source, created_at, updated_at
FROM code_sessions
WHERE id = $1`

	listResultsQuery = `
SELECT action, result
FROM session_results
WHERE session_id = $1`

	replaceSourceQuery = `
UPDATE code_sessions
SET filename = $2, source = $3, updated_at = now()
WHERE id = $1
RETURNING id, filename, source, created_at, updated_at`

	touchSessionQuery = `
UPDATE code_sessions
SET updated_at = now()
WHERE id = $1
RETURNING id, filename, source, created_at, updated_at`

	deleteResultsQuery = `DELETE FROM session_results WHERE session_id = $1`

	saveResultQuery = `
INSERT INTO session_results (session_id, action, result)
VALUES ($1, $2, $3)
ON CONFLICT (session_id, action) DO NOTHING`

	deleteSessionQuery = `DELETE FROM code_sessions WHERE id = $1`
)

func (r *SessionPostgres) CreateSession(ctx context.Context, session *entity.Session) (*entity.Session, error) {
	sessionID, err := uuid.Parse(session.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	row := r.db.QueryRow(ctx, createSessionQuery, toPgUUID(sessionID), session.Filename, session.Source, session.CreatedAt)
	created, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return created, nil
}

func (r *SessionPostgres) GetSessionByID(ctx context.Context, id string) (*entity.Session, error) {
	sessionID, err := parseSessionID(id)
	if err != nil {
		return nil, err
	}

	session, err := scanSession(r.db.QueryRow(ctx, getSessionQuery, sessionID))
	if err != nil {
		return nil, wrapNotFound(err, id, "get session")
	}

	if err := r.loadResults(ctx, r.db, sessionID, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (r *SessionPostgres) ReplaceSessionSource(ctx context.Context, id, filename, source string) (*entity.Session, error) {
	sessionID, err := parseSessionID(id)
	if err != nil {
		return nil, err
	}

	var session *entity.Session
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		s, err := scanSession(tx.QueryRow(ctx, replaceSourceQuery, sessionID, filename, source))
		if err != nil {
			return wrapNotFound(err, id, "replace session source")
		}

		if _, err := tx.Exec(ctx, deleteResultsQuery, sessionID); err != nil {
			return fmt.Errorf("clear session results: %w", err)
		}

		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (r *SessionPostgres) ClearSessionResults(ctx context.Context, id string) (*entity.Session, error) {
	sessionID, err := parseSessionID(id)
	if err != nil {
		return nil, err
	}

	var session *entity.Session
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		s, err := scanSession(tx.QueryRow(ctx, touchSessionQuery, sessionID))
		if err != nil {
			return wrapNotFound(err, id, "clear session results")
		}

		if _, err := tx.Exec(ctx, deleteResultsQuery, sessionID); err != nil {
			return fmt.Errorf("clear session results: %w", err)
		}

		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (r *SessionPostgres) SaveSessionResult(ctx context.Context, id string, action entity.ActionKind, result string) error {
	sessionID, err := parseSessionID(id)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, saveResultQuery, sessionID, string(action), result); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
		}
		return fmt.Errorf("save session result: %w", err)
	}

	return nil
}

func (r *SessionPostgres) DeleteSession(ctx context.Context, id string) error {
	sessionID, err := parseSessionID(id)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, deleteSessionQuery, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}

	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *SessionPostgres) loadResults(ctx context.Context, q querier, sessionID pgtype.UUID, session *entity.Session) error {
	rows, err := q.Query(ctx, listResultsQuery, sessionID)
	if err != nil {
		return fmt.Errorf("list session results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var action, result string
		if err := rows.Scan(&action, &result); err != nil {
			return fmt.Errorf("scan session result: %w", err)
		}
		session.Results[entity.ActionKind(action)] = result
	}

	return rows.Err()
}

func scanSession(row pgx.Row) (*entity.Session, error) {
	var (
		id        pgtype.UUID
		filename  string
		source    string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &filename, &source, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	session := entity.NewSession(uuid.UUID(id.Bytes).String(), filename, source, createdAt)
	session.UpdatedAt = updatedAt

	return session, nil
}

func parseSessionID(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	return toPgUUID(parsed), nil
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{
		Bytes: id,
		Valid: true,
	}
}

func wrapNotFound(err error, id, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	return fmt.Errorf("%s: %w", op, err)
}
