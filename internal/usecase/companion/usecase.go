package companion

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/futig/code-companion/internal/entity"
	"github.com/futig/code-companion/internal/pkg/logger"
	"github.com/futig/code-companion/internal/pkg/source"
	"github.com/futig/code-companion/internal/prompt"
	"github.com/futig/code-companion/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CompanionUsecase owns the session cache: one uploaded file per session and
// at most one completion call per session and action.
type CompanionUsecase struct {
	sessionRepo repository.SessionRepository
	llm         CompletionClient
	language    entity.SourceLanguage
	maxFileSize int64
	locks       *keyedMutex
	logger      *zap.Logger
	now         func() time.Time
}

// NewUsecase creates a new companion use case
func NewUsecase(
	sessionRepo repository.SessionRepository,
	llm CompletionClient,
	language entity.SourceLanguage,
	maxFileSize int64,
	logger *zap.Logger,
) *CompanionUsecase {
	return &CompanionUsecase{
		sessionRepo: sessionRepo,
		llm:         llm,
		language:    language,
		maxFileSize: maxFileSize,
		locks:       newKeyedMutex(),
		logger:      logger,
		now:         time.Now,
	}
}

// Language returns the configured source language
func (uc *CompanionUsecase) Language() entity.SourceLanguage {
	return uc.language
}

// CreateSession reads the uploaded file and starts a session with empty slots
func (uc *CompanionUsecase) CreateSession(ctx context.Context, filename string, r io.Reader) (*entity.Session, error) {
	text, err := source.Read(r, uc.maxFileSize)
	if err != nil {
		return nil, err
	}

	session := entity.NewSession(uuid.New().String(), filename, text, uc.now())

	created, err := uc.sessionRepo.CreateSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	ctxzap.Info(ctx, "session created",
		zap.String("session_id", created.ID),
		zap.String("filename", filename),
		zap.Int("source_length", len(text)),
	)

	return created, nil
}

// UploadSource replaces the session file and clears every cached result
func (uc *CompanionUsecase) UploadSource(ctx context.Context, sessionID, filename string, r io.Reader) (*entity.Session, error) {
	text, err := source.Read(r, uc.maxFileSize)
	if err != nil {
		return nil, err
	}

	unlock := uc.locks.Lock(sessionID)
	defer unlock()

	session, err := uc.sessionRepo.ReplaceSessionSource(ctx, sessionID, filename, text)
	if err != nil {
		return nil, fmt.Errorf("replace session source: %w", err)
	}

	ctxzap.Info(logger.WithSession(ctx, sessionID), "session source replaced, results cleared",
		zap.String("filename", filename),
		zap.Int("source_length", len(text)),
	)

	return session, nil
}

// GetSession returns the session with its cached results
func (uc *CompanionUsecase) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := uc.sessionRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// RunAction returns the cached result for the action or computes, caches and returns it.
// A failed completion leaves the slot empty.
func (uc *CompanionUsecase) RunAction(ctx context.Context, sessionID string, action entity.ActionKind) (*entity.ActionResult, error) {
	if !action.IsValid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidAction, action)
	}

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action_kind", string(action)),
	)

	unlock := uc.locks.Lock(sessionID)
	defer unlock()

	session, err := uc.sessionRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if text, ok := session.Result(action); ok {
		ctxzap.Debug(ctx, "returning cached result")
		return &entity.ActionResult{
			SessionID: sessionID,
			Action:    action,
			Text:      text,
			Cached:    true,
		}, nil
	}

	p, err := prompt.Build(action, uc.language, session.Source)
	if err != nil {
		return nil, err
	}

	raw, err := uc.llm.Complete(ctx, p)
	if err != nil {
		ctxzap.Error(ctx, "completion failed", zap.Error(err))
		return nil, err
	}

	text := prompt.PostProcess(action, uc.language, raw)

	if err := uc.sessionRepo.SaveSessionResult(ctx, sessionID, action, text); err != nil {
		return nil, fmt.Errorf("save session result: %w", err)
	}

	ctxzap.Info(ctx, "action result cached", zap.Int("result_length", len(text)))

	return &entity.ActionResult{
		SessionID: sessionID,
		Action:    action,
		Text:      text,
		Cached:    false,
	}, nil
}

// GetResult returns a cached result without ever calling the completion service
func (uc *CompanionUsecase) GetResult(ctx context.Context, sessionID string, action entity.ActionKind) (*entity.ActionResult, error) {
	if !action.IsValid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidAction, action)
	}

	session, err := uc.sessionRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	text, ok := session.Result(action)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrResultNotReady, action)
	}

	return &entity.ActionResult{
		SessionID: sessionID,
		Action:    action,
		Text:      text,
		Cached:    true,
	}, nil
}

// ResetSession empties all result slots and keeps the uploaded file
func (uc *CompanionUsecase) ResetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	unlock := uc.locks.Lock(sessionID)
	defer unlock()

	session, err := uc.sessionRepo.ClearSessionResults(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("clear session results: %w", err)
	}

	ctxzap.Info(logger.WithSession(ctx, sessionID), "session results cleared")

	return session, nil
}

// DeleteSession removes the session and its results
func (uc *CompanionUsecase) DeleteSession(ctx context.Context, sessionID string) error {
	unlock := uc.locks.Lock(sessionID)
	defer unlock()

	if err := uc.sessionRepo.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	ctxzap.Info(logger.WithSession(ctx, sessionID), "session deleted")

	return nil
}
