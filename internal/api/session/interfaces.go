package session

import (
	"context"
	"io"

	"github.com/futig/code-companion/internal/entity"
)

type CompanionUsecase interface {
	CreateSession(ctx context.Context, filename string, r io.Reader) (*entity.Session, error)
	UploadSource(ctx context.Context, sessionID, filename string, r io.Reader) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	RunAction(ctx context.Context, sessionID string, action entity.ActionKind) (*entity.ActionResult, error)
	GetResult(ctx context.Context, sessionID string, action entity.ActionKind) (*entity.ActionResult, error)
	ResetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Language() entity.SourceLanguage
}
