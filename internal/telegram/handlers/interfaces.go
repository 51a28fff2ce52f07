package handlers

import (
	"context"
	"io"

	"github.com/futig/code-companion/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CompanionUsecase is the session controller used by the bot
type CompanionUsecase interface {
	CreateSession(ctx context.Context, filename string, r io.Reader) (*entity.Session, error)
	UploadSource(ctx context.Context, sessionID, filename string, r io.Reader) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	RunAction(ctx context.Context, sessionID string, action entity.ActionKind) (*entity.ActionResult, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// BotAPI is the subset of the Telegram client the handlers use
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// FileDownloader fetches uploaded documents
type FileDownloader interface {
	Download(ctx context.Context, url string, limit int64) ([]byte, error)
}
