package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/futig/code-companion/internal/entity"
	"github.com/futig/code-companion/internal/pkg/validator"
	"github.com/futig/code-companion/internal/telegram/keyboard"
	"github.com/futig/code-companion/internal/telegram/render"
	"github.com/futig/code-companion/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DocumentHandler loads an uploaded source file into the chat's session.
// The first file creates a session; later files replace it and clear every result.
type DocumentHandler struct {
	BaseHandler
	api          BotAPI
	stateManager *state.Manager
	usecase      CompanionUsecase
	validator    *validator.Validator
	downloader   FileDownloader
	maxFileSize  int64
	keyboard     *keyboard.Builder
}

func NewDocumentHandler(
	api BotAPI,
	stateManager *state.Manager,
	usecase CompanionUsecase,
	v *validator.Validator,
	downloader FileDownloader,
	maxFileSize int64,
	kb *keyboard.Builder,
	language entity.SourceLanguage,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: BaseHandler{
			stateName:     HandlerStateDocument,
			messageSender: NewMessageSender(api, logger),
			language:      language,
		},
		api:          api,
		stateManager: stateManager,
		usecase:      usecase,
		validator:    v,
		downloader:   downloader,
		maxFileSize:  maxFileSize,
		keyboard:     kb,
	}
}

func (h *DocumentHandler) Handle(ctx context.Context, msg *Message) error {
	if msg.Document == nil {
		return fmt.Errorf("%w: document", entity.ErrMissingField)
	}

	filename := validator.SanitizeFilename(msg.Document.FileName)
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.String("filename", filename)))

	if err := h.validator.ValidateSourceFile(filename, int64(msg.Document.FileSize)); err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	fileURL, err := h.api.GetFileDirectURL(msg.Document.FileID)
	if err != nil {
		return fmt.Errorf("get file url: %w", err)
	}

	data, err := h.downloader.Download(ctx, fileURL, h.maxFileSize)
	if err != nil {
		return fmt.Errorf("download document: %w", err)
	}

	session, replaced, err := h.loadSource(ctx, msg.ChatID, filename, data)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	if _, err := h.stateManager.BindSession(ctx, msg.ChatID, msg.UserID, session.ID, filename); err != nil {
		return err
	}

	ctxzap.Info(ctx, "source file loaded",
		zap.String("session_id", session.ID),
		zap.Bool("replaced", replaced),
	)

	// Send failures are logged by the sender
	sent, err := h.messageSender.Send(msg.ChatID, render.RenderSessionReady(session, replaced), h.keyboard.ActionsKeyboard(nil))
	if err == nil {
		return h.stateManager.SetLastMessageID(ctx, msg.ChatID, sent.MessageID)
	}

	return nil
}

// loadSource replaces the chat's current file, or starts a new session when there is none
func (h *DocumentHandler) loadSource(ctx context.Context, chatID int64, filename string, data []byte) (*entity.Session, bool, error) {
	sessionID, err := h.stateManager.SessionID(ctx, chatID)
	if err != nil {
		return nil, false, err
	}

	if sessionID != "" {
		session, err := h.usecase.UploadSource(ctx, sessionID, filename, bytes.NewReader(data))
		if err == nil {
			return session, true, nil
		}
		if !errors.Is(err, entity.ErrSessionNotFound) {
			return nil, false, err
		}
		// The store forgot the session (expired or restarted), start over
	}

	session, err := h.usecase.CreateSession(ctx, filename, bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}

	return session, false, nil
}
