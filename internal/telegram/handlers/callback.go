package handlers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/futig/code-companion/internal/entity"
	"github.com/futig/code-companion/internal/pkg/logger"
	"github.com/futig/code-companion/internal/telegram/keyboard"
	"github.com/futig/code-companion/internal/telegram/render"
	"github.com/futig/code-companion/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const msgChooseNext = "Choose another action:"

// CallbackHandler handles inline keyboard buttons
type CallbackHandler struct {
	BaseHandler
	api          BotAPI
	stateManager *state.Manager
	usecase      CompanionUsecase
	keyboard     *keyboard.Builder
	logger       *zap.Logger
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(
	api BotAPI,
	stateManager *state.Manager,
	usecase CompanionUsecase,
	kb *keyboard.Builder,
	language entity.SourceLanguage,
	logger *zap.Logger,
) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: BaseHandler{
			stateName:     HandlerStateCallback,
			messageSender: NewMessageSender(api, logger),
			language:      language,
		},
		api:          api,
		stateManager: stateManager,
		usecase:      usecase,
		keyboard:     kb,
		logger:       logger,
	}
}

// Handle routes callback queries to specific handlers
func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		return fmt.Errorf("parse callback: %w", err)
	}

	ctx = logger.AddFields(ctx,
		zap.String("callback_action", data.Action),
		zap.String("callback_value", data.Value),
		zap.Int64("chat_id", msg.ChatID),
	)

	switch data.Action {
	case keyboard.CallbackAction:
		return h.handleAction(ctx, msg, data.Value)
	case keyboard.CallbackFile:
		if data.Value == keyboard.FileValueNew {
			return closeChatSession(ctx, h.stateManager, h.usecase, msg.ChatID, h.messageSender)
		}
	}

	return fmt.Errorf("%w: unknown callback %q", entity.ErrInvalidParameter, msg.CallbackData)
}

// handleAction runs one action against the chat's session and delivers the result
func (h *CallbackHandler) handleAction(ctx context.Context, msg *Message, value string) error {
	action, err := entity.ParseActionKind(value)
	if err != nil {
		return err
	}

	sessionID, err := h.stateManager.SessionID(ctx, msg.ChatID)
	if err != nil {
		return err
	}
	if sessionID == "" {
		h.sendMessage(msg.ChatID, fmt.Sprintf(render.ErrNoSession, h.language.Extension), nil)
		return nil
	}
	ctx = logger.WithSession(ctx, sessionID)

	stopTyping := showTyping(ctx, h.api, msg.ChatID)
	result, err := h.usecase.RunAction(ctx, sessionID, action)
	stopTyping()

	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	if err := h.deliverResult(ctx, msg.ChatID, sessionID, result); err != nil {
		return err
	}

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	h.sendMessage(msg.ChatID, msgChooseNext, h.keyboard.ActionsKeyboard(session.CachedActions()))
	return nil
}

// deliverResult sends code as a source file attachment and markdown as chunked text
func (h *CallbackHandler) deliverResult(ctx context.Context, chatID int64, sessionID string, result *entity.ActionResult) error {
	header := render.RenderResultHeader(result.Action, result.Cached)

	if result.Action.Format() == entity.OutputMarkdown {
		return h.messageSender.SendLong(chatID, header+"\n\n"+result.Text)
	}

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	body := result.Text
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	name := resultFilename(session.Filename, result.Action, h.language.Extension)
	if err := h.messageSender.SendDocument(chatID, name, []byte(body), header); err != nil {
		return err
	}

	ctxzap.Debug(ctx, "result sent as document", zap.String("result_filename", name))
	return nil
}

// resultFilename names the attachment after the uploaded file
func resultFilename(source string, action entity.ActionKind, extension string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." {
		base = "source"
	}

	switch action {
	case entity.ActionGenerateTests:
		return base + "Tests" + extension
	case entity.ActionAddComments:
		return base + ".commented" + extension
	default:
		return base + "." + string(action) + extension
	}
}
