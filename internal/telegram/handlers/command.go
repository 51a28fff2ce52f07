package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/code-companion/internal/entity"
	"github.com/futig/code-companion/internal/telegram/keyboard"
	"github.com/futig/code-companion/internal/telegram/render"
	"github.com/futig/code-companion/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CommandHandler answers /start, /help and /new
type CommandHandler struct {
	BaseHandler
	stateManager *state.Manager
	usecase      CompanionUsecase
	keyboard     *keyboard.Builder
	warnings     []string
}

func NewCommandHandler(
	api BotAPI,
	stateManager *state.Manager,
	usecase CompanionUsecase,
	kb *keyboard.Builder,
	language entity.SourceLanguage,
	warnings []string,
	logger *zap.Logger,
) *CommandHandler {
	return &CommandHandler{
		BaseHandler: BaseHandler{
			stateName:     HandlerStateCommand,
			messageSender: NewMessageSender(api, logger),
			language:      language,
		},
		stateManager: stateManager,
		usecase:      usecase,
		keyboard:     kb,
		warnings:     warnings,
	}
}

func (h *CommandHandler) Handle(ctx context.Context, msg *Message) error {
	switch msg.Command {
	case "start":
		return h.handleStart(ctx, msg)
	case "help":
		h.sendMessage(msg.ChatID, render.RenderHelp(h.language), nil)
		return nil
	case "new":
		return closeChatSession(ctx, h.stateManager, h.usecase, msg.ChatID, h.messageSender)
	default:
		h.sendMessage(msg.ChatID, render.ErrUnknownCommand, nil)
		return nil
	}
}

// handleStart greets the user, reports configuration problems and re-offers actions for a loaded file
func (h *CommandHandler) handleStart(ctx context.Context, msg *Message) error {
	h.sendMessage(msg.ChatID, render.RenderWelcome(h.language), nil)

	if warning := render.RenderWarnings(h.warnings); warning != "" {
		h.sendMessage(msg.ChatID, warning, nil)
	}

	sessionID, err := h.stateManager.SessionID(ctx, msg.ChatID)
	if err != nil {
		return err
	}
	if sessionID == "" {
		h.sendMessage(msg.ChatID, fmt.Sprintf(render.MsgSendFile, h.language.Extension), nil)
		return nil
	}

	session, err := h.usecase.GetSession(ctx, sessionID)
	if errors.Is(err, entity.ErrSessionNotFound) {
		h.sendMessage(msg.ChatID, fmt.Sprintf(render.MsgSendFile, h.language.Extension), nil)
		return h.stateManager.DeleteSession(ctx, msg.ChatID)
	}
	if err != nil {
		return err
	}

	h.sendMessage(msg.ChatID, render.RenderSessionReady(session, false), h.keyboard.ActionsKeyboard(session.CachedActions()))
	return nil
}

// closeChatSession forgets the chat's file. A session already gone from the store is not an error.
func closeChatSession(ctx context.Context, stateManager *state.Manager, usecase CompanionUsecase, chatID int64, sender *MessageSender) error {
	sessionID, err := stateManager.SessionID(ctx, chatID)
	if err != nil {
		return err
	}

	if sessionID != "" {
		if err := usecase.DeleteSession(ctx, sessionID); err != nil && !errors.Is(err, entity.ErrSessionNotFound) {
			return err
		}
		if err := stateManager.DeleteSession(ctx, chatID); err != nil {
			return err
		}
		ctxzap.Info(ctx, "chat session closed", zap.String("session_id", sessionID))
	}

	sender.Send(chatID, render.MsgSessionClosed, nil)
	return nil
}
