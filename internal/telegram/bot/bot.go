package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/code-companion/internal/config"
	"github.com/futig/code-companion/internal/entity"
	"github.com/futig/code-companion/internal/telegram/handlers"
	"github.com/futig/code-companion/internal/telegram/middleware"
	"github.com/futig/code-companion/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	language    entity.SourceLanguage
	handlers    map[string]handlers.Handler
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// New creates a new Telegram bot
func New(cfg *config.TelegramConfig, language entity.SourceLanguage, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	bot := &Bot{
		api:      api,
		cfg:      cfg,
		language: language,
		logger:   logger,
		handlers: make(map[string]handlers.Handler),
		stopChan: make(chan struct{}),
	}

	bot.loggingMW = middleware.NewLoggingMiddleware(logger)
	bot.recoveryMW = middleware.NewRecoveryMiddleware(logger, api)
	bot.rateLimitMW = middleware.NewRateLimiterMiddleware(
		cfg.RateLimitPerMinute,
		cfg.RateLimitBurst,
		logger,
		api,
	)

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)

	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()
	b.rateLimitMW.Close()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(u3)
			})
		})
	})
}

// handleUpdate routes update to appropriate handler
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx := ctxzap.ToContext(context.Background(), b.logger)

	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message != nil && update.Message.From != nil {
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage routes commands and documents; anything else gets a hint
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	msg := &handlers.Message{
		ChatID:    message.Chat.ID,
		UserID:    message.From.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
		Document:  message.Document,
	}

	var state string
	switch {
	case message.IsCommand():
		msg.Command = message.Command()
		state = handlers.HandlerStateCommand
	case message.Document != nil:
		state = handlers.HandlerStateDocument
	default:
		b.sendMessage(msg.ChatID, fmt.Sprintf(render.MsgSendFile, b.language.Extension))
		return
	}

	b.dispatch(ctx, state, msg)
}

// handleCallbackQuery answers the button press immediately and runs the handler
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		b.answerCallback(query.ID, "")
		return
	}

	msg := &handlers.Message{
		ChatID:       query.Message.Chat.ID,
		UserID:       query.From.ID,
		MessageID:    query.Message.MessageID,
		CallbackData: query.Data,
		CallbackID:   query.ID,
	}

	ctxzap.Info(ctx, "callback query received",
		zap.String("data", query.Data),
		zap.Int64("user_id", query.From.ID),
	)

	// Answer right away so Telegram does not mark the query as expired while a completion runs
	b.answerCallback(query.ID, render.MsgWorking)

	b.dispatch(ctx, handlers.HandlerStateCallback, msg)
}

func (b *Bot) dispatch(ctx context.Context, state string, msg *handlers.Message) {
	handler, exists := b.handlers[state]
	if !exists {
		ctxzap.Warn(ctx, "no handler registered", zap.String("state", state))
		b.sendMessage(msg.ChatID, render.ErrGeneric)
		return
	}

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error",
			zap.Error(err),
			zap.String("state", state),
			zap.Int64("chat_id", msg.ChatID),
		)
		b.sendMessage(msg.ChatID, render.ClassifyError(err, b.language))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// answerCallback answers a callback query
func (b *Bot) answerCallback(callbackID string, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Error("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}

// RegisterHandler registers a handler for an update kind
func (b *Bot) RegisterHandler(handler handlers.Handler) {
	state := handler.GetState()

	if !handlers.IsValidState(state) {
		b.logger.Fatal("invalid handler state",
			zap.String("state", state),
		)
	}

	b.handlers[state] = handler
	b.logger.Info("handler registered",
		zap.String("state", state),
	)
}

// GetAPI returns the bot API instance (for handlers)
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}
