package telegram

import (
	"context"
	"fmt"

	"github.com/futig/code-companion/internal/config"
	"github.com/futig/code-companion/internal/entity"
	"github.com/futig/code-companion/internal/pkg/validator"
	"github.com/futig/code-companion/internal/telegram/bot"
	"github.com/futig/code-companion/internal/telegram/handlers"
	"github.com/futig/code-companion/internal/telegram/keyboard"
	"github.com/futig/code-companion/internal/telegram/state"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// Deps are the collaborators the bot handlers share
type Deps struct {
	Storage     state.Storage
	Usecase     handlers.CompanionUsecase
	Validator   *validator.Validator
	Downloader  handlers.FileDownloader
	Language    entity.SourceLanguage
	MaxFileSize int64
	Warnings    []string
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(cfg *config.TelegramConfig, deps Deps, logger *zap.Logger) (Bot, error) {
	b, err := bot.New(cfg, deps.Language, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	registerHandlers(b, deps, logger)

	logger.Info("telegram bot initialized successfully")

	return b, nil
}

// registerHandlers registers all handlers with the bot
func registerHandlers(b *bot.Bot, deps Deps, logger *zap.Logger) {
	api := b.GetAPI()
	stateManager := state.NewManager(deps.Storage)
	kb := keyboard.NewBuilder()

	b.RegisterHandler(handlers.NewCommandHandler(api, stateManager, deps.Usecase, kb, deps.Language, deps.Warnings, logger))
	b.RegisterHandler(handlers.NewDocumentHandler(api, stateManager, deps.Usecase, deps.Validator, deps.Downloader, deps.MaxFileSize, kb, deps.Language, logger))
	b.RegisterHandler(handlers.NewCallbackHandler(api, stateManager, deps.Usecase, kb, deps.Language, logger))

	logger.Info("telegram handlers registered",
		zap.Int("handler_count", 3),
	)
}
