package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/code-companion/internal/api"
	sessionapi "github.com/futig/code-companion/internal/api/session"
	systemapi "github.com/futig/code-companion/internal/api/system"
	"github.com/futig/code-companion/internal/config"
	"github.com/futig/code-companion/internal/integration/common"
	"github.com/futig/code-companion/internal/integration/llm"
	"github.com/futig/code-companion/internal/pkg/formatter"
	"github.com/futig/code-companion/internal/pkg/logger"
	"github.com/futig/code-companion/internal/pkg/validator"
	"github.com/futig/code-companion/internal/telegram"
	"github.com/futig/code-companion/internal/telegram/state"
	"github.com/futig/code-companion/internal/usecase/companion"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// core holds the pieces shared by the HTTP server and the Telegram bot
type core struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *pgxpool.Pool
	usecase   *companion.CompanionUsecase
	validator *validator.Validator
}

func buildCore(ctx context.Context) (*core, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	// Missing completion settings are reported here and again to every client; they never stop startup.
	for _, warning := range cfg.Warnings {
		log.Warn("configuration warning", zap.String("warning", warning))
	}

	repo, db, err := setupSessionStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var completion companion.CompletionClient
	if cfg.EnableMocks {
		log.Info("using mock completion client")
		completion = llm.NewMockConnector(log)
	} else {
		completion = llm.NewConnector(cfg.AzureOpenAICfg, cfg.LLMConnectorCfg, log)
	}

	language := cfg.LanguageCfg.ToEntity()

	return &core{
		cfg:       cfg,
		logger:    log,
		db:        db,
		usecase:   companion.NewUsecase(repo, completion, language, cfg.FileUploadCfg.MaxFileSize, log),
		validator: validator.NewFileValidator(cfg.FileUploadCfg, language.Extension),
	}, nil
}

// Build wires the HTTP application
func Build() (*App, error) {
	c, err := buildCore(context.Background())
	if err != nil {
		return nil, err
	}

	c.logger.Info("building application",
		zap.String("environment", c.cfg.Environment),
		zap.String("server_addr", c.cfg.ServerAddr),
		zap.String("language", c.cfg.LanguageCfg.Name),
	)

	formats := formatter.NewFactory(c.cfg.LanguageCfg.Extension)

	systemHandler := systemapi.NewHandler(c.cfg)
	sessionHandler := sessionapi.NewHandler(c.usecase, c.cfg.FileUploadCfg, c.validator, formats, c.cfg.Warnings)

	router := api.SetupRouter(systemHandler, sessionHandler, c.logger)

	// Completions can take minutes, so the write timeout is bound to the completion timeout.
	server := &http.Server{
		Addr:         c.cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: c.cfg.LLMConnectorCfg.RequestTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	c.logger.Info("application built successfully")

	return &App{
		server: server,
		db:     c.db,
		logger: c.logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (*BotApp, error) {
	c, err := buildCore(context.Background())
	if err != nil {
		return nil, err
	}

	if c.cfg.TelegramCfg.BotToken == "" {
		c.closeDB()
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required to run the bot")
	}

	c.logger.Info("building telegram bot",
		zap.String("environment", c.cfg.Environment),
	)

	deps := telegram.Deps{
		Storage:     state.NewMemoryStorage(c.cfg.SessionCfg.TTL, c.cfg.SessionCfg.CleanupInterval),
		Usecase:     c.usecase,
		Validator:   c.validator,
		Downloader:  common.NewDownloadConnector(c.cfg.LLMConnectorCfg.HTTPClientConfig, c.logger),
		Language:    c.cfg.LanguageCfg.ToEntity(),
		MaxFileSize: c.cfg.FileUploadCfg.MaxFileSize,
		Warnings:    c.cfg.Warnings,
	}

	bot, err := telegram.NewBot(&c.cfg.TelegramCfg, deps, c.logger)
	if err != nil {
		c.closeDB()
		return nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	c.logger.Info("telegram bot built successfully")

	return &BotApp{
		bot:    bot,
		db:     c.db,
		logger: c.logger,
	}, nil
}

func (c *core) closeDB() {
	if c.db != nil {
		c.db.Close()
	}
}
