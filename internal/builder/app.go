package builder

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/futig/code-companion/internal/telegram"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App represents the HTTP application with all its components
type App struct {
	server *http.Server
	db     *pgxpool.Pool
	logger *zap.Logger
}

// Run starts the application and blocks until a shutdown signal or server error
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("server error", zap.Error(err))
		closePool(a.db)
		return err
	case sig := <-sigChan:
		a.logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	return a.shutdown()
}

// shutdown gracefully shuts down the application
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.logger.Info("shutting down server gracefully")

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	closePool(a.db)

	a.logger.Info("application stopped gracefully")
	return nil
}

// BotApp runs the Telegram front end
type BotApp struct {
	bot    telegram.Bot
	db     *pgxpool.Pool
	logger *zap.Logger
}

// Logger returns the application logger
func (a *BotApp) Logger() *zap.Logger {
	return a.logger
}

// Run starts polling and blocks until a shutdown signal
func (a *BotApp) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.bot.Start(ctx); err != nil {
		closePool(a.db)
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	cancel()

	err := a.bot.Stop()
	if err != nil {
		a.logger.Error("error stopping bot", zap.Error(err))
	}

	closePool(a.db)
	a.logger.Info("telegram bot stopped gracefully")
	return err
}

func closePool(db *pgxpool.Pool) {
	if db != nil {
		db.Close()
	}
}
