package main

import (
	"log"

	"github.com/futig/code-companion/internal/builder"
	"go.uber.org/zap"
)

func main() {
	app, err := builder.BuildTelegramBot()
	if err != nil {
		log.Fatal("Failed to build telegram bot:", err)
	}

	if err := app.Run(); err != nil {
		app.Logger().Error("telegram bot error", zap.Error(err))
		log.Fatal(err)
	}
}
