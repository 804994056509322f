package main

import (
	"context"
	"log"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/app"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/config"
	"go.uber.org/zap"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)

	defer logger.Sync()

	logger.Info("Starting train booking service",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Bool("telegram_enabled", cfg.TelegramToken != ""),
	)

	application, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}

	if err := application.Run(); err != nil {
		logger.Fatal("Application stopped with error", zap.Error(err))
	}
}
