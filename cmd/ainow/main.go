package main

import (
	"context"
	"os"

	"github.com/Aravinnthram/AINow/internal/app"
	"github.com/Aravinnthram/AINow/internal/config"
	"github.com/Aravinnthram/AINow/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application failed to start", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
