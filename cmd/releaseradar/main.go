package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ReleaseRadar/internal/app"
	"ReleaseRadar/internal/config"
	"ReleaseRadar/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger)

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
