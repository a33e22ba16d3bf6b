package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"charter/config"
	"charter/di"
	"charter/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	di.InitializeWorker().Run(ctx)
}
