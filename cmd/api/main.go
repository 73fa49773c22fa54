package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geritapp/gerit/internal/bootstrap"
	"github.com/geritapp/gerit/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logger := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to start")
	}
	defer app.Close()

	logger.WithField("addr", cfg.Address()).Info("server starting")
	if err := app.Run(ctx, cfg.Address()); err != nil {
		logger.WithError(err).Error("server failed")
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	if app.Worker != nil {
		app.Worker.Wait()
	}
	logger.Info("server stopped")
}
