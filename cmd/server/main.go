package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/app"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/config"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info")
		logger.Fatal("failed to load config", "error", err)
	}

	logger.Init(cfg.LogLevel)
	log := logger.With("main")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize app", "error", err)
	}

	go func() {
		if err := application.Run(); err != nil {
			logger.Fatal("http server failed", "error", err)
		}
	}()

	log.Info("session-service started", "port", cfg.AppPort)

	<-ctx.Done()

	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", "error", err)
	}

	log.Info("session-service stopped cleanly")
}
