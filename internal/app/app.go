package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/config"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/realtime"
)

type App struct {
	httpServer *http.Server
	hub        *realtime.Hub
	cleanup    func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, hub, cleanup, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	return &App{
		httpServer: server,
		hub:        hub,
		cleanup:    cleanup,
	}, nil
}

func (a *App) Run() error {
	err := a.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
