package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ForexDash/internal/usecase"
	"ForexDash/pkg/cache"
	xhttp "ForexDash/pkg/http"
	applogger "ForexDash/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	log        *applogger.Logger
	httpServer *xhttp.Server
	orch       *usecase.Orchestrator
	catalog    *usecase.Catalog
	cache      cache.Service
}

// New creates a new App instance with all dependencies.
func New(
	log *applogger.Logger,
	httpServer *xhttp.Server,
	orch *usecase.Orchestrator,
	catalog *usecase.Catalog,
	c cache.Service,
) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		log:        log.With("app"),
		httpServer: httpServer,
		orch:       orch,
		catalog:    catalog,
		cache:      c,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext serves until ctx is done, then shuts down.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	// Load the selection lists in the background; a failure only shows as the session error.
	warmCtx, cancelWarm := context.WithCancel(ctx)
	defer cancelWarm()
	go func() {
		if err := a.catalog.Warm(warmCtx); err != nil {
			a.log.Warn("catalog warm-up failed", applogger.Error(err))
			return
		}
		a.log.Info("catalog loaded")
	}()

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	// in-flight predictions settle as failed before the process exits
	a.orch.Close()

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return firstErr
}
