//go:build wireinject
// +build wireinject

package di

import (
	"ForexDash/pkg/config"
	"ForexDash/pkg/logger"
	"ForexDash/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config, log *logger.Logger) (*server.App, error) {
	wire.Build(
		// Metrics
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvidePredictor,

		// Session state
		ProvideSession,
		ProvideProgress,

		// Use cases
		ProvideOrchestrator,
		ProvideCatalog,
		ProvidePresenter,

		// HTTP
		ProvideTriggerLimiter,
		ProvideDashboardHandler,
		ProvideStreamHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
