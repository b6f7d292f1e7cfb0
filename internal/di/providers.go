package di

import (
	"fmt"

	"ForexDash/internal/domain/models"
	"ForexDash/internal/domain/repository"
	domsvc "ForexDash/internal/domain/service"
	"ForexDash/internal/handler/api"
	"ForexDash/internal/handler/ws"
	"ForexDash/internal/presenter"
	"ForexDash/internal/progress"
	"ForexDash/internal/service/ratelimit"
	"ForexDash/internal/services/predictor"
	"ForexDash/internal/session"
	"ForexDash/internal/usecase"
	"ForexDash/pkg/cache"
	"ForexDash/pkg/config"
	xhttp "ForexDash/pkg/http"
	"ForexDash/pkg/logger"
	"ForexDash/pkg/metrics"
	"ForexDash/pkg/server"
)

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the catalog cache. Redis is an optional second tier;
// when it cannot be reached the in-memory tier serves alone.
func ProvideCache(cfg *config.Config, log *logger.Logger) cache.Service {
	memOpts := []cache.MemoryOption{
		cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
		cache.WithMemoryDefaultTTL(cfg.Cache.TTL),
		cache.WithMemoryCleanup(cfg.Cache.CleanupInterval),
	}
	if !cfg.Cache.Redis.Enabled {
		return cache.NewLayeredCache(nil, memOpts...)
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		log.Warn("redis unavailable, using memory cache only",
			logger.String("addr", fmt.Sprintf("%s:%d", cfg.Cache.Redis.Host, cfg.Cache.Redis.Port)),
			logger.Error(err),
		)
		return cache.NewLayeredCache(nil, memOpts...)
	}
	return cache.NewLayeredCache(rc, memOpts...)
}

// ProvidePredictor creates the prediction service client.
func ProvidePredictor(cfg *config.Config) domsvc.Predictor {
	return predictor.NewFromConfig(cfg)
}

// ProvideSession creates the dashboard session seeded with the form defaults.
func ProvideSession(cfg *config.Config) *session.State {
	params := models.DefaultParameters()
	params.Symbol = cfg.Predictor.DefaultSymbol
	return session.New(params)
}

// ProvideProgress creates the progress simulator writing into the session.
func ProvideProgress(cfg *config.Config, state *session.State) usecase.ProgressStarter {
	return progress.New(state,
		progress.WithInterval(cfg.Progress.Interval),
		progress.WithMaxStep(cfg.Progress.MaxStep),
		progress.WithCap(cfg.Progress.Cap),
	)
}

// ProvideOrchestrator creates the single-flight request orchestrator.
func ProvideOrchestrator(
	cfg *config.Config,
	state *session.State,
	pred domsvc.Predictor,
	prog usecase.ProgressStarter,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.Orchestrator {
	return usecase.NewOrchestrator(state, pred, prog, m, log, usecase.Timeouts{
		Full:  cfg.Predictor.FullTimeout,
		Quick: cfg.Predictor.QuickTimeout,
		Ultra: cfg.Predictor.UltraTimeout,
	})
}

// ProvideCatalog creates the cached pairs and indicator-set lookups.
func ProvideCatalog(
	cfg *config.Config,
	pred domsvc.Predictor,
	c cache.Service,
	state *session.State,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.Catalog {
	return usecase.NewCatalog(pred, c, state, m, log, usecase.CatalogConfig{
		TTL:             cfg.Cache.TTL,
		Timeout:         cfg.Predictor.CatalogTimeout,
		MaxElapsed:      cfg.Predictor.CatalogRetry.MaxElapsed,
		InitialInterval: cfg.Predictor.CatalogRetry.InitialInterval,
	})
}

func ProvidePresenter() *presenter.Presenter {
	return presenter.New()
}

// ProvideTriggerLimiter limits prediction triggers per client.
func ProvideTriggerLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.TriggerRPS, cfg.Server.TriggerBurst)
}

func ProvideDashboardHandler(
	log *logger.Logger,
	orch *usecase.Orchestrator,
	catalog *usecase.Catalog,
	state *session.State,
	p *presenter.Presenter,
	limiter *ratelimit.Limiter,
) *api.DashboardEchoHandler {
	return api.NewDashboardEchoHandler(log, orch, catalog, state, p, limiter)
}

func ProvideStreamHandler(log *logger.Logger, state *session.State) *ws.StreamHandler {
	return ws.NewStreamHandler(log, state)
}

// ProvideHTTPServer creates the Echo server with every route group registered.
func ProvideHTTPServer(cfg *config.Config, log *logger.Logger, dash *api.DashboardEchoHandler, stream *ws.StreamHandler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer([]xhttp.Handler{dash, stream},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(log),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	log *logger.Logger,
	srv *xhttp.Server,
	orch *usecase.Orchestrator,
	catalog *usecase.Catalog,
	c cache.Service,
) *server.App {
	return server.New(log, srv, orch, catalog, c)
}
