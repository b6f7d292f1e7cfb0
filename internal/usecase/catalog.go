package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ForexDash/internal/domain/models"
	drepo "ForexDash/internal/domain/repository"
	domsvc "ForexDash/internal/domain/service"
	"ForexDash/internal/session"
	"ForexDash/pkg/cache"
	xhttp "ForexDash/pkg/http"
	"ForexDash/pkg/logger"

	"github.com/cenkalti/backoff/v4"
)

const (
	cachePrefix       = "catalog"
	resourcePairs     = "pairs"
	resourceIndicator = "indicators"
)

// CatalogConfig bounds catalog lookups.
type CatalogConfig struct {
	TTL             time.Duration
	Timeout         time.Duration
	MaxElapsed      time.Duration
	InitialInterval time.Duration
}

// Catalog serves the pair list and indicator sets. They only populate
// selection lists and never influence a prediction request.
type Catalog struct {
	predictor domsvc.Predictor
	cache     cache.Service
	state     *session.State
	metrics   drepo.Metrics
	log       *logger.Logger
	cfg       CatalogConfig
}

// NewCatalog wires a catalog. metrics and log may be nil.
func NewCatalog(predictor domsvc.Predictor, c cache.Service, state *session.State, metrics drepo.Metrics, log *logger.Logger, cfg CatalogConfig) *Catalog {
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Catalog{
		predictor: predictor,
		cache:     c,
		state:     state,
		metrics:   metrics,
		log:       log.With("catalog"),
		cfg:       cfg,
	}
}

// Pairs returns the instruments, from cache when fresh. A non-empty answer
// marks the service as connected.
func (c *Catalog) Pairs(ctx context.Context) ([]models.Pair, error) {
	pairs, err := fetchCached(ctx, c, resourcePairs, c.predictor.Pairs)
	if err != nil {
		return nil, err
	}
	c.state.SetCatalogStatus(len(pairs) > 0, "")
	return pairs, nil
}

// Indicators returns the indicator keys per feature set.
func (c *Catalog) Indicators(ctx context.Context) (models.IndicatorSets, error) {
	return fetchCached(ctx, c, resourceIndicator, c.predictor.Indicators)
}

// Warm loads both resources, as the dashboard does on first open. A failure
// is recorded as the session error rather than returned to a user.
func (c *Catalog) Warm(ctx context.Context) error {
	if _, err := c.Pairs(ctx); err != nil {
		c.state.SetCatalogStatus(false, msgCatalogUnreachable)
		return err
	}
	if _, err := c.Indicators(ctx); err != nil {
		c.state.SetCatalogStatus(c.state.Snapshot().APIConnected, msgCatalogUnreachable)
		return err
	}
	return nil
}

func fetchCached[T any](ctx context.Context, c *Catalog, resource string, fetch func(context.Context) (T, error)) (T, error) {
	key := cache.GenerateKey(cachePrefix, resource)

	if c.cache != nil {
		v, ok, err := cache.GetTyped[T](ctx, c.cache, key)
		if err != nil {
			c.log.Warn("catalog cache read failed", logger.String("resource", resource), logger.Error(err))
		} else if ok {
			c.metrics.RecordCatalogFetch(resource, "cache_hit")
			return v, nil
		}
	}

	var out T
	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
		v, err := fetch(callCtx)
		if err != nil {
			c.log.Debug("catalog fetch attempt failed", logger.String("resource", resource), logger.Error(err))
			var se *xhttp.StatusError
			if errors.As(err, &se) && se.StatusCode >= http.StatusBadRequest && se.StatusCode < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			return err
		}
		out = v
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(c.retryPolicy(), ctx)); err != nil {
		c.metrics.RecordCatalogFetch(resource, "error")
		c.log.Error("catalog fetch failed", logger.String("resource", resource), logger.Error(err))
		var zero T
		return zero, fmt.Errorf("fetch %s: %w", resource, err)
	}
	c.metrics.RecordCatalogFetch(resource, "fetched")

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, out, c.cfg.TTL); err != nil {
			c.log.Warn("catalog cache write failed", logger.String("resource", resource), logger.Error(err))
		}
	}
	return out, nil
}

func (c *Catalog) retryPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.cfg.InitialInterval > 0 {
		b.InitialInterval = c.cfg.InitialInterval
	}
	b.MaxElapsedTime = c.cfg.MaxElapsed
	if c.cfg.MaxElapsed <= 0 {
		// a single attempt
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 0)
	}
	return b
}
