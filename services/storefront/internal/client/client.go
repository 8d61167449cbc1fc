// Package client performs product searches for the storefront, either
// against the catalog service or, in development, against the built-in
// fixture catalog.
package client

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ArnoldEsquivel/palindrome-web/pkg/httpclient"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/config"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/domain"
)

// Searcher performs a single product search. ctx cancellation aborts the
// call; errors are *apperrors.AppError values.
type Searcher interface {
	SearchProducts(ctx context.Context, query string) (*domain.SearchResponse, error)
}

var (
	_ Searcher = (*HTTPClient)(nil)
	_ Searcher = (*FallbackClient)(nil)
)

// New builds the Searcher selected by cfg. An empty base URL selects the
// fixture catalog, which is refused in production.
func New(cfg *config.Config, logger *slog.Logger) (Searcher, error) {
	if cfg.UsesFallback() {
		if cfg.Environment == config.EnvironmentProduction {
			return nil, errors.New("search API base URL is required in production")
		}
		logger.Warn("no search API configured, serving the offline fixture catalog")
		return NewFallbackClient(), nil
	}

	base := httpclient.New(httpclient.Config{
		MaxRetries:      cfg.MaxRetries,
		RetryWaitMin:    200 * time.Millisecond,
		RetryWaitMax:    2 * time.Second,
		MaxConnsPerHost: 16,
		UserAgent:       "palindrome-web-storefront/1.0",
	})
	cbCfg := httpclient.DefaultCircuitBreakerConfig("storefront-search")
	cbCfg.FailureRatio = cfg.BreakerFailureRatio
	cbCfg.MinRequests = cfg.BreakerMinRequests
	cbCfg.Timeout = cfg.BreakerOpenTimeout
	breaker := httpclient.NewCircuitBreakerClient(base, cbCfg, logger)

	logger.Info("search API client initialized",
		slog.String("base_url", cfg.SearchAPIBaseURL),
		slog.Duration("timeout", cfg.RequestTimeout),
		slog.Int("max_retries", cfg.MaxRetries),
		slog.Float64("breaker_failure_ratio", cbCfg.FailureRatio),
	)
	return NewHTTPClient(cfg.SearchAPIBaseURL, breaker, logger, WithTimeout(cfg.RequestTimeout)), nil
}
