// Package catalogtest runs the catalog API in-process, backed by the
// in-memory engine and the fixture catalog, for use by other services' tests.
package catalogtest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"time"

	"github.com/ArnoldEsquivel/palindrome-web/pkg/tracing"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/app"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/config"
)

// NewServer starts a catalog API on a local httptest server. The caller must
// Close it.
func NewServer(ctx context.Context, logger *slog.Logger) (*httptest.Server, error) {
	cfg := &config.Config{
		Environment:  "test",
		LogLevel:     "error",
		HTTPPort:     3000,
		SearchEngine: config.EngineMemory,
		CacheTTL:     time.Minute,
		Tracing:      tracing.DefaultConfig("catalog"),
	}

	a, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("catalogtest: %w", err)
	}
	return httptest.NewServer(a.Handler()), nil
}
