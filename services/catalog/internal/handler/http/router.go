package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/health"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/httputil"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/middleware"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/service"
)

// RouterOptions holds the cross-cutting settings of the HTTP surface.
type RouterOptions struct {
	Environment    string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	// Registry receives the HTTP collectors and is served on /metrics.
	// A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// NewRouter creates a chi router with all catalog routes registered. ctx
// bounds background work such as rate-limiter cleanup.
func NewRouter(
	ctx context.Context,
	catalogService *service.CatalogService,
	healthHandler *health.Handler,
	opts RouterOptions,
	logger *slog.Logger,
) http.Handler {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := middleware.NewHTTPMetrics(reg, "catalog")

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.Environment = opts.Environment
	if len(opts.AllowedOrigins) > 0 {
		corsCfg.AllowedOrigins = opts.AllowedOrigins
	}

	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httputil.WriteError(w, req, apperrors.NotFound(fmt.Sprintf("Cannot %s %s", req.Method, req.URL.Path)), logger)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httputil.WriteError(w, req, apperrors.NotFound(fmt.Sprintf("Cannot %s %s", req.Method, req.URL.Path)), logger)
	})

	// Global middleware
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing("catalog"))
	r.Use(middleware.RequestLogging(logger))
	r.Use(metrics.Middleware)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// Product API endpoints
	searchHandler := NewSearchHandler(catalogService, logger)

	r.Route("/api/products", func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, opts.RateLimitRPS, opts.RateLimitBurst, logger))
		r.Get("/search", searchHandler.Search)
		r.Post("/reindex", searchHandler.Reindex)
	})

	return r
}
