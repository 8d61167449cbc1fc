package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/httpclient"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/logger"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/tracing"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/domain"
)

const (
	// DefaultTimeout is the per-request budget, independent of the caller's
	// own cancellation.
	DefaultTimeout = 10 * time.Second

	searchPath   = "/api/products/search"
	maxBodyBytes = 1 << 20
)

// errRequestTimeout is the cause attached to the client's own deadline so it
// can be told apart from a caller cancellation.
var errRequestTimeout = errors.New("search request exceeded its time budget")

// HTTPDoer executes HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// HTTPClient searches the catalog service over HTTP.
type HTTPClient struct {
	baseURL   string
	doer      HTTPDoer
	timeout   time.Duration
	validator Validator
	logger    *slog.Logger
	tracer    trace.Tracer
}

// HTTPOption customises an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithValidator replaces the default SchemaValidator.
func WithValidator(v Validator) HTTPOption {
	return func(c *HTTPClient) {
		if v != nil {
			c.validator = v
		}
	}
}

// NewHTTPClient creates a client for the search API rooted at baseURL.
func NewHTTPClient(baseURL string, doer HTTPDoer, logger *slog.Logger, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		doer:      doer,
		timeout:   DefaultTimeout,
		validator: SchemaValidator{},
		logger:    logger,
		tracer:    tracing.Tracer("storefront/client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchProducts performs one search. ctx is the caller's cancellation
// token; the client adds its own timeout on top of it. Every error returned
// is an *apperrors.AppError.
func (c *HTTPClient) SearchProducts(ctx context.Context, query string) (_ *domain.SearchResponse, err error) {
	term, err := checkQuery(query)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "storefront.search",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("search.query_length", utf8.RuneCountInString(term))),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(apperrors.KindOf(err)))
		}
		span.End()
	}()

	reqCtx, cancel := context.WithTimeoutCause(ctx, c.timeout, errRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.searchURL(term), http.NoBody)
	if err != nil {
		return nil, apperrors.Network(fmt.Errorf("create search request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set("X-Correlation-ID", id)
	}
	otel.GetTextMapPropagator().Inject(reqCtx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.doer.Do(reqCtx, req)
	if err != nil {
		return nil, classifyTransportError(ctx, reqCtx, err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := httpclient.ParseResponseError(resp)
		logger.WithContext(ctx, c.logger).WarnContext(ctx, "search request failed",
			slog.Int("status", resp.StatusCode),
			slog.String("kind", string(apperrors.KindOf(err))),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, classifyTransportError(ctx, reqCtx, err)
	}
	if len(body) > maxBodyBytes {
		return nil, apperrors.Parse(fmt.Errorf("search response exceeds %d bytes", maxBodyBytes))
	}

	parsed, err := c.validator.Validate(body)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("search.is_palindrome", parsed.IsPalindrome),
		attribute.Int("search.total_items", parsed.TotalItems),
	)
	logger.WithContext(ctx, c.logger).DebugContext(ctx, "search request completed",
		slog.Int("items", len(parsed.Items)),
		slog.Bool("is_palindrome", parsed.IsPalindrome),
		slog.Duration("elapsed", time.Since(start)),
	)
	return Enrich(parsed), nil
}

func (c *HTTPClient) searchURL(term string) string {
	return c.baseURL + searchPath + "?q=" + url.QueryEscape(term)
}

// checkQuery trims query and enforces the length bounds of the search API.
func checkQuery(query string) (string, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		return "", apperrors.BadRequest(`Query parameter "q" is required`)
	}
	if utf8.RuneCountInString(term) > domain.MaxQueryLength {
		return "", apperrors.BadRequest(fmt.Sprintf(`Query parameter "q" must be at most %d characters`, domain.MaxQueryLength))
	}
	return term, nil
}

// classifyTransportError maps a failure without an HTTP response to a Kind.
// parent is the caller's context and reqCtx the one carrying the client's
// own deadline.
func classifyTransportError(parent, reqCtx context.Context, err error) error {
	switch {
	case errors.Is(err, httpclient.ErrCircuitOpen), errors.Is(err, gobreaker.ErrTooManyRequests):
		appErr := apperrors.ServerError(http.StatusServiceUnavailable, "search service temporarily unavailable")
		appErr.Err = err
		return appErr
	case parent.Err() != nil:
		return apperrors.Cancelled(context.Cause(parent))
	case errors.Is(context.Cause(reqCtx), errRequestTimeout):
		return apperrors.Timeout(errRequestTimeout)
	default:
		return apperrors.Network(err)
	}
}
