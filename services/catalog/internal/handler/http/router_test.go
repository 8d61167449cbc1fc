package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArnoldEsquivel/palindrome-web/pkg/health"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/httputil"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/domain"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/engine/memory"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/repository"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/service"
)

func newTestRouter(t *testing.T, opts RouterOptions) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewCatalogService(memory.New(), repository.NewFixtureRepository(), nil, nil, logger)
	_, err := svc.Reindex(context.Background())
	require.NoError(t, err)

	if opts.Environment == "" {
		opts.Environment = "development"
	}
	return NewRouter(context.Background(), svc, health.NewHandler(), opts, logger)
}

func doSearch(t *testing.T, router http.Handler, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/products/search?"+rawQuery, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSearch_Palindrome(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	w := doSearch(t, router, "q="+url.QueryEscape("Abba"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var res domain.SearchResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, "Abba", res.Query)
	assert.True(t, res.IsPalindrome)
	require.Len(t, res.Items, 1)
	require.NotNil(t, res.Items[0].DiscountPercentage)
	assert.Equal(t, 50, *res.Items[0].DiscountPercentage)
	assert.Equal(t, 349.5, res.Items[0].FinalPrice)
}

func TestSearch_WireShape(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	w := doSearch(t, router, "q=laptop")
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
	assert.Equal(t, "laptop", raw["query"])
	assert.Equal(t, false, raw["isPalindrome"])
	assert.Equal(t, float64(1), raw["totalItems"])

	items := raw["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	for _, key := range []string{"id", "title", "brand", "description", "originalPrice", "finalPrice", "imageUrl"} {
		assert.Contains(t, item, key)
	}
	assert.NotContains(t, item, "discountPercentage")
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	w := doSearch(t, router, "q=xyz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"query":"xyz","isPalindrome":false,"items":[],"totalItems":0}`, w.Body.String())
}

func TestSearch_MissingQuery(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	for _, rawQuery := range []string{"", "q=", "q=%20%20"} {
		w := doSearch(t, router, rawQuery)
		require.Equal(t, http.StatusBadRequest, w.Code, rawQuery)

		var body httputil.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, `Query parameter "q" is required`, body.Message)
		assert.Equal(t, "Bad Request", body.Error)
		assert.Equal(t, http.StatusBadRequest, body.StatusCode)
	}
}

func TestSearch_QueryTooLong(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	w := doSearch(t, router, "q="+strings.Repeat("a", 256))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at most 255 characters")
}

func TestSearch_Pagination(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	// "nexa" matches two fixture products by brand.
	w := doSearch(t, router, "q=nexa&page=2&limit=1")
	require.Equal(t, http.StatusOK, w.Code)

	var res domain.SearchResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, 2, res.TotalItems)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 4, res.Items[0].ID)
	assert.LessOrEqual(t, len(res.Items), res.TotalItems)
	assert.Equal(t, "2", w.Header().Get("X-Total-Count"))
	assert.Equal(t, "2", w.Header().Get("X-Total-Pages"))

	w = doSearch(t, router, "q=nexa")
	assert.Empty(t, w.Header().Get("X-Total-Pages"))
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		path := "/api/products/unknown"
		if method == http.MethodDelete {
			path = "/api/products/search"
		}
		req := httptest.NewRequest(method, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code, method)
		var body httputil.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "Cannot "+method+" "+path, body.Message)
		assert.Equal(t, "Not Found", body.Error)
	}
}

func TestSearch_RequestIDInErrorBody(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/products/search", nil)
	req.Header.Set("X-Correlation-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "req-42", body.RequestID)
	assert.Equal(t, "req-42", w.Header().Get("X-Correlation-ID"))
}

func TestSearch_RateLimited(t *testing.T) {
	router := newTestRouter(t, RouterOptions{RateLimitRPS: 1, RateLimitBurst: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, doSearch(t, router, "q=kayak").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestReindex(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	req := httptest.NewRequest(http.MethodPost, "/api/products/reindex", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body ReindexResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 12, body.Indexed)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	doSearch(t, router, "q=kayak")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/api/products/search",service="catalog",status="200"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, RouterOptions{})

	req := httptest.NewRequest(http.MethodOptions, "/api/products/search", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
