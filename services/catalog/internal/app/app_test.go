package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArnoldEsquivel/palindrome-web/pkg/tracing"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/cache"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/config"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:  "test",
		LogLevel:     "error",
		HTTPPort:     3000,
		SearchEngine: config.EngineMemory,
		CacheTTL:     time.Minute,
		Tracing:      tracing.DefaultConfig("catalog"),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewApp_FixtureCatalog(t *testing.T) {
	a, err := NewApp(context.Background(), testConfig(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	req := httptest.NewRequest(http.MethodGet, "/api/products/search?q=racecar", nil)
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res domain.SearchResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.True(t, res.IsPalindrome)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 3, res.Items[0].ID)
}

func TestNewApp_WithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()

	a, err := NewApp(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	req := httptest.NewRequest(http.MethodGet, "/api/products/search?q=kayak", nil)
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.True(t, mr.Exists(cache.Key("kayak")))

	req = httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "redis")
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := NewApp(context.Background(), cfg, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init redis")
}

func TestNewApp_InvalidDatabaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseURL = "postgres://%zz"

	_, err := NewApp(context.Background(), cfg, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init postgres")
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPPort = freePort(t)

	a, err := NewApp(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1" + a.httpServer.Addr + "/health/live")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}
