package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/tracing"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/catalogtest"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/config"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/domain"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/view"
)

const waitFor = 3 * time.Second

// syncBuffer is a bytes.Buffer safe for the render loop and the test to
// share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Environment:         "test",
		LogLevel:            "error",
		SearchAPIBaseURL:    baseURL,
		RequestTimeout:      2 * time.Second,
		Debounce:            10 * time.Millisecond,
		BreakerFailureRatio: 0.5,
		BreakerMinRequests:  5,
		BreakerOpenTimeout:  time.Second,
		Tracing:             tracing.DefaultConfig("storefront"),
	}
}

// session runs an App fed through a pipe.
type session struct {
	app  *App
	in   *io.PipeWriter
	out  *syncBuffer
	done chan error
}

func startSession(t *testing.T, cfg *config.Config) *session {
	t.Helper()
	pr, pw := io.Pipe()
	out := &syncBuffer{}

	a, err := NewApp(cfg, testLogger(), pr, out)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{app: a, in: pw, out: out, done: make(chan error, 1)}
	go func() { s.done <- a.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		_ = pw.Close()
		select {
		case <-s.done:
		case <-time.After(waitFor):
			t.Error("app did not stop")
		}
	})
	return s
}

func (s *session) send(t *testing.T, line string) {
	t.Helper()
	_, err := io.WriteString(s.in, line+"\n")
	require.NoError(t, err)
}

func (s *session) waitOutput(t *testing.T, substr string) {
	t.Helper()
	require.Eventually(t, func() bool { return strings.Contains(s.out.String(), substr) }, waitFor, 10*time.Millisecond,
		"output never contained %q:\n%s", substr, s.out.String())
}

func (s *session) waitStatus(t *testing.T, status domain.Status) domain.ViewState {
	t.Helper()
	orch := s.app.Orchestrator()
	require.Eventually(t, func() bool { return orch.State().Status == status }, waitFor, 10*time.Millisecond)
	return orch.State()
}

func startCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := catalogtest.NewServer(context.Background(), testLogger())
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func TestApp_PalindromeWithoutBackendDiscountIsEnriched(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"query":"abba","isPalindrome":true,"totalItems":1,"items":[
			{"id":9,"title":"Abba Greatest Hits Vinyl","brand":"Retro Records","description":"Vinilo","originalPrice":500,"finalPrice":500}]}`)
	}))
	t.Cleanup(api.Close)

	s := startSession(t, testConfig(api.URL))
	s.send(t, "abba")

	st := s.waitStatus(t, domain.StatusSuccess)
	require.Len(t, st.Data.Items, 1)
	item := st.Data.Items[0]
	assert.Equal(t, 250.0, item.FinalPrice)
	require.NotNil(t, item.DiscountPercentage)
	assert.Equal(t, 50, *item.DiscountPercentage)

	s.waitOutput(t, "[-50%]")
	s.waitOutput(t, "$250.00 (was $500.00, save 50%)")
}

func TestApp_NonPalindromeShowsSinglePrice(t *testing.T) {
	s := startSession(t, testConfig(startCatalog(t).URL))
	s.send(t, "laptop")

	st := s.waitStatus(t, domain.StatusSuccess)
	assert.False(t, st.Data.IsPalindrome)
	require.Len(t, st.Data.Items, 1)
	assert.Nil(t, st.Data.Items[0].DiscountPercentage)
	assert.Equal(t, st.Data.Items[0].OriginalPrice, st.Data.Items[0].FinalPrice)

	s.waitOutput(t, "#1 Laptop Pro 14 - Nexa\n")
	s.waitOutput(t, "   $24,999.00\n")
	assert.NotContains(t, s.out.String(), "[-")
	assert.NotContains(t, s.out.String(), "(was ")
}

func TestApp_NoResultsRendersEmptyState(t *testing.T) {
	s := startSession(t, testConfig(startCatalog(t).URL))
	s.send(t, "xyz")

	st := s.waitStatus(t, domain.StatusSuccess)
	assert.Empty(t, st.Data.Items)
	assert.Zero(t, st.Data.TotalItems)

	s.waitOutput(t, `No products found for "xyz".`)
	assert.NotContains(t, s.out.String(), view.AlertMarker)
}

func TestApp_PalindromeAgainstCatalog(t *testing.T) {
	s := startSession(t, testConfig(startCatalog(t).URL))
	s.send(t, ":search kayak")

	st := s.waitStatus(t, domain.StatusSuccess)
	assert.True(t, st.Data.IsPalindrome)
	require.NotEmpty(t, st.Data.Items)
	for _, item := range st.Data.Items {
		require.NotNil(t, item.DiscountPercentage)
		assert.Equal(t, 50, *item.DiscountPercentage)
		assert.NotNil(t, item.ImageURL)
	}
	s.waitOutput(t, "Palindrome search!")
}

func TestApp_NetworkErrorThenRetry(t *testing.T) {
	var hits atomic.Int32
	var queries sync.Map
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		queries.Store(n, r.URL.Query().Get("q"))
		if n == 1 {
			// Drop the connection without a response.
			conn, _, err := w.(http.Hijacker).Hijack()
			if err == nil {
				_ = conn.Close()
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"query":"kayak","isPalindrome":true,"totalItems":0,"items":[]}`)
	}))
	t.Cleanup(api.Close)

	s := startSession(t, testConfig(api.URL))
	s.send(t, "kayak")

	st := s.waitStatus(t, domain.StatusError)
	assert.Equal(t, apperrors.KindNetwork, st.Kind)
	s.waitOutput(t, view.AlertMarker+" Connection problem. Check your network and try again.")
	s.waitOutput(t, "Search products: [kayak]")
	assert.Equal(t, "kayak", s.app.Orchestrator().Query())

	s.send(t, ":retry")
	s.waitStatus(t, domain.StatusSuccess)

	assert.Equal(t, int32(2), hits.Load())
	first, _ := queries.Load(int32(1))
	second, _ := queries.Load(int32(2))
	assert.Equal(t, "kayak", first)
	assert.Equal(t, "kayak", second)
}

func TestApp_UnreachableBackend(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	s := startSession(t, testConfig("http://"+addr))
	s.send(t, "radar")

	st := s.waitStatus(t, domain.StatusError)
	assert.Equal(t, apperrors.KindNetwork, st.Kind)
	assert.Equal(t, "Connection problem. Check your network and try again.", st.Message)
}

func TestApp_ResetAndClampedInput(t *testing.T) {
	s := startSession(t, testConfig(startCatalog(t).URL))

	s.send(t, strings.Repeat("a", domain.MaxQueryLength+20))
	st := s.waitStatus(t, domain.StatusSuccess)
	assert.Len(t, st.Data.Query, domain.MaxQueryLength)

	s.send(t, ":reset")
	s.waitStatus(t, domain.StatusIdle)
	assert.Empty(t, s.app.Orchestrator().Query())
	s.waitOutput(t, "Type a product name to start searching.")
}

func TestApp_QuitAndEndOfInput(t *testing.T) {
	t.Run("quit", func(t *testing.T) {
		out := &syncBuffer{}
		a, err := NewApp(testConfig(""), testLogger(), strings.NewReader(":quit\nkayak\n"), out)
		require.NoError(t, err)

		require.NoError(t, a.Run(context.Background()))
		assert.Contains(t, out.String(), "Type a product name to start searching.")
	})

	t.Run("end of input waits for the last search", func(t *testing.T) {
		out := &syncBuffer{}
		a, err := NewApp(testConfig(""), testLogger(), strings.NewReader("kayak\n"), out)
		require.NoError(t, err)

		require.NoError(t, a.Run(context.Background()))
		assert.Contains(t, out.String(), "#2 Kayak Explorer - RiverRun [-50%]")
	})
}

func TestNewApp_ProductionRequiresBackend(t *testing.T) {
	cfg := testConfig("")
	cfg.Environment = config.EnvironmentProduction

	_, err := NewApp(cfg, testLogger(), strings.NewReader(""), io.Discard)
	require.Error(t, err)
}
