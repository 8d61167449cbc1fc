package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/cache"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/domain"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/engine"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/event"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/repository"
)

// Query validation messages returned to API callers.
var (
	msgQueryRequired = `Query parameter "q" is required`
	msgQueryTooLong  = fmt.Sprintf(`Query parameter "q" must be at most %d characters`, domain.MaxQueryLength)
)

// CatalogService implements the business logic for product search.
type CatalogService struct {
	engine engine.SearchEngine
	repo   repository.ProductRepository
	cache  cache.SearchCache
	events event.Publisher
	logger *slog.Logger

	group singleflight.Group
}

// NewCatalogService creates a new catalog service. A nil cache or publisher
// disables that concern.
func NewCatalogService(
	eng engine.SearchEngine,
	repo repository.ProductRepository,
	c cache.SearchCache,
	events event.Publisher,
	logger *slog.Logger,
) *CatalogService {
	if c == nil {
		c = cache.Noop{}
	}
	if events == nil {
		events = event.Noop{}
	}
	return &CatalogService{
		engine: eng,
		repo:   repo,
		cache:  c,
		events: events,
		logger: logger,
	}
}

// Search answers a product search for q. The query is trimmed; an empty or
// over-long query is a BadRequest. The palindrome discount is applied to
// every item when the trimmed query is a palindrome.
func (s *CatalogService) Search(ctx context.Context, q string) (*domain.SearchResult, error) {
	term := strings.TrimSpace(q)
	if term == "" {
		return nil, apperrors.BadRequest(msgQueryRequired)
	}
	if utf8.RuneCountInString(term) > domain.MaxQueryLength {
		return nil, apperrors.BadRequest(msgQueryTooLong)
	}

	if cached, err := s.cache.Get(ctx, term); err == nil {
		// Entries are shared by terms differing only in case.
		result := *cached
		result.Query = term
		s.publish(ctx, &result, true)
		return &result, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "search cache read failed",
			slog.String("query", term),
			slog.String("error", err.Error()),
		)
	}

	products, err := s.searchShared(ctx, term)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("search: %w", err)
	}

	result := domain.NewSearchResult(term, products)

	if err := s.cache.Set(ctx, term, result); err != nil {
		s.logger.WarnContext(ctx, "search cache write failed",
			slog.String("query", term),
			slog.String("error", err.Error()),
		)
	}

	s.logger.DebugContext(ctx, "search executed",
		slog.String("query", term),
		slog.Bool("is_palindrome", result.IsPalindrome),
		slog.Int("total", result.TotalItems),
	)

	s.publish(ctx, result, false)
	return result, nil
}

// searchShared collapses concurrent engine queries for the same normalized
// term into one call. Each caller still honours its own context.
func (s *CatalogService) searchShared(ctx context.Context, term string) ([]domain.Product, error) {
	ch := s.group.DoChan(cache.Key(term), func() (interface{}, error) {
		return s.engine.Search(context.WithoutCancel(ctx), term)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.Product), nil
	}
}

func (s *CatalogService) publish(ctx context.Context, result *domain.SearchResult, cacheHit bool) {
	if err := s.events.PublishSearchPerformed(ctx, result, cacheHit); err != nil {
		s.logger.WarnContext(ctx, "failed to publish search event",
			slog.String("query", result.Query),
			slog.String("error", err.Error()),
		)
	}
}

// Reindex loads every product from the repository into the search engine
// and returns how many were indexed.
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("reindex: list products: %w", err)
	}

	if err := s.engine.BulkIndex(ctx, products); err != nil {
		return 0, fmt.Errorf("reindex: bulk index: %w", err)
	}

	s.logger.InfoContext(ctx, "reindex completed",
		slog.Int("count", len(products)),
	)
	return len(products), nil
}
