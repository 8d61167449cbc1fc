package event

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	pkgkafka "github.com/ArnoldEsquivel/palindrome-web/pkg/kafka"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/logger"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/domain"
)

// TopicSearchPerformed receives one event per answered search.
var TopicSearchPerformed = pkgkafka.Topic("search", "performed")

// EventTypeSearchPerformed is the event_type of search.performed events.
const EventTypeSearchPerformed = "search.performed"

// SourceCatalogService identifies events originating from the catalog service.
const SourceCatalogService = "catalog-service"

// SearchPerformedData is the payload for a search.performed event.
type SearchPerformedData struct {
	Query        string `json:"query"`
	IsPalindrome bool   `json:"is_palindrome"`
	TotalItems   int    `json:"total_items"`
	CacheHit     bool   `json:"cache_hit"`
}

// Publisher publishes catalog domain events.
type Publisher interface {
	PublishSearchPerformed(ctx context.Context, result *domain.SearchResult, cacheHit bool) error
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  pkgkafka.Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishSearchPerformed publishes a search.performed event keyed by the
// lower-cased query.
func (p *Producer) PublishSearchPerformed(ctx context.Context, result *domain.SearchResult, cacheHit bool) error {
	data := SearchPerformedData{
		Query:        result.Query,
		IsPalindrome: result.IsPalindrome,
		TotalItems:   result.TotalItems,
		CacheHit:     cacheHit,
	}

	evt, err := pkgkafka.NewEvent(EventTypeSearchPerformed, strings.ToLower(result.Query), SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("build search.performed event: %w", err)
	}
	evt.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicSearchPerformed, evt); err != nil {
		return fmt.Errorf("publish search.performed: %w", err)
	}

	p.logger.DebugContext(ctx, "search.performed event published",
		slog.String("event_id", evt.EventID),
		slog.String("query", result.Query),
	)
	return nil
}

// Noop discards every event. It is used when no brokers are configured.
type Noop struct{}

// PublishSearchPerformed does nothing.
func (Noop) PublishSearchPerformed(context.Context, *domain.SearchResult, bool) error {
	return nil
}
