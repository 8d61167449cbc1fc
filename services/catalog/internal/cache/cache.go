package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/domain"
)

const keyPrefix = "catalog:search:"

// ErrCacheMiss is returned when no result is cached for a term.
var ErrCacheMiss = errors.New("cache miss")

// SearchCache stores complete search results keyed by search term.
type SearchCache interface {
	Get(ctx context.Context, term string) (*domain.SearchResult, error)
	Set(ctx context.Context, term string, result *domain.SearchResult) error
}

// Key returns the cache key for term. Matching is case-insensitive, so
// terms differing only in case share an entry.
func Key(term string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(term))
}

// RedisCache implements SearchCache using Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis-backed search cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the cached result for term.
func (c *RedisCache) Get(ctx context.Context, term string) (*domain.SearchResult, error) {
	data, err := c.client.Get(ctx, Key(term)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get search result: %w", err)
	}

	var result domain.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal search result: %w", err)
	}

	return &result, nil
}

// Set stores result for term with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, term string, result *domain.SearchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal search result: %w", err)
	}

	if err := c.client.Set(ctx, Key(term), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set search result: %w", err)
	}

	return nil
}

// Ping checks whether Redis is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Noop is a SearchCache that never stores anything.
type Noop struct{}

// Get always reports a miss.
func (Noop) Get(context.Context, string) (*domain.SearchResult, error) {
	return nil, ErrCacheMiss
}

// Set discards the result.
func (Noop) Set(context.Context, string, *domain.SearchResult) error {
	return nil
}
