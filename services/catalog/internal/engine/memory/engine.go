package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/domain"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/engine"
)

// Engine is an in-memory implementation of the SearchEngine interface.
// Thread-safe via sync.RWMutex.
type Engine struct {
	mu       sync.RWMutex
	products map[int]domain.Product
}

// New creates a new in-memory search engine.
func New() *Engine {
	return &Engine{
		products: make(map[int]domain.Product),
	}
}

// Search returns every indexed product matching term, ordered by ID.
func (e *Engine) Search(ctx context.Context, term string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	termLower := strings.ToLower(strings.TrimSpace(term))
	exact := engine.ExactTitle(termLower)

	matched := make([]domain.Product, 0)
	for _, p := range e.products {
		if matches(p, termLower, exact) {
			matched = append(matched, p)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID < matched[j].ID
	})
	return matched, nil
}

// BulkIndex adds or replaces products in the in-memory index.
func (e *Engine) BulkIndex(_ context.Context, products []domain.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range products {
		e.products[p.ID] = p
	}
	return nil
}

// Len returns the number of indexed products.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.products)
}

func matches(p domain.Product, termLower string, exact bool) bool {
	if termLower == "" {
		return false
	}
	if exact {
		return strings.ToLower(p.Title) == termLower
	}
	return strings.Contains(strings.ToLower(p.Title), termLower) ||
		strings.Contains(strings.ToLower(p.Brand), termLower) ||
		strings.Contains(strings.ToLower(p.Description), termLower)
}
