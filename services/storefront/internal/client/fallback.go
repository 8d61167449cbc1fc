package client

import (
	"context"
	"strings"

	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/fixtures"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/palindrome"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/domain"
)

// FallbackClient answers searches from the built-in fixture catalog. It is
// only used when no search API is configured outside production.
type FallbackClient struct {
	products []fixtures.Product
}

// NewFallbackClient creates a client over the fixture catalog.
func NewFallbackClient() *FallbackClient {
	return &FallbackClient{products: fixtures.Catalog()}
}

// SearchProducts matches query case-insensitively as a substring of each
// product's title, brand or description.
func (c *FallbackClient) SearchProducts(ctx context.Context, query string) (*domain.SearchResponse, error) {
	term, err := checkQuery(query)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Cancelled(err)
	}

	needle := strings.ToLower(term)
	items := make([]domain.ProductItem, 0)
	for _, p := range c.products {
		if !matches(p, needle) {
			continue
		}
		item := domain.ProductItem{
			ID:            p.ID,
			Title:         p.Title,
			Brand:         p.Brand,
			Description:   p.Description,
			OriginalPrice: p.Price,
			FinalPrice:    p.Price,
		}
		if p.ImageURL != "" {
			img := p.ImageURL
			item.ImageURL = &img
		}
		items = append(items, item)
	}

	return Enrich(&domain.SearchResponse{
		Query:        term,
		IsPalindrome: palindrome.Is(term),
		Items:        items,
		TotalItems:   len(items),
	}), nil
}

func matches(p fixtures.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Brand), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}
