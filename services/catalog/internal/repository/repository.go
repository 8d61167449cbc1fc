package repository

import (
	"context"

	"github.com/ArnoldEsquivel/palindrome-web/pkg/fixtures"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/domain"
)

// ProductRepository defines the interface for reading the product catalog.
type ProductRepository interface {
	// ListAll returns every product ordered by ID.
	ListAll(ctx context.Context) ([]domain.Product, error)
}

// FixtureRepository serves the static fixture catalog. It is used when no
// database is configured.
type FixtureRepository struct{}

// NewFixtureRepository creates a fixture-backed product repository.
func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{}
}

// ListAll returns the fixture catalog.
func (FixtureRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src := fixtures.Catalog()
	out := make([]domain.Product, 0, len(src))
	for _, p := range src {
		out = append(out, domain.Product{
			ID:          p.ID,
			Title:       p.Title,
			Brand:       p.Brand,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
		})
	}
	return out, nil
}
