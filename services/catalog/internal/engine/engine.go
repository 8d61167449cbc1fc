package engine

import (
	"context"
	"unicode/utf8"

	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/domain"
)

// ExactTitleMaxRunes is the longest term matched against whole titles only.
// Longer terms match substrings of title, brand and description.
const ExactTitleMaxRunes = 3

// SearchEngine defines the interface for indexing and searching products.
// Implementations may use Elasticsearch or in-memory storage.
type SearchEngine interface {
	// Search returns the products matching term, ordered by ID.
	Search(ctx context.Context, term string) ([]domain.Product, error)

	// BulkIndex adds or replaces products in the search index.
	BulkIndex(ctx context.Context, products []domain.Product) error
}

// ExactTitle reports whether term is short enough to require an exact,
// case-insensitive title match.
func ExactTitle(term string) bool {
	return utf8.RuneCountInString(term) <= ExactTitleMaxRunes
}
