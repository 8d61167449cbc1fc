package domain

import (
	"math"

	"github.com/ArnoldEsquivel/palindrome-web/pkg/palindrome"
)

// MaxQueryLength is the longest search term, in runes, the catalog accepts.
const MaxQueryLength = 255

// PalindromeDiscount is the percentage taken off every item when the search
// term is a palindrome.
const PalindromeDiscount = 50

// Product is a catalog entry as stored and indexed. Price is in MXN.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Brand       string  `json:"brand"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// ProductItem is a product as returned by the search endpoint.
type ProductItem struct {
	ID                 int     `json:"id"`
	Title              string  `json:"title"`
	Brand              string  `json:"brand"`
	Description        string  `json:"description"`
	OriginalPrice      float64 `json:"originalPrice"`
	FinalPrice         float64 `json:"finalPrice"`
	DiscountPercentage *int    `json:"discountPercentage,omitempty"`
	ImageURL           *string `json:"imageUrl,omitempty"`
}

// SearchResult is the body of GET /api/products/search.
type SearchResult struct {
	Query        string        `json:"query"`
	IsPalindrome bool          `json:"isPalindrome"`
	Items        []ProductItem `json:"items"`
	TotalItems   int           `json:"totalItems"`
}

// NewSearchResult builds the response for query over the matched products.
// When query is a palindrome every item carries the palindrome discount.
func NewSearchResult(query string, products []Product) *SearchResult {
	isPal := palindrome.Is(query)

	items := make([]ProductItem, 0, len(products))
	for _, p := range products {
		items = append(items, newItem(p, isPal))
	}

	return &SearchResult{
		Query:        query,
		IsPalindrome: isPal,
		Items:        items,
		TotalItems:   len(items),
	}
}

func newItem(p Product, discounted bool) ProductItem {
	item := ProductItem{
		ID:            p.ID,
		Title:         p.Title,
		Brand:         p.Brand,
		Description:   p.Description,
		OriginalPrice: p.Price,
		FinalPrice:    p.Price,
	}
	if p.ImageURL != "" {
		url := p.ImageURL
		item.ImageURL = &url
	}
	if discounted {
		pct := PalindromeDiscount
		item.DiscountPercentage = &pct
		item.FinalPrice = applyDiscount(p.Price, pct)
	}
	return item
}

// applyDiscount returns price reduced by pct percent, rounded to cents.
func applyDiscount(price float64, pct int) float64 {
	return math.Round(price*float64(100-pct)) / 100
}

// WithItems returns a shallow copy of r carrying items in place of r.Items.
// TotalItems is kept so a page still reports the full match count.
func (r *SearchResult) WithItems(items []ProductItem) *SearchResult {
	out := *r
	out.Items = items
	return &out
}
