package view

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/domain"
)

func intPtr(i int) *int { return &i }
func strPtr(s string) *string { return &s }

func discounted() domain.ProductItem {
	return domain.ProductItem{
		ID:                 9,
		Title:              "Abba Greatest Hits Vinyl",
		Brand:              "Retro Records",
		Description:        "Edición remasterizada en vinilo de 180 gramos",
		OriginalPrice:      500,
		FinalPrice:         250,
		DiscountPercentage: intPtr(50),
		ImageURL:           strPtr("https://picsum.photos/seed/product-9/400/400"),
	}
}

func plain() domain.ProductItem {
	return domain.ProductItem{
		ID:            1,
		Title:         "Laptop Pro 14",
		Brand:         "Nexa",
		Description:   "Ultraligera",
		OriginalPrice: 24999,
		FinalPrice:    24999,
	}
}

func TestClampInput(t *testing.T) {
	long := strings.Repeat("ñ", domain.MaxQueryLength+1)
	got := ClampInput(long)
	assert.Equal(t, domain.MaxQueryLength, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "kayak", ClampInput("kayak"))
	exact := strings.Repeat("a", domain.MaxQueryLength)
	assert.Equal(t, exact, ClampInput(exact))
}

func TestSearchBox(t *testing.T) {
	assert.Equal(t, "Search products: [type a product name]", SearchBox(""))
	assert.Equal(t, "Search products: [radar]", SearchBox("radar"))
}

func TestDiscountBadge(t *testing.T) {
	assert.Equal(t, "[-50%]", DiscountBadge(discounted()))
	assert.Empty(t, DiscountBadge(plain()))
}

func TestPriceBlock(t *testing.T) {
	assert.Equal(t, "$250.00 (was $500.00, save 50%)", PriceBlock(discounted()))
	assert.Equal(t, "$24,999.00", PriceBlock(plain()))
}

func TestProductCard(t *testing.T) {
	card := ProductCard(discounted())
	assert.Contains(t, card, "#9 Abba Greatest Hits Vinyl - Retro Records [-50%]")
	assert.Contains(t, card, "$250.00 (was $500.00, save 50%)")
	assert.Contains(t, card, "image: https://picsum.photos/seed/product-9/400/400")

	card = ProductCard(plain())
	assert.NotContains(t, card, "[-")
	assert.NotContains(t, card, "was")
	assert.NotContains(t, card, "image:")
}

func TestErrorAlert(t *testing.T) {
	out := ErrorAlert("Connection problem. Check your network and try again.")
	assert.True(t, strings.HasPrefix(out, AlertMarker+" Connection problem."))
	assert.Contains(t, out, RetryHint)
}

func TestPage(t *testing.T) {
	t.Run("idle", func(t *testing.T) {
		out := Page("", domain.Idle())
		assert.Contains(t, out, "Type a product name to start searching.")
	})

	t.Run("loading keeps the query", func(t *testing.T) {
		out := Page("kayak", domain.Loading())
		assert.Contains(t, out, "Search products: [kayak]")
		assert.Contains(t, out, "Searching...")
	})

	t.Run("empty success renders empty state", func(t *testing.T) {
		out := Page("xyz", domain.Success(&domain.SearchResponse{Query: "xyz", Items: []domain.ProductItem{}}))
		assert.Contains(t, out, `No products found for "xyz".`)
		assert.NotContains(t, out, AlertMarker)
	})

	t.Run("results", func(t *testing.T) {
		out := Page("abba", domain.Success(&domain.SearchResponse{
			Query:        "abba",
			IsPalindrome: true,
			TotalItems:   1,
			Items:        []domain.ProductItem{discounted()},
		}))
		assert.Contains(t, out, `1 result for "abba"`)
		assert.Contains(t, out, "Palindrome search!")
		assert.Contains(t, out, "[-50%]")
	})

	t.Run("error keeps the query", func(t *testing.T) {
		out := Page("kayak", domain.Failure("Internal server error. Please try again later.", apperrors.KindServerError))
		assert.Contains(t, out, "Search products: [kayak]")
		assert.Contains(t, out, AlertMarker+" Internal server error.")
		assert.Contains(t, out, RetryHint)
	})
}
