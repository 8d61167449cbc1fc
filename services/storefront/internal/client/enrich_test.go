package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/domain"
)

func intPtr(i int) *int { return &i }
func strPtr(s string) *string { return &s }

func TestEnrich_PalindromeDiscount(t *testing.T) {
	resp := &domain.SearchResponse{
		Query:        "abba",
		IsPalindrome: true,
		TotalItems:   1,
		Items: []domain.ProductItem{
			{ID: 1, OriginalPrice: 500, FinalPrice: 500},
		},
	}

	got := Enrich(resp)

	require.Len(t, got.Items, 1)
	assert.Equal(t, 250.0, got.Items[0].FinalPrice)
	require.NotNil(t, got.Items[0].DiscountPercentage)
	assert.Equal(t, PalindromeDiscount, *got.Items[0].DiscountPercentage)
	// The input is left untouched.
	assert.Equal(t, 500.0, resp.Items[0].FinalPrice)
	assert.Nil(t, resp.Items[0].DiscountPercentage)
}

func TestEnrich_Idempotent(t *testing.T) {
	resp := &domain.SearchResponse{
		IsPalindrome: true,
		TotalItems:   2,
		Items: []domain.ProductItem{
			{ID: 1, OriginalPrice: 1299, FinalPrice: 1299},
			{ID: 2, OriginalPrice: 8499, FinalPrice: 4249.5, DiscountPercentage: intPtr(50)},
		},
	}

	once := Enrich(resp)
	twice := Enrich(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, 649.5, twice.Items[0].FinalPrice)
	assert.Equal(t, 4249.5, twice.Items[1].FinalPrice)
}

func TestEnrich_KeepsBackendDiscount(t *testing.T) {
	resp := &domain.SearchResponse{
		IsPalindrome: true,
		TotalItems:   1,
		Items: []domain.ProductItem{
			{ID: 3, OriginalPrice: 100, FinalPrice: 80, DiscountPercentage: intPtr(20)},
		},
	}

	got := Enrich(resp)

	assert.Equal(t, 80.0, got.Items[0].FinalPrice)
	assert.Equal(t, 20, *got.Items[0].DiscountPercentage)
}

func TestEnrich_NotPalindrome(t *testing.T) {
	resp := &domain.SearchResponse{
		IsPalindrome: false,
		TotalItems:   1,
		Items: []domain.ProductItem{
			{ID: 4, OriginalPrice: 15999, FinalPrice: 15999, ImageURL: strPtr("https://img/4.jpg")},
		},
	}

	got := Enrich(resp)

	assert.Equal(t, 15999.0, got.Items[0].FinalPrice)
	assert.Nil(t, got.Items[0].DiscountPercentage)
	assert.Equal(t, "https://img/4.jpg", *got.Items[0].ImageURL)
}

func TestEnrich_PlaceholderImage(t *testing.T) {
	resp := &domain.SearchResponse{
		TotalItems: 2,
		Items: []domain.ProductItem{
			{ID: 7},
			{ID: 8, ImageURL: strPtr("")},
		},
	}

	got := Enrich(resp)

	assert.Equal(t, "https://picsum.photos/seed/product-7/400/400", *got.Items[0].ImageURL)
	assert.Equal(t, "https://picsum.photos/seed/product-8/400/400", *got.Items[1].ImageURL)
	assert.Nil(t, resp.Items[0].ImageURL)
}

func TestEnrich_Empty(t *testing.T) {
	assert.Nil(t, Enrich(nil))

	got := Enrich(&domain.SearchResponse{Query: "xyz", Items: []domain.ProductItem{}})
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}
