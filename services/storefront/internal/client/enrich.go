package client

import (
	"fmt"
	"math"

	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/domain"
)

// PalindromeDiscount is the percentage taken off every item of a palindrome
// search that the backend left undiscounted.
const PalindromeDiscount = 50

// PlaceholderImageURL is the deterministic image used for items without one.
func PlaceholderImageURL(id int) string {
	return fmt.Sprintf("https://picsum.photos/seed/product-%d/400/400", id)
}

// Enrich returns a copy of resp in which every item has an image and, for a
// palindrome query, every item without a discount gets PalindromeDiscount.
// Items that already carry a discount are left as they are, so applying
// Enrich twice equals applying it once.
func Enrich(resp *domain.SearchResponse) *domain.SearchResponse {
	if resp == nil {
		return nil
	}
	out := *resp
	out.Items = make([]domain.ProductItem, len(resp.Items))
	for i, item := range resp.Items {
		if resp.IsPalindrome && item.DiscountPercentage == nil {
			pct := PalindromeDiscount
			item.FinalPrice = math.Round(item.OriginalPrice*float64(100-pct)) / 100
			item.DiscountPercentage = &pct
		}
		if item.ImageURL == nil || *item.ImageURL == "" {
			url := PlaceholderImageURL(item.ID)
			item.ImageURL = &url
		}
		out.Items[i] = item
	}
	return &out
}
