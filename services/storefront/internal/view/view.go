// Package view renders the search page as plain text. Renderers are pure
// functions of the query and the view state.
package view

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/domain"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/format"
)

const (
	// AlertMarker prefixes the error region so screen readers and tests can
	// find it.
	AlertMarker = "[alert]"
	// RetryHint tells the user how to re-run the last search.
	RetryHint = "Type :retry to try again."

	titleMaxRunes       = 48
	descriptionMaxRunes = 90
	skeletonCards       = 3
)

// ClampInput limits raw input to the longest query the search API accepts.
func ClampInput(text string) string {
	if utf8.RuneCountInString(text) <= domain.MaxQueryLength {
		return text
	}
	return string([]rune(text)[:domain.MaxQueryLength])
}

// SearchBox renders the input line.
func SearchBox(query string) string {
	if query == "" {
		return "Search products: [type a product name]"
	}
	return fmt.Sprintf("Search products: [%s]", query)
}

// LoadingSkeleton renders placeholder cards while a request is in flight.
func LoadingSkeleton() string {
	var b strings.Builder
	b.WriteString("Searching...\n")
	for i := 0; i < skeletonCards; i++ {
		b.WriteString("  ░░░░░░░░░░░░░░░░░░░░░░░░\n")
		b.WriteString("  ░░░░░░░░░░░░\n")
	}
	return b.String()
}

// EmptyState renders a successful search without results.
func EmptyState(query string) string {
	return fmt.Sprintf("No products found for %q.\nTry a different search term.\n", query)
}

// ErrorAlert renders a failed search with its retry control.
func ErrorAlert(message string) string {
	return fmt.Sprintf("%s %s\n%s\n", AlertMarker, message, RetryHint)
}

// DiscountBadge renders the discount of item, or nothing without one.
func DiscountBadge(item domain.ProductItem) string {
	if !item.HasDiscount() {
		return ""
	}
	return fmt.Sprintf("[-%d%%]", *item.DiscountPercentage)
}

// PriceBlock renders the final price, followed by the original one when the
// item is discounted.
func PriceBlock(item domain.ProductItem) string {
	if !item.HasDiscount() || item.FinalPrice >= item.OriginalPrice {
		return format.CurrencyValue(item.FinalPrice)
	}
	return fmt.Sprintf("%s (was %s, save %d%%)",
		format.CurrencyValue(item.FinalPrice),
		format.CurrencyValue(item.OriginalPrice),
		format.DiscountPercentage(item.OriginalPrice, item.FinalPrice),
	)
}

// ProductCard renders one item.
func ProductCard(item domain.ProductItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s - %s", item.ID, format.ProductTitle(item.Title, titleMaxRunes), item.Brand)
	if badge := DiscountBadge(item); badge != "" {
		b.WriteString(" " + badge)
	}
	b.WriteByte('\n')
	if item.Description != "" {
		fmt.Fprintf(&b, "   %s\n", format.ProductDescription(item.Description, descriptionMaxRunes))
	}
	fmt.Fprintf(&b, "   %s\n", PriceBlock(item))
	if item.ImageURL != nil {
		fmt.Fprintf(&b, "   image: %s\n", *item.ImageURL)
	}
	return b.String()
}

// ResultGrid renders a non-empty result set.
func ResultGrid(resp *domain.SearchResponse) string {
	var b strings.Builder
	noun := "results"
	if resp.TotalItems == 1 {
		noun = "result"
	}
	fmt.Fprintf(&b, "%d %s for %q\n", resp.TotalItems, noun, resp.Query)
	if resp.IsPalindrome {
		b.WriteString("Palindrome search! Discounts applied.\n")
	}
	for _, item := range resp.Items {
		b.WriteByte('\n')
		b.WriteString(ProductCard(item))
	}
	return b.String()
}

// Page renders the whole screen for query and state.
func Page(query string, state domain.ViewState) string {
	var b strings.Builder
	b.WriteString(SearchBox(query))
	b.WriteString("\n\n")

	switch state.Status {
	case domain.StatusLoading:
		b.WriteString(LoadingSkeleton())
	case domain.StatusError:
		b.WriteString(ErrorAlert(state.Message))
	case domain.StatusSuccess:
		if state.Data == nil || len(state.Data.Items) == 0 {
			q := query
			if state.Data != nil {
				q = state.Data.Query
			}
			b.WriteString(EmptyState(q))
		} else {
			b.WriteString(ResultGrid(state.Data))
		}
	default:
		b.WriteString("Type a product name to start searching.\n")
	}
	return b.String()
}
