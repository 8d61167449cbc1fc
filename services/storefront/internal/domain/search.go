package domain

import (
	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
)

// MaxQueryLength is the longest query, in runes, that may be sent to the
// search API.
const MaxQueryLength = 255

// ProductItem is one search hit as rendered by the storefront.
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

// HasDiscount reports whether the item carries a discount.
func (p ProductItem) HasDiscount() bool {
	return p.DiscountPercentage != nil
}

// SearchResponse is a validated answer from the search API.
type SearchResponse struct {
	Query        string        `json:"query"`
	IsPalindrome bool          `json:"isPalindrome"`
	Items        []ProductItem `json:"items"`
	TotalItems   int           `json:"totalItems"`
}

// Status is the active variant of a ViewState.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ViewState is what the page renders. Data is set only for StatusSuccess;
// Message and Kind only for StatusError.
type ViewState struct {
	Status  Status
	Data    *SearchResponse
	Message string
	Kind    apperrors.Kind
}

// Idle is the state before any search and after a reset.
func Idle() ViewState {
	return ViewState{Status: StatusIdle}
}

// Loading is the state while a request is in flight.
func Loading() ViewState {
	return ViewState{Status: StatusLoading}
}

// Success holds a completed search.
func Success(resp *SearchResponse) ViewState {
	return ViewState{Status: StatusSuccess, Data: resp}
}

// Failure holds a user-facing message for a failed search.
func Failure(message string, kind apperrors.Kind) ViewState {
	return ViewState{Status: StatusError, Message: message, Kind: kind}
}
