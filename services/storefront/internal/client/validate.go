package client

import (
	"bytes"
	"fmt"

	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/validator"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/domain"
)

// Validator turns a raw 2xx body into a SearchResponse. Implementations
// report malformed payloads as a ParseError AppError.
type Validator interface {
	Validate(raw []byte) (*domain.SearchResponse, error)
}

// SchemaValidator checks the body against the search response schema using
// struct tags. Pointer fields make missing keys distinguishable from zero
// values.
type SchemaValidator struct{}

type wireItem struct {
	ID                 *int     `json:"id" validate:"required"`
	Title              *string  `json:"title" validate:"required"`
	Brand              *string  `json:"brand" validate:"required"`
	Description        *string  `json:"description" validate:"required"`
	OriginalPrice      *float64 `json:"originalPrice" validate:"required,gte=0"`
	FinalPrice         *float64 `json:"finalPrice" validate:"required,gte=0"`
	DiscountPercentage *int     `json:"discountPercentage" validate:"omitempty,min=0,max=100"`
	ImageURL           *string  `json:"imageUrl"`
}

type wireResponse struct {
	Query        *string    `json:"query" validate:"required"`
	IsPalindrome *bool      `json:"isPalindrome" validate:"required"`
	Items        []wireItem `json:"items" validate:"required,dive"`
	TotalItems   *int       `json:"totalItems" validate:"required,gte=0"`
}

// Validate implements Validator.
func (SchemaValidator) Validate(raw []byte) (*domain.SearchResponse, error) {
	var wire wireResponse
	if err := validator.DecodeAndValidate(bytes.NewReader(raw), &wire); err != nil {
		return nil, apperrors.Parse(fmt.Errorf("invalid search response: %w", err))
	}
	if len(wire.Items) > *wire.TotalItems {
		return nil, apperrors.Parse(fmt.Errorf("invalid search response: %d items exceed totalItems %d", len(wire.Items), *wire.TotalItems))
	}

	resp := &domain.SearchResponse{
		Query:        *wire.Query,
		IsPalindrome: *wire.IsPalindrome,
		Items:        make([]domain.ProductItem, len(wire.Items)),
		TotalItems:   *wire.TotalItems,
	}
	for i, it := range wire.Items {
		resp.Items[i] = domain.ProductItem{
			ID:                 *it.ID,
			Title:              *it.Title,
			Brand:              *it.Brand,
			Description:        *it.Description,
			OriginalPrice:      *it.OriginalPrice,
			FinalPrice:         *it.FinalPrice,
			DiscountPercentage: it.DiscountPercentage,
			ImageURL:           it.ImageURL,
		}
	}
	return resp, nil
}
