package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
)

func TestSchemaValidator_Valid(t *testing.T) {
	raw := []byte(`{"query":"noon","isPalindrome":true,"totalItems":3,"items":[
		{"id":10,"title":"Noon Desk Lamp","brand":"Lumen","description":"LED","originalPrice":749,"finalPrice":374.5,"discountPercentage":50,"imageUrl":"https://img/10.jpg"},
		{"id":11,"title":"Free","brand":"b","description":"","originalPrice":0,"finalPrice":0}]}`)

	resp, err := SchemaValidator{}.Validate(raw)

	require.NoError(t, err)
	assert.Equal(t, "noon", resp.Query)
	assert.True(t, resp.IsPalindrome)
	assert.Equal(t, 3, resp.TotalItems)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 50, *resp.Items[0].DiscountPercentage)
	assert.Equal(t, "https://img/10.jpg", *resp.Items[0].ImageURL)
	assert.Nil(t, resp.Items[1].DiscountPercentage)
	assert.Nil(t, resp.Items[1].ImageURL)
	assert.Empty(t, resp.Items[1].Description)
}

func TestSchemaValidator_Invalid(t *testing.T) {
	tests := map[string]string{
		"null":               `null`,
		"truncated":          `{"query":"x",`,
		"missing query":      `{"isPalindrome":false,"totalItems":0,"items":[]}`,
		"missing palindrome": `{"query":"x","totalItems":0,"items":[]}`,
		"null items":         `{"query":"x","isPalindrome":false,"totalItems":0,"items":null}`,
		"negative total":     `{"query":"x","isPalindrome":false,"totalItems":-1,"items":[]}`,
		"more items than total": `{"query":"x","isPalindrome":false,"totalItems":0,"items":[
			{"id":1,"title":"t","brand":"b","description":"d","originalPrice":1,"finalPrice":1}]}`,
		"item id is string": `{"query":"x","isPalindrome":false,"totalItems":1,"items":[
			{"id":"1","title":"t","brand":"b","description":"d","originalPrice":1,"finalPrice":1}]}`,
		"item missing title": `{"query":"x","isPalindrome":false,"totalItems":1,"items":[
			{"id":1,"brand":"b","description":"d","originalPrice":1,"finalPrice":1}]}`,
		"negative price": `{"query":"x","isPalindrome":false,"totalItems":1,"items":[
			{"id":1,"title":"t","brand":"b","description":"d","originalPrice":-1,"finalPrice":1}]}`,
		"discount above hundred": `{"query":"x","isPalindrome":false,"totalItems":1,"items":[
			{"id":1,"title":"t","brand":"b","description":"d","originalPrice":1,"finalPrice":1,"discountPercentage":150}]}`,
		"image not a string": `{"query":"x","isPalindrome":false,"totalItems":1,"items":[
			{"id":1,"title":"t","brand":"b","description":"d","originalPrice":1,"finalPrice":1,"imageUrl":7}]}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := SchemaValidator{}.Validate([]byte(raw))
			require.Error(t, err)
			assert.Equal(t, apperrors.KindParse, apperrors.KindOf(err))
			assert.ErrorIs(t, err, apperrors.ErrParse)
		})
	}
}

func TestSchemaValidator_ReportsField(t *testing.T) {
	_, err := SchemaValidator{}.Validate([]byte(`{"query":"x","isPalindrome":false,"totalItems":1,"items":[
		{"id":1,"brand":"b","description":"d","originalPrice":1,"finalPrice":1}]}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "items[0].title")
}
