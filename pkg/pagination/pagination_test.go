package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAll(t *testing.T) {
	p := All()
	assert.Equal(t, 1, p.Page)
	assert.False(t, p.Paged())
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  Params
	}{
		{query: "", want: Params{Page: 1}},
		{query: "q=abba", want: Params{Page: 1}},
		{query: "limit=5", want: Params{Page: 1, Limit: 5}},
		{query: "limit=5&page=3", want: Params{Page: 3, Limit: 5, Offset: 10}},
		{query: "limit=1000", want: Params{Page: 1, Limit: MaxLimit}},
		{query: "limit=0&page=2", want: Params{Page: 2}},
		{query: "limit=-4&page=-1", want: Params{Page: 1}},
		{query: "limit=abc&page=x", want: Params{Page: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/products/search?"+tt.query, nil)
			assert.Equal(t, tt.want, FromRequest(r))
		})
	}
}

func TestApply(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, items, Apply(items, All()))
	assert.Equal(t, []int{1, 2}, Apply(items, Params{Page: 1, Limit: 2, Offset: 0}))
	assert.Equal(t, []int{5}, Apply(items, Params{Page: 3, Limit: 2, Offset: 4}))
	assert.Equal(t, []int{}, Apply(items, Params{Page: 4, Limit: 2, Offset: 6}))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, All()))
	assert.Equal(t, 1, TotalPages(12, All()))
	assert.Equal(t, 3, TotalPages(5, Params{Limit: 2}))
	assert.Equal(t, 2, TotalPages(4, Params{Limit: 2}))
}
