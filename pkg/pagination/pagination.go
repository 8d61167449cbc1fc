package pagination

import (
	"net/http"
	"strconv"
)

// MaxLimit caps the page size a caller may request.
const MaxLimit = 100

// Params holds optional pagination parameters. A zero Limit means "no
// pagination": every item is returned.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// All returns parameters that select every item.
func All() Params {
	return Params{Page: 1}
}

// FromRequest reads the optional "page" and "limit" query parameters.
// Invalid or out-of-range values fall back to the defaults.
func FromRequest(r *http.Request) Params {
	p := All()
	q := r.URL.Query()

	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.Limit = min(v, MaxLimit)
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}

	if p.Limit > 0 {
		p.Offset = (p.Page - 1) * p.Limit
	}
	return p
}

// Paged reports whether p selects a window rather than every item.
func (p Params) Paged() bool {
	return p.Limit > 0
}

// Apply returns the window of items selected by p. The result never aliases
// beyond len(items) and is empty (not nil) past the last page.
func Apply[T any](items []T, p Params) []T {
	if !p.Paged() {
		return items
	}
	if p.Offset >= len(items) {
		return []T{}
	}
	end := min(p.Offset+p.Limit, len(items))
	return items[p.Offset:end]
}

// TotalPages returns the number of pages needed for total items.
func TotalPages(total int, p Params) int {
	if !p.Paged() {
		if total == 0 {
			return 0
		}
		return 1
	}
	pages := total / p.Limit
	if total%p.Limit > 0 {
		pages++
	}
	return pages
}
