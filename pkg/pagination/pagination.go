// Package pagination slices in-memory lists into pages described by the
// page and per_page query parameters.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPerPage fits the whole seeded catalog on the first page.
	DefaultPerPage = 24
	// MaxPerPage caps the page size a client may request.
	MaxPerPage = 100
)

// Params is a 1-based page request.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// DefaultParams returns the first page at the default size.
func DefaultParams() Params {
	return Params{Page: 1, PerPage: DefaultPerPage}
}

// Offset is the index of the first item on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// FromRequest reads page and per_page. Unparseable or non-positive values
// fall back to the defaults; per_page above MaxPerPage is clamped.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()
	q := r.URL.Query()

	if v, ok := positiveInt(q.Get("page")); ok {
		p.Page = v
	}
	if v, ok := positiveInt(q.Get("per_page")); ok {
		p.PerPage = min(v, MaxPerPage)
	}
	return p
}

func positiveInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// Result wraps one page of a list.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Paginate cuts the page described by params out of items. The returned Data
// is never nil, so it encodes as [] rather than null.
func Paginate[T any](items []T, params Params) Result[T] {
	total := len(items)
	start := min(params.Offset(), total)
	end := min(start+params.PerPage, total)

	page := make([]T, end-start)
	copy(page, items[start:end])

	pages := (total + params.PerPage - 1) / params.PerPage
	return Result[T]{
		Data:       page,
		TotalCount: total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: pages,
		HasNext:    params.Page < pages,
		HasPrev:    params.Page > 1,
	}
}
