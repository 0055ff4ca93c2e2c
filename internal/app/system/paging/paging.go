// internal/app/system/paging/paging.go

// Package paging implements offset pagination for list endpoints: a
// validated page/limit pair parsed from the query string and the meta
// block the API returns next to every paginated list.
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

const (
	// DefaultLimit is used when the client omits or botches the limit param.
	DefaultLimit = 20

	// MaxLimit caps page size regardless of what the client asks for.
	MaxLimit = 100
)

// Params is a validated page/limit pair.
type Params struct {
	Page  int
	Limit int
}

// Parse reads ?page= and ?limit= from the request. Out-of-range or
// unparseable values fall back to the defaults rather than erroring;
// pagination input is never worth a 400.
func Parse(r *http.Request) Params {
	p := Params{Page: 1, Limit: DefaultLimit}
	if n, err := strconv.Atoi(query.Get(r, "page")); err == nil && n >= 1 {
		p.Page = n
	}
	if n, err := strconv.Atoi(query.Get(r, "limit")); err == nil && n >= 1 {
		if n > MaxLimit {
			n = MaxLimit
		}
		p.Limit = n
	}
	return p
}

// Skip converts the page number into a document offset for Find().SetSkip.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// Limit64 returns the limit as int64 for Find().SetLimit.
func (p Params) Limit64() int64 {
	return int64(p.Limit)
}

// Meta is the pagination block included next to every paginated list.
type Meta struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// NewMeta derives the meta block from the request params and a total count.
// A zero total yields zero pages and no next page; a page number past the
// end still reports HasPrevPage so clients can navigate back.
func NewMeta(p Params, total int64) Meta {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Meta{
		CurrentPage:  p.Page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: p.Limit,
		HasNextPage:  p.Page < pages,
		HasPrevPage:  p.Page > 1,
	}
}

// List pairs a page of items with its meta block for the response envelope.
type List struct {
	Items any  `json:"items"`
	Meta  Meta `json:"pagination"`
}
