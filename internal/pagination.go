package internal

import (
	"net/http"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is the skip/limit window shared by list endpoints.
type Pagination struct {
	Skip  int
	Limit int
}

// Normalize clamps the window: negative skip becomes 0, a missing or
// out-of-range limit becomes the default or the maximum.
func (p Pagination) Normalize() Pagination {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// PaginationFromRequest reads skip and limit query parameters, falling back
// to defaults on absent or malformed values.
func PaginationFromRequest(r *http.Request) Pagination {
	var p Pagination
	if v, err := strconv.Atoi(r.URL.Query().Get("skip")); err == nil {
		p.Skip = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		p.Limit = v
	}
	return p.Normalize()
}
