// Package pagination parses and normalizes list query parameters.
package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit within int for any limit up to MaxLimit.
	MaxPage = math.MaxInt / MaxLimit
)

// Params is a normalized list request.
type Params struct {
	Page   int
	Limit  int
	Search string
	SortBy string
	Desc   bool
}

// Offset is (page-1)*limit. Page and limit are clamped to their bounds first,
// so the result is never negative.
func (p Params) Offset() int {
	page := min(max(p.Page, 1), MaxPage)
	limit := min(max(p.Limit, 0), MaxLimit)
	return (page - 1) * limit
}

// Normalize applies defaults and bounds. Missing page/limit take the defaults;
// explicit values below 1 are clamped to 1; page is capped at MaxPage and
// limit at MaxLimit.
func Normalize(raw map[string]string) Params {
	p := Params{
		Page:   parseInt(raw["page"], DefaultPage),
		Limit:  parseInt(raw["limit"], DefaultLimit),
		Search: strings.TrimSpace(raw["query"]),
		SortBy: strings.TrimSpace(raw["sortBy"]),
		Desc:   strings.EqualFold(strings.TrimSpace(raw["sortType"]), "desc"),
	}
	p.Page = min(max(p.Page, 1), MaxPage)
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// FromValues normalizes the page, limit, query, sortBy and sortType query parameters.
func FromValues(v url.Values) Params {
	raw := make(map[string]string, 5)
	for _, k := range []string{"page", "limit", "query", "sortBy", "sortType"} {
		raw[k] = v.Get(k)
	}
	return Normalize(raw)
}

// Column resolves a client sort field against a whitelist of SQL columns.
// Unknown or empty fields resolve to fallback.
func (p Params) Column(allowed map[string]string, fallback string) string {
	if col, ok := allowed[p.SortBy]; ok {
		return col
	}
	return fallback
}

// Direction is the SQL keyword for the sort direction.
func (p Params) Direction() string {
	if p.Desc {
		return "DESC"
	}
	return "ASC"
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Page is the paginated list payload.
type Page[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// NewPage builds a Page, never returning a nil Items slice.
func NewPage[T any](items []T, p Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Page: p.Page, Limit: p.Limit, Total: total}
}
