package pagination

import (
	"strconv"
	"strings"
)

const (
	// DefaultPage is the page served when none (or garbage) is requested.
	DefaultPage = 1
	// DefaultPageSize is the standard page size when a size is not provided.
	DefaultPageSize = 25
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Page describes the pagination metadata returned by the document store.
type Page struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
	Pages    int   `json:"pages"`
}

// Normalize replaces non-positive values with the defaults.
func Normalize(p Params) Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// ParseParams converts raw query values into normalized params. Parse failures
// fall back to the defaults rather than surfacing an error.
func ParseParams(rawPage, rawPageSize string) Params {
	return Normalize(Params{
		Page:     parseOr(rawPage, DefaultPage),
		PageSize: parseOr(rawPageSize, DefaultPageSize),
	})
}

// Offset returns the zero-based row offset for the params.
func (p Params) Offset() int {
	n := Normalize(p)
	return (n.Page - 1) * n.PageSize
}

// NewPage builds the metadata for a page of the given total size.
func NewPage(p Params, total int64) Page {
	n := Normalize(p)
	pages := int(total / int64(n.PageSize))
	if total%int64(n.PageSize) != 0 {
		pages++
	}
	return Page{
		Page:     n.Page,
		PageSize: n.PageSize,
		Total:    total,
		Pages:    pages,
	}
}

// parseOr reads the leading integer of raw ("3abc" is 3, "2.5" is 2) and
// returns fallback when raw does not start with one.
func parseOr(raw string, fallback int) int {
	trimmed := strings.TrimSpace(raw)
	end := 0
	if end < len(trimmed) && (trimmed[end] == '-' || trimmed[end] == '+') {
		end++
	}
	digits := end
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == digits {
		return fallback
	}
	value, err := strconv.Atoi(trimmed[:end])
	if err != nil {
		return fallback
	}
	return value
}
