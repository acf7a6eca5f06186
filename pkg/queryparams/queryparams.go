// Package queryparams holds the shared list/pagination plumbing used by the
// staff panel endpoints.
package queryparams

import "strings"

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
	DefaultOrderBy = "desc"
)

// ListParams are the common query string parameters of list endpoints.
type ListParams struct {
	Page    int    `query:"page" json:"page"`
	PerPage int    `query:"per_page" json:"perPage"`
	SortBy  string `query:"sort_by" json:"sortBy"`
	OrderBy string `query:"order_by" json:"orderBy"`
	Status  string `query:"status" json:"status,omitempty"`
	Search  string `query:"q" json:"search,omitempty"`
}

// DefaultListParams returns params sorted by the given column, newest first.
func DefaultListParams(sortBy string) ListParams {
	return ListParams{
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
		SortBy:  sortBy,
		OrderBy: DefaultOrderBy,
	}
}

// Validate clamps the params into their allowed ranges in place.
func (p *ListParams) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	p.OrderBy = strings.ToLower(p.OrderBy)
	if p.OrderBy != "asc" && p.OrderBy != "desc" {
		p.OrderBy = DefaultOrderBy
	}
}

// CalculateOffset returns the row offset for the current page.
func (p ListParams) CalculateOffset() int {
	return (p.Page - 1) * p.PerPage
}

// PaginationMeta describes the window a PaginatedResult covers.
type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

// PaginatedResult is the standard list endpoint payload.
type PaginatedResult struct {
	Data any            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// CalculateTotalPages returns the page count for a total row count.
func CalculateTotalPages(totalItems int64, perPage int) int {
	if perPage <= 0 || totalItems <= 0 {
		return 0
	}
	pages := int(totalItems / int64(perPage))
	if totalItems%int64(perPage) != 0 {
		pages++
	}
	return pages
}
