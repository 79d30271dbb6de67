// Package v1 provides the v1 API routes.
package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/campuslist/campuslist/domain/store"
	"github.com/campuslist/campuslist/infrastructure/api/v1/dto"
)

// PaginationParams holds pagination parameters parsed from query strings.
type PaginationParams struct {
	page     int
	pageSize int
}

// DefaultPageSize is the default number of items per page.
const DefaultPageSize = 20

// MaxPageSize is the maximum allowed page size.
const MaxPageSize = 100

// NewPaginationParams creates pagination params with defaults.
func NewPaginationParams() PaginationParams {
	return PaginationParams{
		page:     1,
		pageSize: DefaultPageSize,
	}
}

// ParsePagination parses pagination parameters from an HTTP request.
// Default: page=1, page_size=20. Max page_size: 100.
func ParsePagination(r *http.Request) PaginationParams {
	params := NewPaginationParams()

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page >= 1 {
			params.page = page
		}
	}

	if sizeStr := r.URL.Query().Get("page_size"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil && size >= 1 {
			params.pageSize = size
			if params.pageSize > MaxPageSize {
				params.pageSize = MaxPageSize
			}
		}
	}

	return params
}

// Page returns the page number (1-indexed).
func (p PaginationParams) Page() int { return p.page }

// PageSize returns the number of items per page.
func (p PaginationParams) PageSize() int { return p.pageSize }

// Offset returns the row offset for the current page.
func (p PaginationParams) Offset() int { return (p.page - 1) * p.pageSize }

// Options returns the store options for the current page.
func (p PaginationParams) Options() []store.Option {
	return store.WithPagination(p.pageSize, p.Offset())
}

// PaginationMeta builds the meta block for a paginated response.
func PaginationMeta(p PaginationParams, total int64) dto.Meta {
	totalPages := int(total) / p.pageSize
	if int(total)%p.pageSize != 0 {
		totalPages++
	}
	return dto.Meta{
		Total:      total,
		Page:       p.page,
		PageSize:   p.pageSize,
		TotalPages: totalPages,
	}
}

// PaginationLinks builds self/next/prev links for a paginated response.
func PaginationLinks(r *http.Request, p PaginationParams, total int64) dto.Links {
	link := func(page int) string {
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("page_size", strconv.Itoa(p.pageSize))
		return fmt.Sprintf("%s?%s", r.URL.Path, q.Encode())
	}

	links := dto.Links{Self: link(p.page)}
	if int64(p.page*p.pageSize) < total {
		next := link(p.page + 1)
		links.Next = &next
	}
	if p.page > 1 {
		prev := link(p.page - 1)
		links.Prev = &prev
	}
	return links
}
