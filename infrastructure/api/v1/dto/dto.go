// Package dto defines the wire types for the v1 API.
package dto

// Meta is the pagination meta block.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// Links holds pagination links.
type Links struct {
	Self string  `json:"self"`
	Next *string `json:"next,omitempty"`
	Prev *string `json:"prev,omitempty"`
}
