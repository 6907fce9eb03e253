package pagination

import (
	"bitebuddy-backend/internal/pkg/apperrors"
)

const (
	DefaultListingLimit = 12
	DefaultOrderLimit   = 10
	MaxLimit            = 100
)

// Meta is returned alongside every paginated result. Never stored.
type Meta struct {
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int   `json:"totalPages"`
	HasPrevPage  bool  `json:"hasPrevPage"`
	HasNextPage  bool  `json:"hasNextPage"`
}

// Page is a validated page request.
type Page struct {
	Page  int
	Limit int
}

// Offset is the number of rows to skip. Only meaningful when PastEnd is false.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PastEnd reports whether the page starts after the last of total rows. It compares
// page numbers so a huge page cannot overflow the offset.
func (p Page) PastEnd(total int64) bool {
	lastPage := (total + int64(p.Limit) - 1) / int64(p.Limit)
	return int64(p.Page-1) >= lastPage
}

// Normalize clamps page to at least 1 and checks limit. A zero limit means
// defaultLimit.
func Normalize(page, limit, defaultLimit int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return Page{}, apperrors.InvalidInput("Invalid pagination parameters", map[string]interface{}{
			"limit": "must be between 1 and 100",
		})
	}
	return Page{Page: page, Limit: limit}, nil
}

// NewMeta computes pagination metadata for total matching rows.
func NewMeta(p Page, total int64) Meta {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Meta{
		CurrentPage:  p.Page,
		ItemsPerPage: p.Limit,
		TotalItems:   total,
		TotalPages:   totalPages,
		HasPrevPage:  p.Page > 1,
		HasNextPage:  p.Page < totalPages,
	}
}
