// Package pagination parses page requests and shapes paged responses.
package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ErrInvalidPage indicates a page or page size that is not a positive integer.
var ErrInvalidPage = errors.New("page and pageSize must be positive integers")

// PageRequest is a 1-based page request.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Offset returns the number of rows to skip.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// ParsePageRequest reads page and pageSize (or its alias limit) from values.
// Absent parameters take defaults; present ones must be positive integers.
// Page sizes above the configured maximum are clamped.
func ParsePageRequest(values url.Values, cfg Config) (PageRequest, error) {
	req := PageRequest{Page: 1, PageSize: cfg.DefaultPageSize}

	if err := parsePositive(values, "page", &req.Page); err != nil {
		return req, err
	}

	sizeKey := "pageSize"
	if !values.Has(sizeKey) {
		sizeKey = "limit"
	}
	if err := parsePositive(values, sizeKey, &req.PageSize); err != nil {
		return req, err
	}

	req.PageSize = min(req.PageSize, cfg.MaxPageSize)
	return req, nil
}

func parsePositive(values url.Values, key string, dst *int) error {
	if !values.Has(key) {
		return nil
	}

	n, err := strconv.Atoi(values.Get(key))
	if err != nil || n < 1 {
		return fmt.Errorf("%w: %s=%q", ErrInvalidPage, key, values.Get(key))
	}

	*dst = n
	return nil
}

// TotalPages returns ceil(count / pageSize), or 0 for an empty set.
func TotalPages(count, pageSize int) int {
	if pageSize < 1 || count < 1 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// PageResult holds a page of data with its paging metadata.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// NewPageResult creates a PageResult. A nil data slice is encoded as [].
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}
