// Package pagination pages the append-only logs (valuation history and
// activity) that the API lists newest first.
package pagination

import (
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is the page and page_size query pair.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalized returns p with defaults applied and page_size capped.
func (p PageRequest) Normalized() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

func (p PageRequest) offset() int { return (p.Page - 1) * p.PageSize }

// PageResponse is one page of log entries plus totals.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// NewPageResponse builds the response for data taken from page of a log
// holding totalItems entries. Data is never null on the wire.
func NewPageResponse[T any](data []T, page, pageSize int, totalItems int64) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	}
	return PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// Find counts the rows matched by query and loads the requested page in
// order. query must already carry its model and filters.
func Find[T any](query *gorm.DB, req PageRequest, order string) (*PageResponse[T], error) {
	req = req.Normalized()

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []T
	if err := query.Order(order).Offset(req.offset()).Limit(req.PageSize).Find(&rows).Error; err != nil {
		return nil, err
	}
	page := NewPageResponse(rows, req.Page, req.PageSize, total)
	return &page, nil
}
