// Package listutil turns page query parameters into store windows and pager metadata.
package listutil

import (
	"net/url"
	"strconv"
)

// DefaultPerPage is the roster page size when none is requested.
const DefaultPerPage = 25

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 25, 50, 100}

// Params is the requested window, parsed from ?page= and ?per_page=.
type Params struct {
	Page    int // 1-indexed
	PerPage int
}

// Limit is the store LIMIT for this window.
func (p Params) Limit() int {
	return p.PerPage
}

// Offset is the store OFFSET for this window.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ParseParams extracts page and per_page from URL query values.
// POST: Page >= 1 and PerPage is one of PerPageOptions
func ParseParams(q url.Values) Params {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !allowedPerPage(perPage) {
		perPage = DefaultPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// Info carries pager metadata for rendering.
type Info struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewInfo computes pager metadata for a window over total rows.
// POST: TotalPages >= 1; Page is not clamped so an out-of-range request stays visible as an empty page
func NewInfo(p Params, total int) Info {
	perPage := p.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	return Info{Page: page, PerPage: perPage, Total: total, TotalPages: pages}
}

// HasPrev reports whether a previous page exists.
func (i Info) HasPrev() bool { return i.Page > 1 }

// HasNext reports whether a following page exists.
func (i Info) HasNext() bool { return i.Page < i.TotalPages }

// PrevPage is the previous page number, never below 1.
func (i Info) PrevPage() int {
	if i.Page <= 1 {
		return 1
	}
	return i.Page - 1
}

// NextPage is the following page number, never above TotalPages.
func (i Info) NextPage() int {
	if i.Page >= i.TotalPages {
		return i.TotalPages
	}
	return i.Page + 1
}

// StartRow is the 1-indexed first row on the page, or 0 when the page is empty.
func (i Info) StartRow() int {
	start := (i.Page-1)*i.PerPage + 1
	if i.Total == 0 || start > i.Total {
		return 0
	}
	return start
}

// EndRow is the 1-indexed last row on the page, or 0 when the page is empty.
func (i Info) EndRow() int {
	if i.StartRow() == 0 {
		return 0
	}
	end := i.Page * i.PerPage
	if end > i.Total {
		end = i.Total
	}
	return end
}

func allowedPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
