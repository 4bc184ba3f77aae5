package drilldown

import (
	"trade-kpi-lab/internal/domain"
)

// DefaultPageSize is used when a request asks for an unsupported size.
const DefaultPageSize = 25

// PageSizes are the supported record page sizes.
var PageSizes = []int{10, 25, 50, 100}

// PageRequest selects one page of drill-down records. Page is 1-based.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// Paginate slices records into the requested page. Unsupported sizes fall
// back to DefaultPageSize and out-of-range pages are clamped.
func Paginate(records []domain.TransactionRecord, req PageRequest) domain.RecordPage {
	size := req.PageSize
	if !ValidPageSize(size) {
		size = DefaultPageSize
	}

	total := len(records)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	out := make([]domain.TransactionRecord, end-start)
	copy(out, records[start:end])

	return domain.RecordPage{
		Records:      out,
		Page:         page,
		PageSize:     size,
		TotalPages:   pages,
		TotalRecords: total,
	}
}
