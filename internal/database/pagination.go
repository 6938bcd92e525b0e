package database

// DefaultPageSize is the number of records shown per catalog page.
const DefaultPageSize = 10

// Pagination describes one page of a listing. Out-of-range page
// requests are clamped to the nearest valid page rather than treated
// as errors, so callers always get a well-defined page back.
type Pagination struct {
	Page         int   `json:"page"`
	PageSize     int   `json:"page_size"`
	TotalRecords int64 `json:"total_records"`
	TotalPages   int   `json:"total_pages"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

// NewPagination computes page metadata for the given total, clamping
// page into [1, TotalPages]. An empty listing still reports one (empty)
// page so templates always have a current page to render.
func NewPagination(page, pageSize int, total int64) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Pagination{
		Page:         page,
		PageSize:     pageSize,
		TotalRecords: total,
		TotalPages:   totalPages,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}
}

// Offset returns the record offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}
