package pagination

// Meta contains metadata about a page of results.
type Meta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewMeta creates page metadata from a spec and total record count.
// CurrentPage is 1-based; a stale index past the last page is reported as-is
// with HasNext false.
func NewMeta(spec PageSpec, totalCount int) Meta {
	pageSize := spec.Size
	if pageSize < MinPageSize {
		pageSize = MinPageSize
	}

	totalPages := TotalPages(totalCount, pageSize)
	currentPage := spec.Index + 1

	return Meta{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalCount,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
}

// TotalPages returns ceil(total/size), or 0 for an empty set.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	pages := total / size
	if total%size > 0 {
		pages++
	}
	return pages
}
