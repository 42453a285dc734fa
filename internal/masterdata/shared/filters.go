package shared

// ListFilters represents standard list filters for master data endpoints.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string

	IsActive *bool

	// Entity specific filters
	CompanyID  *int64
	OperatorID *int64
}

// Offset computes the SQL offset for the filter page.
func (f ListFilters) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.PageSize()
}

// PageSize returns the bounded page size.
func (f ListFilters) PageSize() int {
	if f.Limit < 1 {
		return DefaultLimit
	}
	if f.Limit > MaxLimit {
		return MaxLimit
	}
	return f.Limit
}
