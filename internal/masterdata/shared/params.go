package shared

import (
	"net/http"
	"strconv"
)

// FiltersFromQuery reads the standard list filters from a request.
func FiltersFromQuery(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = DefaultPage
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	filters := ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  q.Get("search"),
		SortBy:  q.Get("sort"),
		SortDir: q.Get("dir"),
	}
	if raw := q.Get("active"); raw != "" {
		active := raw == "true" || raw == "1"
		filters.IsActive = &active
	}
	if raw := q.Get("company_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.CompanyID = &id
		}
	}
	if raw := q.Get("operator_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.OperatorID = &id
		}
	}
	return filters
}
