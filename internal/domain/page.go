package domain

// Trip listing defaults. Activities are returned whole per trip, so
// pagination applies to trips only.
const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// PaginationParams is a normalized page/limit pair for trip listing.
// Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams turns optional query values into usable pagination.
// Absent or out-of-range values fall back to page 1, limit 20, and the
// limit never exceeds 100.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: defaultPage, Limit: defaultLimit}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, maxLimit)
	}
	return p
}

// Offset is the zero-based row offset matching Page and Limit, for use in a
// SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
