package domain

// PaginationInfo is the outward pagination metadata.
type PaginationInfo struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// TotalPages is ceil(total/limit); a non-positive limit yields zero pages.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// NewPaginationInfo derives the metadata from a repository's raw totals.
// HasNextPage and HasPrevPage are never taken from anywhere else.
func NewPaginationInfo(total, page, limit int) PaginationInfo {
	totalPages := TotalPages(total, limit)
	return PaginationInfo{
		Page:        page,
		Limit:       limit,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
