package domain

import (
	"math"
	"strings"
)

// ID is used across domain entities.
type ID int64

// Record is the persistence-layer shape of an entity: column name -> value.
type Record map[string]any

// Operation names the CRUD step a business rule is evaluated for.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// SortOrder is asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder accepts asc/desc in any case; empty input yields ok=true and "".
func ParseSortOrder(s string) (SortOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", true
	case "asc":
		return SortAsc, true
	case "desc":
		return SortDesc, true
	default:
		return "", false
	}
}

// Sort defines sorting preference.
type Sort struct {
	Field     string    `json:"field"`
	Direction SortOrder `json:"direction"`
}

// Filter operators understood by every repository.
const (
	OpEq     = "eq"
	OpNe     = "ne"
	OpLike   = "like"
	OpIn     = "in"
	OpGt     = "gt"
	OpGte    = "gte"
	OpLt     = "lt"
	OpLte    = "lte"
	OpIsNull = "isnull"
)

// Filter expresses a simple filter clause.
// Fields holds alternatives OR-ed together (e.g. a search over several columns);
// when empty, Field is used.
type Filter struct {
	Field  string   `json:"field"`
	Fields []string `json:"fields,omitempty"`
	Op     string   `json:"op"`
	Value  any      `json:"value"`
}

// Columns returns the columns the filter applies to.
func (f Filter) Columns() []string {
	if len(f.Fields) > 0 {
		return f.Fields
	}
	return []string{f.Field}
}

// Query is the inbound list request: paging, sorting and raw filter values.
type Query struct {
	Page    int               `json:"page" form:"page"`
	Limit   int               `json:"limit" form:"limit"`
	Sort    string            `json:"sort" form:"sort"`
	Order   string            `json:"order" form:"order"`
	Search  string            `json:"search" form:"search"`
	Filters map[string]string `json:"filters,omitempty"`
}

// Get returns a raw filter value, trimmed.
func (q Query) Get(key string) string {
	if q.Filters == nil {
		return ""
	}
	return strings.TrimSpace(q.Filters[key])
}

// PageRequest is the bounded page handed to a repository.
type PageRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Offset is the zero-based row offset of the page. It saturates at
// math.MaxInt instead of wrapping.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Page is the raw paginated result returned by a repository.
type Page struct {
	Records []Record
	Total   int
	Page    int
	Limit   int
}
