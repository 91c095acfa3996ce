package repositories

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"dashboard-api/internal/domain"
)

// MemoryRepository is a mutex-guarded Repository used by tests and the
// memory storage driver. Relations are not resolved; include is ignored.
type MemoryRepository struct {
	Table *Table
	Now   func() time.Time

	mu   sync.Mutex
	seq  int64
	rows map[domain.ID]domain.Record
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository(table *Table) *MemoryRepository {
	return &MemoryRepository{Table: table, Now: time.Now, rows: map[domain.ID]domain.Record{}}
}

func (r *MemoryRepository) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Len returns the number of stored rows regardless of scope.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *MemoryRepository) Create(ctx context.Context, data domain.Record, _ []string, scope domain.DataScope) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError{Op: "insert", Err: err}
	}
	row, err := r.Table.prepareInsert(data, scope, r.now())
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	row[r.Table.PrimaryKey] = r.seq
	r.rows[domain.ID(r.seq)] = row
	return r.project(row), nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id domain.ID, _ []string, scope domain.DataScope) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError{Op: "select", Err: err}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || !r.Table.matches(row, scope) {
		return nil, nil
	}
	return r.project(row), nil
}

func (r *MemoryRepository) Update(ctx context.Context, id domain.ID, data domain.Record, _ []string, scope domain.DataScope) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError{Op: "update", Err: err}
	}
	set, err := r.Table.prepareUpdate(data, scope, r.now())
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || !r.Table.matches(row, scope) {
		return nil, domain.NotFoundError{Resource: r.Table.resource()}
	}
	next := row.Clone()
	for k, v := range set {
		next[k] = v
	}
	r.rows[id] = next
	return r.project(next), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id domain.ID, scope domain.DataScope) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreError{Op: "delete", Err: err}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || !r.Table.matches(row, scope) {
		return domain.NotFoundError{Resource: r.Table.resource()}
	}
	delete(r.rows, id)
	return nil
}

func (r *MemoryRepository) FindManyWithPagination(ctx context.Context, filters []domain.Filter, s domain.Sort, _ []string, page domain.PageRequest, scope domain.DataScope) (domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return domain.Page{}, domain.StoreError{Op: "select", Err: err}
	}
	if page.Page < 1 || page.Limit < 1 {
		return domain.Page{}, domain.ValidationError{Field: "page", Msg: "page and limit must be at least 1"}
	}
	sortCol, err := r.Table.sortColumn(s.Field)
	if err != nil {
		return domain.Page{}, err
	}
	for _, f := range filters {
		if err := r.Table.checkFilter(f); err != nil {
			return domain.Page{}, err
		}
	}

	r.mu.Lock()
	matched := []domain.Record{}
	for _, row := range r.rows {
		if !r.Table.matches(row, scope) || !matchesAll(row, filters) {
			continue
		}
		matched = append(matched, row)
	}
	r.mu.Unlock()

	pk := r.Table.PrimaryKey
	asc := s.Direction == domain.SortAsc
	sort.SliceStable(matched, func(i, j int) bool {
		c := compare(matched[i][sortCol], matched[j][sortCol])
		if c == 0 {
			c = compare(matched[i][pk], matched[j][pk])
		}
		if asc {
			return c < 0
		}
		return c > 0
	})

	total := len(matched)
	start := min(page.Offset(), total)
	end := min(start+page.Limit, total)
	out := make([]domain.Record, 0, end-start)
	for _, row := range matched[start:end] {
		out = append(out, r.project(row))
	}
	return domain.Page{Records: out, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

// project returns a copy restricted to the table's selectable columns.
func (r *MemoryRepository) project(row domain.Record) domain.Record {
	out := make(domain.Record, len(r.Table.Columns))
	for _, c := range r.Table.Columns {
		out[c] = row[c]
	}
	return out
}

func matchesAll(row domain.Record, filters []domain.Filter) bool {
	for _, f := range filters {
		ok := false
		for _, col := range f.Columns() {
			if matchOne(row[col], f.Op, f.Value) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func matchOne(have any, op string, want any) bool {
	switch op {
	case domain.OpIsNull:
		isNull, _ := want.(bool)
		return (have == nil) == isNull
	case domain.OpLike:
		if have == nil {
			return false
		}
		return strings.Contains(strings.ToLower(fmt.Sprint(have)), strings.ToLower(fmt.Sprint(want)))
	case domain.OpIn:
		rv := reflect.ValueOf(want)
		if rv.Kind() != reflect.Slice {
			return compare(have, want) == 0
		}
		for i := 0; i < rv.Len(); i++ {
			if compare(have, rv.Index(i).Interface()) == 0 {
				return true
			}
		}
		return false
	}
	if have == nil {
		return op == domain.OpNe && want != nil
	}
	c := compare(have, want)
	switch op {
	case domain.OpNe:
		return c != 0
	case domain.OpGt:
		return c > 0
	case domain.OpGte:
		return c >= 0
	case domain.OpLt:
		return c < 0
	case domain.OpLte:
		return c <= 0
	}
	return c == 0
}

// compare orders two column values; nil sorts first.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		}
		return 1
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case domain.ID:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
