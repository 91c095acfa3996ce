package repositories

import (
	"fmt"
	"slices"
	"time"

	"dashboard-api/internal/domain"
)

// Relation describes an includable belongs-to table.
type Relation struct {
	Table *Table
	// LocalKey is the column on the owning table, ForeignKey the column on Table
	// it is matched against.
	LocalKey   string
	ForeignKey string
}

// Table describes how an entity maps to a store table and how the data scope
// maps onto its columns.
//
// A table without a department column is reachable at organization
// granularity. A table carrying neither scope column is reachable only under
// an unrestricted scope.
type Table struct {
	Name       string
	Resource   string
	PrimaryKey string
	Columns    []string
	Writable   []string
	Filterable []string
	// Sortable maps API sort names (createdAt) to columns (created_at).
	Sortable  map[string]string
	OrgColumn string
	// DeptColumn is empty for tables not owned by a department.
	DeptColumn string
	CreatedAt  string
	UpdatedAt  string
	Relations  map[string]Relation
	// Fields maps columns to the names clients use (department_id ->
	// departmentId) so store errors match validator errors.
	Fields map[string]string
}

// field is the client-facing name of col.
func (t *Table) field(col string) string {
	if name, ok := t.Fields[col]; ok {
		return name
	}
	return col
}

func (t *Table) resource() string {
	if t.Resource != "" {
		return t.Resource
	}
	return t.Name
}

func (t *Table) sortColumn(field string) (string, error) {
	if col, ok := t.Sortable[field]; ok {
		return col, nil
	}
	return "", domain.ValidationError{Field: "sort", Msg: fmt.Sprintf("cannot sort by %q", field)}
}

func (t *Table) checkFilter(f domain.Filter) error {
	for _, c := range f.Columns() {
		if !slices.Contains(t.Filterable, c) {
			return domain.ValidationError{Field: t.field(c), Msg: "is not filterable"}
		}
	}
	switch f.Op {
	case domain.OpEq, domain.OpNe, domain.OpLike, domain.OpIn, domain.OpGt, domain.OpGte,
		domain.OpLt, domain.OpLte, domain.OpIsNull:
		return nil
	}
	return domain.ValidationError{Field: f.Field, Msg: fmt.Sprintf("unknown operator %q", f.Op)}
}

func (t *Table) relation(name string) (Relation, error) {
	rel, ok := t.Relations[name]
	if !ok || rel.Table == nil {
		return Relation{}, domain.ValidationError{Field: "include", Msg: fmt.Sprintf("unknown relation %q", name)}
	}
	return rel, nil
}

// orgIsKey reports whether the table is the tenant table itself.
func (t *Table) orgIsKey() bool {
	return t.OrgColumn != "" && t.OrgColumn == t.PrimaryKey
}

// reachable reports whether the table can be read at all under scope.
func (t *Table) reachable(scope domain.DataScope) bool {
	if scope.DeniesAll() {
		return false
	}
	if scope.IsUnrestricted() {
		return true
	}
	return t.OrgColumn != "" || t.DeptColumn != ""
}

// matches evaluates the scope predicate against an in-memory row.
func (t *Table) matches(rec domain.Record, scope domain.DataScope) bool {
	if !t.reachable(scope) {
		return false
	}
	if scope.OrganizationID != nil && t.OrgColumn != "" {
		org, ok := rec.Int64(t.OrgColumn)
		if !ok || org != *scope.OrganizationID {
			return false
		}
	}
	if scope.DepartmentIDs != nil && t.DeptColumn != "" {
		dept, ok := rec.Int64(t.DeptColumn)
		if !ok || !scope.AllowsDepartment(dept) {
			return false
		}
	}
	return true
}

func (t *Table) writable(data domain.Record) domain.Record {
	out := domain.Record{}
	for k, v := range data {
		if slices.Contains(t.Writable, k) {
			out[k] = v
		}
	}
	return out
}

// prepareInsert keeps writable columns and pins the row inside scope: the
// organization column is forced to the caller's organization and the
// department must be one the caller reaches.
func (t *Table) prepareInsert(data domain.Record, scope domain.DataScope, now time.Time) (domain.Record, error) {
	if !t.reachable(scope) {
		return nil, domain.ForbiddenError{Msg: "caller scope does not allow creating " + t.resource()}
	}
	row := t.writable(data)

	switch {
	case t.orgIsKey():
		if scope.OrganizationID != nil {
			return nil, domain.ForbiddenError{Msg: "scoped callers cannot create " + t.resource()}
		}
	case t.OrgColumn != "":
		if scope.OrganizationID != nil {
			row[t.OrgColumn] = *scope.OrganizationID
		} else if _, ok := row.Int64(t.OrgColumn); !ok {
			return nil, domain.ValidationError{Field: t.field(t.OrgColumn), Msg: "is required"}
		}
	}

	if t.DeptColumn != "" && scope.DepartmentIDs != nil {
		dept, ok := row.Int64(t.DeptColumn)
		if !ok && len(scope.DepartmentIDs) == 1 {
			dept, ok = scope.DepartmentIDs[0], true
			row[t.DeptColumn] = dept
		}
		if !ok {
			return nil, domain.ValidationError{Field: t.field(t.DeptColumn), Msg: "is required"}
		}
		if !scope.AllowsDepartment(dept) {
			return nil, domain.ForbiddenError{Msg: "department is outside the caller scope"}
		}
	}

	if t.CreatedAt != "" {
		row[t.CreatedAt] = now
	}
	if t.UpdatedAt != "" {
		row[t.UpdatedAt] = now
	}
	return row, nil
}

// prepareUpdate keeps writable columns and refuses to move a row out of scope.
func (t *Table) prepareUpdate(data domain.Record, scope domain.DataScope, now time.Time) (domain.Record, error) {
	set := t.writable(data)
	delete(set, t.PrimaryKey)

	if t.OrgColumn != "" && !t.orgIsKey() {
		if org, ok := set.Int64(t.OrgColumn); ok && scope.OrganizationID != nil && org != *scope.OrganizationID {
			return nil, domain.ForbiddenError{Msg: "organization is outside the caller scope"}
		}
	}
	if t.DeptColumn != "" {
		if dept, ok := set.Int64(t.DeptColumn); ok && !scope.AllowsDepartment(dept) {
			return nil, domain.ForbiddenError{Msg: "department is outside the caller scope"}
		}
	}

	if len(set) > 0 && t.UpdatedAt != "" {
		set[t.UpdatedAt] = now
	}
	return set, nil
}
