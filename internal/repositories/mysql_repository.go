package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dashboard-api/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// MySQLRepository implements Repository on a single MySQL table.
type MySQLRepository struct {
	DB    *sql.DB
	Table *Table
	// Now is overridable in tests.
	Now func() time.Time
}

var _ Repository = (*MySQLRepository)(nil)

func NewMySQLRepository(db *sql.DB, table *Table) *MySQLRepository {
	return &MySQLRepository{DB: db, Table: table, Now: time.Now}
}

func (r *MySQLRepository) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// scopePredicate translates scope into a WHERE clause for t. A nil result
// means no restriction.
func scopePredicate(t *Table, scope domain.DataScope) sq.Sqlizer {
	if !t.reachable(scope) {
		return sq.Expr("1 = 0")
	}
	and := sq.And{}
	if scope.OrganizationID != nil && t.OrgColumn != "" {
		and = append(and, sq.Eq{t.OrgColumn: *scope.OrganizationID})
	}
	if scope.DepartmentIDs != nil && t.DeptColumn != "" {
		and = append(and, sq.Eq{t.DeptColumn: scope.DepartmentIDs})
	}
	switch len(and) {
	case 0:
		return nil
	case 1:
		return and[0]
	}
	return and
}

func filterPredicate(f domain.Filter) sq.Sqlizer {
	cols := f.Columns()
	or := make(sq.Or, 0, len(cols))
	for _, c := range cols {
		or = append(or, columnPredicate(c, f.Op, f.Value))
	}
	if len(or) == 1 {
		return or[0]
	}
	return or
}

func columnPredicate(col, op string, v any) sq.Sqlizer {
	switch op {
	case domain.OpNe:
		return sq.NotEq{col: v}
	case domain.OpLike:
		return sq.Like{col: "%" + escapeLike(fmt.Sprint(v)) + "%"}
	case domain.OpGt:
		return sq.Gt{col: v}
	case domain.OpGte:
		return sq.GtOrEq{col: v}
	case domain.OpLt:
		return sq.Lt{col: v}
	case domain.OpLte:
		return sq.LtOrEq{col: v}
	case domain.OpIsNull:
		if isNull, _ := v.(bool); isNull {
			return sq.Eq{col: nil}
		}
		return sq.NotEq{col: nil}
	default: // eq, in
		return sq.Eq{col: v}
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *MySQLRepository) mapErr(op string, err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return domain.ConflictError{Resource: r.Table.resource(), Msg: "duplicate entry", Err: err}
	}
	return domain.StoreError{Op: op, Err: err}
}

func (r *MySQLRepository) Create(ctx context.Context, data domain.Record, include []string, scope domain.DataScope) (domain.Record, error) {
	row, err := r.Table.prepareInsert(data, scope, r.now())
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Insert(r.Table.Name).SetMap(row).ToSql()
	if err != nil {
		return nil, domain.InternalError{Msg: "build insert", Err: err}
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapErr("insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, r.mapErr("insert", err)
	}

	created, err := r.FindByID(ctx, domain.ID(id), include, scope)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, domain.InternalError{Msg: fmt.Sprintf("created %s %d is not readable under caller scope", r.Table.resource(), id)}
	}
	return created, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id domain.ID, include []string, scope domain.DataScope) (domain.Record, error) {
	q := sq.Select(r.Table.Columns...).From(r.Table.Name).Where(sq.Eq{r.Table.PrimaryKey: int64(id)})
	if p := scopePredicate(r.Table, scope); p != nil {
		q = q.Where(p)
	}
	recs, err := r.query(ctx, q.Limit(1))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	if err := r.loadRelations(ctx, recs, include, scope); err != nil {
		return nil, err
	}
	return recs[0], nil
}

// Update re-reads the row afterwards instead of trusting RowsAffected, which
// MySQL reports as zero when the new values equal the old ones.
func (r *MySQLRepository) Update(ctx context.Context, id domain.ID, data domain.Record, include []string, scope domain.DataScope) (domain.Record, error) {
	set, err := r.Table.prepareUpdate(data, scope, r.now())
	if err != nil {
		return nil, err
	}

	if len(set) > 0 {
		q := sq.Update(r.Table.Name).SetMap(set).Where(sq.Eq{r.Table.PrimaryKey: int64(id)})
		if p := scopePredicate(r.Table, scope); p != nil {
			q = q.Where(p)
		}
		query, args, err := q.ToSql()
		if err != nil {
			return nil, domain.InternalError{Msg: "build update", Err: err}
		}
		if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
			return nil, r.mapErr("update", err)
		}
	}

	updated, err := r.FindByID(ctx, id, include, scope)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFoundError{Resource: r.Table.resource()}
	}
	return updated, nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id domain.ID, scope domain.DataScope) error {
	q := sq.Delete(r.Table.Name).Where(sq.Eq{r.Table.PrimaryKey: int64(id)})
	if p := scopePredicate(r.Table, scope); p != nil {
		q = q.Where(p)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return domain.InternalError{Msg: "build delete", Err: err}
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return r.mapErr("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.mapErr("delete", err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: r.Table.resource()}
	}
	return nil
}

func (r *MySQLRepository) FindManyWithPagination(ctx context.Context, filters []domain.Filter, sort domain.Sort, include []string, page domain.PageRequest, scope domain.DataScope) (domain.Page, error) {
	if page.Page < 1 || page.Limit < 1 {
		return domain.Page{}, domain.ValidationError{Field: "page", Msg: "page and limit must be at least 1"}
	}
	sortCol, err := r.Table.sortColumn(sort.Field)
	if err != nil {
		return domain.Page{}, err
	}
	dir := "DESC"
	if sort.Direction == domain.SortAsc {
		dir = "ASC"
	}

	where := sq.And{}
	if p := scopePredicate(r.Table, scope); p != nil {
		where = append(where, p)
	}
	for _, f := range filters {
		if err := r.Table.checkFilter(f); err != nil {
			return domain.Page{}, err
		}
		where = append(where, filterPredicate(f))
	}

	countQ := sq.Select("COUNT(*)").From(r.Table.Name)
	listQ := sq.Select(r.Table.Columns...).From(r.Table.Name)
	if len(where) > 0 {
		countQ = countQ.Where(where)
		listQ = listQ.Where(where)
	}

	query, args, err := countQ.ToSql()
	if err != nil {
		return domain.Page{}, domain.InternalError{Msg: "build count", Err: err}
	}
	var total int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return domain.Page{}, r.mapErr("count", err)
	}

	listQ = listQ.
		OrderBy(sortCol+" "+dir, r.Table.PrimaryKey+" "+dir).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset()))
	recs, err := r.query(ctx, listQ)
	if err != nil {
		return domain.Page{}, err
	}
	if err := r.loadRelations(ctx, recs, include, scope); err != nil {
		return domain.Page{}, err
	}

	return domain.Page{Records: recs, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

// loadRelations attaches included relations with one query per relation. The
// related table is filtered by the same scope as the owning rows.
func (r *MySQLRepository) loadRelations(ctx context.Context, recs []domain.Record, include []string, scope domain.DataScope) error {
	for _, name := range include {
		rel, err := r.Table.relation(name)
		if err != nil {
			return err
		}

		keys := []int64{}
		seen := map[int64]bool{}
		for _, rec := range recs {
			if k, ok := rec.Int64(rel.LocalKey); ok && !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}

		grouped := map[int64][]domain.Record{}
		if len(keys) > 0 {
			q := sq.Select(rel.Table.Columns...).From(rel.Table.Name).Where(sq.Eq{rel.ForeignKey: keys})
			if p := scopePredicate(rel.Table, scope); p != nil {
				q = q.Where(p)
			}
			related, err := r.query(ctx, q)
			if err != nil {
				return err
			}
			for _, rr := range related {
				k, _ := rr.Int64(rel.ForeignKey)
				grouped[k] = append(grouped[k], rr)
			}
		}

		for _, rec := range recs {
			k, _ := rec.Int64(rel.LocalKey)
			matched := grouped[k]
			if len(matched) > 0 {
				rec[name] = matched[0]
			} else {
				rec[name] = nil
			}
		}
	}
	return nil
}

func (r *MySQLRepository) query(ctx context.Context, b sq.SelectBuilder) ([]domain.Record, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.InternalError{Msg: "build select", Err: err}
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapErr("select", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, r.mapErr("select", err)
	}
	out := []domain.Record{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, r.mapErr("scan", err)
		}
		rec := make(domain.Record, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[c] = string(b)
				continue
			}
			rec[c] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapErr("scan", err)
	}
	return out, nil
}
