// Package db holds schema probes against information_schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// QueryRower is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const tableQuery = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1`

const columnQuery = `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		  AND column_name = ?
		LIMIT 1`

func probe(ctx context.Context, q QueryRower, query string, args ...any) (bool, error) {
	var name sql.NullString
	err := q.QueryRowContext(ctx, query, args...).Scan(&name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, err
	}
	return name.Valid && name.String != "", nil
}

func HasTable(ctx context.Context, q QueryRower, table string) (bool, error) {
	ok, err := probe(ctx, q, tableQuery, table)
	if err != nil {
		return false, fmt.Errorf("probe table %s: %w", table, err)
	}
	return ok, nil
}

func HasColumn(ctx context.Context, q QueryRower, table, column string) (bool, error) {
	ok, err := probe(ctx, q, columnQuery, table, column)
	if err != nil {
		return false, fmt.Errorf("probe column %s.%s: %w", table, column, err)
	}
	return ok, nil
}
