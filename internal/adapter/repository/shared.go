package repository

import (
	"context"
	"database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sqlBase carries the connection and a dialect-aware statement builder.
type sqlBase struct {
	db *sql.DB
	b  *entsql.DialectBuilder
}

func newSQLBase(drv *entsql.Driver) sqlBase {
	return sqlBase{db: drv.DB(), b: entsql.Dialect(drv.Dialect())}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type querier interface {
	Query() (string, []any)
}

func exec(ctx context.Context, db execer, q querier) (sql.Result, error) {
	query, args := q.Query()
	return db.ExecContext(ctx, query, args...)
}

func queryRows(ctx context.Context, db execer, q querier) (*sql.Rows, error) {
	query, args := q.Query()
	return db.QueryContext(ctx, query, args...)
}

func queryRow(ctx context.Context, db execer, q querier) *sql.Row {
	query, args := q.Query()
	return db.QueryRowContext(ctx, query, args...)
}

func count(ctx context.Context, db execer, q querier) (int64, error) {
	var n int64
	if err := queryRow(ctx, db, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
