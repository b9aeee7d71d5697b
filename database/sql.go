package database

import (
	"context"
	"database/sql"
)

// SQLQueryer adapts a *sql.DB to Queryer.
type SQLQueryer struct {
	db *sql.DB
}

// NewSQL wraps a database/sql handle.
func NewSQL(db *sql.DB) *SQLQueryer {
	return &SQLQueryer{db: db}
}

// Query executes a query that returns rows.
func (s *SQLQueryer) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

// sqlRows adapts *sql.Rows to Rows.
type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool { return r.rows.Next() }

func (r *sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }

func (r *sqlRows) Columns() ([]string, error) { return r.rows.Columns() }

func (r *sqlRows) Close() error { return r.rows.Close() }

func (r *sqlRows) Err() error { return r.rows.Err() }

var _ Queryer = (*SQLQueryer)(nil)
