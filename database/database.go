// Package database narrows a result-set source to the two operations
// descriptor-driven row binding needs: run a query, walk its rows.
// Adapters exist for pgx pools and database/sql.
package database

import "context"

// Queryer executes a query that returns rows.
type Queryer interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Rows is a minimal row iterator over a result set.
type Rows interface {
	// Next prepares the next row for reading.
	Next() bool
	// Scan copies the current row's columns into dest.
	Scan(dest ...any) error
	// Columns returns the result-set column names.
	Columns() ([]string, error)
	// Close releases the iterator.
	Close() error
	// Err returns the error, if any, that ended iteration.
	Err() error
}
