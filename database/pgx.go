package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxQueryer adapts a pgxpool.Pool to Queryer.
type PgxQueryer struct {
	pool *pgxpool.Pool
}

// NewPgx wraps a pgx pool.
func NewPgx(pool *pgxpool.Pool) *PgxQueryer {
	return &PgxQueryer{pool: pool}
}

// Query executes a query that returns rows.
func (p *PgxQueryer) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &pgxRows{rows: rows}, nil
}

// pgxRows adapts pgx.Rows to Rows.
type pgxRows struct {
	rows    pgx.Rows
	columns []string
}

func (r *pgxRows) Next() bool { return r.rows.Next() }

func (r *pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }

func (r *pgxRows) Columns() ([]string, error) {
	if r.columns == nil {
		fds := r.rows.FieldDescriptions()
		r.columns = make([]string, len(fds))
		for i, fd := range fds {
			r.columns[i] = fd.Name
		}
	}
	return r.columns, nil
}

func (r *pgxRows) Close() error {
	r.rows.Close()
	return nil
}

func (r *pgxRows) Err() error { return r.rows.Err() }

var _ Queryer = (*PgxQueryer)(nil)
