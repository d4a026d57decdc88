package db

import (
	"context"
	"database/sql"
)

// DBTX is the query surface repositories are built against. Both *sql.DB
// and *sql.Tx satisfy it, so the same repository code serves plain reads
// and the aggregator's transactional completion toggles.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
